// Package errors defines the failure taxonomy of the catalog synchronization engine.
//
// Every failure that crosses a component boundary is one of:
//
//   - TransportError: network failure, non-2xx status or malformed catalog body.
//   - PersistenceError: a record, category, asset or run store read/write failed.
//   - ConfigurationError: missing or invalid endpoint / page count. Aborts a sync before any fetch.
//   - ValidationError: a raw catalog item is missing a required field.
//   - DataIntegrityWarning: a non-fatal anomaly (duplicate external ids) that is reported, never raised.
//
// Classify maps any error to the short category label used in sync reports and metrics.
// The package re-exports Is, As, New and Join so callers only need one errors import.
package errors
