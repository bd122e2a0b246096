package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
)

// Category labels returned by Classify.
const (
	CategoryTransport     = "transport"
	CategoryPersistence   = "persistence"
	CategoryConfiguration = "configuration"
	CategoryValidation    = "validation"
	CategoryCancellation  = "cancellation"
	CategoryConflict      = "conflict"
	CategoryGeneric       = "generic"
)

// ErrRunInProgress is returned when a sync for the same kind is already running.
var ErrRunInProgress = stderrors.New("sync already in progress")

// New returns a plain error with the given text.
func New(text string) error {
	return stderrors.New(text)
}

// Is reports whether any error in err's tree matches target.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As finds the first error in err's tree that matches target.
func As(err error, target any) bool {
	return stderrors.As(err, target)
}

// Join wraps the given errors into one.
func Join(errs ...error) error {
	return stderrors.Join(errs...)
}

// TransportError reports a failed catalog or image request.
type TransportError struct {
	// URL is the requested address.
	URL string
	// StatusCode is the HTTP status, 0 when no response was received.
	StatusCode int
	// Err is the underlying cause.
	Err error
}

// NewTransportError builds a TransportError.
func NewTransportError(url string, statusCode int, err error) *TransportError {
	return &TransportError{URL: url, StatusCode: statusCode, Err: err}
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("transport: GET %s: status %d: %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("transport: GET %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Retryable reports whether repeating the request may succeed.
// Network failures, 5xx and 429 are retryable. Other 4xx and cancellations are not.
func (e *TransportError) Retryable() bool {
	if stderrors.Is(e.Err, context.Canceled) || stderrors.Is(e.Err, context.DeadlineExceeded) {
		return false
	}
	switch {
	case e.StatusCode == 0:
		return true
	case e.StatusCode == http.StatusTooManyRequests:
		return true
	case e.StatusCode >= 500:
		return true
	default:
		return false
	}
}

// PersistenceError reports a failed store operation.
type PersistenceError struct {
	// Op names the failed operation, e.g. "create record".
	Op string
	// Err is the underlying driver error.
	Err error
}

// NewPersistenceError builds a PersistenceError.
func NewPersistenceError(op string, err error) *PersistenceError {
	return &PersistenceError{Op: op, Err: err}
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence: %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// ConfigurationError reports a missing or invalid setting.
type ConfigurationError struct {
	Field  string
	Reason string
}

// NewConfigurationError builds a ConfigurationError.
func NewConfigurationError(field, reason string) *ConfigurationError {
	return &ConfigurationError{Field: field, Reason: reason}
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration: %s: %s", e.Field, e.Reason)
}

// ValidationError reports a raw catalog item that cannot be normalized.
type ValidationError struct {
	Field  string
	Reason string
}

// NewValidationError builds a ValidationError.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s: %s", e.Field, e.Reason)
}

// DataIntegrityWarning describes more than one stored record sharing a kind and external id.
// It implements error so it can be logged with zap.Error, but it never aborts a sync.
type DataIntegrityWarning struct {
	Kind       string
	ExternalID int
	// Handles lists every matching record id; the first one is the one that was updated.
	Handles []uint
}

func (w *DataIntegrityWarning) Error() string {
	ids := make([]string, len(w.Handles))
	for i, h := range w.Handles {
		ids[i] = fmt.Sprint(h)
	}
	return fmt.Sprintf("data integrity: %d %s records share external id %d (ids %s)",
		len(w.Handles), w.Kind, w.ExternalID, strings.Join(ids, ","))
}

// Classify returns the category label of err.
func Classify(err error) string {
	if err == nil {
		return ""
	}

	var (
		transportErr   *TransportError
		persistenceErr *PersistenceError
		configErr      *ConfigurationError
		validationErr  *ValidationError
	)

	switch {
	case stderrors.Is(err, context.Canceled), stderrors.Is(err, context.DeadlineExceeded):
		return CategoryCancellation
	case stderrors.Is(err, ErrRunInProgress):
		return CategoryConflict
	case stderrors.As(err, &transportErr):
		return CategoryTransport
	case stderrors.As(err, &persistenceErr):
		return CategoryPersistence
	case stderrors.As(err, &configErr):
		return CategoryConfiguration
	case stderrors.As(err, &validationErr):
		return CategoryValidation
	default:
		return CategoryGeneric
	}
}
