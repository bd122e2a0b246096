// Package catalog retrieves paginated collections from the Rick and Morty catalog API.
//
// The API serves every collection (character, location, episode) with the same envelope:
//
//	{"info": {"count": 826, "pages": 42, "next": "...", "prev": null}, "results": [ ... ]}
//
// # Components
//
//   - Transport: a single GET. HTTPTransport wraps net/http with a token-bucket rate
//     limiter (golang.org/x/time/rate) and a circuit breaker (sony/gobreaker). Only
//     network failures, 5xx and 429 count against the breaker.
//   - Client.FetchPage: one page, decoded down to its raw results. No retry.
//   - Client.FetchAll: pages 1..N through a bounded errgroup pool. A page that keeps
//     failing is recorded in the Collection and the rest are kept, unless Strict is set,
//     in which case the first failure cancels the fetch.
//   - Client.DiscoverPages: reads info.pages from the first page.
//   - Client.Download: fetches a media file through the same transport.
//
// Every failure is reported as an *errors.TransportError, except invalid arguments
// which are *errors.ConfigurationError.
package catalog
