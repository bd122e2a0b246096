// Package server holds the HTTP server configuration.
//
// The start command builds the Fiber application; this package only defines the
// settings it needs: the listen port, the API key checked by the auth middleware and
// the deadline applied to syncs triggered through POST /sync/:kind.
package server
