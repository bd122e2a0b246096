// Package catalog wires the synchronization engine to its gorm and object storage stores
// and exposes it over HTTP.
//
// Routes:
//
//	POST /sync/:kind        run a sync and return its report
//	GET  /sync/runs         recent sync runs, newest first
//	GET  /records/:kind/:id a stored record with category and media names
//	GET  /media/:name       the stored image of a media asset
package catalog
