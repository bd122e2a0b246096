// Package database handles database connections for the record store.
//
// It provides a wrapper around GORM to configure MySQL connections (production) or
// SQLite (local runs and tests) based on the application's configuration.
//
// # Connect
//
// Connect picks the dialector from Config.Driver, applies the connection timeout to the
// DSN and the initial ping, and tunes the pool. SQLite is limited to a single open
// connection so an in-memory database is shared by every query of the process.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
package database
