// Package logger provides a structured logging facility based on Zap.
//
// It offers a configured logger instance that supports different environments (development vs production)
// and integrates with the Fiber web framework.
//
// # Context Awareness
//
// HTTP handlers log with a RayID (request id). The WithRayID helper extracts the RayID from a
// Fiber context and attaches it to the log entry, so all logs of one request can be correlated.
//
// # File Output
//
// When Config.File is set the logger tees every entry into a JSON file rotated by lumberjack,
// keeping the console output unchanged. Long sync runs launched from cron keep their history there.
//
// # Configuration
//
// The package supports configuration for:
//   - Level: debug, info, warn, error
//   - Format: json or console
//   - File, MaxSizeMB, MaxBackups, MaxAgeDays: rotating file output
//
// # Usage
//
//	log, _ := logger.New(&logger.Config{Level: "info"})
//	log.Info("Server started")
//
//	// In a request handler:
//	l := logger.WithRayID(log, c)
//	l.Error("Handler failed", zap.Error(err))
package logger
