// Package config provides configuration management for catalog-sync.
//
// It utilizes Viper for loading configuration from environment variables and an
// optional .env file. Defaults come from the `default` struct tags of each section,
// so every key is known to Viper before AutomaticEnv runs.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Server: HTTP server settings (port, API key)
//   - Database: record store connection (mysql or sqlite)
//   - Storage: S3/MinIO credentials, bucket and media prefix
//   - Log: logging level, format and optional rotating file
//   - Catalog: remote catalog base URL, per-kind endpoints and page counts, fetch tuning
//
// Environment keys are the upper-cased dotted key with dots replaced by underscores,
// e.g. CATALOG_CHARACTER_PAGES or STORAGE_MEDIA_PREFIX.
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Catalog.BaseURL)
package config
