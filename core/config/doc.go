// Package config provides configuration management for the migration tool.
//
// It utilizes Viper for loading configuration from environment variables,
// an optional .env file, and command-line flags.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Source / Reference / Target: controller connection details (host, token, TLS)
//   - Server: HTTP server settings for serve mode (port, API key)
//   - Database: MySQL connection details for the optional run history
//   - Storage: S3/MinIO credentials and receipt bucket settings
//   - Log: Logging level and format
//   - Receipt: local receipt directory
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Target.Host)
package config
