// Package server holds the HTTP server configuration.
//
// While the main application entry point handles the server startup, this package
// defines the configuration structures for server settings used by serve mode,
// such as the listen port and API key.
//
// # Usage
//
// This package is primarily used by the core/config package to embed server settings
// and by the serve command to decide whether API key validation is enabled.
package server
