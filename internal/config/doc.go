// Package config provides configuration loading, merging, and validation
// facilities for the application.
//
// Configuration is assembled from multiple sources in the following priority
// order (later sources override earlier non-zero fields):
//  1. Built-in defaults
//  2. .env file and environment variables
//  3. Command-line flags
//  4. JSON or YAML config file
//
// The main entry points are [GetClientConfig] for the sync daemon,
// [LoadClientConfig] for the operator CLI and [GetServerConfig] for the
// development feed server.
package config
