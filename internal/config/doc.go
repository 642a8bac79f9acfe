// Package config handles configuration loading, parsing, and validation
// from various sources (environment variables, .env and config files). It
// provides type-safe access to settings while keeping configuration details
// out of the task store, which only ever receives explicit values.
package config
