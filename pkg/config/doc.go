// Package config loads typed configuration structs from environment
// variables, with optional .env autoloading for local development.
// Struct fields are bound with `env` tags as understood by
// github.com/caarlos0/env.
package config
