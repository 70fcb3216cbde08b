// Package config loads environment driven configuration structs.
//
// Every package that needs settings declares a Config struct with
// caarlos0/env tags; the binary composes them into one struct and calls
// Load once at startup. A .env file in the working directory is read first
// when present, without overriding variables that are already set.
package config
