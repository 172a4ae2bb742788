// Package config handles configuration management for dotboot.
// It loads the embedded defaults, the user's TOML file and DOTBOOT_*
// environment variables, in that order, into a Config.
package config
