// Package config handles application configuration loading and validation.
//
// Configuration is loaded from config.yml and validated using struct tags.
// A few settings can be overridden from the environment (SALESTRACK_*).
package config
