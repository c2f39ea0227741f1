// Package config loads the process configuration of Strata binaries with
// cleanenv: a YAML file (CONFIG_PATH or ./config.yaml), overridden by
// environment variables, completed by env-default tags.
package config
