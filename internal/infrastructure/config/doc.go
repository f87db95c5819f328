// Package config loads and validates homesim configuration.
//
// Configuration comes from three layers, later layers overriding earlier
// ones: hardcoded defaults, a YAML file, and HOMESIM_* environment
// variables. A missing config file is fine; Default() yields a working
// local setup.
package config
