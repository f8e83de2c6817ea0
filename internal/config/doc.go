// Package config loads the server settings with viper from defaults, an
// optional YAML file and LINGO_-prefixed environment variables, then checks
// them with validator struct tags before any component sees them.
package config
