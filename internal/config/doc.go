// Package config provides configuration structures and utilities for csphash.
// It resolves the static directory, the consumer file the directive is pasted
// into, the policy shape and report preferences from defaults, a YAML file,
// the environment and command line flags.
package config
