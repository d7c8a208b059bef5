package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/nao1215/csphash/internal/model"
)

// Environment variables that override config file values.
const (
	EnvStaticDir  = "CSPHASH_STATIC_DIR"
	EnvTargetFile = "CSPHASH_TARGET_FILE"
	EnvAlgorithm  = "CSPHASH_ALGORITHM"
	EnvDBDir      = "CSPHASH_DB_DIR"
)

// DotEnvFile is the optional env file read from the project root.
const DotEnvFile = ".env"

// LookupFunc resolves an environment variable.
type LookupFunc func(key string) (string, bool)

// ReadDotEnv reads <root>/.env without modifying the process environment.
// A missing file yields an empty map.
func ReadDotEnv(root string) (map[string]string, error) {
	values, err := godotenv.Read(filepath.Join(root, DotEnvFile))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, err
	}
	return values, nil
}

// EnvLookup returns a LookupFunc where the process environment takes
// precedence over values read from a .env file.
func EnvLookup(dotenv map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	}
}

// ApplyEnv overlays values from the environment.
func (c *Config) ApplyEnv(lookup LookupFunc) error {
	if v, ok := lookup(EnvStaticDir); ok && v != "" {
		c.StaticDir = v
	}
	if v, ok := lookup(EnvTargetFile); ok && v != "" {
		c.TargetFile = v
	}
	if v, ok := lookup(EnvAlgorithm); ok && v != "" {
		a, valid := model.ParseAlgorithm(v)
		if !valid {
			return wrapAlgorithm(v)
		}
		c.Algorithm = a
	}
	if v, ok := lookup(EnvDBDir); ok && v != "" {
		c.DBDir = v
	}
	return nil
}
