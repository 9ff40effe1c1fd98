package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Environment variable names read by FromEnv.
const (
	// EnvConfig is the path of the HCL configuration file
	EnvConfig = "VIDEOPOKER_CONFIG"

	// EnvHistory overrides the history store location
	EnvHistory = "VIDEOPOKER_HISTORY"

	// EnvSeed fixes the shuffle seed for reproducible sessions
	EnvSeed = "VIDEOPOKER_SEED"
)

// DefaultConfigFile is used when EnvConfig is not set.
const DefaultConfigFile = "videopoker.hcl"

// Env holds the environment overrides.
type Env struct {
	ConfigPath  string
	HistoryPath string

	// Seed is only meaningful when HasSeed is set.
	Seed    int64
	HasSeed bool
}

// FromEnv reads the overrides from the process environment, falling back
// to values from the given dotenv files. Missing dotenv files are ignored.
// With no files, ".env" in the working directory is tried.
func FromEnv(files ...string) (*Env, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}

	dotenv := map[string]string{}
	for _, f := range files {
		vals, err := godotenv.Read(f)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", f, err)
		}
		for k, v := range vals {
			if _, seen := dotenv[k]; !seen {
				dotenv[k] = v
			}
		}
	}
	lookup := func(key string) string {
		if v, ok := os.LookupEnv(key); ok {
			return v
		}
		return dotenv[key]
	}

	env := &Env{
		ConfigPath:  lookup(EnvConfig),
		HistoryPath: lookup(EnvHistory),
	}
	if env.ConfigPath == "" {
		env.ConfigPath = DefaultConfigFile
	}
	if s := lookup(EnvSeed); s != "" {
		seed, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid %s value: %w", EnvSeed, err)
		}
		env.Seed = seed
		env.HasSeed = true
	}
	return env, nil
}
