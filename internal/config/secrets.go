package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"

	"github.com/joho/godotenv"

	"github.com/kailas-cloud/snapnote/internal/domain"
)

// dotEnvKeys records the variables LoadDotEnv put into the process environment.
var dotEnvKeys sync.Map

// LoadDotEnv loads .env files into the process environment without
// overriding variables that are already set. Missing files are ignored.
func LoadDotEnv(paths ...string) error {
	for _, p := range paths {
		values, err := godotenv.Read(p)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", p, err)
		}
		for k, v := range values {
			if _, set := os.LookupEnv(k); set {
				continue
			}
			if err := os.Setenv(k, v); err != nil {
				return fmt.Errorf("set %s: %w", k, err)
			}
			dotEnvKeys.Store(k, struct{}{})
		}
	}
	return nil
}

func loadedFromDotEnv(name string) bool {
	_, ok := dotEnvKeys.Load(name)
	return ok
}

// Secrets resolves named credentials on every call. A variable set by the
// operator wins over the .env file, which is read again each time. A variable
// that only exists because LoadDotEnv copied it at startup does not: the file
// is consulted first so edits are picked up without a restart.
type Secrets struct {
	envFile    string
	lookupEnv  func(string) (string, bool)
	fromDotEnv func(string) bool
}

// NewSecrets creates a Secrets resolver. envFile may be empty.
func NewSecrets(envFile string) *Secrets {
	return &Secrets{envFile: envFile, lookupEnv: os.LookupEnv, fromDotEnv: loadedFromDotEnv}
}

// Lookup returns the value of name or a domain.MissingConfigError.
func (s *Secrets) Lookup(name string) (string, error) {
	fileFirst := s.fromDotEnv != nil && s.fromDotEnv(name)

	if !fileFirst {
		if v, ok := s.fromEnv(name); ok {
			return v, nil
		}
	}

	v, err := s.fromFile(name)
	if err != nil {
		return "", err
	}
	if v != "" {
		return v, nil
	}

	// removed from the file since startup: keep the startup value
	if fileFirst {
		if v, ok := s.fromEnv(name); ok {
			return v, nil
		}
	}

	return "", domain.NewMissingConfig(name)
}

func (s *Secrets) fromEnv(name string) (string, bool) {
	v, ok := s.lookupEnv(name)
	return v, ok && v != ""
}

func (s *Secrets) fromFile(name string) (string, error) {
	if s.envFile == "" {
		return "", nil
	}
	values, err := godotenv.Read(s.envFile)
	switch {
	case err == nil:
		return values[name], nil
	case errors.Is(err, fs.ErrNotExist):
		return "", nil
	default:
		return "", fmt.Errorf("read %s: %w", s.envFile, err)
	}
}
