package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/joho/godotenv"
)

// Credential variable names this tool manages.
const (
	EnvGeminiAPIKey = "GEMINI_API_KEY"
)

// ManagedKeys lists the credentials exposed through the environment endpoint.
var ManagedKeys = []string{EnvGeminiAPIKey}

// Env is the credential store: values from a .env file layered over the
// process environment, with an explicit reload after external updates.
type Env struct {
	path   string
	mu     sync.RWMutex
	values map[string]string
}

// LoadEnv reads the .env file at path. A missing file is not an error; the
// store then only reflects the process environment.
func LoadEnv(path string) *Env {
	e := &Env{path: path, values: map[string]string{}}
	if values, err := godotenv.Read(path); err == nil {
		e.values = values
	}
	return e
}

// Get returns the value for key, preferring the .env file over the process
// environment. Empty string means unset.
func (e *Env) Get(key string) string {
	e.mu.RLock()
	v := e.values[key]
	e.mu.RUnlock()
	if v != "" {
		return v
	}
	return os.Getenv(key)
}

// Set writes key=value to the .env file and updates the in-memory cache.
func (e *Env) Set(key, value string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(e.path), 0755); err != nil {
		return fmt.Errorf("failed to create env directory: %w", err)
	}

	values := make(map[string]string, len(e.values)+1)
	for k, v := range e.values {
		values[k] = v
	}
	values[key] = value

	if err := godotenv.Write(values, e.path); err != nil {
		return fmt.Errorf("failed to write env file: %w", err)
	}

	e.values = values
	return nil
}

// Reload re-reads the .env file, discarding the in-memory cache.
func (e *Env) Reload() error {
	values, err := godotenv.Read(e.path)
	if err != nil {
		if os.IsNotExist(err) {
			e.mu.Lock()
			e.values = map[string]string{}
			e.mu.Unlock()
			return nil
		}
		return fmt.Errorf("failed to reload env file: %w", err)
	}

	e.mu.Lock()
	e.values = values
	e.mu.Unlock()
	return nil
}

// Masked returns every managed key with its value masked for display.
func (e *Env) Masked() map[string]string {
	masked := make(map[string]string, len(ManagedKeys))
	for _, key := range ManagedKeys {
		masked[key] = MaskKey(e.Get(key))
	}
	return masked
}

// MaskKey masks a credential for logging (shows first 4 and last 4 characters)
func MaskKey(apiKey string) string {
	if apiKey == "" {
		return "(not set)"
	}
	if len(apiKey) <= 8 {
		return "***"
	}
	return apiKey[:4] + "..." + apiKey[len(apiKey)-4:]
}
