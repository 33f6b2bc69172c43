// Package config resolves the API credential and loads optional user
// settings. Credential resolution is a pure function over injected
// capabilities so the precedence chain is testable without a file system.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/deepl-go/deepl-cli/internal/apperr"
)

// EnvAPIKey supplies the credential when no flag or key file is present.
const EnvAPIKey = "DEEPL_API_KEY"

// KeyFilePaths returns the candidate credential files in precedence order:
// the primary location first, then legacy fallbacks kept for existing user
// configurations. The ordering is a compatibility contract; do not reorder.
func KeyFilePaths(home string) []string {
	return []string{
		filepath.Join(home, ".token", "deepl-cli", "api_key"),
		filepath.Join(home, ".config", "deepl-cli", "api_key"),
		filepath.Join(home, ".config", ".deepl_apikey"),
		filepath.Join(home, ".deepl_apikey"),
	}
}

// Capabilities are the ambient inputs credential resolution depends on.
// Tests inject fakes; cmd wires the real environment.
type Capabilities struct {
	Getenv   func(string) string
	ReadFile func(string) ([]byte, error)
	// Warnf receives non-fatal diagnostics (an unreadable candidate file).
	// May be nil.
	Warnf func(format string, args ...any)
}

func (c Capabilities) warnf(format string, args ...any) {
	if c.Warnf != nil {
		c.Warnf(format, args...)
	}
}

// ResolveAPIKey produces the credential, first match wins: explicit flag
// value, then the environment variable, then the first readable non-empty
// key file. A candidate file that cannot be read is skipped, not fatal.
// Total failure enumerates every location checked.
func ResolveAPIKey(flagKey string, paths []string, caps Capabilities) (string, error) {
	if key := strings.TrimSpace(flagKey); key != "" {
		return key, nil
	}

	if key := strings.TrimSpace(caps.Getenv(EnvAPIKey)); key != "" {
		return key, nil
	}

	for _, path := range paths {
		data, err := caps.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				caps.warnf("Failed to read %s: %v", path, err)
			}
			continue
		}
		if key := strings.TrimSpace(string(data)); key != "" {
			return key, nil
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "API key not found. Please provide one of:\n")
	fmt.Fprintf(&b, "1. Pass --api-key\n")
	fmt.Fprintf(&b, "2. Set %s environment variable\n", EnvAPIKey)
	fmt.Fprintf(&b, "3. Create a key file at:\n")
	for _, path := range paths {
		fmt.Fprintf(&b, "  %s\n", path)
	}
	fmt.Fprintf(&b, "Get your API key from: https://www.deepl.com/pro-api")
	return "", apperr.New(apperr.KindConfig, "%s", b.String())
}

// Settings are optional user defaults read from the settings file. Flags
// always override them.
type Settings struct {
	TargetLang     string `mapstructure:"target_lang"`
	SourceLang     string `mapstructure:"source_lang"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
	APIEndpoint    string `mapstructure:"api_endpoint"`
}

// DefaultTimeoutSeconds applies when neither flag nor settings set one.
const DefaultTimeoutSeconds = 30

// LoadSettings reads ~/.config/deepl-cli/config.{yaml,json,toml}. A missing
// file yields zero-value settings; a malformed one is a warning, not fatal,
// so a broken settings file never blocks translation.
func LoadSettings(home string, warnf func(format string, args ...any)) Settings {
	v := viper.New()
	v.SetConfigName("config")
	v.AddConfigPath(filepath.Join(home, ".config", "deepl-cli"))
	v.AddConfigPath(filepath.Join(home, ".deepl-cli"))

	var s Settings
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && warnf != nil {
			warnf("Failed to load settings: %v, using defaults", err)
		}
		return s
	}
	if err := v.Unmarshal(&s); err != nil {
		if warnf != nil {
			warnf("Failed to parse settings %s: %v, using defaults", v.ConfigFileUsed(), err)
		}
		return Settings{}
	}
	return s
}
