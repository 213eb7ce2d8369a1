// Copyright (C) 2025 ecrypt-io
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.

// SPDX-License-Identifier: LGPL-3.0-or-later

// Package config loads the module's ambient settings: which RSA key sizes
// a deployment accepts, the default EC curve for new Secure Session
// handshakes, and whether the legacy Secure Cell KDF compatibility path is
// allowed. The other packages do not import this one: callers read these
// values and act on them. Nothing here changes wire formats or cryptographic
// semantics — it only bounds which already-valid choices a given process
// is willing to make or accept.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the top-level settings structure, loadable from YAML with
// environment variable overrides layered on top.
type Config struct {
	Environment string        `yaml:"environment"`
	RSA         RSAConfig     `yaml:"rsa"`
	Session     SessionConfig `yaml:"session"`
	Logging     LoggingConfig `yaml:"logging"`
	Metrics     MetricsConfig `yaml:"metrics"`
}

// RSAConfig lists the modulus sizes a deployment accepts, queried through
// Config.AllowsBits. primitives.GenerateRSAKeyPair and the key container
// parser do not read it.
type RSAConfig struct {
	AllowedBits []int `yaml:"allowed_bits"`
}

// SessionConfig holds Secure Session handshake defaults and the opt-in
// switch for the legacy Secure Cell KDF compatibility path. The switch is
// not read by securecell.SealDecryptCompat itself.
type SessionConfig struct {
	DefaultCurve   string `yaml:"default_curve"` // "p256", "p384", or "p521"
	AllowLegacyKDF bool   `yaml:"allow_legacy_kdf"`
}

// LoggingConfig mirrors the fields logger.Logger actually reads.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// MetricsConfig controls whether the package-level metrics registry is
// ever scraped; it does not disable counting, only exposition.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// Default returns the built-in configuration: every RSA size the
// primitives package supports, P-256 handshakes, and the legacy KDF path
// switched off.
func Default() *Config {
	return &Config{
		Environment: "development",
		RSA:         RSAConfig{AllowedBits: []int{1024, 2048, 4096, 8192}},
		Session:     SessionConfig{DefaultCurve: "p256", AllowLegacyKDF: false},
		Logging:     LoggingConfig{Level: "info"},
		Metrics:     MetricsConfig{Enabled: true},
	}
}

// Load reads a YAML config file at path, falling back to Default for any
// field the file leaves unset, then applies environment variable
// overrides via ApplyEnv.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	ApplyEnv(cfg)
	return cfg, nil
}

// LoadDotEnv loads a .env file (if present) into the process environment
// before ApplyEnv reads it; used by command-line entry points, never by
// library code that only imports this package for its types.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("config: load dotenv %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides cfg's fields from ECRYPT_* environment variables,
// matching the precedence every other ambient setting in this module
// follows: environment, then explicit file value, then built-in default.
func ApplyEnv(cfg *Config) {
	if v := os.Getenv("ECRYPT_ENVIRONMENT"); v != "" {
		cfg.Environment = v
	}
	if v := os.Getenv("ECRYPT_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := os.Getenv("ECRYPT_SESSION_DEFAULT_CURVE"); v != "" {
		cfg.Session.DefaultCurve = strings.ToLower(v)
	}
	if v := os.Getenv("ECRYPT_SESSION_ALLOW_LEGACY_KDF"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Session.AllowLegacyKDF = b
		}
	}
	if v := os.Getenv("ECRYPT_METRICS_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Metrics.Enabled = b
		}
	}
	if v := os.Getenv("ECRYPT_RSA_ALLOWED_BITS"); v != "" {
		bits := make([]int, 0, 4)
		for _, part := range strings.Split(v, ",") {
			n, err := strconv.Atoi(strings.TrimSpace(part))
			if err == nil && n > 0 {
				bits = append(bits, n)
			}
		}
		if len(bits) > 0 {
			cfg.RSA.AllowedBits = bits
		}
	}
}

// AllowsBits reports whether bits is one of the deployment's accepted RSA
// modulus sizes.
func (c *Config) AllowsBits(bits int) bool {
	for _, b := range c.RSA.AllowedBits {
		if b == bits {
			return true
		}
	}
	return false
}
