// Copyright 2025 SirSeer, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config provides configuration management for fedi-archive with
// support for multiple configuration sources and a well-defined precedence
// order.
//
// Configuration sources (in precedence order, highest to lowest):
//  1. Command-line flags
//  2. Environment variables, including a .env file in the working directory
//  3. Account-specific configuration
//  4. Configuration file
//  5. Built-in defaults
//
// Flags that compete with account entries must go through OverridePageSize
// and OverrideCursorParam so they keep their rank.
//
// Every validation failure wraps errors.ErrConfig so the CLI can map it to
// the configuration exit code.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	relaierrors "github.com/sirseerhq/fedi-archive/internal/errors"
	"github.com/sirseerhq/fedi-archive/internal/logging"
	"gopkg.in/yaml.v3"
)

// Legacy environment variable names, still honored when the FEDI_ names are unset.
const (
	legacyHostEnv  = "GMH_HOST"
	legacyTokenEnv = "GMH_ACCESS_TOKEN"
)

// LoadEnvFile loads KEY=VALUE pairs from path into the process environment
// without replacing variables that are already set. A missing file is not an
// error.
func LoadEnvFile(path string) error {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, errors.Join(relaierrors.ErrConfig, err))
	}
	return nil
}

// LoadConfig loads configuration from multiple sources and applies them in
// the correct precedence order. If configPath is provided, it loads from
// that specific file. Otherwise, it searches standard locations:
//   - .fedi-archive.yaml (current directory)
//   - .fedi-archive.yml (current directory)
//   - ~/.fedi-archive/config.yaml
//
// Environment variables are applied after loading the config file.
// Path expansion (~ and environment variables) is performed on file paths.
//
// Returns an error if the specified config file cannot be loaded, but will
// succeed with defaults if no config file is found in standard locations.
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		if err := loadConfigFile(expandPath(configPath), cfg); err != nil {
			return nil, err
		}
	} else {
		for _, path := range defaultPaths() {
			if _, err := os.Stat(path); err == nil {
				if err := loadConfigFile(path, cfg); err != nil {
					return nil, err
				}
				break
			}
		}
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	cfg.Defaults.MetadataDir = expandPath(cfg.Defaults.MetadataDir)
	cfg.Defaults.MetricsFile = expandPath(cfg.Defaults.MetricsFile)

	return cfg, nil
}

func defaultPaths() []string {
	paths := []string{".fedi-archive.yaml", ".fedi-archive.yml"}
	if home := homeDir(); home != "" {
		paths = append(paths, filepath.Join(home, ".fedi-archive", "config.yaml"))
	}
	return paths
}

// loadConfigFile reads and parses a YAML config file
func loadConfigFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, errors.Join(relaierrors.ErrConfig, err))
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, errors.Join(relaierrors.ErrConfig, err))
	}
	if cfg.Accounts == nil {
		cfg.Accounts = make(map[string]AccountConfig)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to config.
// Malformed numeric or duration values are rejected rather than ignored.
func applyEnvOverrides(cfg *Config) error {
	if host := firstEnv("FEDI_HOST", legacyHostEnv); host != "" {
		cfg.Server.Host = host
	}
	if account := os.Getenv("FEDI_ACCOUNT_ID"); account != "" {
		cfg.Server.AccountID = account
	}

	if timeout := os.Getenv("FEDI_TIMEOUT"); timeout != "" {
		d, err := time.ParseDuration(timeout)
		if err != nil {
			return fmt.Errorf("FEDI_TIMEOUT: %w", errors.Join(relaierrors.ErrConfig, err))
		}
		cfg.Defaults.Timeout = d
	}
	if pageSize := os.Getenv("FEDI_PAGE_SIZE"); pageSize != "" {
		size, err := parsePositiveInt(pageSize)
		if err != nil {
			return fmt.Errorf("FEDI_PAGE_SIZE: %w", errors.Join(relaierrors.ErrConfig, err))
		}
		cfg.OverridePageSize(size)
	}
	if param := os.Getenv("FEDI_CURSOR_PARAM"); param != "" {
		cfg.OverrideCursorParam(param)
	}
	if policy := os.Getenv("FEDI_ON_DUPLICATE"); policy != "" {
		cfg.Defaults.OnDuplicate = policy
	}
	if dir := os.Getenv("FEDI_METADATA_DIR"); dir != "" {
		cfg.Defaults.MetadataDir = dir
	}
	if file := os.Getenv("FEDI_METRICS_FILE"); file != "" {
		cfg.Defaults.MetricsFile = file
	}

	if level := os.Getenv("FEDI_LOG_LEVEL"); level != "" {
		cfg.Logging.Level = level
	}
	if pretty := os.Getenv("FEDI_LOG_PRETTY"); pretty != "" {
		cfg.Logging.Pretty = parseBool(pretty)
	}

	return nil
}

// Credentials are the secrets used to talk to the server. Either Token or
// both ClientID and ClientSecret are set.
type Credentials struct {
	Token        string
	ClientID     string
	ClientSecret string
}

// NeedsExchange reports whether the token must first be obtained through the
// client-credentials grant.
func (c Credentials) NeedsExchange() bool {
	return c.Token == ""
}

// ResolveCredentials picks the credential to use. A non-empty flagToken wins;
// otherwise the token variable named by server.token_env, then GMH_ACCESS_TOKEN,
// then the client id/secret pair. Having none of them is a configuration error
// reported before any network call.
func (c *Config) ResolveCredentials(flagToken string) (Credentials, error) {
	if flagToken != "" {
		return Credentials{Token: flagToken}, nil
	}
	if token := firstEnv(c.Server.TokenEnv, legacyTokenEnv); token != "" {
		return Credentials{Token: token}, nil
	}

	clientID := lookupEnv(c.Server.ClientIDEnv)
	clientSecret := lookupEnv(c.Server.ClientSecretEnv)
	if clientID != "" && clientSecret != "" {
		return Credentials{ClientID: clientID, ClientSecret: clientSecret}, nil
	}

	return Credentials{}, fmt.Errorf("no access token found: set %s or both %s and %s: %w",
		c.Server.TokenEnv, c.Server.ClientIDEnv, c.Server.ClientSecretEnv, relaierrors.ErrConfig)
}

// GetPageSize returns the effective page size for an account, taking
// account-specific overrides into account.
func (c *Config) GetPageSize(accountID string) int {
	if acct, ok := c.Accounts[accountID]; ok && acct.PageSize > 0 && !c.pinned[keyPageSize] {
		return acct.PageSize
	}
	return c.Defaults.PageSize
}

// GetCursorParam returns the effective cursor parameter for an account.
func (c *Config) GetCursorParam(accountID string) string {
	if acct, ok := c.Accounts[accountID]; ok && acct.CursorParam != "" && !c.pinned[keyCursorParam] {
		return acct.CursorParam
	}
	return c.Defaults.CursorParam
}

// OverridePageSize sets the default page size from the environment or a flag.
// Unlike a value from the config file, it also wins over account entries.
func (c *Config) OverridePageSize(size int) {
	c.Defaults.PageSize = size
	c.pin(keyPageSize)
}

// OverrideCursorParam is OverridePageSize for the cursor parameter.
func (c *Config) OverrideCursorParam(param string) {
	c.Defaults.CursorParam = param
	c.pin(keyCursorParam)
}

func (c *Config) pin(key string) {
	if c.pinned == nil {
		c.pinned = make(map[string]bool)
	}
	c.pinned[key] = true
}

// Validate checks that the configuration is usable. It should be called
// after flags have been applied.
func (c *Config) Validate() error {
	if err := validateHost(c.Server.Host); err != nil {
		return err
	}
	if c.Defaults.Timeout < 0 {
		return invalid("timeout must not be negative, got: %s", c.Defaults.Timeout)
	}
	if c.Defaults.PageSize < 0 {
		return invalid("page size must not be negative, got: %d", c.Defaults.PageSize)
	}
	if err := validateCursorParam(c.Defaults.CursorParam); err != nil {
		return err
	}
	switch strings.ToLower(c.Defaults.OnDuplicate) {
	case "", "drop", "fail":
	default:
		return invalid("on_duplicate must be drop or fail, got: %q", c.Defaults.OnDuplicate)
	}
	for id, acct := range c.Accounts {
		if acct.PageSize < 0 {
			return invalid("account %s: page size must not be negative, got: %d", id, acct.PageSize)
		}
		if acct.CursorParam != "" {
			if err := validateCursorParam(acct.CursorParam); err != nil {
				return fmt.Errorf("account %s: %w", id, err)
			}
		}
	}
	if c.Logging.Level != "" && !logging.ValidLevel(c.Logging.Level) {
		return invalid("unknown log level: %q", c.Logging.Level)
	}
	return nil
}

func validateHost(host string) error {
	if host == "" {
		return invalid("server host cannot be empty (set server.host, FEDI_HOST or --host)")
	}
	u, err := url.Parse(host)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return invalid("server host must be an absolute http(s) URL, got: %q", host)
	}
	return nil
}

func validateCursorParam(param string) error {
	switch param {
	case "", "since_id", "min_id":
		return nil
	}
	return invalid("cursor_param must be since_id or min_id, got: %q", param)
}

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), relaierrors.ErrConfig)
}

// firstEnv returns the first non-empty value among the named variables.
func firstEnv(names ...string) string {
	for _, name := range names {
		if v := lookupEnv(name); v != "" {
			return v
		}
	}
	return ""
}

func lookupEnv(name string) string {
	if name == "" {
		return ""
	}
	return strings.TrimSpace(os.Getenv(name))
}

func homeDir() string {
	home := os.Getenv("HOME")
	if home == "" {
		home = os.Getenv("USERPROFILE") // Windows
	}
	return home
}

// expandPath expands ~ and environment variables in paths
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		path = filepath.Join(homeDir(), path[2:])
	}
	return os.ExpandEnv(path)
}

// parsePositiveInt parses a string to a positive integer
func parsePositiveInt(s string) (int, error) {
	i, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("failed to parse integer from '%s': %w", s, err)
	}
	if i <= 0 {
		return 0, fmt.Errorf("value must be positive, got: %d", i)
	}
	return i, nil
}

// parseBool parses various boolean representations
func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "true" || s == "yes" || s == "1" || s == "on"
}
