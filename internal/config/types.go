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

// Package config types define the configuration structures used throughout
// fedi-archive. These types represent settings that can be loaded from
// YAML configuration files, environment variables, or command-line flags.
package config

import "time"

// Config represents the complete configuration for fedi-archive.
type Config struct {
	Server   ServerConfig             `yaml:"server"`
	Defaults DefaultsConfig           `yaml:"defaults"`
	Accounts map[string]AccountConfig `yaml:"accounts"`
	Logging  LoggingConfig            `yaml:"logging"`

	// pinned marks defaults set by an environment variable or flag. Those
	// outrank account entries, which only refine the config file.
	pinned map[string]bool
}

// Keys of settings an account entry can override.
const (
	keyPageSize    = "page_size"
	keyCursorParam = "cursor_param"
)

// ServerConfig names the Mastodon server and where credentials come from.
// Secrets are never stored in the file itself, only the names of the
// environment variables holding them.
type ServerConfig struct {
	Host            string `yaml:"host"`
	TokenEnv        string `yaml:"token_env"`
	ClientIDEnv     string `yaml:"client_id_env"`
	ClientSecretEnv string `yaml:"client_secret_env"`
	AccountID       string `yaml:"account_id"`
}

// DefaultsConfig contains settings that apply to every fetch unless
// overridden per account or on the command line.
type DefaultsConfig struct {
	Timeout     time.Duration `yaml:"timeout"`
	PageSize    int           `yaml:"page_size"`
	CursorParam string        `yaml:"cursor_param"`
	OnDuplicate string        `yaml:"on_duplicate"`
	MetadataDir string        `yaml:"metadata_dir"`
	MetricsFile string        `yaml:"metrics_file"`
}

// AccountConfig holds per-account overrides keyed by account id. Some
// servers cap page sizes lower for busy accounts, and min_id can be chosen
// for accounts that post more than a page between runs.
type AccountConfig struct {
	PageSize    int    `yaml:"page_size"`
	CursorParam string `yaml:"cursor_param"`
}

// LoggingConfig controls log verbosity and format. Logs always go to stderr.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}

// DefaultConfig returns a Config with defaults suitable for most servers.
// There is no default host.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			TokenEnv:        "FEDI_ACCESS_TOKEN",
			ClientIDEnv:     "FEDI_CLIENT_ID",
			ClientSecretEnv: "FEDI_CLIENT_SECRET",
		},
		Defaults: DefaultsConfig{
			Timeout:     30 * time.Second,
			CursorParam: "since_id",
			OnDuplicate: "drop",
		},
		Accounts: make(map[string]AccountConfig),
		Logging: LoggingConfig{
			Level:  "info",
			Pretty: true,
		},
	}
}
