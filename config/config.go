// Copyright 2025 Starspread Contributors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config loads starspread settings from an optional YAML file and
// the environment, and builds Databricks workspace clients from them.
package config

import (
	"os"

	dbsdk "github.com/databricks/databricks-sdk-go"
	"github.com/spf13/cast"
	"gopkg.in/yaml.v2"
)

// Config holds all settings. Precedence, lowest to highest: defaults, YAML
// file, environment variables, CLI flags (applied by the caller).
type Config struct {
	// Host is the workspace URL. When empty, the SDK's unified auth
	// discovery is used (CLI profiles, env vars, cloud credentials).
	Host string `yaml:"host"`
	// Token is a personal access token. Optional for the same reason.
	Token string `yaml:"token"`
	// Warehouse is a SQL warehouse ID or its /sql/1.0/warehouses/<id> HTTP
	// path, used only by EXPLAIN validation.
	Warehouse string `yaml:"warehouse"`
	// Catalog and Schema are defaults for the execution context.
	Catalog string `yaml:"catalog"`
	Schema  string `yaml:"schema"`
	// Parallelism bounds concurrent table conversions.
	Parallelism int `yaml:"parallelism"`
	// StrictTypes makes type parsing fail fast on malformed type text
	// instead of degrading to fallback nodes.
	StrictTypes bool `yaml:"strict_types"`
	// LogLevel is a logrus level name.
	LogLevel string `yaml:"log_level"`
}

// Default returns the built-in defaults.
func Default() *Config {
	return &Config{
		Catalog:     "main",
		Schema:      "default",
		Parallelism: 4,
		LogLevel:    "warning",
	}
}

// Load builds a Config from defaults, the YAML file at path (skipped when
// path is empty or the file does not exist) and environment variables.
func Load(path string) (*Config, error) {
	c := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, err
		}
		if err == nil {
			if err := yaml.Unmarshal(raw, c); err != nil {
				return nil, err
			}
		}
	}

	c.applyEnv()
	return c, nil
}

func (c *Config) applyEnv() {
	setString(&c.Host, "DATABRICKS_HOST")
	setString(&c.Token, "DATABRICKS_TOKEN")
	setString(&c.Warehouse, "DATABRICKS_WAREHOUSE_ID")
	setString(&c.Catalog, "DATABRICKS_CATALOG")
	setString(&c.Schema, "DATABRICKS_SCHEMA")
	setString(&c.LogLevel, "STARSPREAD_LOG_LEVEL")

	if v, ok := os.LookupEnv("STARSPREAD_PARALLELISM"); ok {
		if n := cast.ToInt(v); n > 0 {
			c.Parallelism = n
		}
	}
	if v, ok := os.LookupEnv("STARSPREAD_STRICT"); ok {
		c.StrictTypes = cast.ToBool(v)
	}
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

// WorkspaceClient builds a Databricks workspace client. With no explicit
// host or token the SDK discovers credentials itself.
func (c *Config) WorkspaceClient() (*dbsdk.WorkspaceClient, error) {
	if c.Host == "" && c.Token == "" {
		return dbsdk.NewWorkspaceClient()
	}
	return dbsdk.NewWorkspaceClient(&dbsdk.Config{
		Host:  c.Host,
		Token: c.Token,
	})
}
