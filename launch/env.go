// Copyright 2025 Poiesic Systems
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


package launch

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variable names consumed by the external program.
const (
	EnvAPIKey        = "OPENAI_API_KEY"
	EnvAPIBase       = "OPENAI_API_BASE"
	EnvPythonPath    = "PYTHONPATH"
	EnvGraphIndexDir = "GRAPH_INDEX_DIR"
	EnvBM25IndexDir  = "BM25_INDEX_DIR"
)

// LoadEnvFile reads the optional dotenv file and fills configuration fields
// that were not set explicitly. Explicit values always win over file values.
// A missing EnvFile setting is not an error; an unreadable file is.
func (c *Config) LoadEnvFile() error {
	if c.EnvFile == "" {
		return nil
	}

	values, err := godotenv.Read(c.EnvFile)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrEnvFile, c.EnvFile, err)
	}

	if c.APIKey == "" {
		c.APIKey = values[EnvAPIKey]
	}
	if c.APIBase == "" {
		c.APIBase = values[EnvAPIBase]
	}
	if c.GraphIndexDir == "" {
		c.GraphIndexDir = values[EnvGraphIndexDir]
	}
	if c.BM25IndexDir == "" {
		c.BM25IndexDir = values[EnvBM25IndexDir]
	}
	return nil
}

// BuildEnv returns the child process environment: base (typically os.Environ)
// with the launch variables applied on top. Values are passed through
// literally. OPENAI_API_BASE is only set when configured, mirroring the launch
// script where the alternate endpoint is commented out by default. PYTHONPATH
// entries are prepended to any inherited value rather than replacing it.
func (c *Config) BuildEnv(base []string) []string {
	env := make([]string, len(base))
	copy(env, base)

	if c.APIKey != "" {
		env = setEnv(env, EnvAPIKey, c.APIKey)
	}
	if c.APIBase != "" {
		env = setEnv(env, EnvAPIBase, c.APIBase)
	}
	if len(c.PythonPath) > 0 {
		value := strings.Join(c.PythonPath, string(os.PathListSeparator))
		if inherited, ok := lookupEnv(base, EnvPythonPath); ok && inherited != "" {
			value = value + string(os.PathListSeparator) + inherited
		}
		env = setEnv(env, EnvPythonPath, value)
	}
	if c.GraphIndexDir != "" {
		env = setEnv(env, EnvGraphIndexDir, c.GraphIndexDir)
	}
	if c.BM25IndexDir != "" {
		env = setEnv(env, EnvBM25IndexDir, c.BM25IndexDir)
	}
	return env
}

// EnvKeys returns the sorted names of the variables the launcher would set
// for this configuration. Used for run manifests, which never store values.
func (c *Config) EnvKeys() []string {
	var keys []string
	if c.APIKey != "" {
		keys = append(keys, EnvAPIKey)
	}
	if c.APIBase != "" {
		keys = append(keys, EnvAPIBase)
	}
	if len(c.PythonPath) > 0 {
		keys = append(keys, EnvPythonPath)
	}
	if c.GraphIndexDir != "" {
		keys = append(keys, EnvGraphIndexDir)
	}
	if c.BM25IndexDir != "" {
		keys = append(keys, EnvBM25IndexDir)
	}
	sort.Strings(keys)
	return keys
}

// setEnv replaces key in env or appends it when absent.
func setEnv(env []string, key, value string) []string {
	prefix := key + "="
	for i, entry := range env {
		if strings.HasPrefix(entry, prefix) {
			env[i] = prefix + value
			return env
		}
	}
	return append(env, prefix+value)
}

// lookupEnv finds key in an environment slice.
func lookupEnv(env []string, key string) (string, bool) {
	prefix := key + "="
	for _, entry := range env {
		if strings.HasPrefix(entry, prefix) {
			return entry[len(prefix):], true
		}
	}
	return "", false
}
