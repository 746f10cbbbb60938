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


package preflight

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// Config holds preflight check settings.
type Config struct {
	// Host is the base URL of the OpenAI-compatible endpoint.
	// Empty selects the client default.
	Host string

	// Model is the model identifier probed with a minimal completion.
	Model string

	// APIKey is the credential sent with the probe. "none" is substituted
	// when empty so local endpoints without authentication still work.
	APIKey string

	// GraphIndexDir and BM25IndexDir are checked for existence when set.
	GraphIndexDir string
	BM25IndexDir  string

	// MaxRetries and RetryDelay drive the probe's exponential backoff.
	MaxRetries int
	RetryDelay time.Duration
}

// DefaultConfig returns preflight defaults.
func DefaultConfig() *Config {
	return &Config{
		MaxRetries: 3,
		RetryDelay: time.Second,
	}
}

// Checker probes the model endpoint and the index directories.
type Checker struct {
	client llms.Model
	config *Config
	logger *slog.Logger
}

// NewChecker creates a Checker for the given configuration.
func NewChecker(config *Config) (*Checker, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if config.Model == "" {
		return nil, ErrModelRequired
	}

	token := config.APIKey
	if token == "" {
		// Local OpenAI-compatible services accept any token.
		token = "none"
	}

	clientOpts := []openai.Option{
		openai.WithToken(token),
		openai.WithModel(config.Model),
	}
	if config.Host != "" {
		clientOpts = append(clientOpts, openai.WithBaseURL(config.Host))
	}

	client, err := openai.New(clientOpts...)
	if err != nil {
		return nil, err
	}

	return &Checker{
		client: client,
		config: config,
		logger: slog.Default().With("component", "preflight"),
	}, nil
}

// CheckModel sends one minimal completion to verify the endpoint and
// credential. Transient failures are retried with exponential backoff.
func (c *Checker) CheckModel(ctx context.Context) error {
	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart("ping"),
			},
		},
	}

	err := RetryWithBackoff(ctx, func() error {
		_, err := c.client.GenerateContent(ctx, content,
			llms.WithTemperature(0.0), llms.WithMaxTokens(1))
		return err
	}, c.config.MaxRetries, c.config.RetryDelay)
	if err != nil {
		return fmt.Errorf("%w: model %s: %w", ErrModelProbe, c.config.Model, err)
	}

	c.logger.Debug("model probe succeeded", "model", c.config.Model)
	return nil
}

// CheckIndexDirs verifies the configured index directories exist.
func (c *Checker) CheckIndexDirs() error {
	return CheckIndexDirs(c.config)
}

// CheckIndexDirs verifies the configured index directories exist. Unset
// directories are skipped; the first failure is returned. It needs no
// endpoint client, so it is usable without a Checker.
func CheckIndexDirs(config *Config) error {
	for _, dir := range []struct {
		name string
		path string
	}{
		{"GRAPH_INDEX_DIR", config.GraphIndexDir},
		{"BM25_INDEX_DIR", config.BM25IndexDir},
	} {
		if dir.path == "" {
			continue
		}
		info, err := os.Stat(dir.path)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrIndexDir, dir.name, err)
		}
		if !info.IsDir() {
			return fmt.Errorf("%w: %s: %s is not a directory", ErrIndexDir, dir.name, dir.path)
		}
	}
	return nil
}
