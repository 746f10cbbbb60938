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


// Package locbench ties the run registry and the launcher together behind a
// single handle for the CLI and for embedding.
package locbench

import (
	"log/slog"

	"github.com/poiesic/locbench/launch"
	"github.com/poiesic/locbench/storage"
	"github.com/poiesic/locbench/storage/badger"
)

// Harness owns the run registry and builds launchers wired to it.
type Harness struct {
	backend *badger.Backend
	runs    storage.RunRepository
	logger  *slog.Logger
}

// NewHarness opens the run registry at filePath, creating it if absent.
func NewHarness(filePath string) (*Harness, error) {
	backend, err := badger.OpenBackend(filePath, false)
	if err != nil {
		return nil, err
	}

	runs, err := badger.NewRunRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	return &Harness{
		backend: backend,
		runs:    runs,
		logger:  slog.Default(),
	}, nil
}

// Close releases the registry and its backend.
func (h *Harness) Close() error {
	if err := h.runs.Close(); err != nil {
		h.logger.Error("error closing run repository", "err", err)
		return err
	}
	if err := h.backend.Close(); err != nil {
		h.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

// RunRepository exposes the run registry.
func (h *Harness) RunRepository() storage.RunRepository {
	return h.runs
}

// NewLauncher builds a launcher that records its run manifests in the registry.
func (h *Harness) NewLauncher(config *launch.Config, opts ...launch.Option) (*launch.Launcher, error) {
	opts = append([]launch.Option{launch.WithRunRepository(h.runs)}, opts...)
	return launch.NewLauncher(config, opts...)
}
