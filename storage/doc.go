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


// Package storage provides the storage abstraction layer for locbench.
//
// This package defines the run registry interface that decouples storage
// implementation from the launcher and the CLI. It allows different storage
// backends (BadgerDB, in-memory, etc.) to be used interchangeably.
//
// Public constructors in backend packages return the storage.RunRepository
// interface to prevent accidental coupling to BadgerDB specifics:
//
//	runs, err := badger.NewRunRepository(backend)  // returns storage.RunRepository
//
// Serialization of run manifests lives here as well, composed from mus-go
// primitive serializers. The field order of the binary format is fixed;
// changing it invalidates stored data.
package storage
