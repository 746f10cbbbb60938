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

import "errors"

var (
	// ErrModelRequired is returned when no model identifier is configured.
	ErrModelRequired = errors.New("model required")

	// ErrModelProbe indicates the model endpoint rejected the probe call.
	ErrModelProbe = errors.New("model probe failed")

	// ErrIndexDir indicates a configured index directory is missing or not a directory.
	ErrIndexDir = errors.New("index directory check failed")

	// ErrInvalidMaxAttempts indicates a non-positive retry attempt count.
	ErrInvalidMaxAttempts = errors.New("max attempts must be greater than 0")
)
