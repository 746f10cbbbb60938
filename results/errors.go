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


package results

import "errors"

var (
	// ErrBadJSON indicates a malformed line in a JSONL file.
	ErrBadJSON = errors.New("bad JSON line")

	// ErrNoOutputs indicates no loc_outputs.jsonl was found for a trial.
	ErrNoOutputs = errors.New("no localization outputs found")
)
