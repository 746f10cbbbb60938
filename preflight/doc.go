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


// Package preflight implements opt-in environment checks for a benchmark run.
//
// The launch path deliberately performs no credential validation; the checks
// here back the explicit doctor command only. A model probe sends one minimal
// chat completion through an OpenAI-compatible endpoint, and index probes
// verify that the configured graph and BM25 index directories exist.
package preflight
