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


// Package bench loads benchmark instances and derives gold answers from their
// patches.
//
// Instances come from a local JSONL export of the benchmark (instance_id and
// patch fields per line). The gold answer for localization is the set of files
// touched by the patch, read from its diff --git headers.
package bench
