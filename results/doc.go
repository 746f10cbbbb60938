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


// Package results loads localization output produced by the external program.
//
// A trial directory follows the layout <root>/swe-res-<trial>/location with a
// loc_outputs.jsonl file inside. Each line carries an instance id, a
// found_files field in one of several historical shapes (flat list, nested
// lists, single string), and the raw model output. Loading normalizes
// found_files to a flat list; when it is empty the raw output is parsed for
// fenced code blocks listing file paths.
package results
