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


package bench

import (
	"sort"
	"strings"
)

// ExtractFixedFiles returns the sorted unique file paths touched by a patch,
// read from its diff --git headers:
//
//	diff --git a/foo/bar.py b/foo/bar.py
//
// The a/ prefix is stripped. A patch with no such headers yields nil.
func ExtractFixedFiles(patch string) []string {
	seen := make(map[string]struct{})
	for _, line := range strings.Split(patch, "\n") {
		if !strings.HasPrefix(line, "diff --git") {
			continue
		}
		parts := strings.Fields(line)
		if len(parts) < 3 || len(parts[2]) < 3 {
			continue
		}
		// parts[2] is "a/foo/bar.py"
		seen[parts[2][2:]] = struct{}{}
	}
	if len(seen) == 0 {
		return nil
	}

	files := make([]string, 0, len(seen))
	for f := range seen {
		files = append(files, f)
	}
	sort.Strings(files)
	return files
}
