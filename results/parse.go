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

import (
	"regexp"
	"strings"
)

var (
	fencedBlockRe = regexp.MustCompile("(?s)```(.*?)```")
	pyPathRe      = regexp.MustCompile(`^(.+?\.py)\b`)
)

// ParseRawOutput extracts file paths from narrative model output.
//
// The raw output usually contains one or more fenced code blocks whose lines
// start with a path, optionally followed by a symbol:
//
//	astropy/io/ascii/rst.py:RST
//	astropy/io/ascii/fixedwidth.py:FixedWidthData.write
//
// Returns the paths in first-seen order with duplicates removed. Text outside
// fenced blocks is ignored.
func ParseRawOutput(segments []string) []string {
	if len(segments) == 0 {
		return nil
	}

	text := strings.Join(segments, "\n")
	blocks := fencedBlockRe.FindAllStringSubmatch(text, -1)
	if len(blocks) == 0 {
		return nil
	}

	var files []string
	for _, block := range blocks {
		for _, line := range strings.Split(block[1], "\n") {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			if m := pyPathRe.FindStringSubmatch(line); m != nil {
				files = append(files, m[1])
			}
		}
	}
	return dedup(files)
}

// dedup removes duplicates while preserving order.
func dedup(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	var out []string
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
