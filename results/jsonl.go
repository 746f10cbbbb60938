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
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Lines longer than the bufio default are common in raw model output.
const maxLineSize = 16 * 1024 * 1024

// decodeLines reads JSONL from r and calls fn for each non-empty line.
// A malformed line fails the whole read with its line number.
func decodeLines(r io.Reader, name string, fn func(raw json.RawMessage) error) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)

	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		if !json.Valid([]byte(text)) {
			return fmt.Errorf("%w %d in %s", ErrBadJSON, line, name)
		}
		if err := fn(json.RawMessage(text)); err != nil {
			return fmt.Errorf("line %d in %s: %w", line, name, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading %s: %w", name, err)
	}
	return nil
}
