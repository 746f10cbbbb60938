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


package badger

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/poiesic/locbench/core"
)

// Key prefixes for different data types
const (
	runRecordPrefix     = "runrec"
	runRecordDatePrefix = "runrecd"
)

// makeRunRecordKey generates a key for a run manifest by ID.
func makeRunRecordKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", runRecordPrefix, id))
}

// makeRunDateKey generates a composite key for the date index.
// Format: prefix:timestamp:id
func makeRunDateKey(timestamp time.Time, id core.ID) []byte {
	prefix := runRecordDatePrefix + ":"
	prefixBytes := []byte(prefix)
	prefixSize := len(prefixBytes)
	totalSize := prefixSize + 16 // 8 bytes for timestamp + 8 bytes for ID
	buf := make([]byte, totalSize)
	offset := copy(buf, prefixBytes)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(timestamp.UnixMicro()))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}
