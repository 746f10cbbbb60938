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


package storage

import (
	"fmt"
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
	"github.com/poiesic/locbench/core"
)

// RunRecordMUS serializes core.RunRecord. Timestamps are stored as Unix micro.
// The field order is fixed; changing it invalidates stored data.
var RunRecordMUS = runRecordSer{}

// MarshalID serializes an ID to bytes.
func MarshalID(id core.ID) []byte {
	buf := make([]byte, varint.Uint64.Size(uint64(id)))
	varint.Uint64.Marshal(uint64(id), buf)
	return buf
}

// UnmarshalID deserializes an ID from bytes.
func UnmarshalID(data []byte) (core.ID, error) {
	id, _, err := varint.Uint64.Unmarshal(data)
	return core.ID(id), err
}

// MarshalRunRecord serializes a RunRecord to bytes.
func MarshalRunRecord(record *core.RunRecord) []byte {
	buf := make([]byte, RunRecordMUS.Size(*record))
	RunRecordMUS.Marshal(*record, buf)
	return buf
}

// UnmarshalRunRecord deserializes a RunRecord from bytes.
func UnmarshalRunRecord(data []byte) (*core.RunRecord, error) {
	record, _, err := RunRecordMUS.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return &record, nil
}

type runRecordSer struct{}

func (runRecordSer) Marshal(r core.RunRecord, bs []byte) (n int) {
	n = varint.Uint64.Marshal(uint64(r.Id), bs)
	n += ord.String.Marshal(r.Dataset, bs[n:])
	n += ord.String.Marshal(r.Split, bs[n:])
	n += ord.String.Marshal(r.Model, bs[n:])
	n += marshalStringSlice(r.Args, bs[n:])
	n += marshalStringSlice(r.EnvKeys, bs[n:])
	n += ord.String.Marshal(r.OutputFolder, bs[n:])
	n += varint.Int.Marshal(r.ExitCode, bs[n:])
	n += varint.Int.Marshal(int(r.Status), bs[n:])
	n += varint.Int64.Marshal(r.StartedAt.UnixMicro(), bs[n:])
	n += varint.Int64.Marshal(r.FinishedAt.UnixMicro(), bs[n:])
	return n
}

func (runRecordSer) Unmarshal(bs []byte) (r core.RunRecord, n int, err error) {
	var (
		id                uint64
		status            int
		started, finished int64
		c                 int
	)
	if id, n, err = varint.Uint64.Unmarshal(bs); err != nil {
		return
	}
	r.Id = core.ID(id)
	if r.Dataset, c, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += c
	if r.Split, c, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += c
	if r.Model, c, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += c
	if r.Args, c, err = unmarshalStringSlice(bs[n:]); err != nil {
		return
	}
	n += c
	if r.EnvKeys, c, err = unmarshalStringSlice(bs[n:]); err != nil {
		return
	}
	n += c
	if r.OutputFolder, c, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += c
	if r.ExitCode, c, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += c
	if status, c, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += c
	r.Status = core.RunStatus(status)
	if started, c, err = varint.Int64.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += c
	r.StartedAt = time.UnixMicro(started).UTC()
	if finished, c, err = varint.Int64.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += c
	r.FinishedAt = time.UnixMicro(finished).UTC()
	return
}

func (runRecordSer) Size(r core.RunRecord) (size int) {
	size = varint.Uint64.Size(uint64(r.Id))
	size += ord.String.Size(r.Dataset)
	size += ord.String.Size(r.Split)
	size += ord.String.Size(r.Model)
	size += sizeStringSlice(r.Args)
	size += sizeStringSlice(r.EnvKeys)
	size += ord.String.Size(r.OutputFolder)
	size += varint.Int.Size(r.ExitCode)
	size += varint.Int.Size(int(r.Status))
	size += varint.Int64.Size(r.StartedAt.UnixMicro())
	size += varint.Int64.Size(r.FinishedAt.UnixMicro())
	return size
}

// String slices are encoded as a varint length followed by the elements.
func marshalStringSlice(values []string, bs []byte) (n int) {
	n = varint.Int.Marshal(len(values), bs)
	for _, v := range values {
		n += ord.String.Marshal(v, bs[n:])
	}
	return n
}

func unmarshalStringSlice(bs []byte) (values []string, n int, err error) {
	var length, c int
	if length, n, err = varint.Int.Unmarshal(bs); err != nil {
		return
	}
	if length < 0 {
		err = ErrSerializationFailed
		return
	}
	if length > 0 {
		values = make([]string, length)
	}
	for i := 0; i < length; i++ {
		if values[i], c, err = ord.String.Unmarshal(bs[n:]); err != nil {
			return
		}
		n += c
	}
	return
}

func sizeStringSlice(values []string) (size int) {
	size = varint.Int.Size(len(values))
	for _, v := range values {
		size += ord.String.Size(v)
	}
	return size
}
