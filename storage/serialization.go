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
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"

	"github.com/poiesic/docingest/core"
)

// codecVersion prefixes every encoded value so the layout can evolve.
const codecVersion = 1

const float32Size = 4

// zeroMicros is the Unix microsecond value of the zero time.Time.
var zeroMicros = time.Time{}.UnixMicro()

// MarshalStorageRecord serializes a StorageRecord to bytes.
func MarshalStorageRecord(record *core.StorageRecord) []byte {
	size := varint.Int.Size(codecVersion) +
		varint.Uint64.Size(uint64(record.Id)) +
		ord.String.Size(record.DocumentID) +
		varint.Int.Size(record.Index) +
		ord.String.Size(record.Content) +
		sizeFloats(record.Embedding) +
		sizeMeta(record.Meta) +
		ord.String.Size(string(record.DocumentType)) +
		ord.String.Size(record.Scope) +
		ord.String.Size(record.BusinessID) +
		ord.String.Size(record.DatasetID) +
		sizeStrings(record.AgentKeys) +
		varint.Int64.Size(record.InsertedAt.UnixMicro())

	bs := make([]byte, size)
	n := varint.Int.Marshal(codecVersion, bs)
	n += varint.Uint64.Marshal(uint64(record.Id), bs[n:])
	n += ord.String.Marshal(record.DocumentID, bs[n:])
	n += varint.Int.Marshal(record.Index, bs[n:])
	n += ord.String.Marshal(record.Content, bs[n:])
	n += marshalFloats(record.Embedding, bs[n:])
	n += marshalMeta(record.Meta, bs[n:])
	n += ord.String.Marshal(string(record.DocumentType), bs[n:])
	n += ord.String.Marshal(record.Scope, bs[n:])
	n += ord.String.Marshal(record.BusinessID, bs[n:])
	n += ord.String.Marshal(record.DatasetID, bs[n:])
	n += marshalStrings(record.AgentKeys, bs[n:])
	varint.Int64.Marshal(record.InsertedAt.UnixMicro(), bs[n:])
	return bs
}

// UnmarshalStorageRecord deserializes a StorageRecord from bytes.
func UnmarshalStorageRecord(data []byte) (*core.StorageRecord, error) {
	d := &decoder{bs: data}
	d.version()

	record := &core.StorageRecord{
		Id:         core.ID(d.readUint64()),
		DocumentID: d.readString(),
		Index:      d.readInt(),
		Content:    d.readString(),
		Embedding:  d.readFloats(),
	}
	record.Meta = core.ChunkMeta{
		Strategy:   core.Strategy(d.readString()),
		EstTokens:  d.readInt(),
		ReadingSec: d.readInt(),
	}
	record.DocumentType = core.DocumentType(d.readString())
	record.Scope = d.readString()
	record.BusinessID = d.readString()
	record.DatasetID = d.readString()
	record.AgentKeys = d.readStrings()
	record.InsertedAt = d.readTime()

	if err := d.finish(); err != nil {
		return nil, err
	}
	return record, nil
}

// MarshalManifest serializes a DocumentManifest to bytes.
func MarshalManifest(m *core.DocumentManifest) []byte {
	size := varint.Int.Size(codecVersion) +
		ord.String.Size(m.DocumentID) +
		ord.String.Size(string(m.DocumentType)) +
		ord.String.Size(m.Scope) +
		ord.String.Size(m.BusinessID) +
		ord.String.Size(m.DatasetID) +
		varint.Int.Size(m.ChunkCount) +
		varint.Int64.Size(m.UpdatedAt.UnixMicro())

	bs := make([]byte, size)
	n := varint.Int.Marshal(codecVersion, bs)
	n += ord.String.Marshal(m.DocumentID, bs[n:])
	n += ord.String.Marshal(string(m.DocumentType), bs[n:])
	n += ord.String.Marshal(m.Scope, bs[n:])
	n += ord.String.Marshal(m.BusinessID, bs[n:])
	n += ord.String.Marshal(m.DatasetID, bs[n:])
	n += varint.Int.Marshal(m.ChunkCount, bs[n:])
	varint.Int64.Marshal(m.UpdatedAt.UnixMicro(), bs[n:])
	return bs
}

// UnmarshalManifest deserializes a DocumentManifest from bytes.
func UnmarshalManifest(data []byte) (*core.DocumentManifest, error) {
	d := &decoder{bs: data}
	d.version()

	m := &core.DocumentManifest{
		DocumentID:   d.readString(),
		DocumentType: core.DocumentType(d.readString()),
		Scope:        d.readString(),
		BusinessID:   d.readString(),
		DatasetID:    d.readString(),
		ChunkCount:   d.readInt(),
		UpdatedAt:    d.readTime(),
	}

	if err := d.finish(); err != nil {
		return nil, err
	}
	return m, nil
}

func sizeMeta(m core.ChunkMeta) int {
	return ord.String.Size(string(m.Strategy)) +
		varint.Int.Size(m.EstTokens) +
		varint.Int.Size(m.ReadingSec)
}

func marshalMeta(m core.ChunkMeta, bs []byte) int {
	n := ord.String.Marshal(string(m.Strategy), bs)
	n += varint.Int.Marshal(m.EstTokens, bs[n:])
	n += varint.Int.Marshal(m.ReadingSec, bs[n:])
	return n
}

func sizeFloats(vs []float32) int {
	return varint.Int.Size(len(vs)) + len(vs)*float32Size
}

func marshalFloats(vs []float32, bs []byte) int {
	n := varint.Int.Marshal(len(vs), bs)
	for _, v := range vs {
		n += raw.Float32.Marshal(v, bs[n:])
	}
	return n
}

func sizeStrings(ss []string) int {
	size := varint.Int.Size(len(ss))
	for _, s := range ss {
		size += ord.String.Size(s)
	}
	return size
}

func marshalStrings(ss []string, bs []byte) int {
	n := varint.Int.Marshal(len(ss), bs)
	for _, s := range ss {
		n += ord.String.Marshal(s, bs[n:])
	}
	return n
}

// decoder reads values in sequence and keeps the first error.
type decoder struct {
	bs  []byte
	off int
	err error
}

func (d *decoder) remaining() int {
	return len(d.bs) - d.off
}

// ready reports whether at least n more bytes can be read.
func (d *decoder) ready(n int) bool {
	if d.err != nil {
		return false
	}
	if d.remaining() < n {
		d.err = ErrTruncatedData
		return false
	}
	return true
}

func (d *decoder) fail(err error) {
	if d.err == nil {
		d.err = err
	}
}

func (d *decoder) version() {
	if v := d.readInt(); d.err == nil && v != codecVersion {
		d.fail(fmt.Errorf("unsupported codec version %d", v))
	}
}

func (d *decoder) readInt() int {
	if !d.ready(1) {
		return 0
	}
	v, n, err := varint.Int.Unmarshal(d.bs[d.off:])
	if err != nil {
		d.fail(err)
		return 0
	}
	d.off += n
	return v
}

func (d *decoder) readUint64() uint64 {
	if !d.ready(1) {
		return 0
	}
	v, n, err := varint.Uint64.Unmarshal(d.bs[d.off:])
	if err != nil {
		d.fail(err)
		return 0
	}
	d.off += n
	return v
}

func (d *decoder) readInt64() int64 {
	if !d.ready(1) {
		return 0
	}
	v, n, err := varint.Int64.Unmarshal(d.bs[d.off:])
	if err != nil {
		d.fail(err)
		return 0
	}
	d.off += n
	return v
}

func (d *decoder) readString() string {
	if !d.ready(1) {
		return ""
	}
	v, n, err := ord.String.Unmarshal(d.bs[d.off:])
	if err != nil {
		d.fail(err)
		return ""
	}
	d.off += n
	return v
}

func (d *decoder) readFloat32() float32 {
	if !d.ready(float32Size) {
		return 0
	}
	v, n, err := raw.Float32.Unmarshal(d.bs[d.off:])
	if err != nil {
		d.fail(err)
		return 0
	}
	d.off += n
	return v
}

func (d *decoder) readFloats() []float32 {
	count := d.length(float32Size)
	if count == 0 {
		return nil
	}
	vs := make([]float32, count)
	for i := range vs {
		vs[i] = d.readFloat32()
	}
	return vs
}

func (d *decoder) readStrings() []string {
	count := d.length(1)
	if count == 0 {
		return nil
	}
	ss := make([]string, count)
	for i := range ss {
		ss[i] = d.readString()
	}
	return ss
}

// length reads a collection length and checks it against the remaining
// bytes, given the minimum encoded size of one element.
func (d *decoder) length(minElem int) int {
	count := d.readInt()
	if d.err != nil {
		return 0
	}
	if count < 0 || count > d.remaining()/minElem {
		d.fail(ErrTruncatedData)
		return 0
	}
	return count
}

func (d *decoder) readTime() time.Time {
	micros := d.readInt64()
	if d.err != nil || micros == zeroMicros {
		return time.Time{}
	}
	return time.UnixMicro(micros).UTC()
}

func (d *decoder) finish() error {
	if d.err == nil && d.remaining() != 0 {
		d.err = fmt.Errorf("%d trailing bytes", d.remaining())
	}
	if d.err != nil {
		return fmt.Errorf("%w: %w", ErrSerializationFailed, d.err)
	}
	return nil
}
