/*
Copyright 2011-2026 Frederic Langlet
Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
you may obtain a copy of the License at

                http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package container

import (
	"bytes"
	"testing"

	dczf "github.com/hecticSubraz/dczf"
)

func sampleHeader() *Header {
	h := &Header{
		Filename:          "report.csv",
		OriginalFileSize:  9000,
		OriginalTimestamp: 1735689600000,
		ChunkSizeBytes:    4096,
		Chunks: []ChunkMetadata{
			{
				ChunkIndex:       0,
				OriginalOffset:   0,
				OriginalSize:     4096,
				CompressedOffset: 0,
				CompressedSize:   2048,
			},
			{
				ChunkIndex:       1,
				OriginalOffset:   4096,
				OriginalSize:     4096,
				CompressedOffset: 2048,
				CompressedSize:   2100,
			},
			{
				ChunkIndex:       2,
				OriginalOffset:   8192,
				OriginalSize:     808,
				CompressedOffset: 4148,
				CompressedSize:   500,
			},
		},
	}

	for i := range h.Chunks {
		for s := range h.Chunks[i].CodeLengths {
			h.Chunks[i].CodeLengths[s] = uint16((s + i) % 17)
		}

		h.Chunks[i].Checksum[0] = byte(i + 1)
	}

	h.GlobalChecksum[0] = 0xAB

	return h
}

func TestWriteReadHeaderRoundTrip(t *testing.T) {
	h := sampleHeader()

	var buf bytes.Buffer

	if err := WriteHeader(&buf, h); err != nil {
		t.Fatalf("WriteHeader failed: %v", err)
	}

	got, err := ReadHeader(&buf)

	if err != nil {
		t.Fatalf("ReadHeader failed: %v", err)
	}

	if got.Filename != h.Filename {
		t.Fatalf("Filename: got %q, want %q", got.Filename, h.Filename)
	}

	if got.OriginalFileSize != h.OriginalFileSize {
		t.Fatalf("OriginalFileSize: got %d, want %d", got.OriginalFileSize, h.OriginalFileSize)
	}

	if got.OriginalTimestamp != h.OriginalTimestamp {
		t.Fatalf("OriginalTimestamp: got %d, want %d", got.OriginalTimestamp, h.OriginalTimestamp)
	}

	if got.ChunkSizeBytes != h.ChunkSizeBytes {
		t.Fatalf("ChunkSizeBytes: got %d, want %d", got.ChunkSizeBytes, h.ChunkSizeBytes)
	}

	if got.GlobalChecksum != h.GlobalChecksum {
		t.Fatalf("GlobalChecksum mismatch")
	}

	if len(got.Chunks) != len(h.Chunks) {
		t.Fatalf("NumChunks: got %d, want %d", len(got.Chunks), len(h.Chunks))
	}

	for i := range h.Chunks {
		if got.Chunks[i] != h.Chunks[i] {
			t.Fatalf("chunk %d mismatch: got %+v, want %+v", i, got.Chunks[i], h.Chunks[i])
		}
	}
}

func TestReadHeaderEmptyChunks(t *testing.T) {
	h := &Header{Filename: "empty.bin"}

	var buf bytes.Buffer

	if err := WriteHeader(&buf, h); err != nil {
		t.Fatalf("WriteHeader failed: %v", err)
	}

	got, err := ReadHeader(&buf)

	if err != nil {
		t.Fatalf("ReadHeader failed: %v", err)
	}

	if got.NumChunks() != 0 {
		t.Fatalf("expected 0 chunks, got %d", got.NumChunks())
	}
}

func TestReadHeaderBadMagic(t *testing.T) {
	buf := bytes.NewBuffer([]byte{0, 0, 0, 0, 0, 0, 0, 1})

	_, err := ReadHeader(buf)

	if err == nil {
		t.Fatalf("expected an error for bad magic, got nil")
	}

	if !dczf.IsCode(err, dczf.ErrBadMagic) {
		t.Fatalf("expected ErrBadMagic, got %v", err)
	}
}

func TestReadHeaderUnsupportedVersion(t *testing.T) {
	var buf bytes.Buffer
	bw := &binWriter{w: &buf}
	bw.u32(Magic)
	bw.u32(99)

	if bw.err != nil {
		t.Fatalf("unexpected write error: %v", bw.err)
	}

	_, err := ReadHeader(&buf)

	if err == nil {
		t.Fatalf("expected an error for unsupported version, got nil")
	}

	if !dczf.IsCode(err, dczf.ErrUnsupportedVersion) {
		t.Fatalf("expected ErrUnsupportedVersion, got %v", err)
	}
}

func TestReadHeaderTruncatedIsCorrupt(t *testing.T) {
	h := sampleHeader()

	var buf bytes.Buffer

	if err := WriteHeader(&buf, h); err != nil {
		t.Fatalf("WriteHeader failed: %v", err)
	}

	truncated := bytes.NewReader(buf.Bytes()[:buf.Len()-10])

	_, err := ReadHeader(truncated)

	if err == nil {
		t.Fatalf("expected an error for a truncated header, got nil")
	}

	if !dczf.IsCode(err, dczf.ErrCorrupt) {
		t.Fatalf("expected ErrCorrupt, got %v", err)
	}
}
