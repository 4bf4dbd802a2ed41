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

// Package container reads and writes the self-describing binary header and
// per-chunk metadata records that wrap a stream's compressed payload. All
// multi-byte scalars are big-endian, mirroring the teacher's own
// bitstream header convention.
package container

import (
	"encoding/binary"
	"io"

	dczf "github.com/hecticSubraz/dczf"
)

// Magic identifies a container file. It spells "DCZF" when read as four
// big-endian ASCII bytes.
const Magic uint32 = 0x44435A46

// Version is the only header version this package understands.
const Version uint32 = 1

// MaxChunks is the largest num_chunks value a header may declare.
const MaxChunks = (1 << 31) - 1

// ChunkMetadata describes one chunk's placement in the original file and
// in the compressed payload, plus the canonical code table needed to
// decode it.
type ChunkMetadata struct {
	ChunkIndex       uint32
	OriginalOffset   uint64
	OriginalSize     uint32
	CompressedOffset uint64
	CompressedSize   uint32
	Checksum         [32]byte
	CodeLengths      [256]uint16
}

// Header is the full self-describing prefix of a container file.
type Header struct {
	Filename          string
	OriginalFileSize  uint64
	OriginalTimestamp uint64 // milliseconds since the Unix epoch
	ChunkSizeBytes    uint32
	GlobalChecksum    [32]byte
	Chunks            []ChunkMetadata
}

// NumChunks returns the number of chunk metadata records in the header.
func (h *Header) NumChunks() int {
	return len(h.Chunks)
}

// WriteHeader serializes h to w using the fixed big-endian layout
// documented in the container format's external interface: magic,
// version, a u16-length-prefixed filename, the fixed-size scalar fields,
// and then num_chunks metadata records in chunk-index order.
func WriteHeader(w io.Writer, h *Header) error {
	if len(h.Chunks) > MaxChunks {
		return dczf.NewErrorf(dczf.ErrTooManyChunks, "container: %d chunks exceeds the maximum of %d", len(h.Chunks), MaxChunks)
	}

	if len(h.Filename) > 1<<16-1 {
		return dczf.NewErrorf(dczf.ErrInvalidInput, "container: filename %q is too long to encode", h.Filename)
	}

	bw := &binWriter{w: w}

	bw.u32(Magic)
	bw.u32(Version)
	bw.u16(uint16(len(h.Filename)))
	bw.bytes([]byte(h.Filename))
	bw.u64(h.OriginalFileSize)
	bw.u64(h.OriginalTimestamp)
	bw.u32(h.ChunkSizeBytes)
	bw.bytes(h.GlobalChecksum[:])
	bw.u32(uint32(len(h.Chunks)))

	for i := range h.Chunks {
		c := &h.Chunks[i]
		bw.u32(c.ChunkIndex)
		bw.u64(c.OriginalOffset)
		bw.u32(c.OriginalSize)
		bw.u64(c.CompressedOffset)
		bw.u32(c.CompressedSize)
		bw.bytes(c.Checksum[:])

		for _, l := range c.CodeLengths {
			bw.u16(l)
		}
	}

	return bw.err
}

// ReadHeader parses a Header from r. It validates the magic and version
// fields and the declared chunk count, but leaves cross-checking
// num_chunks against the remaining file length to the caller, which knows
// the file's total size.
func ReadHeader(r io.Reader) (*Header, error) {
	br := &binReader{r: r}

	magic := br.u32()
	if br.err != nil {
		return nil, wrapReadErr(br.err, "magic")
	}

	if magic != Magic {
		return nil, dczf.NewErrorf(dczf.ErrBadMagic, "container: bad magic %#x", magic)
	}

	version := br.u32()
	if br.err != nil {
		return nil, wrapReadErr(br.err, "version")
	}

	if version != Version {
		return nil, dczf.NewErrorf(dczf.ErrUnsupportedVersion, "container: unsupported version %d", version)
	}

	h := &Header{}

	filenameLen := br.u16()
	h.Filename = string(br.fixedBytes(int(filenameLen)))
	h.OriginalFileSize = br.u64()
	h.OriginalTimestamp = br.u64()
	h.ChunkSizeBytes = br.u32()
	copy(h.GlobalChecksum[:], br.fixedBytes(32))
	numChunks := br.u32()

	if br.err != nil {
		return nil, wrapReadErr(br.err, "header")
	}

	if numChunks > MaxChunks {
		return nil, dczf.NewErrorf(dczf.ErrTooManyChunks, "container: declared %d chunks exceeds the maximum of %d", numChunks, MaxChunks)
	}

	h.Chunks = make([]ChunkMetadata, numChunks)

	for i := range h.Chunks {
		c := &h.Chunks[i]
		c.ChunkIndex = br.u32()
		c.OriginalOffset = br.u64()
		c.OriginalSize = br.u32()
		c.CompressedOffset = br.u64()
		c.CompressedSize = br.u32()
		copy(c.Checksum[:], br.fixedBytes(32))

		for j := range c.CodeLengths {
			c.CodeLengths[j] = br.u16()
		}

		if br.err != nil {
			return nil, wrapReadErr(br.err, "chunk metadata")
		}
	}

	return h, nil
}

func wrapReadErr(err error, where string) error {
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return dczf.NewErrorf(dczf.ErrCorrupt, "container: truncated header (%s)", where).WithCause(err)
	}

	return dczf.NewErrorf(dczf.ErrIO, "container: failed to read %s", where).WithCause(err)
}

// binWriter accumulates the first error from a sequence of writes so
// callers can issue a flat list of field writes without checking an error
// after every one, matching the teacher's own terse header-writing style.
type binWriter struct {
	w   io.Writer
	err error
}

func (bw *binWriter) bytes(p []byte) {
	if bw.err != nil {
		return
	}

	_, bw.err = bw.w.Write(p)
}

func (bw *binWriter) u16(v uint16) {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	bw.bytes(b[:])
}

func (bw *binWriter) u32(v uint32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	bw.bytes(b[:])
}

func (bw *binWriter) u64(v uint64) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	bw.bytes(b[:])
}

type binReader struct {
	r   io.Reader
	err error
}

func (br *binReader) fixedBytes(n int) []byte {
	if br.err != nil {
		return make([]byte, n)
	}

	buf := make([]byte, n)
	_, err := io.ReadFull(br.r, buf)

	if err != nil {
		br.err = err
	}

	return buf
}

func (br *binReader) u16() uint16 {
	return binary.BigEndian.Uint16(br.fixedBytes(2))
}

func (br *binReader) u32() uint32 {
	return binary.BigEndian.Uint32(br.fixedBytes(4))
}

func (br *binReader) u64() uint64 {
	return binary.BigEndian.Uint64(br.fixedBytes(8))
}
