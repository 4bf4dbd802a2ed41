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

package stream

import (
	"crypto/subtle"
	"fmt"
	"io"
	"os"

	"github.com/cespare/xxhash/v2"

	dczf "github.com/hecticSubraz/dczf"
	"github.com/hecticSubraz/dczf/checksum"
	"github.com/hecticSubraz/dczf/container"
	"github.com/hecticSubraz/dczf/log"
)

// Verifier checks a container's structural integrity without performing a
// full Huffman decode: it parses the header, then walks the payload
// chunk-by-chunk confirming every invariant in the data model holds and
// that the declared byte ranges actually exist in the file.
type Verifier struct {
	Options Options
}

// NewVerifier returns a Verifier configured by opts. Verify consults
// Options.FastScan, Options.Verbosity and Options.Cancel; Progress and
// Listeners, if set, are notified once per chunk checked.
// ChunkSizeBytes and Jobs are ignored.
func NewVerifier(opts Options) *Verifier {
	return &Verifier{Options: opts}
}

// Verify parses the container at path and checks every structural
// invariant from the data model: contiguous, monotonic chunk indices and
// offsets, totals that add up to the declared file and payload sizes, the
// header's global_checksum against a digest of the per-chunk checksum
// fields already sitting in the metadata, and (with Options.FastScan) a
// full read of each chunk's compressed bytes through a running xxhash64 so
// I/O-layer corruption that a pure seek-and-skip scan would miss is still
// caught. It never performs the Huffman decode, so it cannot detect a
// chunk whose compressed bytes decode to content not matching its own
// per-chunk checksum; only Decompress does that.
func (v *Verifier) Verify(path string) error {
	opts := v.Options

	info, err := os.Stat(path)
	if err != nil {
		return dczf.NewErrorf(dczf.ErrInvalidInput, "stream: cannot stat %q", path).WithCause(err).WithPath(path)
	}

	if info.Size() == 0 {
		return dczf.NewErrorf(dczf.ErrInvalidInput, "stream: %q is empty", path).WithPath(path)
	}

	f, err := os.Open(path)
	if err != nil {
		return dczf.NewErrorf(dczf.ErrIO, "stream: cannot open %q", path).WithCause(err).WithPath(path)
	}
	defer f.Close()

	header, err := container.ReadHeader(f)
	if err != nil {
		return err
	}

	numChunks := header.NumChunks()

	if numChunks == 0 {
		if header.OriginalFileSize != 0 {
			return dczf.NewError(dczf.ErrCorrupt, "stream: header declares zero chunks but a non-zero original size")
		}

		return nil
	}

	headerEnd, err := f.Seek(0, io.SeekCurrent)
	if err != nil {
		return dczf.NewError(dczf.ErrIO, "stream: failed to locate payload start").WithCause(err)
	}

	var (
		totalOriginal  uint64
		wantOffset     uint64
		digest         = xxhash.New()
		global         = checksum.NewDigest()
		scanBuf        = make([]byte, 0)
		nextChunkIndex uint32
		nextOrigOffset uint64
		payloadSize    uint64
	)

	for i, meta := range header.Chunks {
		if opts.cancelled() {
			return dczf.NewError(dczf.ErrCancelled, "stream: verify cancelled")
		}

		if meta.ChunkIndex != nextChunkIndex {
			return dczf.NewErrorf(dczf.ErrCorrupt, "stream: chunk index %d out of order, expected %d", meta.ChunkIndex, nextChunkIndex).WithChunk(i)
		}

		if meta.OriginalOffset != nextOrigOffset {
			return dczf.NewErrorf(dczf.ErrCorrupt, "stream: chunk %d original offset %d, expected %d", meta.ChunkIndex, meta.OriginalOffset, nextOrigOffset).WithChunk(i)
		}

		if meta.CompressedOffset != wantOffset {
			return dczf.NewErrorf(dczf.ErrCorrupt, "stream: chunk %d compressed offset %d, expected %d", meta.ChunkIndex, meta.CompressedOffset, wantOffset).WithChunk(i)
		}

		if i < numChunks-1 && meta.OriginalSize != header.ChunkSizeBytes {
			return dczf.NewErrorf(dczf.ErrCorrupt, "stream: chunk %d has short size %d before the final chunk", meta.ChunkIndex, meta.OriginalSize).WithChunk(i)
		}

		if !kraftHolds(meta.CodeLengths) {
			return dczf.NewErrorf(dczf.ErrCorrupt, "stream: chunk %d code lengths violate the Kraft inequality", meta.ChunkIndex).WithChunk(i)
		}

		global.Update(meta.Checksum[:])

		if opts.FastScan {
			if cap(scanBuf) < int(meta.CompressedSize) {
				scanBuf = make([]byte, meta.CompressedSize)
			}

			scanBuf = scanBuf[:meta.CompressedSize]

			if _, err := io.ReadFull(f, scanBuf); err != nil {
				return dczf.NewErrorf(dczf.ErrCorrupt, "stream: truncated payload at chunk %d", meta.ChunkIndex).WithCause(err).WithChunk(i)
			}

			digest.Write(scanBuf)
		} else if _, err := f.Seek(int64(meta.CompressedSize), io.SeekCurrent); err != nil {
			return dczf.NewErrorf(dczf.ErrCorrupt, "stream: truncated payload at chunk %d", meta.ChunkIndex).WithCause(err).WithChunk(i)
		}

		totalOriginal += uint64(meta.OriginalSize)
		wantOffset += uint64(meta.CompressedSize)
		payloadSize += uint64(meta.CompressedSize)
		nextChunkIndex++
		nextOrigOffset += uint64(meta.OriginalSize)

		opts.report(i+1, numChunks)
	}

	if totalOriginal != header.OriginalFileSize {
		return dczf.NewErrorf(dczf.ErrSizeMismatch, "stream: chunk sizes total %d, header declares %d", totalOriginal, header.OriginalFileSize)
	}

	wantFileSize := headerEnd + int64(payloadSize)

	if wantFileSize != info.Size() {
		return dczf.NewErrorf(dczf.ErrSizeMismatch, "stream: file size %d does not match header-implied size %d", info.Size(), wantFileSize)
	}

	gotGlobal := global.Finalize()

	if subtle.ConstantTimeCompare(gotGlobal[:], header.GlobalChecksum[:]) != 1 {
		return dczf.NewError(dczf.ErrChecksumMismatch, "stream: global checksum does not match digest of per-chunk checksums").WithChunk(-1)
	}

	if opts.FastScan {
		log.Println(fmt.Sprintf("stream: payload xxhash64 = %#016x", digest.Sum64()), opts.Verbosity > 2)
	}

	return nil
}

// kraftHolds reports whether lens satisfies the Kraft inequality:
// sum(2^-len) <= 1, with exactly the reading spec.md §3 describes —
// all-zero lengths (an empty chunk) trivially satisfy it.
func kraftHolds(lens [256]uint16) bool {
	// Accumulate in a fixed-point representation scaled by 2^32 (the
	// largest length the format allows) to avoid floating point: each
	// symbol of length L contributes 2^(32-L) to a sum that must not
	// exceed 2^32.
	const scale = uint64(1) << 32

	var sum uint64
	nonZero := 0

	for _, l := range lens {
		if l == 0 {
			continue
		}

		nonZero++

		if l > 32 {
			return false
		}

		sum += scale >> l

		if sum > scale {
			return false
		}
	}

	if nonZero == 0 {
		return true
	}

	return sum <= scale
}
