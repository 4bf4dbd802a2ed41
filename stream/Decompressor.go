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
	"bufio"
	"crypto/subtle"
	"io"
	"os"

	dczf "github.com/hecticSubraz/dczf"
	"github.com/hecticSubraz/dczf/checksum"
	"github.com/hecticSubraz/dczf/chunkcodec"
	"github.com/hecticSubraz/dczf/container"
	"github.com/hecticSubraz/dczf/huffman"
)

// Decompressor runs the sequential decompression pipeline: the payload is
// laid out chunk-by-chunk in the file, so decoding walks it in order even
// though each chunk carries enough of its own metadata (compressed_offset,
// code table) that a random-access or parallel reader is possible too.
type Decompressor struct {
	Options Options
}

// NewDecompressor returns a Decompressor configured by opts.
func NewDecompressor(opts Options) *Decompressor {
	return &Decompressor{Options: opts}
}

// Decompress reads the container at inputPath and writes the
// reconstructed original bytes to outputPath, overwriting any prior
// contents. Any failure deletes the partially written outputPath.
func (d *Decompressor) Decompress(inputPath, outputPath string) error {
	if err := d.decompress(inputPath, outputPath); err != nil {
		os.Remove(outputPath)
		return err
	}

	return nil
}

func (d *Decompressor) decompress(inputPath, outputPath string) error {
	opts := d.Options

	inInfo, err := os.Stat(inputPath)
	if err != nil {
		return dczf.NewErrorf(dczf.ErrInvalidInput, "stream: cannot stat input %q", inputPath).WithCause(err).WithPath(inputPath)
	}

	if inInfo.Size() == 0 {
		return dczf.NewErrorf(dczf.ErrInvalidInput, "stream: input %q is empty", inputPath).WithPath(inputPath)
	}

	in, err := os.Open(inputPath)
	if err != nil {
		return dczf.NewErrorf(dczf.ErrIO, "stream: cannot open input %q", inputPath).WithCause(err).WithPath(inputPath)
	}
	defer in.Close()

	br := bufio.NewReader(in)

	header, err := container.ReadHeader(br)
	if err != nil {
		return err
	}

	if header.NumChunks() == 0 {
		if header.OriginalFileSize != 0 {
			return dczf.NewError(dczf.ErrCorrupt, "stream: header declares zero chunks but a non-zero original size")
		}

		return os.WriteFile(outputPath, nil, 0o644)
	}

	out, err := os.Create(outputPath)
	if err != nil {
		return dczf.NewErrorf(dczf.ErrIO, "stream: cannot create output %q", outputPath).WithCause(err).WithPath(outputPath)
	}
	defer out.Close()

	opts.notify(dczf.NewEvent(dczf.EvtDecompressionStart, -1, header.NumChunks()))

	var totalOriginal uint64
	global := checksum.NewDigest()

	for i, meta := range header.Chunks {
		if opts.cancelled() {
			return dczf.NewError(dczf.ErrCancelled, "stream: decompression cancelled")
		}

		encoded := make([]byte, meta.CompressedSize)

		if _, err := io.ReadFull(br, encoded); err != nil {
			return dczf.NewErrorf(dczf.ErrCorrupt, "stream: truncated payload at chunk %d", meta.ChunkIndex).WithCause(err).WithChunk(int(meta.ChunkIndex))
		}

		dec := huffman.NewDecoder(meta.CodeLengths)

		decoded, err := chunkcodec.Decode(encoded, int(meta.OriginalSize), dec)
		if err != nil {
			return dczf.NewErrorf(dczf.ErrCorrupt, "stream: failed decoding chunk %d", meta.ChunkIndex).WithCause(err).WithChunk(int(meta.ChunkIndex))
		}

		got := checksum.Sum(decoded)

		if subtle.ConstantTimeCompare(got[:], meta.Checksum[:]) != 1 {
			return dczf.NewErrorf(dczf.ErrChecksumMismatch, "stream: checksum mismatch at chunk %d", meta.ChunkIndex).WithChunk(int(meta.ChunkIndex))
		}

		global.Update(got[:])

		if _, err := out.Write(decoded); err != nil {
			return dczf.NewErrorf(dczf.ErrIO, "stream: failed writing chunk %d to output", meta.ChunkIndex).WithCause(err).WithChunk(int(meta.ChunkIndex))
		}

		totalOriginal += uint64(meta.OriginalSize)

		if (i+1)%syncEveryChunks == 0 {
			if err := out.Sync(); err != nil {
				return dczf.NewError(dczf.ErrIO, "stream: failed to fsync output metadata").WithCause(err)
			}
		}

		opts.report(i+1, header.NumChunks())
	}

	if err := out.Sync(); err != nil {
		return dczf.NewError(dczf.ErrIO, "stream: failed to fsync output file").WithCause(err)
	}

	if totalOriginal != header.OriginalFileSize {
		return dczf.NewErrorf(dczf.ErrSizeMismatch, "stream: decoded %d bytes, header declares %d", totalOriginal, header.OriginalFileSize)
	}

	gotGlobal := global.Finalize()

	if subtle.ConstantTimeCompare(gotGlobal[:], header.GlobalChecksum[:]) != 1 {
		return dczf.NewError(dczf.ErrChecksumMismatch, "stream: global checksum does not match digest of per-chunk checksums").WithChunk(-1)
	}

	outInfo, err := out.Stat()
	if err != nil {
		return dczf.NewError(dczf.ErrIO, "stream: failed to stat output file").WithCause(err)
	}

	if uint64(outInfo.Size()) != header.OriginalFileSize {
		return dczf.NewErrorf(dczf.ErrSizeMismatch, "stream: output file size %d does not match header's %d", outInfo.Size(), header.OriginalFileSize)
	}

	opts.notify(dczf.NewEvent(dczf.EvtDecompressionEnd, -1, header.NumChunks()))
	return nil
}
