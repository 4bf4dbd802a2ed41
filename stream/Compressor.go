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
	"errors"
	"io"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	dczf "github.com/hecticSubraz/dczf"
	"github.com/hecticSubraz/dczf/checksum"
	"github.com/hecticSubraz/dczf/chunkcodec"
	"github.com/hecticSubraz/dczf/container"
	"github.com/hecticSubraz/dczf/histogram"
	"github.com/hecticSubraz/dczf/huffman"
	"github.com/hecticSubraz/dczf/internal"
	"github.com/hecticSubraz/dczf/log"
)

// Compressor runs the two-phase compression pipeline: encoded chunks are
// spooled to a sibling temporary file first, and the final header (whose
// compressed_offset and global_checksum fields depend on every chunk
// having been encoded already) is only ever written once, directly ahead
// of the finished payload.
type Compressor struct {
	Options Options
}

// NewCompressor returns a Compressor configured by opts.
func NewCompressor(opts Options) *Compressor {
	return &Compressor{Options: opts}
}

// encodedChunk is one chunk's encode result, computed either inline in
// the sequential loop or by a worker goroutine in the parallel path.
type encodedChunk struct {
	meta     container.ChunkMetadata
	payload  []byte
	checksum [32]byte
}

// Compress reads inputPath, compresses it chunk by chunk, and writes the
// finished container to outputPath, overwriting any prior contents.
func (c *Compressor) Compress(inputPath, outputPath string) error {
	opts := c.Options
	chunkSize := opts.chunkSize()

	info, err := internal.Stat(inputPath)
	if err != nil {
		return dczf.NewErrorf(dczf.ErrInvalidInput, "stream: cannot stat input %q", inputPath).WithCause(err).WithPath(inputPath)
	}

	n := uint64(info.Size)
	numChunks := (n + uint64(chunkSize) - 1) / uint64(chunkSize)

	if n == 0 {
		numChunks = 0
	}

	if numChunks > container.MaxChunks {
		return dczf.NewErrorf(dczf.ErrTooManyChunks, "stream: input requires %d chunks, exceeding the maximum", numChunks)
	}

	in, err := os.Open(inputPath)
	if err != nil {
		return dczf.NewErrorf(dczf.ErrIO, "stream: cannot open input %q", inputPath).WithCause(err).WithPath(inputPath)
	}
	defer in.Close()

	tempPath := internal.TempSiblingPath(outputPath, time.Now())

	if err := c.spoolAndWriteOutput(in, info, numChunks, chunkSize, outputPath, tempPath); err != nil {
		os.Remove(outputPath)
		os.Remove(tempPath)
		return err
	}

	return nil
}

func (c *Compressor) spoolAndWriteOutput(in *os.File, info *internal.FileData, numChunks uint64, chunkSize uint32, outputPath, tempPath string) error {
	opts := c.Options
	n := uint64(info.Size)

	temp, err := os.Create(tempPath)
	if err != nil {
		return dczf.NewErrorf(dczf.ErrIO, "stream: cannot create spool file %q", tempPath).WithCause(err).WithPath(tempPath)
	}
	defer temp.Close()

	bw := bufio.NewWriterSize(temp, userBufferSize)
	global := checksum.NewDigest()
	chunks := make([]container.ChunkMetadata, 0, numChunks)
	compressedOffset := uint64(0)

	opts.notify(dczf.NewEvent(dczf.EvtCompressionStart, -1, int(numChunks)))

	// streamEncodeChunks hands back chunks one at a time, in order, as
	// soon as each is ready: at most Options.Jobs chunks are ever encoded
	// and held in memory at once (one, for the default sequential case),
	// never the whole file's worth. The loop below writes each chunk to
	// the spool immediately instead of waiting for every chunk to finish
	// encoding first.
	outcomes := c.streamEncodeChunks(in, n, numChunks, chunkSize)

	var i uint64

	for oc := range outcomes {
		log.Println("", opts.Verbosity > 3)

		if oc.err != nil {
			go drainOutcomes(outcomes)
			return oc.err
		}

		if opts.cancelled() {
			go drainOutcomes(outcomes)
			return dczf.NewError(dczf.ErrCancelled, "stream: compression cancelled")
		}

		r := oc.chunk

		if _, err := bw.Write(r.payload); err != nil {
			go drainOutcomes(outcomes)
			return dczf.NewErrorf(dczf.ErrIO, "stream: failed writing chunk %d to spool file", i).WithCause(err)
		}

		global.Update(r.checksum[:])
		r.meta.CompressedOffset = compressedOffset
		compressedOffset += uint64(len(r.payload))
		chunks = append(chunks, r.meta)

		if (i+1)%flushEveryChunks == 0 {
			if err := bw.Flush(); err != nil {
				go drainOutcomes(outcomes)
				return dczf.NewError(dczf.ErrIO, "stream: failed flushing spool buffer").WithCause(err)
			}
		}

		opts.report(int(i+1), int(numChunks))
		i++
	}

	if err := bw.Flush(); err != nil {
		return dczf.NewError(dczf.ErrIO, "stream: failed flushing spool buffer").WithCause(err)
	}

	tempInfo, err := temp.Stat()
	if err != nil {
		return dczf.NewError(dczf.ErrIO, "stream: failed to stat spool file").WithCause(err)
	}

	var wantSpoolSize uint64
	for _, ch := range chunks {
		wantSpoolSize += uint64(ch.CompressedSize)
	}

	if uint64(tempInfo.Size()) != wantSpoolSize {
		return dczf.NewErrorf(dczf.ErrCorrupt, "stream: spool file size %d does not match expected %d", tempInfo.Size(), wantSpoolSize)
	}

	if numChunks > 0 && tempInfo.Size() == 0 {
		return dczf.NewError(dczf.ErrCorrupt, "stream: spool file is unexpectedly empty")
	}

	globalChecksum := global.Finalize()

	if _, err := temp.Seek(0, io.SeekStart); err != nil {
		return dczf.NewError(dczf.ErrIO, "stream: failed to rewind spool file").WithCause(err)
	}

	header := &container.Header{
		Filename:          info.Name,
		OriginalFileSize:  n,
		OriginalTimestamp: info.ModTimeMillis(),
		ChunkSizeBytes:    chunkSize,
		GlobalChecksum:    globalChecksum,
		Chunks:            chunks,
	}

	out, err := os.Create(outputPath)
	if err != nil {
		return dczf.NewErrorf(dczf.ErrIO, "stream: cannot create output %q", outputPath).WithCause(err).WithPath(outputPath)
	}
	defer out.Close()

	if err := container.WriteHeader(out, header); err != nil {
		return err
	}

	if _, err := io.CopyBuffer(out, temp, make([]byte, copyBufferSize)); err != nil {
		return dczf.NewError(dczf.ErrIO, "stream: failed copying spool file into output").WithCause(err)
	}

	if err := out.Sync(); err != nil {
		return dczf.NewError(dczf.ErrIO, "stream: failed to fsync output file").WithCause(err)
	}

	outInfo, err := out.Stat()
	if err != nil {
		return dczf.NewError(dczf.ErrIO, "stream: failed to stat output file").WithCause(err)
	}

	if n > 0 && outInfo.Size() == 0 {
		return dczf.NewError(dczf.ErrCorrupt, "stream: output file is unexpectedly empty")
	}

	os.Remove(tempPath)
	opts.notify(dczf.NewEvent(dczf.EvtCompressionEnd, -1, int(numChunks)))
	return nil
}

// chunkOutcome is one chunk's encode result delivered over the channel
// streamEncodeChunks returns, in strict chunk-index order.
type chunkOutcome struct {
	chunk encodedChunk
	err   error
}

// workerResult is a single worker's raw, possibly out-of-order, outcome.
type workerResult struct {
	idx   uint64
	chunk encodedChunk
	err   error
}

// drainOutcomes reads outcomes to completion and discards them. It is run
// in the background whenever the caller of streamEncodeChunks stops
// consuming early (error, cancellation, or a write failure downstream) so
// the encoding goroutines it started are never left blocked forever trying
// to send a result nobody will read.
func drainOutcomes(outcomes <-chan chunkOutcome) {
	for range outcomes {
	}
}

// streamEncodeChunks encodes every chunk and delivers each one, in order,
// on the returned channel as soon as it is ready. At most Options.Jobs
// chunks are ever being encoded (and briefly held for reordering) at once,
// so peak memory stays proportional to chunk size and worker count rather
// than to the number of chunks in the file. The channel is closed after the
// last chunk or the first error.
func (c *Compressor) streamEncodeChunks(in *os.File, n, numChunks uint64, chunkSize uint32) <-chan chunkOutcome {
	out := make(chan chunkOutcome)
	jobs := c.Options.jobs()

	if jobs <= 1 {
		go func() {
			defer close(out)

			for i := uint64(0); i < numChunks; i++ {
				r, err := encodeOneChunk(in, i, n, chunkSize)
				out <- chunkOutcome{chunk: r, err: err}

				if err != nil {
					return
				}
			}
		}()

		return out
	}

	go func() {
		defer close(out)

		results := make(chan workerResult, jobs)
		// slots holds one token per chunk dispatched but not yet forwarded,
		// so encoding never runs more than jobs chunks ahead of the merge.
		slots := make(chan struct{}, jobs)

		go func() {
			g := new(errgroup.Group)
			g.SetLimit(jobs)

			for i := uint64(0); i < numChunks; i++ {
				i := i
				slots <- struct{}{}
				g.Go(func() error {
					r, err := encodeOneChunk(in, i, n, chunkSize)
					results <- workerResult{idx: i, chunk: r, err: err}
					return nil
				})
			}

			g.Wait()
			close(results)
		}()

		pending := make(map[uint64]workerResult, jobs)
		var next uint64
		var failed bool

		for wr := range results {
			pending[wr.idx] = wr

			for {
				ready, ok := pending[next]
				if !ok {
					break
				}

				delete(pending, next)
				next++
				<-slots

				if failed {
					continue
				}

				out <- chunkOutcome{chunk: ready.chunk, err: ready.err}

				if ready.err != nil {
					failed = true
				}
			}
		}
	}()

	return out
}

func encodeOneChunk(in *os.File, chunkIndex, n uint64, chunkSize uint32) (encodedChunk, error) {
	originalOffset := chunkIndex * uint64(chunkSize)
	remaining := n - originalOffset
	k := uint64(chunkSize)

	if remaining < k {
		k = remaining
	}

	buf := make([]byte, k)

	if k > 0 {
		read, err := in.ReadAt(buf, int64(originalOffset))

		if read < int(k) || (err != nil && !errors.Is(err, io.EOF)) {
			return encodedChunk{}, dczf.NewErrorf(dczf.ErrIO, "stream: short read for chunk %d", chunkIndex).WithCause(err).WithChunk(int(chunkIndex))
		}
	} else if n > 0 {
		return encodedChunk{}, dczf.NewErrorf(dczf.ErrIO, "stream: zero-length read for non-empty input at chunk %d", chunkIndex).WithChunk(int(chunkIndex))
	}

	chunkSum := checksum.Sum(buf)

	freqs := histogram.Compute(buf)
	lengths, err := huffman.BuildLengths(freqs)

	if err != nil {
		return encodedChunk{}, dczf.NewErrorf(dczf.ErrCorrupt, "stream: failed building code lengths for chunk %d", chunkIndex).WithCause(err).WithChunk(int(chunkIndex))
	}

	enc := huffman.NewEncoder(lengths)
	payload := chunkcodec.Encode(buf, enc)

	meta := container.ChunkMetadata{
		ChunkIndex:     uint32(chunkIndex),
		OriginalOffset: originalOffset,
		OriginalSize:   uint32(k),
		CompressedSize: uint32(len(payload)),
		Checksum:       chunkSum,
		CodeLengths:    lengths,
	}

	return encodedChunk{meta: meta, payload: payload, checksum: chunkSum}, nil
}
