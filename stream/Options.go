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

// Package stream implements the compressor, decompressor and verifier
// pipelines on top of container, chunkcodec and huffman. It threads a
// small options struct through each call the way the teacher threads a
// ctx map[string]any through its file tasks, but as a typed struct since
// this codec has a fixed, known set of knobs.
package stream

import dczf "github.com/hecticSubraz/dczf"

// DefaultChunkSizeBytes matches the reference CLI's default of 512 MiB
// per chunk when the caller does not specify one.
const DefaultChunkSizeBytes = 512 * 1024 * 1024

// userBufferSize is the fixed user-space write buffer size used while
// spooling encoded chunks during compression.
const userBufferSize = 1 << 20

// copyBufferSize is the buffer size used when stream-copying the spool
// file's contents into the final, header-prefixed output file.
const copyBufferSize = 64 * 1024

// flushEveryChunks controls how often the compressor flushes its
// user-space write buffer to the OS during the main chunk loop.
const flushEveryChunks = 10

// syncEveryChunks controls how often the decompressor fsyncs output file
// metadata for very large outputs.
const syncEveryChunks = 64

// Options configures a Compressor, Decompressor or the Verify call.
type Options struct {
	// ChunkSizeBytes is the size of each chunk read from the original
	// file during compression. Zero selects DefaultChunkSizeBytes.
	// Ignored by Decompress and Verify, which read the chunk size back
	// out of the container header.
	ChunkSizeBytes uint32

	// Jobs bounds the number of chunks encoded concurrently during
	// compression. Zero or one means strictly sequential encoding: the
	// baseline scheduling model in the concurrency design. Values above
	// one opt into the deterministic parallel-encode extension; output
	// bytes are identical regardless of this value.
	Jobs int

	// Verbosity gates the diagnostic messages the stream package itself
	// emits; the app package additionally uses it to gate CLI-level
	// messages around each call.
	Verbosity int

	// Progress, if non-nil, is invoked after each chunk completes with
	// the fraction of chunks processed so far.
	Progress dczf.ProgressFunc

	// Listeners receive structured start/end events for a whole
	// compression or decompression and an end event for each chunk,
	// mirroring the teacher's own listener-list convention. No per-chunk
	// start event is emitted.
	Listeners []dczf.Listener

	// Cancel, if non-nil, is polled between chunks. When it is closed,
	// the in-progress operation aborts, cleans up any partial output,
	// and returns a Cancelled error.
	Cancel <-chan struct{}

	// FastScan enables an additional xxhash64 pass over each chunk's
	// compressed bytes during Verify, exercising a full read of the
	// payload beyond the structural bounds check. It is not required by
	// the format (there is no stored xxhash to compare against) but
	// catches I/O-layer corruption a pure seek-and-skip scan would miss.
	FastScan bool
}

func (o Options) chunkSize() uint32 {
	if o.ChunkSizeBytes == 0 {
		return DefaultChunkSizeBytes
	}

	return o.ChunkSizeBytes
}

func (o Options) jobs() int {
	if o.Jobs < 1 {
		return 1
	}

	return o.Jobs
}

func (o Options) cancelled() bool {
	if o.Cancel == nil {
		return false
	}

	select {
	case <-o.Cancel:
		return true
	default:
		return false
	}
}

func (o Options) report(done, total int) {
	if total <= 0 {
		return
	}

	if o.Progress != nil {
		o.Progress(float64(done) / float64(total))
	}

	if len(o.Listeners) > 0 {
		evt := dczf.NewEvent(dczf.EvtChunkEnd, done-1, total)
		o.notify(evt)
	}
}

func (o Options) notify(evt *dczf.Event) {
	for _, l := range o.Listeners {
		if l != nil {
			l.ProcessEvent(evt)
		}
	}
}
