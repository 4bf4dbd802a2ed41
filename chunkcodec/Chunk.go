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

// Package chunkcodec encodes and decodes a single chunk's bytes against a
// canonical Huffman code built from that same chunk's histogram. It sits
// directly on top of bitstream and huffman and knows nothing about the
// container format around it.
package chunkcodec

import (
	dczf "github.com/hecticSubraz/dczf"
	"github.com/hecticSubraz/dczf/bitstream"
	"github.com/hecticSubraz/dczf/huffman"
)

// Encode writes every byte of data as a canonical Huffman codeword using
// enc, and returns the packed bytes. enc must have been built from a
// code-length table that assigns a non-zero length to every byte value
// present in data — the caller builds it from this exact chunk's
// histogram, so an absent code here is a programmer error, not a
// reportable runtime failure.
func Encode(data []byte, enc *huffman.Encoder) []byte {
	w := bitstream.NewWriter(len(data))

	for _, b := range data {
		enc.Encode(w, b)
	}

	w.Close()
	return w.Bytes()
}

// Decode reads exactly originalSize symbols from encoded using dec. It
// returns a Corrupt error if the bitstream does not yield a valid
// codeword within huffman.MaxCodeLength bits for any symbol, which can
// only happen with a truncated or tampered chunk (the reader itself never
// errors: it zero-pads past the end of encoded).
func Decode(encoded []byte, originalSize int, dec *huffman.Decoder) ([]byte, error) {
	out := make([]byte, originalSize)
	r := bitstream.NewReader(encoded)

	for i := 0; i < originalSize; i++ {
		b, err := dec.Decode(r)

		if err != nil {
			return nil, dczf.NewErrorf(dczf.ErrCorrupt, "chunkcodec: decode failed at symbol %d of %d", i, originalSize).WithCause(err)
		}

		out[i] = b
	}

	return out, nil
}
