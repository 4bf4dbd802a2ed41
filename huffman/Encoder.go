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

package huffman

import (
	"github.com/hecticSubraz/dczf/bitstream"
)

// Encoder emits symbols as canonical Huffman codewords against a fixed
// code-length table, built once per chunk.
type Encoder struct {
	codes [256]uint32
	sizes [256]uint16
}

// NewEncoder builds an Encoder from a code-length table previously produced
// by BuildLengths (or read back from a container's code_lengths record).
func NewEncoder(sizes [256]uint16) *Encoder {
	return &Encoder{codes: AssignCodes(sizes), sizes: sizes}
}

// Encode writes the codeword for symbol to w. BuildLengths guarantees every
// byte value observed in a chunk's histogram gets a non-zero length, so a
// symbol with no assigned code here means the caller is encoding against
// the wrong table (e.g. an Encoder reused across chunks); that is a
// programmer error, not a recoverable one, and is treated as fatal rather
// than silently dropped, which would otherwise emit a truncated codeword
// stream with no sign anything went wrong.
func (e *Encoder) Encode(w *bitstream.Writer, symbol byte) {
	length := e.sizes[symbol]

	if length == 0 {
		panic("huffman: encode of symbol with no assigned code")
	}

	w.WriteBits(e.codes[symbol], uint8(length))
}

// Lengths returns the code-length table this Encoder was built from, for
// embedding in a chunk's container metadata record.
func (e *Encoder) Lengths() [256]uint16 {
	return e.sizes
}
