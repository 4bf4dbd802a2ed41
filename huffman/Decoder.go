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
	"sort"

	dczf "github.com/hecticSubraz/dczf"
	"github.com/hecticSubraz/dczf/bitstream"
)

// Decoder recovers symbols from a canonical Huffman bitstream without a
// flat lookup table, so it stays cheap even when a pathological chunk has
// forced code lengths out near MaxCodeLength. It uses the standard
// canonical range decode: for each bit length l, codes of that length
// occupy a contiguous range starting at firstCode[l], so reading one bit
// at a time and checking against that range finds the symbol in at most
// MaxCodeLength steps.
type Decoder struct {
	firstCode [MaxCodeLength + 1]uint32
	baseIndex [MaxCodeLength + 1]int
	count     [MaxCodeLength + 1]int
	symbols   []uint8
}

// NewDecoder builds a Decoder from a code-length table, typically read
// back from a chunk's container metadata record.
func NewDecoder(sizes [256]uint16) *Decoder {
	d := &Decoder{}

	type entry struct {
		symbol int
		length uint16
	}

	entries := make([]entry, 0, 256)

	for s, l := range sizes {
		if l > 0 {
			entries = append(entries, entry{s, l})
		}
	}

	if len(entries) == 0 {
		return d
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].length != entries[j].length {
			return entries[i].length < entries[j].length
		}

		return entries[i].symbol < entries[j].symbol
	})

	d.symbols = make([]uint8, len(entries))

	for i, e := range entries {
		d.symbols[i] = uint8(e.symbol)
		d.count[e.length]++
	}

	base := 0

	for l := 1; l <= MaxCodeLength; l++ {
		d.baseIndex[l] = base
		base += d.count[l]
	}

	code := uint32(0)

	for l := 1; l <= MaxCodeLength; l++ {
		d.firstCode[l] = code
		code = (code + uint32(d.count[l])) << 1
	}

	return d
}

// Decode reads one symbol from r. It only fails when the bitstream does
// not match any codeword this Decoder knows, which indicates a corrupt or
// truncated chunk (r itself never errors: it zero-pads past its end).
func (d *Decoder) Decode(r *bitstream.Reader) (byte, error) {
	if len(d.symbols) == 0 {
		return 0, dczf.NewError(dczf.ErrCorrupt, "huffman: decode attempted against an empty alphabet")
	}

	code := uint32(0)

	for l := 1; l <= MaxCodeLength; l++ {
		code = (code << 1) | uint32(r.ReadBit())

		rel := code - d.firstCode[l]

		if rel < uint32(d.count[l]) {
			return d.symbols[d.baseIndex[l]+int(rel)], nil
		}
	}

	return 0, dczf.NewError(dczf.ErrCorrupt, "huffman: no codeword matched within the maximum code length")
}
