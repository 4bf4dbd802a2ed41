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

// Package huffman builds order-0 canonical Huffman code tables from a
// byte-frequency histogram, and assigns and decodes canonical codewords
// against them. Code length generation uses the in-place minimum-redundancy
// algorithm of Moffat & Katajainen; canonical codeword assignment walks
// symbols ordered by (length, symbol) exactly as a DEFLATE-style canonical
// code is built.
package huffman

import (
	"sort"

	dczf "github.com/hecticSubraz/dczf"
)

// MaxCodeLength is the longest canonical codeword this package will ever
// produce or accept, matching the container format's 16-bit code_lengths
// field width with headroom to spare.
const MaxCodeLength = 32

// maxRescales bounds the number of frequency-halving retries BuildLengths
// will attempt before giving up. Each retry roughly halves the dynamic
// range between the largest and smallest frequency; a handful of retries
// collapses any realistic chunk to a near-uniform distribution whose
// optimal tree depth is at most log2(256) = 8, far under MaxCodeLength.
const maxRescales = 24

// BuildLengths computes canonical-ready code lengths for freqs, a
// byte-frequency histogram such as the one histogram.Compute returns.
//
// Two non-zero-symbol counts are special-cased per the container format:
// zero symbols yields an all-zero table (the chunk is empty), and exactly
// one symbol yields a length of 1 (the chunk still spends one bit per
// occurrence rather than zero).
//
// For two or more symbols, lengths are generated by the classic two-phase
// in-place algorithm. If the natural tree depth exceeds MaxCodeLength
// (only possible for pathologically skewed, Fibonacci-like frequency
// ratios), the working frequencies are repeatedly halved and the
// computation retried until the bound is satisfied.
func BuildLengths(freqs [256]uint64) ([256]uint16, error) {
	var sizes [256]uint16

	var alphabet [256]int
	count := 0

	for s, f := range freqs {
		if f > 0 {
			alphabet[count] = s
			count++
		}
	}

	if count == 0 {
		return sizes, nil
	}

	if count == 1 {
		sizes[alphabet[0]] = 1
		return sizes, nil
	}

	symbols := alphabet[0:count]
	work := make([]int64, count)

	for i, s := range symbols {
		work[i] = int64(freqs[s])
	}

	for retry := 0; ; retry++ {
		ranks := make([]int64, count)

		for i, s := range symbols {
			ranks[i] = (work[i] << 8) | int64(s)
		}

		sort.Slice(ranks, func(a, b int) bool { return ranks[a] < ranks[b] })

		lens := make([]int64, count)
		order := make([]int, count)

		for i := range ranks {
			lens[i] = ranks[i] >> 8
			order[i] = int(ranks[i] & 0xFF)
		}

		computeInPlaceSizesPhase1(lens)
		maxLen := computeInPlaceSizesPhase2(lens)

		if maxLen <= MaxCodeLength {
			for i, sym := range order {
				sizes[sym] = uint16(lens[i])
			}

			return sizes, nil
		}

		if retry >= maxRescales {
			return sizes, dczf.NewErrorf(dczf.ErrUnknown,
				"huffman: could not limit code length to %d bits after %d rescales", MaxCodeLength, maxRescales)
		}

		for i := range work {
			work[i] = (work[i] + 1) / 2

			if work[i] == 0 {
				work[i] = 1
			}
		}
	}
}

// computeInPlaceSizesPhase1 and computeInPlaceSizesPhase2 implement the
// in-place minimum-redundancy code length algorithm described in
// "In-Place Calculation of Minimum-Redundancy Codes" by Alistair Moffat &
// Jyrki Katajainen. data must be sorted ascending by weight on entry; on
// return from phase 2 it holds the code length of the symbol at each
// position.
func computeInPlaceSizesPhase1(data []int64) {
	n := len(data)

	for s, r, t := 0, 0, 0; t < n-1; t++ {
		sum := int64(0)

		for i := 0; i < 2; i++ {
			if s >= n || (r < t && data[r] < data[s]) {
				sum += data[r]
				data[r] = int64(t)
				r++
				continue
			}

			sum += data[s]

			if s > t {
				data[s] = 0
			}

			s++
		}

		data[t] = sum
	}
}

// computeInPlaceSizesPhase2 requires len(data) >= 2.
func computeInPlaceSizesPhase2(data []int64) int64 {
	if len(data) < 2 {
		return 0
	}

	levelTop := int64(len(data) - 2)
	depth := int64(1)
	i := len(data)
	totalNodesAtLevel := int64(2)

	for i > 0 {
		k := levelTop

		for k > 0 && data[k-1] >= levelTop {
			k--
		}

		internalNodesAtLevel := levelTop - k
		leavesAtLevel := totalNodesAtLevel - internalNodesAtLevel

		for j := int64(0); j < leavesAtLevel; j++ {
			i--
			data[i] = depth
		}

		totalNodesAtLevel = internalNodesAtLevel << 1
		levelTop = k
		depth++
	}

	return depth - 1
}

// AssignCodes assigns canonical codewords to a code-length table: symbols
// are ordered ascending by (length, symbol), the first code is 0, each
// subsequent code in the same length increments by 1, and the code is
// left-shifted whenever the length increases. Symbols with a zero length
// are absent from the alphabet and left at code 0.
func AssignCodes(sizes [256]uint16) [256]uint32 {
	var codes [256]uint32

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
		return codes
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].length != entries[j].length {
			return entries[i].length < entries[j].length
		}

		return entries[i].symbol < entries[j].symbol
	})

	code := uint32(0)
	curLen := entries[0].length

	for _, e := range entries {
		if e.length > curLen {
			code <<= e.length - curLen
			curLen = e.length
		}

		codes[e.symbol] = code
		code++
	}

	return codes
}
