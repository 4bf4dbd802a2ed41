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

// Package checksum provides the SHA-256 primitives used to guard chunk and
// container integrity: a one-shot digest over a byte slice, and a
// streaming digest for the running global checksum assembled from
// per-chunk checksums.
package checksum

import (
	"crypto/sha256"
	"hash"
)

// Size is the length in bytes of a checksum produced by this package.
const Size = sha256.Size

// Sum computes the SHA-256 digest of data in one shot.
func Sum(data []byte) [Size]byte {
	return sha256.Sum256(data)
}

// Digest is a streaming SHA-256 digest, used to fold per-chunk checksums
// into the container's global_checksum without buffering them all in
// memory at once.
type Digest struct {
	h hash.Hash
}

// NewDigest creates a fresh streaming SHA-256 digest.
func NewDigest() *Digest {
	return &Digest{h: sha256.New()}
}

// Update feeds more bytes into the digest. It never returns an error: the
// underlying hash.Hash implementation for SHA-256 cannot fail on Write.
func (d *Digest) Update(p []byte) {
	d.h.Write(p)
}

// Finalize returns the digest of everything written so far. The Digest
// remains usable afterwards (matching hash.Hash.Sum semantics): Finalize
// does not reset internal state.
func (d *Digest) Finalize() [Size]byte {
	var out [Size]byte
	copy(out[:], d.h.Sum(nil))
	return out
}

// Reset clears the digest back to its initial state so it can be reused
// for a new stream of updates.
func (d *Digest) Reset() {
	d.h.Reset()
}
