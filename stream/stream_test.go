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
	"bytes"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	dczf "github.com/hecticSubraz/dczf"
)

func roundTrip(t *testing.T, data []byte, chunkSize uint32) {
	t.Helper()

	dir := t.TempDir()
	in := filepath.Join(dir, "in.bin")
	out := filepath.Join(dir, "out.dczf")
	back := filepath.Join(dir, "back.bin")

	if err := os.WriteFile(in, data, 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}

	c := NewCompressor(Options{ChunkSizeBytes: chunkSize})

	if err := c.Compress(in, out); err != nil {
		t.Fatalf("compress: %v", err)
	}

	if err := NewVerifier(Options{FastScan: true}).Verify(out); err != nil {
		t.Fatalf("verify: %v", err)
	}

	d := NewDecompressor(Options{})

	if err := d.Decompress(out, back); err != nil {
		t.Fatalf("decompress: %v", err)
	}

	got, err := os.ReadFile(back)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}

	if !bytes.Equal(got, data) {
		t.Fatalf("round trip mismatch: got %d bytes, want %d", len(got), len(data))
	}
}

func TestRoundTripEmpty(t *testing.T) {
	roundTrip(t, nil, 1<<20)
}

func TestRoundTripSingleByte(t *testing.T) {
	roundTrip(t, []byte{0x41}, 1<<20)
}

func TestRoundTripABRACADABRA(t *testing.T) {
	roundTrip(t, []byte("ABRACADABRA"), 1<<20)
}

func TestRoundTripMultiChunkZeros(t *testing.T) {
	data := make([]byte, 3*(1<<20))
	roundTrip(t, data, 1<<20)
}

func TestRoundTripRandomUnevenChunks(t *testing.T) {
	rnd := rand.New(rand.NewSource(42))
	data := make([]byte, 5*(1<<20))
	rnd.Read(data)
	roundTrip(t, data, 2<<20)
}

func TestCompressDeterministic(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.bin")
	out1 := filepath.Join(dir, "out1.dczf")
	out2 := filepath.Join(dir, "out2.dczf")

	data := []byte("the quick brown fox jumps over the lazy dog, repeatedly, the quick brown fox")

	if err := os.WriteFile(in, data, 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}

	c := NewCompressor(Options{ChunkSizeBytes: 1 << 20})

	if err := c.Compress(in, out1); err != nil {
		t.Fatalf("compress 1: %v", err)
	}

	if err := c.Compress(in, out2); err != nil {
		t.Fatalf("compress 2: %v", err)
	}

	b1, err := os.ReadFile(out1)
	if err != nil {
		t.Fatalf("read out1: %v", err)
	}

	b2, err := os.ReadFile(out2)
	if err != nil {
		t.Fatalf("read out2: %v", err)
	}

	if !bytes.Equal(b1, b2) {
		t.Fatalf("compressing the same input twice produced different output")
	}
}

func TestCompressDeterministicAcrossJobs(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.bin")
	outSeq := filepath.Join(dir, "seq.dczf")
	outPar := filepath.Join(dir, "par.dczf")

	data := make([]byte, 9*(64*1024)+777)
	rnd := rand.New(rand.NewSource(11))
	rnd.Read(data)

	if err := os.WriteFile(in, data, 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}

	seq := NewCompressor(Options{ChunkSizeBytes: 64 * 1024, Jobs: 1})
	if err := seq.Compress(in, outSeq); err != nil {
		t.Fatalf("sequential compress: %v", err)
	}

	par := NewCompressor(Options{ChunkSizeBytes: 64 * 1024, Jobs: 4})
	if err := par.Compress(in, outPar); err != nil {
		t.Fatalf("parallel compress: %v", err)
	}

	bSeq, err := os.ReadFile(outSeq)
	if err != nil {
		t.Fatalf("read sequential output: %v", err)
	}

	bPar, err := os.ReadFile(outPar)
	if err != nil {
		t.Fatalf("read parallel output: %v", err)
	}

	if !bytes.Equal(bSeq, bPar) {
		t.Fatalf("compressing with Jobs=1 and Jobs=4 produced different output bytes")
	}

	back := filepath.Join(dir, "back.bin")
	d := NewDecompressor(Options{})

	if err := d.Decompress(outPar, back); err != nil {
		t.Fatalf("decompress parallel output: %v", err)
	}

	got, err := os.ReadFile(back)
	if err != nil {
		t.Fatalf("read decompressed output: %v", err)
	}

	if !bytes.Equal(got, data) {
		t.Fatalf("round trip through a Jobs=4 compression did not reproduce the input")
	}
}

func TestDecompressChecksumMismatch(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.bin")
	out := filepath.Join(dir, "out.dczf")
	back := filepath.Join(dir, "back.bin")

	data := make([]byte, 3*(1<<20))
	rnd := rand.New(rand.NewSource(7))
	rnd.Read(data)

	if err := os.WriteFile(in, data, 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}

	c := NewCompressor(Options{ChunkSizeBytes: 1 << 20})

	if err := c.Compress(in, out); err != nil {
		t.Fatalf("compress: %v", err)
	}

	raw, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read container: %v", err)
	}

	// Flip a byte well past the header into the payload of the last chunk
	// (chunk 2).
	flipAt := len(raw) - 8
	raw[flipAt] ^= 0xFF

	if err := os.WriteFile(out, raw, 0o644); err != nil {
		t.Fatalf("rewrite container: %v", err)
	}

	err = NewDecompressor(Options{}).Decompress(out, back)
	if err == nil {
		t.Fatalf("expected decompress to fail after corrupting the payload")
	}

	if !dczf.IsCode(err, dczf.ErrChecksumMismatch) && !dczf.IsCode(err, dczf.ErrCorrupt) {
		t.Fatalf("expected ChecksumMismatch or Corrupt, got: %v", err)
	}

	if _, statErr := os.Stat(back); statErr == nil {
		t.Fatalf("expected no output file after a failed decompress")
	}
}

func TestDecompressTruncated(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.bin")
	out := filepath.Join(dir, "out.dczf")
	back := filepath.Join(dir, "back.bin")

	if err := os.WriteFile(in, []byte("ABRACADABRA"), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}

	if err := NewCompressor(Options{ChunkSizeBytes: 1 << 20}).Compress(in, out); err != nil {
		t.Fatalf("compress: %v", err)
	}

	raw, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read container: %v", err)
	}

	if err := os.WriteFile(out, raw[:len(raw)-1], 0o644); err != nil {
		t.Fatalf("rewrite truncated container: %v", err)
	}

	err = NewDecompressor(Options{}).Decompress(out, back)
	if err == nil {
		t.Fatalf("expected decompress to fail on a truncated container")
	}

	if !dczf.IsCode(err, dczf.ErrCorrupt) {
		t.Fatalf("expected Corrupt, got: %v", err)
	}
}

func TestDecompressBadMagic(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.bin")
	out := filepath.Join(dir, "out.dczf")
	back := filepath.Join(dir, "back.bin")

	if err := os.WriteFile(in, []byte("ABRACADABRA"), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}

	if err := NewCompressor(Options{ChunkSizeBytes: 1 << 20}).Compress(in, out); err != nil {
		t.Fatalf("compress: %v", err)
	}

	raw, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read container: %v", err)
	}

	raw[0] ^= 0xFF

	if err := os.WriteFile(out, raw, 0o644); err != nil {
		t.Fatalf("rewrite container: %v", err)
	}

	err = NewDecompressor(Options{}).Decompress(out, back)
	if !dczf.IsCode(err, dczf.ErrBadMagic) {
		t.Fatalf("expected BadMagic, got: %v", err)
	}
}

func TestVerifyStructuralOnly(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.bin")
	out := filepath.Join(dir, "out.dczf")

	data := make([]byte, 3*(1<<20))
	rnd := rand.New(rand.NewSource(99))
	rnd.Read(data)

	if err := os.WriteFile(in, data, 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}

	if err := NewCompressor(Options{ChunkSizeBytes: 1 << 20}).Compress(in, out); err != nil {
		t.Fatalf("compress: %v", err)
	}

	if err := NewVerifier(Options{}).Verify(out); err != nil {
		t.Fatalf("structural verify: %v", err)
	}

	if err := NewVerifier(Options{FastScan: true}).Verify(out); err != nil {
		t.Fatalf("fast-scan verify: %v", err)
	}
}

func TestVerifyDetectsTruncation(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.bin")
	out := filepath.Join(dir, "out.dczf")

	if err := os.WriteFile(in, []byte("ABRACADABRA"), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}

	if err := NewCompressor(Options{ChunkSizeBytes: 1 << 20}).Compress(in, out); err != nil {
		t.Fatalf("compress: %v", err)
	}

	raw, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read container: %v", err)
	}

	if err := os.WriteFile(out, raw[:len(raw)-1], 0o644); err != nil {
		t.Fatalf("rewrite truncated container: %v", err)
	}

	if err := NewVerifier(Options{}).Verify(out); err == nil {
		t.Fatalf("expected verify to fail on a truncated container")
	}
}
