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

package internal

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestStat(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "input.bin")

	if err := os.WriteFile(path, []byte("hello"), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	d, err := Stat(path)

	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}

	if d.Size != 5 {
		t.Fatalf("Size: got %d, want 5", d.Size)
	}

	if d.Name != "input.bin" {
		t.Fatalf("Name: got %q, want %q", d.Name, "input.bin")
	}

	if d.Dir != dir+string(os.PathSeparator) {
		t.Fatalf("Dir: got %q, want %q", d.Dir, dir+string(os.PathSeparator))
	}

	if d.ModTimeMillis() == 0 {
		t.Fatalf("expected a non-zero mod time")
	}
}

func TestStatMissingFile(t *testing.T) {
	_, err := Stat(filepath.Join(t.TempDir(), "does-not-exist"))

	if err == nil {
		t.Fatalf("expected an error for a missing file, got nil")
	}
}

func TestTempSiblingPathSharesDirectory(t *testing.T) {
	now := time.Date(2026, 7, 31, 12, 0, 0, 0, time.UTC)
	out := "/data/archives/report.dczf"
	tmp := TempSiblingPath(out, now)

	if filepath.Dir(tmp) != filepath.Dir(out) {
		t.Fatalf("temp path %q is not a sibling of %q", tmp, out)
	}

	want := "/data/archives/report.dczf.tmp.1785499200000"

	if tmp != want {
		t.Fatalf("got %q, want %q", tmp, want)
	}
}

func TestTempSiblingPathVariesWithTime(t *testing.T) {
	a := TempSiblingPath("/x/y", time.Unix(1, 0))
	b := TempSiblingPath("/x/y", time.Unix(2, 0))

	if a == b {
		t.Fatalf("expected distinct temp paths for distinct timestamps")
	}
}
