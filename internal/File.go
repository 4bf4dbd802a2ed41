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

// Package internal collects small filesystem helpers shared by the stream
// and app packages: stat-and-split file metadata, and sibling temp-file
// naming for the compressor's two-phase spool.
package internal

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// FileData encapsulates a file's path components, size and modification
// time, mirroring the teacher's own FileData/NewFileData split of a full
// path into directory, base name and size.
type FileData struct {
	FullPath string
	Dir      string
	Name     string
	Size     int64
	ModTime  time.Time
}

// NewFileData builds a FileData from a full path and the raw os.FileInfo
// describing it.
func NewFileData(fullPath string, info os.FileInfo) *FileData {
	d := &FileData{FullPath: fullPath, Size: info.Size(), ModTime: info.ModTime()}
	d.Dir, d.Name = filepath.Split(fullPath)
	return d
}

// Stat stats path and returns its FileData.
func Stat(path string) (*FileData, error) {
	info, err := os.Stat(path)

	if err != nil {
		return nil, err
	}

	return NewFileData(path, info), nil
}

// ModTimeMillis returns the file's modification time as milliseconds
// since the Unix epoch, the form stored in the container header.
func (d *FileData) ModTimeMillis() uint64 {
	return uint64(d.ModTime.UnixMilli())
}

// TempSiblingPath returns the sibling spool path the compressor writes
// encoded chunks to before the final header-prefixed file is assembled:
// "{output}.tmp.{unix_ms}", placed next to output so it is guaranteed to
// share its filesystem.
func TempSiblingPath(outputPath string, now time.Time) string {
	return fmt.Sprintf("%s.tmp.%d", outputPath, now.UnixMilli())
}
