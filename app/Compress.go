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

package main

import (
	"fmt"
	"strconv"

	"github.com/hecticSubraz/dczf/log"
	"github.com/hecticSubraz/dczf/stream"
)

func runCompress(args []string) int {
	flags, pos := parseCommonFlags(args)

	if len(pos) < 2 {
		fmt.Println("compress requires <input> <output> [chunk_size_mb]")
		return 1
	}

	input, output := pos[0], pos[1]
	chunkSizeBytes := uint32(stream.DefaultChunkSizeBytes)

	if len(pos) >= 3 {
		mb, err := strconv.Atoi(pos[2])

		if err != nil || mb < 1 {
			fmt.Printf("invalid chunk_size_mb %q: must be an integer >= 1\n", pos[2])
			return 1
		}

		chunkSizeBytes = uint32(mb) * 1024 * 1024
	}

	log.Println(fmt.Sprintf("Compressing %q -> %q (chunk size %d MiB, jobs %d)", input, output, chunkSizeBytes/(1024*1024), flags.jobs), flags.verbosity >= 2)

	c := stream.NewCompressor(stream.Options{
		ChunkSizeBytes: chunkSizeBytes,
		Jobs:           flags.jobs,
		Verbosity:      flags.verbosity,
		Progress: func(frac float64) {
			log.Println(fmt.Sprintf("  %.1f%%", frac*100), flags.verbosity >= 3)
		},
	})

	if err := c.Compress(input, output); err != nil {
		return exitCode(err)
	}

	log.Println("Compression complete.", flags.verbosity >= 1)
	return 0
}
