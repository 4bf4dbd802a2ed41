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

	"github.com/hecticSubraz/dczf/log"
	"github.com/hecticSubraz/dczf/stream"
)

func runDecompress(args []string) int {
	flags, pos := parseCommonFlags(args)

	if len(pos) < 2 {
		fmt.Println("decompress requires <input> <output>")
		return 1
	}

	input, output := pos[0], pos[1]

	log.Println(fmt.Sprintf("Decompressing %q -> %q", input, output), flags.verbosity >= 2)

	d := stream.NewDecompressor(stream.Options{
		Verbosity: flags.verbosity,
		Progress: func(frac float64) {
			log.Println(fmt.Sprintf("  %.1f%%", frac*100), flags.verbosity >= 3)
		},
	})

	if err := d.Decompress(input, output); err != nil {
		return exitCode(err)
	}

	log.Println("Decompression complete.", flags.verbosity >= 1)
	return 0
}
