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

// Command dczf is the CLI surface around the stream package: compress,
// decompress and verify subcommands over the chunked canonical Huffman
// container. Argument handling is hand-rolled in the teacher's own style
// (a flat scan of os.Args, no flag-parsing library) since the subcommand
// surface is small and fixed.
package main

import (
	"fmt"
	"os"

	dczf "github.com/hecticSubraz/dczf"
)

const _APP_HEADER = "dczf - chunked canonical Huffman container"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	var code int

	switch os.Args[1] {
	case "compress":
		code = runCompress(os.Args[2:])
	case "decompress":
		code = runDecompress(os.Args[2:])
	case "verify":
		code = runVerify(os.Args[2:])
	case "-h", "--help", "help":
		printUsage()
		code = 0
	default:
		fmt.Printf("Unknown command %q; try --help\n", os.Args[1])
		code = 1
	}

	os.Exit(code)
}

func printUsage() {
	fmt.Println(_APP_HEADER)
	fmt.Println("Usage:")
	fmt.Println("  dczf compress <input> <output> [chunk_size_mb]")
	fmt.Println("  dczf decompress <input> <output>")
	fmt.Println("  dczf verify <compressed>")
	fmt.Println()
	fmt.Println("Options (compress/decompress/verify):")
	fmt.Println("  --jobs=N        encode up to N chunks concurrently (compress only)")
	fmt.Println("  --log_level=L   debug|info|warn|error (default info)")
	fmt.Println("  --fast-scan     verify: also read and hash every chunk's bytes")
}

// exitCode maps a dczf.Error's Code to a process exit status, mirroring
// the teacher's own Definitions.go ERR_* convention of one small positive
// integer per error kind. Codes are 1-based so 0 is reserved for success.
func exitCode(err error) int {
	if err == nil {
		return 0
	}

	var de *dczf.Error
	if e, ok := err.(*dczf.Error); ok {
		de = e
	} else {
		fmt.Println(err)
		return 1
	}

	fmt.Println(de.Error())
	return int(de.Code) + 1
}
