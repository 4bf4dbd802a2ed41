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

func runVerify(args []string) int {
	flags, pos := parseCommonFlags(args)

	if len(pos) < 1 {
		fmt.Println("verify requires <compressed>")
		return 1
	}

	log.Println(fmt.Sprintf("Verifying %q (fast-scan=%v)", pos[0], flags.fastScan), flags.verbosity >= 2)

	v := stream.NewVerifier(stream.Options{
		Verbosity: flags.verbosity,
		FastScan:  flags.fastScan,
	})

	if err := v.Verify(pos[0]); err != nil {
		return exitCode(err)
	}

	log.Println("OK: container is structurally sound.", flags.verbosity >= 1)
	return 0
}
