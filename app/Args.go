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
	"strconv"
	"strings"
)

const (
	_ARG_JOBS      = "--jobs="
	_ARG_LOG_LEVEL = "--log_level="
	_ARG_FAST_SCAN = "--fast-scan"
)

// commonFlags holds the options spec.md §6's configuration table lists as
// recognized everywhere (log_level) plus the compress-only jobs knob and
// the supplemented verify-only fast-scan knob. It is parsed the same way
// across all three subcommands, then the positional arguments (input,
// output, chunk_size_mb) are whatever args remain.
type commonFlags struct {
	jobs      int
	verbosity int
	fastScan  bool
}

// parseCommonFlags scans args for the recognized --key=value / --flag
// options and returns them alongside the remaining positional arguments,
// in order. Unrecognized "--"-prefixed tokens are not consumed: they stay
// in the positional list, where the subcommand treats them like any other
// positional value.
func parseCommonFlags(args []string) (commonFlags, []string) {
	f := commonFlags{jobs: 1, verbosity: logLevelToVerbosity("info")}
	rest := make([]string, 0, len(args))

	for _, arg := range args {
		switch {
		case strings.HasPrefix(arg, _ARG_JOBS):
			if n, err := strconv.Atoi(strings.TrimPrefix(arg, _ARG_JOBS)); err == nil && n > 0 {
				f.jobs = n
			}
		case strings.HasPrefix(arg, _ARG_LOG_LEVEL):
			f.verbosity = logLevelToVerbosity(strings.TrimPrefix(arg, _ARG_LOG_LEVEL))
		case arg == _ARG_FAST_SCAN:
			f.fastScan = true
		default:
			rest = append(rest, arg)
		}
	}

	return f, rest
}

// logLevelToVerbosity maps the log_level config key's four enum values to
// the integer verbosity level threaded through stream.Options and the CLI's
// own progress/status printing, debug being the most chatty.
func logLevelToVerbosity(level string) int {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return 3
	case "info":
		return 2
	case "warn":
		return 1
	case "error":
		return 0
	default:
		return 2
	}
}
