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

// Package log provides the single verbosity-gated diagnostic print used
// throughout the app package. It is not a general logging framework: the
// CLI decides, per message, whether the current verbosity level warrants
// printing it, and passes that decision in as a bool.
package log

import "fmt"

// Println prints msg to stdout followed by a newline, but only if print
// is true. Call sites compute print from the configured verbosity level,
// e.g. log.Println(msg, verbosity > 1).
func Println(msg string, print bool) {
	if print {
		fmt.Println(msg)
	}
}
