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

package dczf

import (
	"fmt"
	"time"
)

// Event phase markers for progress notification.
const (
	EvtCompressionStart   = 0 // Compression starts
	EvtDecompressionStart = 1 // Decompression starts
	EvtChunkStart         = 2 // A single chunk starts processing
	EvtChunkEnd           = 3 // A single chunk finishes processing
	EvtCompressionEnd     = 4 // Compression ends
	EvtDecompressionEnd   = 5 // Decompression ends
)

// Event is a compression/decompression progress event.
type Event struct {
	eventType  int
	chunkIndex int
	numChunks  int
	eventTime  time.Time
	msg        string
}

// NewEvent creates a new Event describing progress through a chunk list.
func NewEvent(eventType, chunkIndex, numChunks int) *Event {
	return &Event{eventType: eventType, chunkIndex: chunkIndex, numChunks: numChunks, eventTime: time.Now()}
}

// NewEventFromString wraps a free-form message as an Event.
func NewEventFromString(eventType int, msg string) *Event {
	return &Event{eventType: eventType, chunkIndex: -1, numChunks: -1, eventTime: time.Now(), msg: msg}
}

// Type returns the event phase marker.
func (e *Event) Type() int { return e.eventType }

// ChunkIndex returns the 0-based chunk index, or -1 if not applicable.
func (e *Event) ChunkIndex() int { return e.chunkIndex }

// NumChunks returns the total chunk count, or -1 if not applicable.
func (e *Event) NumChunks() int { return e.numChunks }

// Time returns when the event was created.
func (e *Event) Time() time.Time { return e.eventTime }

// Fraction returns the completion fraction in [0, 1], or 0 if NumChunks is
// not known.
func (e *Event) Fraction() float64 {
	if e.numChunks <= 0 {
		return 0
	}

	return float64(e.chunkIndex+1) / float64(e.numChunks)
}

// String returns a human-readable representation of the event.
func (e *Event) String() string {
	if len(e.msg) > 0 {
		return e.msg
	}

	return fmt.Sprintf("{\"type\":%d,\"chunk\":%d,\"of\":%d}", e.eventType, e.chunkIndex, e.numChunks)
}

// Listener is implemented by progress observers.
type Listener interface {
	// ProcessEvent is called whenever a Listener receives an event.
	ProcessEvent(evt *Event)
}

// ProgressFunc adapts a plain function to the Listener interface, and is
// also the shape of the progress callback spec.md's pipeline contracts
// describe (progress(fraction)).
type ProgressFunc func(fraction float64)

// ProcessEvent implements Listener.
func (f ProgressFunc) ProcessEvent(evt *Event) {
	if f != nil && evt.NumChunks() > 0 {
		f(evt.Fraction())
	}
}
