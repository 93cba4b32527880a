/*
 * Copyright 2019 The Yorkie Authors. All rights reserved.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package change implements the unit of synchronization between a client
// and the rest of a document's replicas: Change (one local mutation and
// its presence delta), ChangeID (its position in both the client's and
// the server's sequence), Checkpoint (the watermark a sync exchanges),
// and Pack (the batch of changes carried across one sync round).
package change

import "fmt"

// Checkpoint is the watermark exchanged on every sync: the highest
// server sequence this client has acked, and the highest client sequence
// the server has acked. A client advances its half locally on every
// local Change; the server half only ever advances in response to a
// server message, never speculatively.
type Checkpoint struct {
	serverSeq uint64
	clientSeq uint32
}

// InitialCheckpoint is the zero-value checkpoint of an unsynced client.
var InitialCheckpoint = NewCheckpoint(0, 0)

// NewCheckpoint creates a new instance of Checkpoint.
func NewCheckpoint(serverSeq uint64, clientSeq uint32) Checkpoint {
	return Checkpoint{serverSeq: serverSeq, clientSeq: clientSeq}
}

// ServerSeq returns the server sequence component.
func (c Checkpoint) ServerSeq() uint64 {
	return c.serverSeq
}

// ClientSeq returns the client sequence component.
func (c Checkpoint) ClientSeq() uint32 {
	return c.clientSeq
}

// Forward returns the componentwise maximum of c and other (c itself when
// it is already ahead in both), used when merging a server response
// against the client's current checkpoint so neither sequence is ever
// rewound.
func (c Checkpoint) Forward(other Checkpoint) Checkpoint {
	if c.serverSeq >= other.serverSeq && c.clientSeq >= other.clientSeq {
		return c
	}
	return NewCheckpoint(
		max64(c.serverSeq, other.serverSeq),
		maxU32(c.clientSeq, other.clientSeq),
	)
}

// IncreaseClientSeq returns a copy of c with its client sequence
// advanced by delta, issued once per local Change.
func (c Checkpoint) IncreaseClientSeq(delta uint32) Checkpoint {
	if delta == 0 {
		return c
	}
	return NewCheckpoint(c.serverSeq, c.clientSeq+delta)
}

// SyncServerSeq returns a copy of c with its server sequence advanced to
// serverSeq, recorded once the server has acked changes up to that
// point.
func (c Checkpoint) SyncServerSeq(serverSeq uint64) Checkpoint {
	return NewCheckpoint(serverSeq, c.clientSeq)
}

// String returns a human-readable representation, handy in logs.
func (c Checkpoint) String() string {
	return fmt.Sprintf("serverSeq=%d, clientSeq=%d", c.serverSeq, c.clientSeq)
}

func max64(a, b uint64) uint64 {
	if a > b {
		return a
	}
	return b
}

func maxU32(a, b uint32) uint32 {
	if a > b {
		return a
	}
	return b
}
