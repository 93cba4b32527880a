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

package time

import (
	"fmt"
	"math"
)

// Ticket is a totally ordered (lamport, delimiter, actorID) triple. Every
// CRDT node and every operation carries the ticket of its creating change.
type Ticket struct {
	lamport   uint64
	delimiter uint32
	actorID   ActorID
}

// InitialDelimiter is the first delimiter of a Ticket.
const InitialDelimiter = 0

// MaxDelimiter is the maximum delimiter of a Ticket.
const MaxDelimiter = math.MaxUint32

// InitialLamport is the Lamport value used for InitialTicket.
const InitialLamport = 0

// MaxLamport is the maximum Lamport value a Ticket can carry.
const MaxLamport = math.MaxUint64

// InitialTicket is the ticket of the initial state: zero lamport, zero
// delimiter, the initial actor.
var InitialTicket = NewTicket(InitialLamport, InitialDelimiter, InitialActorID)

// MaxActorID is an ActorID whose bytes are all 0xFF, used as the upper
// bound of the actor space.
var MaxActorID = func() ActorID {
	b := make([]byte, actorIDBytesLen)
	for i := range b {
		b[i] = 0xFF
	}
	return ActorID(b)
}()

// MaxTicket is the largest possible ticket, used as an upper sentinel for
// range scans.
var MaxTicket = NewTicket(MaxLamport, MaxDelimiter, MaxActorID)

// NewTicket creates a new instance of Ticket.
func NewTicket(lamport uint64, delimiter uint32, actorID ActorID) *Ticket {
	return &Ticket{
		lamport:   lamport,
		delimiter: delimiter,
		actorID:   actorID,
	}
}

// Lamport returns the lamport value of this ticket.
func (t *Ticket) Lamport() uint64 {
	return t.lamport
}

// Delimiter returns the delimiter of this ticket.
func (t *Ticket) Delimiter() uint32 {
	return t.delimiter
}

// ActorID returns the actor id of this ticket.
func (t *Ticket) ActorID() ActorID {
	return t.actorID
}

// Key returns a unique string key identifying this ticket. Used as a map
// key (element-by-ticket indices, RHT attribute maps, ...).
func (t *Ticket) Key() string {
	return t.toIDString()
}

// After reports whether this ticket happened after the other.
func (t *Ticket) After(other *Ticket) bool {
	return t.Compare(other) > 0
}

// Compare returns -1, 0 or 1 comparing this ticket to other using
// (lamport, delimiter, actorID) ordering.
func (t *Ticket) Compare(other *Ticket) int {
	if t.lamport != other.lamport {
		if t.lamport < other.lamport {
			return -1
		}
		return 1
	}

	if t.delimiter != other.delimiter {
		if t.delimiter < other.delimiter {
			return -1
		}
		return 1
	}

	return t.actorID.Compare(other.actorID)
}

// Equal reports whether this ticket is equal to other.
func (t *Ticket) Equal(other *Ticket) bool {
	if t == nil || other == nil {
		return t == other
	}
	return t.Compare(other) == 0
}

func (t *Ticket) toIDString() string {
	return fmt.Sprintf("%020d:%010d:%s", t.lamport, t.delimiter, t.actorID.String())
}

// String returns a human-readable form of this ticket.
func (t *Ticket) String() string {
	return t.toIDString()
}
