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

// Package time implements logical clocks: ActorID and TimeTicket, the
// identity and ordering primitives every CRDT node and operation carries.
package time

import (
	"bytes"
	"encoding/hex"

	"github.com/google/uuid"
)

const actorIDBytesLen = 12

// ActorIDLen is the length of the hex-encoded string form of an ActorID.
const ActorIDLen = actorIDBytesLen * 2

// InitialActorID is used as a initial value of the actor id. It is used as
// the actor of changes that have not yet been assigned an actor by the
// server (e.g. while a document is detached).
var InitialActorID = ActorID(bytes.Repeat([]byte{0}, actorIDBytesLen))

// ActorID represents the unique identifier assigned by the server on
// activation. It is used as the final tiebreaker when comparing tickets.
type ActorID []byte

// NewActorID creates a new random ActorID.
func NewActorID() (ActorID, error) {
	id := uuid.New()
	b, err := id.MarshalBinary()
	if err != nil {
		return nil, err
	}
	return ActorID(b[:actorIDBytesLen]), nil
}

// ActorIDFromHex creates an ActorID from the given hex-encoded string.
func ActorIDFromHex(hexStr string) (ActorID, error) {
	if len(hexStr) != ActorIDLen {
		return nil, ErrInvalidActorID
	}
	decoded, err := hex.DecodeString(hexStr)
	if err != nil {
		return nil, ErrInvalidActorID
	}
	return ActorID(decoded), nil
}

// String returns the hex encoding of this ActorID.
func (id ActorID) String() string {
	return hex.EncodeToString(id)
}

// Bytes returns the bytes of this ActorID.
func (id ActorID) Bytes() []byte {
	return id
}

// Compare compares the two IDs lexicographically, returning -1, 0 or 1.
func (id ActorID) Compare(other ActorID) int {
	return bytes.Compare(id, other)
}
