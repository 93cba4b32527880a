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

package change

import (
	"github.com/hugehoo/yorkie-client/pkg/document/time"
)

// ID identifies a Change: its author, its position in that author's own
// sequence, the lamport clock value it was issued at, and (once
// acknowledged) the server sequence it was assigned.
type ID struct {
	clientSeq uint32
	lamport   uint64
	actorID   time.ActorID
	serverSeq uint64
}

// InitialID is the ID of the very first local Change a client ever
// creates, before any sync has happened.
var InitialID = NewID(0, 0, time.InitialActorID, 0)

// NewID creates a new instance of ID.
func NewID(clientSeq uint32, lamport uint64, actorID time.ActorID, serverSeq uint64) ID {
	return ID{
		clientSeq: clientSeq,
		lamport:   lamport,
		actorID:   actorID,
		serverSeq: serverSeq,
	}
}

// Next returns the ID of the Change immediately following this one from
// the same actor: client sequence and lamport both advance by one. A
// freshly issued ID never carries a server sequence; that's assigned
// only once the server acknowledges it.
func (id ID) Next() ID {
	return ID{
		clientSeq: id.clientSeq + 1,
		lamport:   id.lamport + 1,
		actorID:   id.actorID,
	}
}

// NewTimeTicket issues the ticket for the delimiter-th operation or node
// created within this Change. Every operation recorded by the same
// Change shares its lamport value; the delimiter disambiguates their
// relative order, which is what lets a single update() call push
// several operations that still sort deterministically against
// concurrent changes from other actors.
func (id ID) NewTimeTicket(delimiter uint32) *time.Ticket {
	return time.NewTicket(id.lamport, delimiter, id.actorID)
}

// SyncLamport advances this ID's lamport clock against another actor's
// observed lamport value: the new value is one past whichever of the two
// is larger, guaranteeing any Change this ID goes on to produce sorts
// after otherLamport's origin.
func (id ID) SyncLamport(otherLamport uint64) ID {
	lamport := id.lamport
	if otherLamport > lamport {
		lamport = otherLamport
	}
	return ID{
		clientSeq: id.clientSeq,
		lamport:   lamport + 1,
		actorID:   id.actorID,
		serverSeq: id.serverSeq,
	}
}

// SetClientSeq returns a copy of id with its client sequence set to
// clientSeq, used when rebuilding a Change's ID from a persisted pack.
func (id ID) SetClientSeq(clientSeq uint32) ID {
	id.clientSeq = clientSeq
	return id
}

// SyncServerSeq returns a copy of id with its server sequence set to
// serverSeq, recorded once the server has assigned this Change a
// position in the document's history.
func (id ID) SyncServerSeq(serverSeq uint64) ID {
	id.serverSeq = serverSeq
	return id
}

// ClientSeq returns the client sequence component.
func (id ID) ClientSeq() uint32 {
	return id.clientSeq
}

// Lamport returns the lamport clock value.
func (id ID) Lamport() uint64 {
	return id.lamport
}

// ActorID returns the actor this Change was authored by.
func (id ID) ActorID() time.ActorID {
	return id.actorID
}

// SetActorID returns a copy of id attributed to actorID, used when a
// client's own local actor ID is only assigned once it activates.
func (id ID) SetActorID(actorID time.ActorID) ID {
	id.actorID = actorID
	return id
}

// ServerSeq returns the server sequence component, 0 if this Change has
// never been synced.
func (id ID) ServerSeq() uint64 {
	return id.serverSeq
}
