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

// Package innerpresence implements the per-client ephemeral key-value map
// replicated alongside a document's changes. Presence is not part of the
// CRDT tree: it carries no ticket-level conflict resolution of its own,
// since the owning actor is always the sole writer of its own entry.
package innerpresence

// Presence is one actor's ephemeral key-value data (cursor position,
// selection, display name, ...). Values are pre-serialized JSON, mirroring
// how values cross the wire, so Presence never needs its own encoder.
type Presence struct {
	data map[string]string
}

// New creates a new, empty Presence.
func New() *Presence {
	return &Presence{data: make(map[string]string)}
}

// NewFromData creates a Presence seeded with data. The map is copied, not
// aliased.
func NewFromData(data map[string]string) *Presence {
	p := New()
	for k, v := range data {
		p.data[k] = v
	}
	return p
}

// Set installs value under key.
func (p *Presence) Set(key, value string) {
	p.data[key] = value
}

// Get returns the value under key, if any.
func (p *Presence) Get(key string) (string, bool) {
	v, ok := p.data[key]
	return v, ok
}

// Data returns the full underlying map. Callers must not mutate it.
func (p *Presence) Data() map[string]string {
	return p.data
}

// DeepCopy returns an independent copy of this Presence.
func (p *Presence) DeepCopy() *Presence {
	return NewFromData(p.data)
}

// ChangeType distinguishes a presence update from a presence clear (the
// clear happens when a client detaches and its presence entry should
// disappear from peers' tables without a literal empty-map broadcast).
type ChangeType int

const (
	// Put means the change carries new/updated key-value data to merge in.
	Put ChangeType = iota
	// Clear means the actor's presence should be removed entirely.
	Clear
)

// PresenceChange is the presence half of a Change: a client sets presence
// data at most once per Change (shallow-merged on apply), or asks for it
// to be cleared.
type PresenceChange struct {
	ChangeType ChangeType
	Presence   *Presence
}

// NewPutChange creates a PresenceChange that merges data into the
// receiving actor's presence.
func NewPutChange(data map[string]string) *PresenceChange {
	return &PresenceChange{ChangeType: Put, Presence: NewFromData(data)}
}

// NewClearChange creates a PresenceChange that removes the actor's
// presence entry entirely.
func NewClearChange() *PresenceChange {
	return &PresenceChange{ChangeType: Clear}
}

// Map is the per-document table of every known actor's current presence,
// used to answer Document.Presences()/MyPresence() and to drive
// PeersChanged event emission as peers watch/unwatch/update.
type Map struct {
	presencesByActor map[string]*Presence
}

// NewMap creates a new, empty Map.
func NewMap() *Map {
	return &Map{presencesByActor: make(map[string]*Presence)}
}

// Set installs presence for actorID, replacing whatever was there.
func (m *Map) Set(actorID string, presence *Presence) {
	m.presencesByActor[actorID] = presence
}

// Get returns actorID's current presence, or nil.
func (m *Map) Get(actorID string) *Presence {
	return m.presencesByActor[actorID]
}

// Delete removes actorID's presence entry.
func (m *Map) Delete(actorID string) {
	delete(m.presencesByActor, actorID)
}

// LoadOrStore returns actorID's current presence, creating and storing a
// new empty one first if it doesn't have one yet.
func (m *Map) LoadOrStore(actorID string) *Presence {
	if p, ok := m.presencesByActor[actorID]; ok {
		return p
	}
	p := New()
	m.presencesByActor[actorID] = p
	return p
}

// Apply folds change into actorID's entry: Put shallow-merges keys into
// whatever presence actorID already has (creating one if absent), Clear
// deletes the entry outright.
func (m *Map) Apply(actorID string, change *PresenceChange) {
	if change == nil {
		return
	}
	switch change.ChangeType {
	case Clear:
		m.Delete(actorID)
	case Put:
		existing, ok := m.presencesByActor[actorID]
		if !ok {
			existing = New()
			m.presencesByActor[actorID] = existing
		}
		for k, v := range change.Presence.Data() {
			existing.Set(k, v)
		}
	}
}

// DeepCopy returns an independent copy of this Map.
func (m *Map) DeepCopy() *Map {
	copied := NewMap()
	for actorID, presence := range m.presencesByActor {
		copied.presencesByActor[actorID] = presence.DeepCopy()
	}
	return copied
}

// Actors returns the actor IDs currently present in the table.
func (m *Map) Actors() []string {
	actors := make([]string, 0, len(m.presencesByActor))
	for actorID := range m.presencesByActor {
		actors = append(actors, actorID)
	}
	return actors
}
