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
	"go.uber.org/multierr"

	"github.com/hugehoo/yorkie-client/pkg/document/crdt"
	"github.com/hugehoo/yorkie-client/pkg/document/innerpresence"
	"github.com/hugehoo/yorkie-client/pkg/document/operations"
	"github.com/hugehoo/yorkie-client/pkg/document/time"
)

// Change represents one committed mutator call: an ordered batch of
// operations recorded against a single Root clone, plus the presence
// delta (if any) made inside the same update() call, tagged with the ID
// that fixes its position in both the authoring client's sequence and
// the document's lamport order.
type Change struct {
	id             ID
	message        string
	operations     []operations.Operation
	presenceChange *innerpresence.PresenceChange
}

// New creates a new instance of Change.
func New(
	id ID,
	message string,
	ops []operations.Operation,
	presenceChange *innerpresence.PresenceChange,
) *Change {
	return &Change{
		id:             id,
		message:        message,
		operations:     ops,
		presenceChange: presenceChange,
	}
}

// ID returns this change's ID.
func (c *Change) ID() ID {
	return c.id
}

// SetActor attributes this change to actorID, propagating it to every
// ticket-bearing field the change's ID exposes. Called once a client
// activates and learns its server-assigned actor ID, on changes created
// before that point.
func (c *Change) SetActor(actorID time.ActorID) {
	c.id = c.id.SetActorID(actorID)
}

// Message returns the commit message attached to this change, if any.
func (c *Change) Message() string {
	return c.message
}

// Operations returns the operations this change carries, in the order
// they were recorded.
func (c *Change) Operations() []operations.Operation {
	return c.operations
}

// PresenceChange returns the presence delta this change carries, or nil
// if the mutator never touched presence.
func (c *Change) PresenceChange() *innerpresence.PresenceChange {
	return c.presenceChange
}

// HasOperations reports whether this change carries any operations.
func (c *Change) HasOperations() bool {
	return len(c.operations) > 0
}

// HasPresenceChange reports whether this change carries a presence
// delta.
func (c *Change) HasPresenceChange() bool {
	return c.presenceChange != nil
}

// Execute replays every operation in this change against root, folds its
// presence delta into presences (if any), and returns the combined
// OpInfo records for event emission. It keeps going after an individual
// operation error (the target may have been concurrently garbage
// collected) so that one stale operation never blocks the rest of the
// batch, aggregating every error it saw.
func (c *Change) Execute(root *crdt.Root, presences *innerpresence.Map) ([]operations.OpInfo, error) {
	var infos []operations.OpInfo
	var errs error

	for _, op := range c.operations {
		opInfos, err := op.Execute(root)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		infos = append(infos, opInfos...)
	}

	if c.presenceChange != nil {
		presences.Apply(c.id.ActorID().String(), c.presenceChange)
	}

	return infos, errs
}
