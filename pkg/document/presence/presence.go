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

// Package presence implements the mutator-facing handle a client uses to
// read and update its own ephemeral presence data inside an Update()
// call, recording a PresenceChange against the call's change.Context the
// same way json.Object records operations against it.
package presence

import (
	"github.com/hugehoo/yorkie-client/pkg/document/change"
	"github.com/hugehoo/yorkie-client/pkg/document/innerpresence"
)

// Presence is the typed handle a mutator uses to inspect and update the
// calling client's own presence entry.
type Presence struct {
	ctx  *change.Context
	data *innerpresence.Presence
}

// New creates a new instance of Presence bound to ctx, seeded with the
// client's presence data as of the start of this mutator call.
func New(ctx *change.Context, data *innerpresence.Presence) *Presence {
	return &Presence{ctx: ctx, data: data}
}

// Set installs value under key in the local snapshot and records the
// change so it ships with the rest of this mutator call's Change. Several
// Set calls within one mutator accumulate: each one merges into the
// context's pending PresenceChange rather than replacing it, so the
// committed Change carries every key set during the call, not just the
// last one.
func (p *Presence) Set(key, value string) {
	p.data.Set(key, value)

	merged := map[string]string{}
	if pending := p.ctx.PresenceChange(); pending != nil && pending.ChangeType == innerpresence.Put {
		for k, v := range pending.Presence.Data() {
			merged[k] = v
		}
	}
	merged[key] = value
	p.ctx.SetPresenceChange(innerpresence.NewPutChange(merged))
}

// Get returns the value under key in the local snapshot, if any.
func (p *Presence) Get(key string) (string, bool) {
	return p.data.Get(key)
}

// Clear removes every key from the local snapshot and records a clear so
// peers see this client's presence entry disappear.
func (p *Presence) Clear() {
	p.data = innerpresence.New()
	p.ctx.SetPresenceChange(innerpresence.NewClearChange())
}
