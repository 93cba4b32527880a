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

package client

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DefaultSyncLoopDuration is how often a realtime attachment re-checks
// for pending local changes to push.
const DefaultSyncLoopDuration = "50ms"

// DefaultReconnectStreamDelay is the initial backoff before a dropped
// watch stream is redialed.
const DefaultReconnectStreamDelay = "1000ms"

// MaxReconnectStreamDelay caps the exponential backoff applied to
// repeated watch-stream reconnect attempts.
const MaxReconnectStreamDelay = 30 * time.Second

// AuthTokenInjector supplies (or refreshes) the credential attached to
// every RPC. reason is non-empty when called in response to an
// unauthorized/permissionDenied failure, so the injector can tell a
// routine refresh from a forced one.
type AuthTokenInjector func(ctx context.Context, reason string) (string, error)

// Options configures a Client.
type Options struct {
	// Key identifies this client across reconnects. A random one is
	// generated if left empty.
	Key string

	// APIKey authenticates the project this client belongs to.
	APIKey string

	// SyncLoopDuration is the realtime attachment tick interval, as a
	// time.ParseDuration string.
	SyncLoopDuration string

	// ReconnectStreamDelay is the initial watch-stream reconnect backoff,
	// as a time.ParseDuration string.
	ReconnectStreamDelay string

	// AuthTokenInjector, if set, is consulted before every RPC and again
	// on unauthorized/permissionDenied failures.
	AuthTokenInjector AuthTokenInjector
}

// NewOptions returns Options seeded with this module's defaults.
func NewOptions() *Options {
	return &Options{
		Key:                  uuid.NewString(),
		SyncLoopDuration:     DefaultSyncLoopDuration,
		ReconnectStreamDelay: DefaultReconnectStreamDelay,
	}
}

// Validate checks that every duration field parses, surfacing which flag
// was malformed the way server/backend.Config.Validate does for its own
// duration fields.
func (o *Options) Validate() error {
	if o.Key == "" {
		o.Key = uuid.NewString()
	}
	if _, err := time.ParseDuration(o.SyncLoopDuration); err != nil {
		return fmt.Errorf(`invalid value %q for "SyncLoopDuration": %w`, o.SyncLoopDuration, err)
	}
	if _, err := time.ParseDuration(o.ReconnectStreamDelay); err != nil {
		return fmt.Errorf(`invalid value %q for "ReconnectStreamDelay": %w`, o.ReconnectStreamDelay, err)
	}
	return nil
}

// ParseSyncLoopDuration returns the realtime tick interval. Panics if
// called before Validate has confirmed the field parses.
func (o *Options) ParseSyncLoopDuration() time.Duration {
	d, err := time.ParseDuration(o.SyncLoopDuration)
	if err != nil {
		panic(err)
	}
	return d
}

// ParseReconnectStreamDelay returns the initial watch-stream reconnect
// backoff. Panics if called before Validate has confirmed the field
// parses.
func (o *Options) ParseReconnectStreamDelay() time.Duration {
	d, err := time.ParseDuration(o.ReconnectStreamDelay)
	if err != nil {
		panic(err)
	}
	return d
}
