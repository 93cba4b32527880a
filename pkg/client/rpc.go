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

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/hugehoo/yorkie-client/pkg/document/change"
	"github.com/hugehoo/yorkie-client/pkg/document/key"
)

// Connector is the coordinator-facing RPC surface a Client drives. The
// wire transport and the byte-level serialization of ChangePack
// operations are out of scope for this module (they belong to the
// generated stubs of whatever RPC framework the host application wires
// in); Connector is the seam a real implementation plugs into. Every
// method takes a *change.Pack directly rather than its wire encoding, so
// this module never hand-rolls a wire codec for operations.
type Connector interface {
	// ActivateClient acquires an actor ID for clientKey.
	ActivateClient(ctx context.Context, clientKey string) (actorID string, err error)

	// DeactivateClient releases clientID's actor ID.
	DeactivateClient(ctx context.Context, clientID string) error

	// AttachDocument sends pack as the initial state of a newly attached
	// document, returning the server's response pack.
	AttachDocument(ctx context.Context, clientID string, pack *change.Pack) (*change.Pack, error)

	// DetachDocument sends a final pack before a document is detached.
	DetachDocument(ctx context.Context, clientID string, pack *change.Pack) (*change.Pack, error)

	// RemoveDocument sends a final pack with IsRemoved set.
	RemoveDocument(ctx context.Context, clientID string, pack *change.Pack) (*change.Pack, error)

	// PushPull exchanges pack per mode, returning the server's response
	// pack.
	PushPull(ctx context.Context, clientID string, pack *change.Pack, mode PushPullMode) (*change.Pack, error)

	// WatchDocument opens a server-streaming subscription to docKey's
	// peer/change events. The returned channel is closed when the stream
	// ends (including on ctx cancellation).
	WatchDocument(ctx context.Context, clientID string, docKey key.Key) (<-chan WatchResponse, error)

	// Broadcast publishes payload under topic to every other peer
	// watching docKey.
	Broadcast(ctx context.Context, clientID string, docKey key.Key, topic string, payload []byte) error
}

// WatchResponseType distinguishes the events a watch stream delivers.
type WatchResponseType int

const (
	// WatchResponseInitialized carries the initial set of peers already
	// watching the document, delivered once as the stream opens.
	WatchResponseInitialized WatchResponseType = iota
	// WatchResponsePeerWatched means a peer started watching the document.
	WatchResponsePeerWatched
	// WatchResponsePeerUnwatched means a peer stopped watching the document.
	WatchResponsePeerUnwatched
	// WatchResponseDocumentChanged means a peer pushed a change; the
	// receiver should schedule a sync.
	WatchResponseDocumentChanged
)

// WatchResponse is one event delivered on a document's watch stream.
type WatchResponse struct {
	Type     WatchResponseType
	ClientID string
}

// DialOptions configures the gRPC connector Dial creates.
type DialOptions struct {
	// Insecure skips transport credentials, for use against a local
	// development coordinator only.
	Insecure bool

	// CallOptions are appended to every unary/streaming call the
	// connector issues.
	CallOptions []grpc.CallOption
}

// Dial opens a gRPC connection to the coordinator at target and wraps it
// in a Connector. The generated service stubs for ActivateClient et al.
// are supplied by the host application's protobuf build; this module
// only owns the ClientConn lifecycle and the structpb/timestamppb
// wire-shape helpers in api/converter.
func Dial(target string, opts DialOptions) (*grpc.ClientConn, error) {
	dialOpts := []grpc.DialOption{grpc.WithDefaultCallOptions(opts.CallOptions...)}
	if opts.Insecure {
		dialOpts = append(dialOpts, grpc.WithTransportCredentials(insecure.NewCredentials()))
	}
	return grpc.NewClient(target, dialOpts...)
}
