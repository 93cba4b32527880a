/*
 * Copyright 2020 The Yorkie Authors. All rights reserved.
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

package converter

import (
	"time"

	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/timestamppb"

	"github.com/hugehoo/yorkie-client/pkg/document/innerpresence"
)

// PresenceToStruct encodes a presence snapshot into the structpb.Struct
// shape the coordinator expects in a WatchDocument/Broadcast payload:
// presence values are always pre-serialized JSON strings, so every entry
// becomes a structpb string field regardless of what it holds.
func PresenceToStruct(presence innerpresence.Presence) (*structpb.Struct, error) {
	fields := make(map[string]interface{}, len(presence.Data()))
	for k, v := range presence.Data() {
		fields[k] = v
	}
	return structpb.NewStruct(fields)
}

// PresenceFromStruct reverses PresenceToStruct.
func PresenceFromStruct(s *structpb.Struct) *innerpresence.Presence {
	data := make(map[string]string, len(s.GetFields()))
	for k, v := range s.GetFields() {
		data[k] = v.GetStringValue()
	}
	return innerpresence.NewFromData(data)
}

// ActivateResponse is the wire shape of the server's reply to Activate:
// the assigned actor ID and the server's clock, used to detect skew
// against the client's local wall clock.
type ActivateResponse struct {
	ActorID    string
	ServerTime *timestamppb.Timestamp
}

// NewActivateResponse stamps an ActivateResponse with the current wall
// time as observed by the caller; the coordinator fills ServerTime with
// its own clock on the actual RPC reply.
func NewActivateResponse(actorID string) *ActivateResponse {
	return &ActivateResponse{ActorID: actorID, ServerTime: timestamppb.New(time.Now())}
}
