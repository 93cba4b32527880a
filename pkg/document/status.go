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

package document

// StatusType represents the status of the document.
type StatusType int

const (
	// StatusDetached means that the document is not attached to the client.
	// The actor of the document in this state cannot be collaborated.
	StatusDetached StatusType = iota

	// StatusAttached means that the document is attached to the client. The
	// actor of the document in this state can be collaborated with other
	// replicas attached to the same document.
	StatusAttached

	// StatusRemoved means that the document is removed. The actor of the
	// document in this state cannot be collaborated.
	StatusRemoved
)

// String implements fmt.Stringer.
func (t StatusType) String() string {
	switch t {
	case StatusDetached:
		return "detached"
	case StatusAttached:
		return "attached"
	case StatusRemoved:
		return "removed"
	default:
		return "unknown"
	}
}
