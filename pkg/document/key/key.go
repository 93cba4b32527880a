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

// Package key implements the document key, the caller-chosen identifier a
// document is attached under.
package key

import "regexp"

// keyPattern validates the allowed character set of a document key:
// lowercase alphanumerics, dashes, underscores, dots and slashes.
var keyPattern = regexp.MustCompile(`^[a-z0-9-_./]+$`)

const (
	minKeyLen = 2
	maxKeyLen = 120
)

// Key represents the key of a Document, which is used as a human readable
// identifier within a project.
type Key string

// NewKey creates a new instance of Key.
func NewKey(value string) Key {
	return Key(value)
}

// String returns the string representation of this Key.
func (k Key) String() string {
	return string(k)
}

// Validate checks whether this Key is in the correct format.
func (k Key) Validate() error {
	if len(k) < minKeyLen || len(k) > maxKeyLen {
		return ErrInvalidKeyLength
	}
	if !keyPattern.MatchString(string(k)) {
		return ErrInvalidKeyFormat
	}
	return nil
}
