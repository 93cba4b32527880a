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

package converter_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hugehoo/yorkie-client/api/converter"
	"github.com/hugehoo/yorkie-client/pkg/document"
	"github.com/hugehoo/yorkie-client/pkg/document/crdt"
	"github.com/hugehoo/yorkie-client/pkg/document/json"
	"github.com/hugehoo/yorkie-client/pkg/document/key"
	"github.com/hugehoo/yorkie-client/pkg/document/presence"
)

// S4: a snapshot round-trips every visible primitive/container type,
// preserving JSON content even though Text/Tree are rebuilt with fresh
// tickets rather than carrying their originals across the wire.
func TestSnapshot_RoundTripsEveryElementType(t *testing.T) {
	doc := document.New(key.NewKey("snapshot-doc"))

	require.NoError(t, doc.Update(func(root *json.Object, p *presence.Presence) error {
		root.SetString("title", "hello")
		root.SetInteger("count", 7)

		nested := root.SetNewObject("meta")
		nested.SetBool("done", true)

		arr := root.SetNewArray("tags")
		require.NoError(t, arr.Append("a"))
		require.NoError(t, arr.Append("b"))

		if _, err := root.SetNewCounter("visits", crdt.ValueTypeLong, int64(3)); err != nil {
			return err
		}

		text := root.SetNewText("body")
		if err := text.Edit(0, 0, "hello world", nil); err != nil {
			return err
		}

		tree := root.SetNewTree("doc")
		pID, err := tree.EditElement(tree.RootID(), nil, "p")
		if err != nil {
			return err
		}
		if _, err := tree.EditText(pID, nil, "leaf"); err != nil {
			return err
		}
		return nil
	}))

	before := doc.Marshal()

	encoded, err := converter.EncodeSnapshot(doc.RootObject())
	require.NoError(t, err)
	assert.NotEmpty(t, encoded)

	decoded, err := converter.DecodeSnapshot(encoded)
	require.NoError(t, err)

	assert.Equal(t, before, decoded.Marshal())
}

func TestSnapshot_EmptyObjectRoundTrips(t *testing.T) {
	doc := document.New(key.NewKey("snapshot-empty"))

	encoded, err := converter.EncodeSnapshot(doc.RootObject())
	require.NoError(t, err)

	decoded, err := converter.DecodeSnapshot(encoded)
	require.NoError(t, err)
	assert.Equal(t, doc.Marshal(), decoded.Marshal())
}

func TestSnapshot_DecodeRejectsGarbageBytes(t *testing.T) {
	_, err := converter.DecodeSnapshot([]byte("not a snappy frame"))
	assert.Error(t, err)
}
