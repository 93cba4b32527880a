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

package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hugehoo/yorkie-client/pkg/client"
	"github.com/hugehoo/yorkie-client/pkg/document"
	"github.com/hugehoo/yorkie-client/pkg/document/json"
	"github.com/hugehoo/yorkie-client/pkg/document/key"
	"github.com/hugehoo/yorkie-client/pkg/document/presence"
	docerrors "github.com/hugehoo/yorkie-client/pkg/errors"
)

func newEditCommand() *cobra.Command {
	var sets []string

	cobraCmd := &cobra.Command{
		Use:   "edit",
		Short: "Attach --document, apply --set key=value pairs, then push",
		RunE: func(_ *cobra.Command, args []string) error {
			ctx := context.Background()
			c, err := activatedClient(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = c.Deactivate(ctx) }()

			doc := document.New(key.NewKey(flagDocKey))
			if err := c.Attach(ctx, doc, client.WithSyncMode(client.SyncModeManual)); err != nil {
				return err
			}
			defer func() { _ = c.Detach(ctx, doc) }()

			if err := doc.Update(func(root *json.Object, p *presence.Presence) error {
				for _, kv := range sets {
					k, v, ok := strings.Cut(kv, "=")
					if !ok {
						return docerrors.Wrap(docerrors.KindInvalidArgument, "malformed --set "+kv, docerrors.ErrInvalidArgument)
					}
					root.SetString(k, v)
				}
				return nil
			}, "ycli edit"); err != nil {
				return err
			}

			if err := c.Sync(ctx, doc); err != nil {
				return err
			}

			fmt.Printf("%s: %s\n", doc.Key(), doc.Marshal())
			return nil
		},
	}

	cobraCmd.Flags().StringArrayVar(&sets, "set", nil, "key=value pair to set on the document root (repeatable)")
	return cobraCmd
}
