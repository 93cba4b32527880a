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

	"github.com/spf13/cobra"

	"github.com/hugehoo/yorkie-client/pkg/client"
	"github.com/hugehoo/yorkie-client/pkg/document"
	"github.com/hugehoo/yorkie-client/pkg/document/key"
)

func newAttachCommand() *cobra.Command {
	var manual bool

	cobraCmd := &cobra.Command{
		Use:   "attach",
		Short: "Attach --document and print its current content",
		RunE: func(_ *cobra.Command, args []string) error {
			ctx := context.Background()
			c, err := activatedClient(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = c.Deactivate(ctx) }()

			mode := client.SyncModeRealtime
			if manual {
				mode = client.SyncModeManual
			}

			doc := document.New(key.NewKey(flagDocKey))
			if err := c.Attach(ctx, doc, client.WithSyncMode(mode)); err != nil {
				return err
			}
			defer func() { _ = c.Detach(ctx, doc) }()

			fmt.Printf("attached %s: %s\n", doc.Key(), doc.Marshal())
			return nil
		},
	}

	cobraCmd.Flags().BoolVar(&manual, "manual", true, "attach in manual sync mode instead of realtime")
	return cobraCmd
}
