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

func newStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Attach --document and print its client/document/size status",
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

			fmt.Printf("client:     %s (actor %s)\n", c.Key(), c.ActorID())
			fmt.Printf("document:   %s\n", doc.Key())
			fmt.Printf("status:     %s\n", doc.Status())
			fmt.Printf("checkpoint: %s\n", doc.Checkpoint())
			fmt.Printf("size:       %d bytes\n", doc.GetDocSize())
			fmt.Printf("content:    %s\n", doc.Marshal())
			return nil
		},
	}
}
