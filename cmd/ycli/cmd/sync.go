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

func newSyncCommand() *cobra.Command {
	var mode string

	cobraCmd := &cobra.Command{
		Use:   "sync",
		Short: "Attach --document and run one push-pull round",
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

			m, err := parsePushPullMode(mode)
			if err != nil {
				return err
			}
			if err := c.Sync(ctx, doc, m); err != nil {
				return err
			}

			fmt.Printf("%s @ %s: %s\n", doc.Key(), doc.Checkpoint(), doc.Marshal())
			return nil
		},
	}

	cobraCmd.Flags().StringVar(&mode, "mode", "pushPull", "sync mode: pushPull, pushOnly, or pullOnly")
	return cobraCmd
}

func parsePushPullMode(s string) (client.PushPullMode, error) {
	switch s {
	case "pushPull":
		return client.PushPull, nil
	case "pushOnly":
		return client.PushOnly, nil
	case "pullOnly":
		return client.PullOnly, nil
	default:
		return 0, fmt.Errorf("unknown sync mode %q", s)
	}
}
