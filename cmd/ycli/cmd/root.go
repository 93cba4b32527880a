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

// Package cmd implements the ycli command tree.
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/hugehoo/yorkie-client/pkg/client/memconn"
)

// sharedHub stands in for the coordinator every subcommand talks to. A
// real deployment would instead dial a coordinator via client.Dial and a
// generated RPC stub implementing client.Connector; ycli demonstrates
// the state machine without requiring one, so each run gets its own
// fresh in-process hub.
var sharedHub = memconn.NewHub()

var (
	flagClientKey string
	flagDocKey    string
)

// New builds the root ycli command.
func New() *cobra.Command {
	root := &cobra.Command{
		Use:   "ycli",
		Short: "Drive the client state machine from the command line",
		Long: "ycli exercises activate/attach/edit/sync/status against an " +
			"in-process coordinator, for smoke-testing the client package " +
			"without a UI.",
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&flagClientKey, "client-key", "ycli", "client key")
	root.PersistentFlags().StringVar(&flagDocKey, "document", "ycli-doc", "document key")

	root.AddCommand(newActivateCommand())
	root.AddCommand(newAttachCommand())
	root.AddCommand(newEditCommand())
	root.AddCommand(newSyncCommand())
	root.AddCommand(newStatusCommand())

	return root
}
