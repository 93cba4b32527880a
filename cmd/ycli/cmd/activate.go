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
)

func newActivateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "activate",
		Short: "Acquire an actor ID for --client-key",
		RunE: func(_ *cobra.Command, args []string) error {
			ctx := context.Background()
			c, err := activatedClient(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = c.Deactivate(ctx) }()

			fmt.Printf("activated %s as actor %s\n", c.Key(), c.ActorID())
			return nil
		},
	}
}
