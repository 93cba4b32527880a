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

	"github.com/hugehoo/yorkie-client/pkg/client"
	"github.com/hugehoo/yorkie-client/pkg/client/memconn"
)

// activatedClient creates and activates a Client against sharedHub using
// flagClientKey as its key.
func activatedClient(ctx context.Context) (*client.Client, error) {
	opts := client.NewOptions()
	opts.Key = flagClientKey

	c, err := client.New(memconn.New(sharedHub), opts)
	if err != nil {
		return nil, err
	}
	if err := c.Activate(ctx); err != nil {
		return nil, err
	}
	return c, nil
}
