// Copyright 2025 SirSeer, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newWhoamiCommand(common *commonOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Print the account id behind the configured credentials",
		Long: `Verify the configured credentials against the server and print the id of
the account they belong to. Useful for filling in server.account_id.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := newSession(cmd, common, nil)
			if err != nil {
				return err
			}

			s.cfg.Server.AccountID = ""
			_, accountID, err := s.connect(cmd.Context(), true)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), accountID)
			return err
		},
	}
}
