// Copyright 2024 The TreeQL Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Command treeqld starts a server with an empty Unit root and serves it
// over TCP until killed. It exists to give the core engine a runnable
// entry point; nothing about the wire protocol or evaluator depends on it.
package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/treeql/treeql/schema"
	"github.com/treeql/treeql/server"
	"github.com/treeql/treeql/value"
)

func main() {
	var address string

	rootCmd := &cobra.Command{
		Use:   "treeqld",
		Short: "treeql server",
		Long:  "Serves a single typed value tree over the treeql wire protocol.",
		RunE: func(cmd *cobra.Command, args []string) error {
			s := server.New(schema.UnitSchema, value.NewCell(value.Value{Kind: schema.Unit}))
			s.Log.SetLevel(logrus.InfoLevel)
			return s.ListenTCP(address)
		},
	}

	rootCmd.Flags().StringVarP(&address, "address", "a", ":4242", "address to listen on")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
