/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package pid-rest PID issuer REST API.
package main

import (
	"github.com/spf13/cobra"
	"github.com/trustbloc/logutil-go/pkg/log"

	"github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/cmd/pid-rest/startcmd"
)

var logger = log.New("pid-rest")
var Version string // will be embeded during build

func main() {
	rootCmd := &cobra.Command{
		Use: "pid-rest",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.HelpFunc()(cmd, args)
		},
	}

	rootCmd.AddCommand(startcmd.GetStartCmd(startcmd.WithVersion(Version)))

	if err := rootCmd.Execute(); err != nil {
		logger.Fatal("Failed to run pid-rest", log.WithError(err))
	}
}
