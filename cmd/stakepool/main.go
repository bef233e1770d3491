// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// stakepool runs staking pool scenarios and serves the pool API.
package main

import (
	"fmt"
	"os"

	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/stakepool/log"
)

var (
	version   string
	gitCommit string
	gitTag    string

	logger = log.WithContext("pkg", "main")
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func main() {
	app := cli.App{
		Version:   fullVersion(),
		Name:      "stakepool",
		Usage:     "Proportional reward staking pools",
		Copyright: "2025 VeChain Foundation <https://vechain.org/>",
		Commands: []cli.Command{
			{
				Name:      "run",
				Usage:     "replay a scenario on an in-memory chain",
				ArgsUsage: "<scenario.yaml>",
				Flags: []cli.Flag{
					fuelLimitFlag,
					dumpFlag,
					verbosityFlag,
					jsonLogsFlag,
				},
				Action: runAction,
			},
			{
				Name:  "serve",
				Usage: "serve the API over a data dir",
				Flags: []cli.Flag{
					dataDirFlag,
					backendFlag,
					cacheFlag,
					genesisFlag,
					apiAddrFlag,
					apiCorsFlag,
					apiSlowQueriesThresholdFlag,
					apiLog5xxErrorsFlag,
					enableAPILogsFlag,
					enableMetricsFlag,
					pprofFlag,
					adminAddrFlag,
					fuelLimitFlag,
					verbosityFlag,
					jsonLogsFlag,
				},
				Action: serveAction,
			},
			{
				Name:      "export",
				Usage:     "write a snapshot of the data dir",
				ArgsUsage: "<file>",
				Flags: []cli.Flag{
					dataDirFlag,
					backendFlag,
					verbosityFlag,
					jsonLogsFlag,
				},
				Action: exportAction,
			},
			{
				Name:      "import",
				Usage:     "restore a snapshot into an empty data dir",
				ArgsUsage: "<file>",
				Flags: []cli.Flag{
					dataDirFlag,
					backendFlag,
					verbosityFlag,
					jsonLogsFlag,
				},
				Action: importAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
