package flags

import (
	"gopkg.in/urfave/cli.v1"
)

// ChainFlags selects which chain the node runs.
func ChainFlags() []cli.Flag {
	return []cli.Flag{
		cli.StringFlag{
			Name:  "preset",
			Usage: "Named chain preset (mainnet|bepolia|fake)",
			Value: "mainnet",
		},
		cli.StringFlag{
			Name:  "genesis",
			Usage: "Path to a genesis JSON file (overrides --preset)",
		},
	}
}
