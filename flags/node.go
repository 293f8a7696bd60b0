package flags

import (
	cli "gopkg.in/urfave/cli.v1"
)

// NodeFlags covers the local node instance: identity and resource knobs.
func NodeFlags() []cli.Flag {
	return []cli.Flag{
		cli.StringFlag{
			Name:  "identity",
			Usage: "Node name advertised to peers",
		},
		cli.IntFlag{
			Name:  "cache",
			Usage: "Megabytes of memory allocated to the store cache",
			Value: 1024,
		},
	}
}
