package flags

import (
	cli "gopkg.in/urfave/cli.v1"
)

// NetworkFlags covers the P2P surface.
func NetworkFlags() []cli.Flag {
	return []cli.Flag{
		cli.IntFlag{
			Name:  "port",
			Usage: "P2P listening port",
			Value: 30303,
		},
		cli.IntFlag{
			Name:  "maxpeers",
			Usage: "Maximum number of peer connections",
			Value: 50,
		},
		cli.StringFlag{
			Name:  "bootnodes",
			Usage: "Bootstrap enode URLs, comma separated",
		},
	}
}

// TxPoolFlags covers the transaction-pool tuning knobs. The price-limit
// default matches the network's minimum base fee; anything cheaper can never
// be included in a block.
func TxPoolFlags() []cli.Flag {
	return []cli.Flag{
		cli.StringFlag{
			Name:  "txpool.journal",
			Usage: "Transaction journal file for local transactions",
			Value: "transactions.rlp",
		},
		cli.Uint64Flag{
			Name:  "txpool.pricelimit",
			Usage: "Minimum gas price in wei to accept a transaction",
			Value: 1_000_000_000,
		},
		cli.Uint64Flag{
			Name:  "txpool.pricebump",
			Usage: "Price bump percentage to replace a pending transaction",
			Value: 10,
		},
		cli.IntFlag{
			Name:  "txpool.localslots",
			Usage: "Executable transaction slots per account",
			Value: 16,
		},
		cli.IntFlag{
			Name:  "txpool.globalslots",
			Usage: "Executable transaction slots in total",
			Value: 4096,
		},
		cli.IntFlag{
			Name:  "txpool.localqueue",
			Usage: "Queued transaction slots per account",
			Value: 64,
		},
		cli.IntFlag{
			Name:  "txpool.globalqueue",
			Usage: "Queued transaction slots in total",
			Value: 1024,
		},
		cli.Uint64Flag{
			Name:  "txpool.lifetime",
			Usage: "Seconds a queued transaction may wait before eviction",
			Value: 10800,
		},
	}
}
