package flags

import (
	cli "gopkg.in/urfave/cli.v1"
)

// CommonFlags is the base flag set every command carries: data directory,
// logging and the JSON-RPC endpoints.
func CommonFlags() []cli.Flag {
	return []cli.Flag{
		cli.StringFlag{
			Name:  "datadir",
			Usage: "Data directory for databases and keystore",
			Value: "~/.berad",
		},
		cli.StringFlag{
			Name:  "log.format",
			Usage: "Log output format (text|json)",
			Value: "text",
		},
		cli.IntFlag{
			Name:  "log.verbosity",
			Usage: "Log verbosity, 0=error up to 5=trace",
			Value: 3,
		},
		cli.BoolFlag{
			Name:  "log.color",
			Usage: "Colorize text log output",
		},
		cli.BoolFlag{
			Name:  "http",
			Usage: "Enable the HTTP JSON-RPC server",
		},
		cli.StringFlag{
			Name:  "http.addr",
			Usage: "HTTP-RPC listening interface",
			Value: "127.0.0.1",
		},
		cli.IntFlag{
			Name:  "http.port",
			Usage: "HTTP-RPC listening port",
			Value: 8545,
		},
		cli.StringFlag{
			Name:  "http.api",
			Usage: "APIs offered over HTTP-RPC, comma separated",
			Value: "eth,net,web3",
		},
		cli.BoolFlag{
			Name:  "ws",
			Usage: "Enable the WebSocket JSON-RPC server",
		},
		cli.StringFlag{
			Name:  "ws.addr",
			Usage: "WebSocket-RPC listening interface",
			Value: "127.0.0.1",
		},
		cli.IntFlag{
			Name:  "ws.port",
			Usage: "WebSocket-RPC listening port",
			Value: 8546,
		},
		cli.StringFlag{
			Name:  "ws.api",
			Usage: "APIs offered over WebSocket-RPC, comma separated",
			Value: "eth,net,web3",
		},
		cli.BoolFlag{
			Name:  "ipc",
			Usage: "Enable the IPC JSON-RPC endpoint",
		},
		cli.StringFlag{
			Name:  "ipc.path",
			Usage: "Filename for the IPC socket within the datadir",
			Value: "berad.ipc",
		},
	}
}
