package flags

import (
	"os"

	cli "gopkg.in/urfave/cli.v1"
)

// NewApp creates the base CLI app all commands hang off.
func NewApp() *cli.App {
	app := cli.NewApp()
	app.Name = "berad"
	app.Usage = "Berachain execution layer node"
	app.Version = "0.1.0"
	app.Writer = os.Stdout
	return app
}
