// Package launcher wires flags, config and genesis into a running node.
package launcher

import (
	"github.com/sirupsen/logrus"
	"gopkg.in/urfave/cli.v1"

	"github.com/DeluxeRaph/bera-reth/bera"
	"github.com/DeluxeRaph/bera-reth/flags"
)

var app = flags.NewApp()

func init() {
	app.Action = run
	app.Flags = append(app.Flags, flags.CommonFlags()...)
	app.Flags = append(app.Flags, flags.NodeFlags()...)
	app.Flags = append(app.Flags, flags.NetworkFlags()...)
	app.Flags = append(app.Flags, flags.TxPoolFlags()...)
	app.Flags = append(app.Flags, flags.ChainFlags()...)
}

// Launch runs the CLI app.
func Launch(args []string) error {
	return app.Run(args)
}

func run(ctx *cli.Context) error {
	cfg := MakeAllConfigs(ctx)
	setupLogging(cfg.Node.Logging)

	spec, err := makeChainSpec(ctx)
	if err != nil {
		return err
	}
	logChainSpec(spec)
	return nil
}

func setupLogging(cfg LoggingConfig) {
	if cfg.Format == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{ForceColors: cfg.Color})
	}
	switch {
	case cfg.Verbosity <= 1:
		logrus.SetLevel(logrus.ErrorLevel)
	case cfg.Verbosity == 2:
		logrus.SetLevel(logrus.WarnLevel)
	case cfg.Verbosity == 3:
		logrus.SetLevel(logrus.InfoLevel)
	case cfg.Verbosity == 4:
		logrus.SetLevel(logrus.DebugLevel)
	default:
		logrus.SetLevel(logrus.TraceLevel)
	}
}

func logChainSpec(spec *bera.ChainSpec) {
	logrus.WithFields(logrus.Fields{
		"chainId":        spec.ChainID,
		"polDistributor": spec.Prague1Params.PolDistributorAddress,
		"minBaseFeeWei":  spec.Prague1Params.MinimumBaseFeeWei,
	}).Info("chain spec assembled")
	for _, fork := range spec.Forks() {
		c := spec.Condition(fork)
		entry := logrus.WithField("fork", string(fork))
		switch c.Kind {
		case bera.ConditionBlock:
			entry.WithField("block", c.Block).Info("scheduled")
		case bera.ConditionTimestamp:
			entry.WithField("time", c.Time).Info("scheduled")
		case bera.ConditionTTD:
			entry.WithField("ttd", c.TotalDifficulty).Info("scheduled")
		default:
			entry.Info("unscheduled")
		}
	}
}
