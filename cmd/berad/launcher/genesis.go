package launcher

import (
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/urfave/cli.v1"

	"github.com/DeluxeRaph/bera-reth/bera"
	"github.com/DeluxeRaph/bera-reth/bera/genesis"
	"github.com/DeluxeRaph/bera-reth/integration"
)

// genesisFile is the outer genesis JSON; only the config object matters to
// chain-spec assembly.
type genesisFile struct {
	Config json.RawMessage `json:"config"`
}

// makeChainSpec assembles the chain spec from --genesis when given, from the
// named --preset otherwise.
func makeChainSpec(ctx *cli.Context) (*bera.ChainSpec, error) {
	if path := ctx.String("genesis"); path != "" {
		return chainSpecFromFile(path)
	}
	return integration.MakeChainSpec(ctx.String("preset"))
}

func chainSpecFromFile(path string) (*bera.ChainSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read genesis file: %w", err)
	}
	var file genesisFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse genesis file %s: %w", path, err)
	}
	if len(file.Config) == 0 {
		return nil, fmt.Errorf("genesis file %s has no config object", path)
	}
	cfg, err := genesis.ConfigFromJSON(file.Config)
	if err != nil {
		return nil, err
	}
	return bera.FromGenesis(cfg)
}
