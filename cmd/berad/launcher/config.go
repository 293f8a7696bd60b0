package launcher

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/urfave/cli.v1"
)

// Config aggregates every subsystem's configuration the launcher needs.
type Config struct {
	Node   NodeConfig
	Chain  ChainConfig
	TxPool TxPoolConfig
	Store  StoreConfig
}

type NodeConfig struct {
	DataDir string
	Name    string
	P2P     P2PConfig
	RPC     RPCConfig
	Logging LoggingConfig
}

type P2PConfig struct {
	ListenAddr string
	ListenPort int
	MaxPeers   int
	Bootnodes  []string
}

type RPCConfig struct {
	HTTPEnabled bool
	HTTPAddr    string
	HTTPPort    int
	HTTPAPI     []string

	EnableWS bool
	WSAddr   string
	WSPort   int
	WSAPI    []string

	EnableIPC bool
	IPCPath   string
}

type LoggingConfig struct {
	Verbosity int
	Format    string
	Color     bool
}

// ChainConfig selects the chain the node runs: a named preset or an explicit
// genesis file (the file wins when both are set).
type ChainConfig struct {
	Preset      string
	GenesisPath string
}

type TxPoolConfig struct {
	Journal       string
	PriceLimit    uint64
	PriceBump     uint64
	AccountSlots  uint64
	GlobalSlots   uint64
	AccountQueue  uint64
	GlobalQueue   uint64
	TxLifetimeSec uint64
}

type StoreConfig struct {
	Path    string
	CacheMB int
}

func defaultConfig() Config {
	home := GuessHomeDir()
	d := DefaultConfig()
	return Config{
		Node: NodeConfig{
			DataDir: filepath.Join(home, ".berad"),
			Name:    d.Node.Name,
			P2P: P2PConfig{
				ListenAddr: d.Node.ListenAddr,
				ListenPort: d.Node.ListenPort,
				MaxPeers:   d.Node.MaxPeers,
				Bootnodes:  d.Network.Bootnodes,
			},
			RPC: RPCConfig{
				HTTPEnabled: d.RPC.EnableHTTP,
				HTTPAddr:    d.RPC.HTTPAddr,
				HTTPPort:    d.RPC.HTTPPort,
				HTTPAPI:     d.RPC.HTTPAPI,
				EnableWS:    d.RPC.EnableWS,
				WSAddr:      d.RPC.WSAddr,
				WSPort:      d.RPC.WSPort,
				WSAPI:       d.RPC.WSAPI,
				EnableIPC:   d.RPC.EnableIPC,
				IPCPath:     d.RPC.IPCPath,
			},
			Logging: LoggingConfig{
				Verbosity: d.Logging.Verbosity,
				Format:    d.Logging.Format,
				Color:     d.Logging.Color,
			},
		},
		Chain: ChainConfig{
			Preset: d.Network.ChainName,
		},
		TxPool: TxPoolConfig{
			Journal:       d.TxPool.Journal,
			PriceLimit:    d.TxPool.PriceLimit,
			PriceBump:     d.TxPool.PriceBump,
			AccountSlots:  d.TxPool.AccountSlots,
			GlobalSlots:   d.TxPool.GlobalSlots,
			AccountQueue:  d.TxPool.AccountQueue,
			GlobalQueue:   d.TxPool.GlobalQueue,
			TxLifetimeSec: d.TxPool.TxLifetimeSec,
		},
		Store: StoreConfig{Path: "chaindata", CacheMB: 1024},
	}
}

// MakeAllConfigs merges defaults with CLI flag overrides.
func MakeAllConfigs(ctx *cli.Context) Config {
	cfg := defaultConfig()
	applyCLIOverrides(ctx, &cfg)
	if err := ensureDir(cfg.Node.DataDir); err != nil {
		panic(err)
	}
	return cfg
}

func applyCLIOverrides(ctx *cli.Context, cfg *Config) {
	if ctx.IsSet("datadir") {
		cfg.Node.DataDir = resolvePath(ctx.String("datadir"))
	}
	if ctx.IsSet("identity") {
		cfg.Node.Name = ctx.String("identity")
	}

	if ctx.IsSet("port") {
		cfg.Node.P2P.ListenPort = ctx.Int("port")
	}
	if ctx.IsSet("maxpeers") {
		cfg.Node.P2P.MaxPeers = ctx.Int("maxpeers")
	}
	if ctx.IsSet("bootnodes") {
		cfg.Node.P2P.Bootnodes = splitCSV(ctx.String("bootnodes"))
	}

	if ctx.Bool("http") {
		cfg.Node.RPC.HTTPEnabled = true
	}
	if ctx.IsSet("http.addr") {
		cfg.Node.RPC.HTTPAddr = ctx.String("http.addr")
	}
	if ctx.IsSet("http.port") {
		cfg.Node.RPC.HTTPPort = ctx.Int("http.port")
	}
	if ctx.IsSet("http.api") {
		cfg.Node.RPC.HTTPAPI = splitCSV(ctx.String("http.api"))
	}
	if ctx.Bool("ws") {
		cfg.Node.RPC.EnableWS = true
	}
	if ctx.IsSet("ws.addr") {
		cfg.Node.RPC.WSAddr = ctx.String("ws.addr")
	}
	if ctx.IsSet("ws.port") {
		cfg.Node.RPC.WSPort = ctx.Int("ws.port")
	}
	if ctx.IsSet("ws.api") {
		cfg.Node.RPC.WSAPI = splitCSV(ctx.String("ws.api"))
	}
	if ctx.IsSet("ipc") {
		cfg.Node.RPC.EnableIPC = ctx.Bool("ipc")
	}
	if ctx.IsSet("ipc.path") {
		cfg.Node.RPC.IPCPath = ctx.String("ipc.path")
	}

	if ctx.IsSet("log.format") {
		cfg.Node.Logging.Format = ctx.String("log.format")
	}
	if ctx.IsSet("log.verbosity") {
		cfg.Node.Logging.Verbosity = ctx.Int("log.verbosity")
	}
	if ctx.IsSet("log.color") {
		cfg.Node.Logging.Color = ctx.Bool("log.color")
	}

	if ctx.IsSet("txpool.journal") {
		cfg.TxPool.Journal = ctx.String("txpool.journal")
	}
	if ctx.IsSet("txpool.pricelimit") {
		cfg.TxPool.PriceLimit = ctx.Uint64("txpool.pricelimit")
	}
	if ctx.IsSet("txpool.pricebump") {
		cfg.TxPool.PriceBump = ctx.Uint64("txpool.pricebump")
	}
	if ctx.IsSet("txpool.localslots") {
		cfg.TxPool.AccountSlots = uint64(ctx.Int("txpool.localslots"))
	}
	if ctx.IsSet("txpool.globalslots") {
		cfg.TxPool.GlobalSlots = uint64(ctx.Int("txpool.globalslots"))
	}
	if ctx.IsSet("txpool.localqueue") {
		cfg.TxPool.AccountQueue = uint64(ctx.Int("txpool.localqueue"))
	}
	if ctx.IsSet("txpool.globalqueue") {
		cfg.TxPool.GlobalQueue = uint64(ctx.Int("txpool.globalqueue"))
	}
	if ctx.IsSet("txpool.lifetime") {
		cfg.TxPool.TxLifetimeSec = ctx.Uint64("txpool.lifetime")
	}

	if ctx.IsSet("genesis") {
		cfg.Chain.GenesisPath = resolvePath(ctx.String("genesis"))
	}
	if ctx.IsSet("preset") {
		cfg.Chain.Preset = ctx.String("preset")
	}
	if ctx.IsSet("cache") {
		cfg.Store.CacheMB = ctx.Int("cache")
	}
}

func ensureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create datadir %s: %w", dir, err)
	}
	return nil
}

func resolvePath(p string) string {
	if strings.HasPrefix(p, "~") {
		return filepath.Join(GuessHomeDir(), strings.TrimPrefix(p, "~"))
	}
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(GuessWorkDir(), p)
}

func splitCSV(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func GuessWorkDir() string {
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return "."
}

func GuessHomeDir() string {
	if dir, err := os.UserHomeDir(); err == nil {
		return dir
	}
	return "."
}
