package launcher

// Defaults bundles the baseline configuration values the launcher uses
// before flags override them.
type Defaults struct {
	Node    NodeDefaults
	Network NetworkDefaults
	RPC     RPCDefaults
	TxPool  TxPoolDefaults
	Logging LoggingDefaults
}

type NodeDefaults struct {
	Name       string
	MaxPeers   int
	ListenAddr string
	ListenPort int
}

type NetworkDefaults struct {
	ChainName string
	Bootnodes []string
}

type RPCDefaults struct {
	EnableHTTP bool
	HTTPAddr   string
	HTTPPort   int
	HTTPAPI    []string

	EnableWS bool
	WSAddr   string
	WSPort   int
	WSAPI    []string

	EnableIPC bool
	IPCPath   string
}

type TxPoolDefaults struct {
	Journal       string
	PriceLimit    uint64
	PriceBump     uint64
	AccountSlots  uint64
	GlobalSlots   uint64
	AccountQueue  uint64
	GlobalQueue   uint64
	TxLifetimeSec uint64
}

type LoggingDefaults struct {
	Verbosity int
	Format    string
	Color     bool
}

// DefaultConfig returns the baseline defaults.
func DefaultConfig() Defaults {
	return Defaults{
		Node: NodeDefaults{
			Name:       "berad",
			MaxPeers:   50,
			ListenAddr: "0.0.0.0",
			ListenPort: 30303,
		},
		Network: NetworkDefaults{
			ChainName: "mainnet",
			Bootnodes: []string{},
		},
		RPC: RPCDefaults{
			EnableHTTP: true,
			HTTPAddr:   "127.0.0.1",
			HTTPPort:   8545,
			HTTPAPI:    []string{"eth", "net", "web3"},
			EnableWS:   true,
			WSAddr:     "127.0.0.1",
			WSPort:     8546,
			WSAPI:      []string{"eth", "net", "web3"},
			EnableIPC:  true,
			IPCPath:    "berad.ipc",
		},
		TxPool: TxPoolDefaults{
			Journal:       "transactions.rlp",
			// PriceLimit matches the Prague1 base-fee floor; anything
			// cheaper can never be included.
			PriceLimit:    1_000_000_000,
			PriceBump:     10,
			AccountSlots:  16,
			GlobalSlots:   4096,
			AccountQueue:  64,
			GlobalQueue:   1024,
			TxLifetimeSec: 10800,
		},
		Logging: LoggingDefaults{
			Verbosity: 3,
			Format:    "text",
			Color:     true,
		},
	}
}
