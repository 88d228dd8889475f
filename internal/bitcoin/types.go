package bitcoin

import (
	"encoding/json"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	// RawClient sends JSON-RPC calls to the node; HTTPClient implements it.
	RawClient interface {
		GetBlockCount() (int64, error)
		GetBestBlockHash() (*chainhash.Hash, error)
		RawRequest(method string, params []json.RawMessage) (json.RawMessage, error)
	}
	// RPC is the instrumented node API consumed by NodeSource.
	RPC interface {
		GetBlockCount() (int64, error)
		GetBestBlockHash() (*chainhash.Hash, error)
		GetBlockVerbose(blockHash *chainhash.Hash) (*BlockVerboseResult, error)
	}
	// RPCMetrics records metrics for RPC calls.
	RPCMetrics interface {
		Observe(operation string, err error, started time.Time)
	}
)
