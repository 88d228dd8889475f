package bitcoin

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/btcsuite/btcd/btcjson"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// BlockVerboseResult is a getblock verbosity 1 document.
// btcjson does not model nTx, which bitcoind reports alongside the txid list.
type BlockVerboseResult struct {
	btcjson.GetBlockVerboseResult
	NTx int64 `json:"nTx"`
}

// RPCClient instruments a RawClient with metrics.
type RPCClient struct {
	client     RawClient
	rpcMetrics RPCMetrics
}

// NewRPCClient constructs an instrumented RPC client.
func NewRPCClient(client RawClient, rpcMetrics RPCMetrics) *RPCClient {
	return &RPCClient{
		client:     client,
		rpcMetrics: rpcMetrics,
	}
}

// GetBlockCount returns the latest block count.
func (r *RPCClient) GetBlockCount() (count int64, err error) {
	started := time.Now()
	defer func() {
		r.rpcMetrics.Observe("get_block_count", err, started)
	}()
	return r.client.GetBlockCount()
}

// GetBestBlockHash returns the hash of the chain tip.
func (r *RPCClient) GetBestBlockHash() (hash *chainhash.Hash, err error) {
	started := time.Now()
	defer func() {
		r.rpcMetrics.Observe("get_best_block_hash", err, started)
	}()
	return r.client.GetBestBlockHash()
}

// GetBlockVerbose returns the block document with its txid list.
func (r *RPCClient) GetBlockVerbose(blockHash *chainhash.Hash) (res *BlockVerboseResult, err error) {
	started := time.Now()
	defer func() {
		r.rpcMetrics.Observe("get_block_verbose", err, started)
	}()

	hashParam, err := json.Marshal(blockHash.String())
	if err != nil {
		return nil, fmt.Errorf("marshal block hash: %w", err)
	}
	verbosityParam, err := json.Marshal(1)
	if err != nil {
		return nil, fmt.Errorf("marshal verbosity: %w", err)
	}

	raw, err := r.client.RawRequest("getblock", []json.RawMessage{hashParam, verbosityParam})
	if err != nil {
		return nil, err
	}

	res = &BlockVerboseResult{}
	if err = json.Unmarshal(raw, res); err != nil {
		return nil, fmt.Errorf("decode getblock result: %w", err)
	}
	return res, nil
}
