// Package bitcoin implements the Bitcoin node query client.
package bitcoin

import (
	"context"
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/goodnatureofminers/blockgraph/internal/model"
	"github.com/goodnatureofminers/blockgraph/pkg/safe"
)

// NodeSource answers chain-tip queries against a Bitcoin node.
// Every call goes to the live node; failures are *model.RemoteQueryError.
type NodeSource struct {
	rpc RPC
}

// NewNodeSource creates a NodeSource for Bitcoin.
func NewNodeSource(rpc RPC) *NodeSource {
	return &NodeSource{rpc: rpc}
}

// ChainHeight returns the height of the chain tip.
func (s *NodeSource) ChainHeight(ctx context.Context) (uint64, error) {
	if err := ctx.Err(); err != nil {
		return 0, remoteErr("getblockcount", err)
	}
	count, err := s.rpc.GetBlockCount()
	if err != nil {
		return 0, remoteErr("getblockcount", err)
	}
	height, err := safe.Uint64(count)
	if err != nil {
		return 0, remoteErr("getblockcount", fmt.Errorf("block count overflow: %w", err))
	}
	return height, nil
}

// BestBlockHash returns the hash of the chain tip.
func (s *NodeSource) BestBlockHash(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", remoteErr("getbestblockhash", err)
	}
	hash, err := s.rpc.GetBestBlockHash()
	if err != nil {
		return "", remoteErr("getbestblockhash", err)
	}
	if hash == nil {
		return "", remoteErr("getbestblockhash", errors.New("empty hash"))
	}
	return hash.String(), nil
}

// BlockByHash retrieves the block document for hash.
func (s *NodeSource) BlockByHash(ctx context.Context, hash string) (*model.NodeBlock, error) {
	if err := ctx.Err(); err != nil {
		return nil, remoteErr("getblock", err)
	}
	blockHash, err := chainhash.NewHashFromStr(hash)
	if err != nil {
		return nil, remoteErr("getblock", fmt.Errorf("parse block hash %q: %w", hash, err))
	}
	src, err := s.rpc.GetBlockVerbose(blockHash)
	if err != nil {
		return nil, remoteErr("getblock", fmt.Errorf("get block %s: %w", hash, err))
	}

	block, err := convertBlock(src)
	if err != nil {
		return nil, remoteErr("getblock", err)
	}
	return block, nil
}

func convertBlock(src *BlockVerboseResult) (*model.NodeBlock, error) {
	if src == nil {
		return nil, errors.New("empty block document")
	}
	if src.Hash == "" {
		return nil, errors.New("block document without hash")
	}
	height, err := safe.Uint64(src.Height)
	if err != nil {
		return nil, fmt.Errorf("block %s height: %w", src.Hash, err)
	}

	txCount, err := safe.Uint64(src.NTx)
	if err != nil {
		return nil, fmt.Errorf("block %s nTx: %w", src.Hash, err)
	}
	if txCount == 0 {
		txCount = uint64(len(src.Tx))
	}

	txids := make([]string, len(src.Tx))
	copy(txids, src.Tx)

	return &model.NodeBlock{
		Height:  height,
		Hash:    src.Hash,
		TxCount: txCount,
		Time:    src.Time,
		TxIDs:   txids,
	}, nil
}

func remoteErr(method string, err error) error {
	return &model.RemoteQueryError{Method: method, Err: err}
}
