// Package model defines domain models for the block graph.
package model

import "time"

// BlockTimeLayout is the representation of block time stored on Block nodes.
const BlockTimeLayout = "2006-01-02T15:04:05"

// NodeBlock is the subset of a node's getblock document needed for ingestion.
type NodeBlock struct {
	Height  uint64
	Hash    string
	TxCount uint64
	Time    int64
	TxIDs   []string
}

// Block represents a block node persisted to the graph store.
type Block struct {
	Height uint64
	Hash   string
	Size   uint64
	Time   string
}

// UpsertedBlock is the outcome of a block merge.
type UpsertedBlock struct {
	Block   Block
	Created bool
}

// BlockView is the read model returned by block lookups.
type BlockView struct {
	Height uint64 `json:"height"`
	Hash   string `json:"hash"`
	Size   uint64 `json:"size"`
	Time   string `json:"time"`
}

// TransactionView is the read model returned by transaction lookups.
type TransactionView struct {
	TxID   string `json:"txid"`
	Height uint64 `json:"height"`
}

// FormatBlockTime renders node epoch seconds the way Block.Time stores them.
func FormatBlockTime(epoch int64) string {
	return time.Unix(epoch, 0).UTC().Format(BlockTimeLayout)
}

// BlockFromNode maps a node block document into a Block.
func BlockFromNode(src NodeBlock) Block {
	return Block{
		Height: src.Height,
		Hash:   src.Hash,
		Size:   src.TxCount,
		Time:   FormatBlockTime(src.Time),
	}
}

// BlockLink is the outcome of linking a block to its predecessor.
type BlockLink struct {
	Height  uint64
	Linked  bool
	Created bool
}
