package neo4j

import (
	"fmt"

	"github.com/goodnatureofminers/blockgraph/internal/model"
	"github.com/goodnatureofminers/blockgraph/pkg/safe"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

func scanBlock(record *neo4j.Record) (model.Block, error) {
	height, err := recordUint64(record, "height")
	if err != nil {
		return model.Block{}, err
	}
	size, err := recordUint64(record, "size")
	if err != nil {
		return model.Block{}, err
	}
	hash, err := recordString(record, "hash")
	if err != nil {
		return model.Block{}, err
	}
	blockTime, err := recordString(record, "time")
	if err != nil {
		return model.Block{}, err
	}

	return model.Block{
		Height: height,
		Hash:   hash,
		Size:   size,
		Time:   blockTime,
	}, nil
}

func scanTransaction(record *neo4j.Record) (model.TransactionView, error) {
	txid, err := recordString(record, "txid")
	if err != nil {
		return model.TransactionView{}, err
	}
	height, err := recordUint64(record, "height")
	if err != nil {
		return model.TransactionView{}, err
	}
	return model.TransactionView{TxID: txid, Height: height}, nil
}

func recordUint64(record *neo4j.Record, key string) (uint64, error) {
	v, isNil, err := neo4j.GetRecordValue[int64](record, key)
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", key, err)
	}
	if isNil {
		return 0, fmt.Errorf("read %s: value is null", key)
	}
	out, err := safe.Uint64(v)
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", key, err)
	}
	return out, nil
}

func recordString(record *neo4j.Record, key string) (string, error) {
	v, isNil, err := neo4j.GetRecordValue[string](record, key)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", key, err)
	}
	if isNil {
		return "", fmt.Errorf("read %s: value is null", key)
	}
	return v, nil
}
