package neo4j

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goodnatureofminers/blockgraph/internal/model"
	"github.com/goodnatureofminers/blockgraph/pkg/safe"
)

const upsertBlockQuery = `
MERGE (b:Block {height: $height, hash: $hash})
ON CREATE SET b.size = $size, b.time = $time
RETURN b.height AS height, b.hash AS hash, b.size AS size, b.time AS time`

// UpsertBlock merges a Block keyed by height and hash. Size and time are set
// only when the node is created; an existing node keeps its original values.
func (r *Repository) UpsertBlock(ctx context.Context, block model.Block) (model.UpsertedBlock, error) {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("upsert_block", err, start)
	}()

	params, err := blockParams(block)
	if err != nil {
		err = writeErr("upsert_block", err)
		return model.UpsertedBlock{}, err
	}

	res, err := r.exec.Write(ctx, upsertBlockQuery, params)
	if err != nil {
		err = writeErr("upsert_block", err)
		return model.UpsertedBlock{}, err
	}
	if len(res.Records) == 0 {
		err = writeErr("upsert_block", errors.New("merge returned no block"))
		return model.UpsertedBlock{}, err
	}

	stored, err := scanBlock(res.Records[0])
	if err != nil {
		err = writeErr("upsert_block", err)
		return model.UpsertedBlock{}, err
	}

	return model.UpsertedBlock{
		Block:   stored,
		Created: res.NodesCreated > 0,
	}, nil
}

func blockParams(block model.Block) (map[string]any, error) {
	if block.Hash == "" {
		return nil, errors.New("block hash is required")
	}
	height, err := safe.Int64(block.Height)
	if err != nil {
		return nil, fmt.Errorf("block height: %w", err)
	}
	size, err := safe.Int64(block.Size)
	if err != nil {
		return nil, fmt.Errorf("block size: %w", err)
	}
	return map[string]any{
		"height": height,
		"hash":   block.Hash,
		"size":   size,
		"time":   block.Time,
	}, nil
}
