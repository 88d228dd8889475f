package neo4j

import (
	"context"
	"time"

	"github.com/goodnatureofminers/blockgraph/internal/model"
	"github.com/goodnatureofminers/blockgraph/pkg/safe"
)

const blockByHeightQuery = `
MATCH (b:Block {height: $height})
RETURN b.height AS height, b.hash AS hash, b.size AS size, b.time AS time
LIMIT 1`

// BlockByHeight returns the block stored at height or model.ErrNotFound.
func (r *Repository) BlockByHeight(ctx context.Context, height uint64) (model.Block, error) {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("block_by_height", err, start)
	}()

	h, convErr := safe.Int64(height)
	if convErr != nil {
		// no block can be stored above the int64 range
		return model.Block{}, model.ErrNotFound
	}

	res, err := r.exec.Read(ctx, blockByHeightQuery, map[string]any{"height": h})
	if err != nil {
		err = readErr("block_by_height", err)
		return model.Block{}, err
	}
	if len(res.Records) == 0 {
		return model.Block{}, model.ErrNotFound
	}

	block, err := scanBlock(res.Records[0])
	if err != nil {
		err = readErr("block_by_height", err)
		return model.Block{}, err
	}
	return block, nil
}
