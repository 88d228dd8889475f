package neo4j

import (
	"context"
	"errors"
	"time"

	"github.com/goodnatureofminers/blockgraph/internal/model"
	"github.com/goodnatureofminers/blockgraph/pkg/safe"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

const linkBlocksQuery = `
MATCH (current:Block {height: $height})
MATCH (previous:Block {height: $previous})
MERGE (current)-[:NEXT]->(previous)
RETURN count(*) AS linked`

// LinkBlocks merges a NEXT edge from the block at height to the block at height-1.
// When either block is absent no edge is created and Linked is false.
func (r *Repository) LinkBlocks(ctx context.Context, height uint64) (model.BlockLink, error) {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("link_blocks", err, start)
	}()

	link := model.BlockLink{Height: height}
	if height == 0 {
		return link, nil
	}

	h, err := safe.Int64(height)
	if err != nil {
		err = writeErr("link_blocks", err)
		return link, err
	}

	res, err := r.exec.Write(ctx, linkBlocksQuery, map[string]any{
		"height":   h,
		"previous": h - 1,
	})
	if err != nil {
		err = writeErr("link_blocks", err)
		return link, err
	}
	if len(res.Records) == 0 {
		err = writeErr("link_blocks", errors.New("link returned no rows"))
		return link, err
	}

	linked, _, err := neo4j.GetRecordValue[int64](res.Records[0], "linked")
	if err != nil {
		err = writeErr("link_blocks", err)
		return link, err
	}

	link.Linked = linked > 0
	link.Created = res.RelationshipsCreated > 0
	return link, nil
}
