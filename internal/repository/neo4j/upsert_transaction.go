package neo4j

import (
	"context"
	"errors"
	"time"

	"github.com/goodnatureofminers/blockgraph/pkg/safe"
)

// The IN_BLOCK edge follows the latest height: an edge to any other block is dropped.
const upsertTransactionQuery = `
MERGE (t:Transaction {txid: $txid})
SET t.height = $height
WITH t
OPTIONAL MATCH (t)-[stale:IN_BLOCK]->(other:Block)
WHERE other.height <> $height
DELETE stale
WITH DISTINCT t
MATCH (b:Block {height: $height})
MERGE (t)-[:IN_BLOCK]->(b)`

// UpsertTransaction merges a Transaction keyed by txid and points it at the block at height.
func (r *Repository) UpsertTransaction(ctx context.Context, txid string, height uint64) error {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("upsert_transaction", err, start)
	}()

	if txid == "" {
		err = writeErr("upsert_transaction", errors.New("txid is required"))
		return err
	}
	h, err := safe.Int64(height)
	if err != nil {
		err = writeErr("upsert_transaction", err)
		return err
	}

	if _, err = r.exec.Write(ctx, upsertTransactionQuery, map[string]any{
		"txid":   txid,
		"height": h,
	}); err != nil {
		err = writeErr("upsert_transaction", err)
		return err
	}
	return nil
}
