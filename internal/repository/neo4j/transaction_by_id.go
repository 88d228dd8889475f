package neo4j

import (
	"context"
	"time"

	"github.com/goodnatureofminers/blockgraph/internal/model"
)

const transactionByIDQuery = `
MATCH (t:Transaction {txid: $txid})
RETURN t.txid AS txid, t.height AS height
LIMIT 1`

// TransactionByID returns the transaction with txid or model.ErrNotFound.
func (r *Repository) TransactionByID(ctx context.Context, txid string) (model.TransactionView, error) {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("transaction_by_id", err, start)
	}()

	if txid == "" {
		return model.TransactionView{}, model.ErrNotFound
	}

	res, err := r.exec.Read(ctx, transactionByIDQuery, map[string]any{"txid": txid})
	if err != nil {
		err = readErr("transaction_by_id", err)
		return model.TransactionView{}, err
	}
	if len(res.Records) == 0 {
		return model.TransactionView{}, model.ErrNotFound
	}

	tx, err := scanTransaction(res.Records[0])
	if err != nil {
		err = readErr("transaction_by_id", err)
		return model.TransactionView{}, err
	}
	return tx, nil
}
