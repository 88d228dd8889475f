// Package neo4j stores blocks and transactions as a Neo4j graph.
package neo4j

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goodnatureofminers/blockgraph/internal/model"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	Metrics interface {
		Observe(operation string, err error, started time.Time)
	}
	// Executor runs a single Cypher statement in a managed transaction.
	Executor interface {
		Write(ctx context.Context, query string, params map[string]any) (*Result, error)
		Read(ctx context.Context, query string, params map[string]any) (*Result, error)
	}
)

// Result is an eagerly collected statement result with its write counters.
type Result struct {
	Records              []*neo4j.Record
	NodesCreated         int
	RelationshipsCreated int
}

// Config holds graph store connection settings.
type Config struct {
	URI      string
	Username string
	Password string
	Database string
}

// Repository is the shared graph store handle. One instance serves every
// ingestion and query operation; the underlying driver is safe for concurrent use.
type Repository struct {
	driver  neo4j.DriverWithContext
	exec    Executor
	metrics Metrics
}

// NewRepository opens a driver for cfg. The driver connects lazily.
func NewRepository(cfg Config, metrics Metrics) (*Repository, error) {
	if cfg.URI == "" {
		return nil, errors.New("neo4j uri is required")
	}

	auth := neo4j.NoAuth()
	if cfg.Username != "" {
		auth = neo4j.BasicAuth(cfg.Username, cfg.Password, "")
	}

	driver, err := neo4j.NewDriverWithContext(cfg.URI, auth, func(c *neo4j.Config) {
		c.MaxTransactionRetryTime = 0
	})
	if err != nil {
		return nil, fmt.Errorf("open neo4j driver: %w", err)
	}

	return &Repository{
		driver:  driver,
		exec:    &driverExecutor{driver: driver, database: cfg.Database},
		metrics: metrics,
	}, nil
}

// VerifyConnectivity checks that the graph store accepts connections.
func (r *Repository) VerifyConnectivity(ctx context.Context) error {
	if r.driver == nil {
		return errors.New("neo4j driver is not initialized")
	}
	return r.driver.VerifyConnectivity(ctx)
}

// Close releases the driver and its connection pool.
func (r *Repository) Close(ctx context.Context) error {
	if r.driver == nil {
		return nil
	}
	return r.driver.Close(ctx)
}

type driverExecutor struct {
	driver   neo4j.DriverWithContext
	database string
}

func (e *driverExecutor) Write(ctx context.Context, query string, params map[string]any) (*Result, error) {
	return e.execute(ctx, neo4j.AccessModeWrite, query, params)
}

func (e *driverExecutor) Read(ctx context.Context, query string, params map[string]any) (*Result, error) {
	return e.execute(ctx, neo4j.AccessModeRead, query, params)
}

// execute runs query in one explicit transaction. A failure is returned as is, never reattempted.
func (e *driverExecutor) execute(
	ctx context.Context,
	mode neo4j.AccessMode,
	query string,
	params map[string]any,
) (*Result, error) {
	session := e.driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   mode,
		DatabaseName: e.database,
	})
	defer func() {
		_ = session.Close(ctx)
	}()

	tx, err := session.BeginTransaction(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Close(ctx)
	}()

	cursor, err := tx.Run(ctx, query, params)
	if err != nil {
		return nil, fmt.Errorf("run statement: %w", err)
	}
	records, err := cursor.Collect(ctx)
	if err != nil {
		return nil, fmt.Errorf("collect records: %w", err)
	}
	summary, err := cursor.Consume(ctx)
	if err != nil {
		return nil, fmt.Errorf("consume result: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	out := &Result{Records: records}
	if summary != nil {
		counters := summary.Counters()
		out.NodesCreated = counters.NodesCreated()
		out.RelationshipsCreated = counters.RelationshipsCreated()
	}
	return out, nil
}

func writeErr(operation string, err error) error {
	return &model.StoreWriteError{Operation: operation, Err: err}
}

func readErr(operation string, err error) error {
	return &model.StoreReadError{Operation: operation, Err: err}
}
