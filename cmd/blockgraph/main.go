package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/goodnatureofminers/blockgraph/internal/bitcoin"
	"github.com/goodnatureofminers/blockgraph/internal/metrics"
	"github.com/goodnatureofminers/blockgraph/internal/model"
	"github.com/goodnatureofminers/blockgraph/internal/repository/clickhouse"
	"github.com/goodnatureofminers/blockgraph/internal/repository/neo4j"
	"github.com/goodnatureofminers/blockgraph/internal/service/explorer"
	"github.com/goodnatureofminers/blockgraph/internal/service/ingester"
	"github.com/goodnatureofminers/blockgraph/internal/transport"
	grpcZap "github.com/grpc-ecosystem/go-grpc-middleware/logging/zap"
	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

type config struct {
	RPCURL      string        `long:"rpc-url" env:"BITCOIN_RPC_URL" default:"http://127.0.0.1:8332" description:"Bitcoin node RPC URL"`
	RPCUser     string        `long:"rpc-user" env:"BITCOIN_RPC_USER" description:"Bitcoin node RPC user"`
	RPCPassword string        `long:"rpc-password" env:"BITCOIN_RPC_PASS" description:"Bitcoin node RPC password"`
	RPCTimeout  time.Duration `long:"rpc-timeout" env:"BITCOIN_RPC_TIMEOUT" default:"30s" description:"Bitcoin node RPC request timeout"`

	Neo4jURI      string `long:"neo4j-uri" env:"NEO4J_URI" required:"true" description:"Neo4j bolt URI"`
	Neo4jUser     string `long:"neo4j-user" env:"NEO4J_USER" description:"Neo4j user"`
	Neo4jPassword string `long:"neo4j-password" env:"NEO4J_PASSWORD" description:"Neo4j password"`
	Neo4jDatabase string `long:"neo4j-database" env:"NEO4J_DATABASE" default:"neo4j" description:"Neo4j database"`

	Port          string `long:"port" env:"PORT" default:"8080" description:"HTTP port"`
	GRPCAddr      string `long:"grpc-addr" env:"BLOCKGRAPH_GRPC_ADDR" default:":8000" description:"gRPC listen address"`
	ClickhouseDSN string `long:"clickhouse-dsn" env:"BLOCKGRAPH_CLICKHOUSE_DSN" description:"ClickHouse DSN for the run journal, journal is off when empty"`

	QueueSize       int           `long:"queue-size" env:"BLOCKGRAPH_QUEUE_SIZE" default:"16" description:"Pending ingestion runs"`
	RunsPerSecond   int           `long:"runs-per-second" env:"BLOCKGRAPH_RUNS_PER_SECOND" default:"2" description:"Ingestion run rate limit"`
	TxWorkers       int           `long:"tx-workers" env:"BLOCKGRAPH_TX_WORKERS" default:"8" description:"Concurrent transaction writes"`
	RefreshInterval time.Duration `long:"refresh-interval" env:"BLOCKGRAPH_REFRESH_INTERVAL" default:"0" description:"Periodic ingestion interval, 0 disables"`
	ZMQAddr         string        `long:"zmq-addr" env:"BLOCKGRAPH_ZMQ_ADDR" description:"bitcoind zmqpubhashblock endpoint"`
	StoreWait       time.Duration `long:"store-wait" env:"BLOCKGRAPH_STORE_WAIT" default:"30s" description:"How long to wait for Neo4j at startup, 0 checks once"`
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := zap.NewDevelopment()
	if err != nil {
		panic("can't initialize zap logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync()
	}()
	grpcZap.ReplaceGrpcLoggerV2(logger)

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.Warn("load .env", zap.Error(err))
	}

	cfg := config{}
	if _, err := flags.ParseArgs(&cfg, os.Args); err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			return
		}
		logger.Fatal("Failed to parse arguments", zap.Error(err))
	}

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("blockgraph stopped", zap.Error(err))
	}
}

func run(ctx context.Context, cfg config, logger *zap.Logger) error {
	graph, err := neo4j.NewRepository(neo4j.Config{
		URI:      cfg.Neo4jURI,
		Username: cfg.Neo4jUser,
		Password: cfg.Neo4jPassword,
		Database: cfg.Neo4jDatabase,
	}, metrics.NewNeo4jRepository())
	if err != nil {
		return err
	}
	defer func() {
		if err := graph.Close(context.Background()); err != nil {
			logger.Warn("close neo4j driver", zap.Error(err))
		}
	}()

	if err := waitForStore(ctx, graph, cfg.StoreWait, logger); err != nil {
		return fmt.Errorf("wait for neo4j: %w", err)
	}

	rpcClient, err := bitcoin.NewHTTPClient(bitcoin.HTTPConfig{
		URL:      cfg.RPCURL,
		User:     cfg.RPCUser,
		Password: cfg.RPCPassword,
		Timeout:  cfg.RPCTimeout,
	})
	if err != nil {
		return err
	}
	source := bitcoin.NewNodeSource(bitcoin.NewRPCClient(rpcClient, metrics.NewRPCClient()))

	journal, closeJournal, err := newJournal(ctx, cfg.ClickhouseDSN, logger)
	if err != nil {
		return err
	}
	defer closeJournal()

	ingestMetrics := metrics.NewIngester()
	pipeline := ingester.NewPipeline(source, graph, cfg.TxWorkers, logger)
	queue := ingester.NewQueue(pipeline, ingestMetrics, cfg.QueueSize, cfg.RunsPerSecond, logger)
	queue.Start(ctx)

	monitor := ingester.NewMonitor(queue.Results(), ingestMetrics, journal, logger)
	monitorDone := make(chan struct{})
	go func() {
		defer close(monitorDone)
		monitor.Run(ctx)
	}()
	defer func() {
		queue.Stop()
		<-monitorDone
	}()

	if _, err := queue.Submit(model.TriggerStartup); err != nil {
		logger.Warn("submit startup ingestion", zap.Error(err))
	}

	if err := startFollower(ctx, cfg, queue, logger); err != nil {
		return err
	}

	if err := startGRPCServer(ctx, cfg.GRPCAddr, graph, logger); err != nil {
		return err
	}

	handler := transport.NewHTTPHandler(explorer.NewService(graph, logger), queue, metrics.NewHTTP(), logger)
	return serveHTTP(ctx, cfg, handler, logger)
}

// newJournal opens the ClickHouse run journal when dsn is set. A nil journal disables persistence.
func newJournal(ctx context.Context, dsn string, logger *zap.Logger) (ingester.RunJournal, func(), error) {
	if dsn == "" {
		return nil, func() {}, nil
	}

	repo, err := clickhouse.NewRepository(dsn, metrics.NewClickhouseRepository())
	if err != nil {
		return nil, nil, err
	}
	if err := repo.Ping(ctx); err != nil {
		logger.Warn("run journal unreachable, runs will not be persisted until it recovers", zap.Error(err))
	}

	return repo, func() {
		if err := repo.Close(); err != nil {
			logger.Warn("close clickhouse", zap.Error(err))
		}
	}, nil
}

func startFollower(ctx context.Context, cfg config, submitter ingester.Submitter, logger *zap.Logger) error {
	blockSignal, err := startBlockSignal(ctx, cfg.ZMQAddr, logger)
	if err != nil {
		return err
	}
	if cfg.RefreshInterval <= 0 && blockSignal == nil {
		return nil
	}

	follower, err := ingester.NewFollower(submitter, cfg.RefreshInterval, blockSignal, logger)
	if err != nil {
		return err
	}
	go func() {
		if err := follower.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("follower stopped", zap.Error(err))
		}
	}()
	return nil
}
