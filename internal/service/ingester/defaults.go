package ingester

import "time"

const (
	defaultQueueCapacity = 16
	defaultRunsPerSecond = 2
	defaultTxWorkerCount = 8
	journalWriteTimeout  = 10 * time.Second
)
