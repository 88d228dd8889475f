package model

import "time"

// Stage is a step of the ingestion pipeline.
type Stage string

const (
	StageIdle                Stage = "idle"
	StageFetchingTip         Stage = "fetching_tip"
	StageFetchingBlock       Stage = "fetching_block"
	StageUpsertingBlock      Stage = "upserting_block"
	StageLinking             Stage = "linking"
	StageLoadingTransactions Stage = "loading_transactions"
	StageDone                Stage = "done"
	StageFailed              Stage = "failed"
)

// Triggers name what asked for an ingestion run.
const (
	TriggerStartup     = "startup"
	TriggerHTTP        = "http"
	TriggerInterval    = "interval"
	TriggerBlockSignal = "block_signal"
)

// IngestionJob identifies a queued pipeline run.
type IngestionJob struct {
	ID          string
	Trigger     string
	SubmittedAt time.Time
}

// IngestionRun is the outcome of one pipeline run against the chain tip.
type IngestionRun struct {
	ID              string
	Trigger         string
	Stage           Stage
	FailedStage     Stage
	Height          uint64
	Hash            string
	BlockCreated    bool
	Linked          bool
	SuccessorLinked bool
	TxLoaded        int
	TxFailed        int
	Err             error
	StartedAt       time.Time
	FinishedAt      time.Time
}

// Failed reports whether the run ended in the failed stage.
func (r IngestionRun) Failed() bool {
	return r.Stage == StageFailed
}

// Duration returns how long the run took.
func (r IngestionRun) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}
