package screener

import (
	"context"
	"golang-screener/internal/model"
	"time"
)

// Job exit codes follow HTTP status semantics even though the scheduler is
// not an HTTP transport: 200 success, 204 nothing to do, 206 partial,
// 400 bad invocation parameters, 500 systemic failure.
const (
	JOB_EXIT_CODE_SUCCESS         = 200
	JOB_EXIT_CODE_SKIPPED         = 204
	JOB_EXIT_CODE_PARTIAL_SUCCESS = 206
	JOB_EXIT_CODE_BAD_REQUEST     = 400
	JOB_EXIT_CODE_FAILED          = 500
)

type JobType string

const (
	JobTypeMarketScanner   JobType = "market_scanner"
	JobTypeMethod1Screener JobType = "method1_screener"
	JobTypeMethod2Screener JobType = "method2_screener"
	JobTypeResultsCombiner JobType = "results_combiner"
)

type JobResult struct {
	ExitCode int32  `json:"exit_code"`
	Output   string `json:"output"`
}

// JobExecutionStrategy defines the interface for the screening batch jobs.
type JobExecutionStrategy interface {
	Execute(ctx context.Context, job *model.Job) (JobResult, error)
	GetType() JobType
}

// pause sleeps for the configured inter-call delay, returning early when the
// context is cancelled. This is the crude rate-limit guard between provider
// calls, not an adaptive backoff.
func pause(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}
