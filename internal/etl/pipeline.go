package etl

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"jobetl/internal/dataset"
	"jobetl/internal/metrics"
)

// ExtractStage is satisfied by *Extractor.
type ExtractStage interface {
	Extract(ctx context.Context, locator, outDir string) (string, error)
}

// TransformStage is satisfied by *Transformer.
type TransformStage interface {
	Transform(ctx context.Context, rawPath, outDir string) (*dataset.Dataset, error)
}

// LoadStage is satisfied by *Loader.
type LoadStage interface {
	Load(ctx context.Context, ds *dataset.Dataset, table string, maxRows int, outDir string) (LoadReport, error)
}

// Run is one pipeline invocation.
type Run struct {
	Source       string
	Table        string // DefaultTable when empty
	MaxRows      int
	RawDir       string
	ProcessedDir string
}

// Result describes how a run ended. FailedStage is empty unless State is
// StateFailed.
type Result struct {
	RunID       string
	State       State
	FailedStage string
	RawPath     string
	Rows        int
	Load        LoadReport
}

// Orchestrator runs Extract, Transform and Load strictly in order. The first
// failing stage ends the run in StateFailed; there is no retry and no
// resume.
type Orchestrator struct {
	Extractor   ExtractStage
	Transformer TransformStage
	Loader      LoadStage

	Job    string
	Logger *log.Logger

	// NewRunID generates run ids; nil means uuid.NewString.
	NewRunID func() string

	// OnState, when set, observes every state transition.
	OnState func(State)
}

// Run executes r. The returned error wraps the failing stage's error, so
// etlerr.KindOf and errors.Is see the original kind.
func (o *Orchestrator) Run(ctx context.Context, r Run) (Result, error) {
	lg := loggerOr(o.Logger)
	job := jobOr(o.Job)
	newID := o.NewRunID
	if newID == nil {
		newID = uuid.NewString
	}
	if r.Table == "" {
		r.Table = DefaultTable
	}

	res := Result{RunID: newID()}
	enter := func(s State) {
		res.State = s
		lg.Printf("pipeline: run=%s state=%s", res.RunID, s)
		if o.OnState != nil {
			o.OnState(s)
		}
	}
	fail := func(stage string, err error) (Result, error) {
		res.FailedStage = stage
		enter(StateFailed)
		metrics.RecordRun(job, string(StateFailed))
		lg.Printf("pipeline: run=%s failed stage=%s err=%v", res.RunID, stage, err)
		return res, fmt.Errorf("pipeline: %s: %w", stage, err)
	}

	enter(StateExtracting)
	start := time.Now()
	rawPath, err := o.Extractor.Extract(ctx, r.Source, r.RawDir)
	metrics.RecordStep(job, StageExtract, err, time.Since(start))
	if err != nil {
		return fail(StageExtract, err)
	}
	res.RawPath = rawPath

	enter(StateTransforming)
	start = time.Now()
	ds, err := o.Transformer.Transform(ctx, rawPath, r.ProcessedDir)
	metrics.RecordStep(job, StageTransform, err, time.Since(start))
	if err != nil {
		return fail(StageTransform, err)
	}
	res.Rows = ds.Len()

	enter(StateLoading)
	start = time.Now()
	rep, err := o.Loader.Load(ctx, ds, r.Table, r.MaxRows, r.ProcessedDir)
	metrics.RecordStep(job, StageLoad, err, time.Since(start))
	res.Load = rep
	if err != nil {
		return fail(StageLoad, err)
	}

	enter(StateDone)
	metrics.RecordRun(job, string(StateDone))
	return res, nil
}
