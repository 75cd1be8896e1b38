package harvest

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/webgov/harvester/internal/checkpoint"
	"github.com/webgov/harvester/internal/progress"
)

// DomainScraper produces signal records for one domain.
type DomainScraper interface {
	ScrapeDomain(ctx context.Context, domain string) []Record
}

// RecordSink appends serialized rows to the output dataset.
type RecordSink interface {
	Append(ctx context.Context, rows [][]string) error
}

// FailureLog durably records per-domain failures.
type FailureLog interface {
	Log(domain, reason string) error
}

// RecordStore optionally mirrors records into a database.
type RecordStore interface {
	SaveRecords(ctx context.Context, records []Record) error
}

// RunnerConfig controls inter-domain pacing.
type RunnerConfig struct {
	// DomainDelay is the base pause between domains; DomainJitter adds
	// a uniformly random extra so long runs avoid a fixed cadence.
	DomainDelay  time.Duration
	DomainJitter time.Duration
}

// RunnerParams collects the runner's collaborators.
type RunnerParams struct {
	Scraper     DomainScraper
	Sink        RecordSink
	Checkpoints checkpoint.Store
	Failures    FailureLog
	Store       RecordStore      // optional
	Emitter     progress.Emitter // optional
	Pause       Pauser           // optional, defaults to real sleeps
	Rand        *rand.Rand       // optional, defaults to a time-seeded source
	Config      RunnerConfig
	Logger      *zap.Logger
}

// Summary reports the final counts of a run.
type Summary struct {
	Succeeded int
	Failed    int
	Records   int
}

// Runner walks the domain list in order, persisting records
// incrementally and the checkpoint after every domain, so a crashed run
// resumes at domain granularity: at most one domain's work is redone,
// none is silently skipped.
type Runner struct {
	scraper     DomainScraper
	sink        RecordSink
	checkpoints checkpoint.Store
	failures    FailureLog
	store       RecordStore
	emitter     progress.Emitter
	pause       Pauser
	rng         *rand.Rand
	cfg         RunnerConfig
	logger      *zap.Logger
}

// NewRunner validates params and builds a Runner.
func NewRunner(p RunnerParams) (*Runner, error) {
	if p.Scraper == nil {
		return nil, fmt.Errorf("runner requires a scraper")
	}
	if p.Sink == nil {
		return nil, fmt.Errorf("runner requires a record sink")
	}
	if p.Checkpoints == nil {
		return nil, fmt.Errorf("runner requires a checkpoint store")
	}
	if p.Failures == nil {
		return nil, fmt.Errorf("runner requires a failure log")
	}
	if p.Logger == nil {
		p.Logger = zap.NewNop()
	}
	if p.Pause == nil {
		p.Pause = NewTimerPauser()
	}
	if p.Rand == nil {
		p.Rand = rand.New(rand.NewSource(time.Now().UnixNano())) //nolint:gosec // pacing jitter, not crypto
	}
	return &Runner{
		scraper:     p.Scraper,
		sink:        p.Sink,
		checkpoints: p.Checkpoints,
		failures:    p.Failures,
		store:       p.Store,
		emitter:     p.Emitter,
		pause:       p.Pause,
		rng:         p.Rand,
		cfg:         p.Config,
		logger:      p.Logger,
	}, nil
}

// Run processes every domain at index >= the stored checkpoint. It
// returns the summary counts; a context cancellation or a sink failure
// stops the run early with the checkpoint still pointing at the
// unfinished domain.
func (r *Runner) Run(ctx context.Context, domains []string) (Summary, error) {
	var summary Summary

	start, err := r.checkpoints.Load(ctx)
	if err != nil {
		return summary, fmt.Errorf("load checkpoint: %w", err)
	}
	if start > 0 {
		r.logger.Info("Resuming from checkpoint", zap.Int("index", start))
	}

	runID := uuid.NewString()
	r.emit(progress.Event{
		RunID: runID, TS: time.Now().UTC(), Stage: progress.StageRunStart,
		Index: start, Total: len(domains),
	})

	for index, raw := range domains {
		if index < start {
			continue
		}
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		domain := strings.TrimSpace(raw)
		if domain == "" {
			continue
		}

		records, scrapeErr := r.scrapeSafely(ctx, domain)
		if err := ctx.Err(); err != nil {
			// Canceled mid-domain: drop partial output so the resumed
			// run redoes this whole domain.
			return summary, err
		}

		result := progress.ResultRecorded
		note := ""
		switch {
		case scrapeErr != nil:
			r.logFailure(domain, scrapeErr.Error())
			summary.Failed++
			result, note = progress.ResultError, scrapeErr.Error()
		case len(records) == 0:
			r.logFailure(domain, "No snapshots")
			summary.Failed++
			result, note = progress.ResultEmpty, "No snapshots"
		default:
			rows := make([][]string, len(records))
			for i, rec := range records {
				rows[i] = rec.CSVRow()
			}
			if err := r.sink.Append(ctx, rows); err != nil {
				return summary, fmt.Errorf("append dataset: %w", err)
			}
			if r.store != nil {
				if err := r.store.SaveRecords(ctx, records); err != nil {
					r.logger.Warn("Record store write failed",
						zap.String("domain", domain), zap.Error(err))
				}
			}
			summary.Succeeded++
			summary.Records += len(records)
		}

		if err := r.checkpoints.Save(ctx, index+1); err != nil {
			return summary, fmt.Errorf("save checkpoint: %w", err)
		}
		r.emit(progress.Event{
			RunID: runID, TS: time.Now().UTC(), Stage: progress.StageDomainDone,
			Domain: domain, Index: index, Total: len(domains),
			Records: len(records), Result: result, Note: note,
		})

		if index < len(domains)-1 {
			r.pause.Pause(ctx, Jitter(r.rng, r.cfg.DomainDelay, r.cfg.DomainJitter))
		}
	}

	if err := r.checkpoints.Clear(ctx); err != nil {
		return summary, fmt.Errorf("clear checkpoint: %w", err)
	}
	r.logger.Info("Harvest complete",
		zap.Int("succeeded", summary.Succeeded),
		zap.Int("failed", summary.Failed),
		zap.Int("records", summary.Records))
	r.emit(progress.Event{
		RunID: runID, TS: time.Now().UTC(), Stage: progress.StageRunDone,
		Total: len(domains), Records: summary.Records,
		Note: fmt.Sprintf("succeeded=%d failed=%d", summary.Succeeded, summary.Failed),
	})
	return summary, nil
}

// generalErrorLimit caps the panic message carried into the failure
// log, matching the truncation applied to transport error details.
const generalErrorLimit = 100

// scrapeSafely shields the run from a panicking scrape; the panic is
// reported as a domain failure instead of killing the batch.
func (r *Runner) scrapeSafely(ctx context.Context, domain string) (records []Record, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			msg := fmt.Sprint(rec)
			if len(msg) > generalErrorLimit {
				msg = msg[:generalErrorLimit]
			}
			records = nil
			err = fmt.Errorf("GeneralError: %s", msg)
		}
	}()
	return r.scraper.ScrapeDomain(ctx, domain), nil
}

func (r *Runner) logFailure(domain, reason string) {
	if err := r.failures.Log(domain, reason); err != nil {
		r.logger.Warn("Failure log write failed",
			zap.String("domain", domain), zap.Error(err))
	}
}

func (r *Runner) emit(evt progress.Event) {
	if r.emitter == nil {
		return
	}
	r.emitter.Emit(evt)
}
