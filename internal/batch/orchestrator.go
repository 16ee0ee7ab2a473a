package batch

import (
	"context"
	"time"

	"github.com/pfrederiksen/handbook-courses/internal/course"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Fetcher is the injected fetch capability: one subject code in, one
// extracted record (or an error) out.
type Fetcher interface {
	FetchCourse(ctx context.Context, code string) (*course.Record, error)
}

// Config tunes a batch run.
type Config struct {
	// Workers is the fixed size of the worker pool.
	Workers int

	// RequestDelay is slept by a worker after each finished code, bounding
	// the outbound request rate per slot without stalling sibling workers.
	RequestDelay time.Duration
}

// DefaultConfig returns the defaults used by the server and CLI.
func DefaultConfig() Config {
	return Config{
		Workers:      4,
		RequestDelay: 100 * time.Millisecond,
	}
}

// Orchestrator turns lists of subject codes into outcome streams. The cache
// is owned by the caller so its lifetime (and test isolation) is explicit.
type Orchestrator struct {
	fetcher Fetcher
	cache   *Cache
	config  Config
	logger  zerolog.Logger
}

// New creates an Orchestrator. A nil cache gets a fresh one; non-positive
// config values fall back to defaults.
func New(fetcher Fetcher, cache *Cache, cfg Config) *Orchestrator {
	if cache == nil {
		cache = NewCache()
	}
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultConfig().Workers
	}
	if cfg.RequestDelay < 0 {
		cfg.RequestDelay = 0
	}
	return &Orchestrator{
		fetcher: fetcher,
		cache:   cache,
		config:  cfg,
		logger:  log.With().Str("component", "batch").Logger(),
	}
}

// Cache returns the orchestrator's cache.
func (o *Orchestrator) Cache() *Cache {
	return o.cache
}

type completion struct {
	index   int
	outcome course.Outcome
}

// Run resolves codes and returns a lazy event stream: one progress event per
// finished code in completion order, then exactly one complete event whose
// results match the input order index for index. The channel is closed after
// the complete event. Duplicate input codes each produce their own outcome;
// a failed code never stops the rest of the batch.
func (o *Orchestrator) Run(ctx context.Context, codes []string) <-chan Event {
	events := make(chan Event)

	go func() {
		defer close(events)
		batchesTotal.Inc()

		total := len(codes)
		start := time.Now()
		o.logger.Info().Int("total", total).Msg("batch started")

		if total == 0 {
			events <- Complete([]course.Outcome{})
			return
		}

		jobs := make(chan int, total)
		completions := make(chan completion, total)

		workers := o.config.Workers
		if workers > total {
			workers = total
		}
		for w := 0; w < workers; w++ {
			go o.worker(ctx, codes, jobs, completions)
		}

		for i := range codes {
			jobs <- i
		}
		close(jobs)

		results := make([]course.Outcome, total)
		for completed := 1; completed <= total; completed++ {
			c := <-completions
			results[c.index] = c.outcome
			events <- Progress(completed, total, c.outcome)
		}

		o.logger.Info().
			Int("total", total).
			Dur("duration", time.Since(start)).
			Msg("batch complete")
		events <- Complete(results)
	}()

	return events
}

// Collect drains a Run stream and returns the final result list. Intended
// for callers that do not care about progress, like the prefetch CLI.
func (o *Orchestrator) Collect(ctx context.Context, codes []string) []course.Outcome {
	var results []course.Outcome
	for ev := range o.Run(ctx, codes) {
		if ev.Type == EventComplete {
			results = ev.Results
		}
	}
	return results
}

func (o *Orchestrator) worker(ctx context.Context, codes []string, jobs <-chan int, completions chan<- completion) {
	for idx := range jobs {
		outcome, fetched := o.resolve(ctx, codes[idx])
		completions <- completion{index: idx, outcome: outcome}

		// Rate bound applies to real fetches only; cache hits cost the
		// origin nothing.
		if fetched && o.config.RequestDelay > 0 {
			time.Sleep(o.config.RequestDelay)
		}
	}
}

// resolve produces the outcome for one code, consulting the cache first.
// The second return value reports whether a network fetch was attempted.
func (o *Orchestrator) resolve(ctx context.Context, code string) (course.Outcome, bool) {
	if rec, ok := o.cache.Get(code); ok {
		o.logger.Debug().Str("code", code).Bool("cache_hit", true).Msg("resolved from cache")
		codesTotal.WithLabelValues(resultCached).Inc()
		return course.Outcome{Code: code, Record: rec}, false
	}

	start := time.Now()
	rec, err := o.fetcher.FetchCourse(ctx, code)
	fetchDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		o.logger.Warn().Str("code", code).Err(err).Msg("code failed")
		codesTotal.WithLabelValues(resultError).Inc()
		return course.Outcome{Code: code, Err: err.Error()}, true
	}

	o.cache.Set(rec)
	o.logger.Debug().
		Str("code", code).
		Dur("duration", time.Since(start)).
		Msg("code resolved")
	codesTotal.WithLabelValues(resultSuccess).Inc()
	return course.Outcome{Code: code, Record: rec}, true
}
