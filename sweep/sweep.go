// Package sweep proactively revalidates near-expiry cache entries on a
// schedule, entirely outside Engine.Retrieve's critical path (§5 forbids
// the orchestrator from spawning workers or holding locks across blocking
// calls — this package only ever calls Retrieve from the outside, the same
// way any other caller would). It is the concrete form of the "production
// port may substitute more sophisticated scheduling" note in spec.md §9.
package sweep

import (
	"context"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/panjf2000/ants/v2"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/fortytwonet/lodcache"
)

// Config controls sweep cadence and fan-out.
type Config struct {
	// Interval is how often a sweep tick runs. Default 5 minutes.
	Interval time.Duration
	// Horizon is how close to expiry an entry must be to be swept.
	// Default 1 hour.
	Horizon time.Duration
	// Concurrency bounds the goroutine pool a single tick fans out across.
	// Default 8.
	Concurrency int
}

func (c Config) withDefaults() Config {
	if c.Interval <= 0 {
		c.Interval = 5 * time.Minute
	}
	if c.Horizon <= 0 {
		c.Horizon = time.Hour
	}
	if c.Concurrency <= 0 {
		c.Concurrency = 8
	}
	return c
}

// Sweeper owns the scheduler and the worker pool for one engine.
type Sweeper struct {
	engine    *lodcache.Engine
	cfg       Config
	log       zerolog.Logger
	scheduler gocron.Scheduler
	pool      *ants.Pool
}

// New constructs a Sweeper. Call Start to begin ticking; call Stop to
// release the scheduler and pool.
func New(engine *lodcache.Engine, cfg Config, log zerolog.Logger) (*Sweeper, error) {
	cfg = cfg.withDefaults()

	pool, err := ants.NewPool(cfg.Concurrency)
	if err != nil {
		return nil, err
	}

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		pool.Release()
		return nil, err
	}

	return &Sweeper{engine: engine, cfg: cfg, log: log, scheduler: scheduler, pool: pool}, nil
}

// Start registers the sweep job and starts the scheduler. It does not block.
func (s *Sweeper) Start(ctx context.Context) error {
	_, err := s.scheduler.NewJob(
		gocron.DurationJob(s.cfg.Interval),
		gocron.NewTask(func() { s.tick(ctx) }),
	)
	if err != nil {
		return err
	}
	s.scheduler.Start()
	return nil
}

// tick runs one sweep pass: find near-expiry graph IRIs and re-Retrieve
// each one across the bounded pool, waiting for the batch to finish.
func (s *Sweeper) tick(ctx context.Context) {
	iris := s.engine.NearExpiry(s.cfg.Horizon)
	if len(iris) == 0 {
		return
	}
	s.log.Debug().Int("count", len(iris)).Msg("sweep tick: revalidating near-expiry entries")

	g, ctx := errgroup.WithContext(ctx)
	for _, iri := range iris {
		iri := iri
		g.Go(func() error {
			done := make(chan error, 1)
			err := s.pool.Submit(func() {
				_, err := s.engine.Retrieve(ctx, iri)
				done <- err
			})
			if err != nil {
				return err
			}
			return <-done
		})
	}
	if err := g.Wait(); err != nil {
		s.log.Warn().Err(err).Msg("sweep tick: one or more revalidations failed")
	}
}

// Stop shuts down the scheduler and releases the worker pool.
func (s *Sweeper) Stop() error {
	err := s.scheduler.Shutdown()
	s.pool.Release()
	return err
}
