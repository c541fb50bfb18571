package scheduler

import (
	"context"
	"github.com/sirupsen/logrus"
	"go-rdpaudit/executor"
	"go-rdpaudit/models"
	"iter"
	"sync"
	"time"
)

const (
	// DefaultWorkers is the number of concurrent attempts.
	DefaultWorkers = 30
	// DefaultBatchSize is the number of combinations pulled from the source at once.
	DefaultBatchSize = 1000
)

// Recorder consumes attempt results. Record is only ever called from the
// scheduler's aggregating goroutine.
type Recorder interface {
	Record(res models.AttemptResult)
}

// RecorderFunc adapts a plain function to Recorder.
type RecorderFunc func(res models.AttemptResult)

// Record calls f(res).
func (f RecorderFunc) Record(res models.AttemptResult) {
	f(res)
}

// Config defines the pool dimensions.
type Config struct {
	Workers   int `json:"workers"`
	BatchSize int `json:"batch_size"`
}

// Scheduler drains a combination source through a fixed pool of workers.
type Scheduler struct {
	attempter executor.Attempter
	workers   int
	batchSize int
	recorders []Recorder
}

// New returns a new *Scheduler. Non-positive sizes fall back to the defaults.
func New(a executor.Attempter, cfg Config, recorders ...Recorder) *Scheduler {
	s := &Scheduler{
		attempter: a,
		workers:   cfg.Workers,
		batchSize: cfg.BatchSize,
		recorders: recorders,
	}
	if s.workers <= 0 {
		s.workers = DefaultWorkers
	}
	if s.batchSize <= 0 {
		s.batchSize = DefaultBatchSize
	}
	return s
}

// worker runs attempts until the jobs channel is closed.
func (s *Scheduler) worker(ctx context.Context, jobs <-chan models.Combination, results chan<- models.AttemptResult, wg *sync.WaitGroup) {
	defer wg.Done()
	for c := range jobs {
		if ctx.Err() != nil {
			results <- models.AttemptResult{Combination: c, Reason: models.ReasonCancelled}
			continue
		}
		results <- s.attempter.Attempt(ctx, c)
	}
}

// Run attempts every combination of seq exactly once.
// Combinations are dispatched in batches; a batch is fully collected before
// the next one is pulled from seq. Run only returns early when ctx is done,
// in which case the stats cover the attempts that did complete. Cancelled
// results never reach the stats or the recorders.
func (s *Scheduler) Run(ctx context.Context, seq iter.Seq[models.Combination]) (models.Stats, error) {
	var stats models.Stats
	start := time.Now()

	jobs := make(chan models.Combination)
	results := make(chan models.AttemptResult, s.workers)

	var wg sync.WaitGroup
	for i := 0; i < s.workers; i++ {
		wg.Add(1)
		go s.worker(ctx, jobs, results, &wg)
	}
	defer func() {
		close(jobs)
		wg.Wait()
	}()

	next, stop := iter.Pull(seq)
	defer stop()

	batch := make([]models.Combination, 0, s.batchSize)
	for {
		batch = batch[:0]
		for len(batch) < s.batchSize {
			c, ok := next()
			if !ok {
				break
			}
			batch = append(batch, c)
		}
		if len(batch) == 0 {
			break
		}

		stats.Batches++
		logrus.Debugf("Dispatching batch %d (%d combinations)", stats.Batches, len(batch))
		s.runBatch(ctx, batch, jobs, results, &stats)

		if err := ctx.Err(); err != nil {
			stats.Duration = time.Since(start)
			return stats, err
		}
		if len(batch) < s.batchSize {
			break
		}
	}

	stats.Duration = time.Since(start)
	return stats, nil
}

// runBatch feeds one batch to the workers and collects its results in
// completion order.
func (s *Scheduler) runBatch(ctx context.Context, batch []models.Combination, jobs chan<- models.Combination, results <-chan models.AttemptResult, stats *models.Stats) {
	sent := make(chan int, 1)
	go func() {
		n := 0
		defer func() { sent <- n }()
		for _, c := range batch {
			select {
			case jobs <- c:
				n++
			case <-ctx.Done():
				return
			}
		}
	}()

	total, received := -1, 0
	for total < 0 || received < total {
		select {
		case res := <-results:
			received++
			if res.Cancelled() {
				continue
			}
			stats.Add(res)
			for _, r := range s.recorders {
				r.Record(res)
			}
		case total = <-sent:
		}
	}
}
