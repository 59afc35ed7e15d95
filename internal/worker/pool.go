package worker // import "github.com/Xunop/e-shelf/internal/worker"

import (
	"sync"

	"go.uber.org/zap"

	"github.com/Xunop/e-shelf/internal/log"
)

type WorkPool interface {
	Push(job ImportJob)
}

var _ WorkPool = (*ImportPool)(nil)

// ImportPool parses import files on a fixed number of workers. Drafts come
// back on Results, the caller adds them to the catalog.
type ImportPool struct {
	queue   chan ImportJob
	results chan ImportResult
	wg      sync.WaitGroup
	once    sync.Once
}

func NewImportPool(opts ImportOptions, size int) *ImportPool {
	size = max(size, 1)
	pool := &ImportPool{
		queue:   make(chan ImportJob),
		results: make(chan ImportResult, size),
	}

	pool.wg.Add(size)
	for i := 0; i < size; i++ {
		worker := &ImportWorker{id: i, opts: opts}
		go func() {
			defer pool.wg.Done()
			worker.Run(pool.queue, pool.results)
		}()
	}
	go func() {
		pool.wg.Wait()
		close(pool.results)
	}()
	log.Debug("Import pool started", zap.Int("size", size))

	return pool
}

// Push implements WorkPool. It blocks until a worker takes the job.
func (p *ImportPool) Push(job ImportJob) {
	p.queue <- job
}

// Results is closed once the pool is closed and every job has finished.
func (p *ImportPool) Results() <-chan ImportResult {
	return p.results
}

// Close stops accepting jobs.
func (p *ImportPool) Close() {
	p.once.Do(func() { close(p.queue) })
}

// ImportAll runs one job per path and returns the results in path order.
func (p *ImportPool) ImportAll(paths []string) []ImportResult {
	go func() {
		for i, path := range paths {
			p.Push(ImportJob{ID: i, Path: path})
		}
		p.Close()
	}()

	results := make([]ImportResult, len(paths))
	for res := range p.Results() {
		results[res.Job.ID] = res
	}
	return results
}
