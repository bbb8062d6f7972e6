package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Orchestrator runs document processing jobs on a worker pool. The
// pipeline itself is synchronous; the pool exists so request handlers
// hand off blocking extraction work and return immediately.
type Orchestrator struct {
	jobs      *JobStore
	queue     chan *Job
	processor *Processor
	log       *slog.Logger

	workerCount int
	queueSize   int

	mu      sync.Mutex
	stopped bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

func NewOrchestrator(processor *Processor, workerCount, queueSize int, jobTTL time.Duration, log *slog.Logger) *Orchestrator {
	return &Orchestrator{
		jobs:        NewJobStore(jobTTL),
		queue:       make(chan *Job, queueSize),
		processor:   processor,
		log:         log,
		workerCount: workerCount,
		queueSize:   queueSize,
	}
}

// Start launches worker goroutines.
func (o *Orchestrator) Start(ctx context.Context) {
	workerCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel

	for range o.workerCount {
		o.wg.Add(1)
		go func() {
			defer o.wg.Done()
			for {
				select {
				case <-workerCtx.Done():
					return
				case job, ok := <-o.queue:
					if !ok {
						return
					}
					o.run(workerCtx, job)
				}
			}
		}()
	}

	// Job store cleanup.
	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-workerCtx.Done():
				return
			case <-ticker.C:
				o.jobs.Cleanup()
			}
		}
	}()
}

// Stop gracefully shuts down the pipeline. Submit calls made after
// Stop return an error.
func (o *Orchestrator) Stop() {
	o.mu.Lock()
	if o.stopped {
		o.mu.Unlock()
		return
	}
	o.stopped = true
	close(o.queue)
	o.mu.Unlock()

	if o.cancel != nil {
		o.cancel()
	}
	o.wg.Wait()
}

func (o *Orchestrator) run(ctx context.Context, job *Job) {
	doc, err := o.processor.ProcessUpload(ctx, job.Filename, job.FileData(), job.Force, func(phase string) {
		job.SetStatus(JobStatus(phase))
	})
	if err != nil {
		o.log.Error("processing failed",
			"job_id", job.ID, "doc_id", job.DocID, "error", err)
		job.Fail(err.Error())
		return
	}
	job.Complete(doc.TotalChunks)
	o.log.Info("job completed",
		"job_id", job.ID, "doc_id", job.DocID, "total_chunks", doc.TotalChunks)
}

// Submit queues a new job for processing.
func (o *Orchestrator) Submit(job *Job) error {
	o.jobs.Put(job)

	o.mu.Lock()
	defer o.mu.Unlock()
	if o.stopped {
		job.Fail("shutting down")
		return fmt.Errorf("orchestrator is stopped")
	}
	select {
	case o.queue <- job:
		return nil
	default:
		job.Fail("queue full")
		return fmt.Errorf("job queue is full (%d)", o.queueSize)
	}
}

// GetJob returns a job by ID.
func (o *Orchestrator) GetJob(id string) *Job {
	return o.jobs.Get(id)
}

// QueueDepth returns current queue depth.
func (o *Orchestrator) QueueDepth() int {
	return len(o.queue)
}

// Processor exposes the pipeline for direct use by API handlers.
func (o *Orchestrator) Processor() *Processor {
	return o.processor
}
