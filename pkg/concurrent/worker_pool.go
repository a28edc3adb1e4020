package concurrent

import (
	"errors"
	"sync"
	"time"
)

var ErrScheduleTimeout = errors.New("schedule error: timed out")

type JobFunc[T any, G any] func(job T) G

// WorkerPool. two cooperating shapes in one pool: a batch job queue
// (Start/AddJob/CollectResults) and a bounded goroutine pool
// (Spawn/Schedule/ScheduleTimeout) used by the websocket accept path, after
// https://sergey.kamardin.org/articles/million-websocket-and-go/
type WorkerPool[T any, G any] struct {
	numWorkers int
	jobQueue   chan T
	results    chan G
	wg         sync.WaitGroup

	sem  chan struct{}
	work chan func()
}

func NewWorkerPool[T any, G any](numWorkers, jobQueueSize int) *WorkerPool[T, G] {
	return &WorkerPool[T, G]{
		numWorkers: numWorkers,
		jobQueue:   make(chan T, jobQueueSize),
		results:    make(chan G, jobQueueSize),
		sem:        make(chan struct{}, numWorkers),
		work:       make(chan func()),
	}
}

// batch job queue

func (wp *WorkerPool[T, G]) worker(id int, jobFunc JobFunc[T, G]) {
	defer wp.wg.Done()
	for job := range wp.jobQueue {
		res := jobFunc(job)
		wp.results <- res
	}
}

func (wp *WorkerPool[T, G]) Start(jobFunc JobFunc[T, G]) {
	for i := 1; i <= wp.numWorkers; i++ {
		wp.wg.Add(1)
		go wp.worker(i, jobFunc)
	}
}

func (wp *WorkerPool[T, G]) Wait() {
	wp.wg.Wait()
	close(wp.results)
}

func (wp *WorkerPool[T, G]) AddJob(job T) {
	wp.jobQueue <- job
}

func (wp *WorkerPool[T, G]) CollectResults() chan G {
	return wp.results
}

// goroutine pool

// Spawn starts n resident workers serving the Schedule path, n capped at the
// pool's worker budget.
func (wp *WorkerPool[T, G]) Spawn(n int) {
	for i := 0; i < n && i < wp.numWorkers; i++ {
		wp.sem <- struct{}{}
		go wp.scheduleWorker(nil)
	}
}

// Schedule blocks until a worker picks up task.
func (wp *WorkerPool[T, G]) Schedule(task func()) {
	wp.schedule(task, nil)
}

// ScheduleTimeout gives up with ErrScheduleTimeout when no worker picks up
// task within timeout.
func (wp *WorkerPool[T, G]) ScheduleTimeout(timeout time.Duration, task func()) error {
	return wp.schedule(task, time.After(timeout))
}

func (wp *WorkerPool[T, G]) schedule(task func(), timeout <-chan time.Time) error {
	select {
	case <-timeout:
		return ErrScheduleTimeout
	case wp.work <- task:
		return nil
	case wp.sem <- struct{}{}:
		go wp.scheduleWorker(task)
		return nil
	}
}

func (wp *WorkerPool[T, G]) scheduleWorker(task func()) {
	defer func() { <-wp.sem }()
	if task != nil {
		task()
	}
	for t := range wp.work {
		t()
	}
}

func (wp *WorkerPool[T, G]) Close() {
	close(wp.jobQueue)
	close(wp.work)
}
