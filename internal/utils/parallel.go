package utils

import (
	"sync"
)

// Task is one unit of work for RunParallel.
type Task[T any] func() (T, error)

// RunParallel runs every task in its own goroutine and returns results and
// errors in task order.
func RunParallel[T any](tasks []Task[T]) ([]T, []error) {
	var wg sync.WaitGroup
	results := make([]T, len(tasks))
	errs := make([]error, len(tasks))

	wg.Add(len(tasks))
	for i, task := range tasks {
		go func(index int, t Task[T]) {
			defer wg.Done()
			results[index], errs[index] = t()
		}(i, task)
	}

	wg.Wait()
	return results, errs
}

// FirstError returns the first non-nil error of errs.
func FirstError(errs []error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// WorkerPool runs submitted functions on a fixed number of goroutines.
type WorkerPool struct {
	taskChan chan func()
	wg       sync.WaitGroup
}

// NewWorkerPool starts maxWorkers workers. Values below one start a single
// worker.
func NewWorkerPool(maxWorkers int) *WorkerPool {
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	pool := &WorkerPool{
		taskChan: make(chan func(), maxWorkers*2),
	}

	for i := 0; i < maxWorkers; i++ {
		go pool.worker()
	}

	return pool
}

func (p *WorkerPool) worker() {
	for task := range p.taskChan {
		task()
		p.wg.Done()
	}
}

// AddTask queues task, blocking while the buffer is full.
func (p *WorkerPool) AddTask(task func()) {
	p.wg.Add(1)
	p.taskChan <- task
}

// Wait blocks until every queued task has finished.
func (p *WorkerPool) Wait() {
	p.wg.Wait()
}

// Close stops the workers. No task may be added afterwards.
func (p *WorkerPool) Close() {
	close(p.taskChan)
}
