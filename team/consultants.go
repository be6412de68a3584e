package team

import (
	"errors"
	"sync"
)

// Requirement is a receive-only channel of jobs
type Requirement[T any] <-chan T

// Outcome is a send-only channel of results
type Outcome[U any] chan<- U

// WorkerFunc processes a job of type T and returns a result of type U
type WorkerFunc[T any, U any] func(T) (U, error)

// Team is a generic worker pool
// WorkerCount: number of concurrent workers
// Worker: the function to process each job
type Team[T any, U any] struct {
	WorkerCount int
	Worker      WorkerFunc[T, U]
}

type assignment[T any] struct {
	pos int
	job T
}

type delivery[U any] struct {
	pos int
	res U
	err error
}

// Run feeds every job to the workers and returns the results in job order.
// Jobs that failed leave a zero value in their slot and their errors are
// joined into the returned error.
func (t *Team[T, U]) Run(jobs []T) ([]U, error) {
	workers := max(1, min(t.WorkerCount, len(jobs)))
	jobChan := make(chan assignment[T], len(jobs))
	resultChan := make(chan delivery[U], len(jobs))
	var wg sync.WaitGroup

	for range workers {
		wg.Add(1)
		go func(requirements Requirement[assignment[T]], outcome Outcome[delivery[U]]) {
			defer wg.Done()
			for a := range requirements {
				res, err := t.Worker(a.job)
				outcome <- delivery[U]{pos: a.pos, res: res, err: err}
			}
		}(jobChan, resultChan)
	}

	for i, job := range jobs {
		jobChan <- assignment[T]{pos: i, job: job}
	}
	close(jobChan)

	go func() {
		wg.Wait()
		close(resultChan)
	}()

	results := make([]U, len(jobs))
	var errs []error
	for d := range resultChan {
		if d.err != nil {
			errs = append(errs, d.err)
			continue
		}
		results[d.pos] = d.res
	}
	return results, errors.Join(errs...)
}
