package util

import "sync"

// DoWorkList applies fn to every item in parallel and returns the results
// in input order. One goroutine per item, so callers bound the slice size
// themselves.
func DoWorkList[T any, R any](items []T, fn func(T) R) []R {
	results := make([]R, len(items))
	var wg sync.WaitGroup

	for i, item := range items {
		wg.Add(1)
		go func(i int, item T) {
			defer wg.Done()
			results[i] = fn(item)
		}(i, item)
	}

	wg.Wait()
	return results
}
