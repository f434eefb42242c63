package stage

import "sync"

// workItems fans work out across a bounded pool of goroutines, collecting
// per-item success/failure into an Outcome. Each worker processes items
// from a shared channel to completion; no ordering guarantee is made
// between items, matching spec §5's intra-stage ordering rules. Grounded
// in the teacher's fixture.ProcessPending worker-pool-over-groups.
func workItems[T any](workers int, items []T, process func(T) (ok bool, warning string)) (okCount, errCount int, warnings []string) {
	if workers < 1 {
		workers = 1
	}
	if workers > len(items) && len(items) > 0 {
		workers = len(items)
	}
	if len(items) == 0 {
		return 0, 0, nil
	}

	ch := make(chan T, len(items))
	for _, it := range items {
		ch <- it
	}
	close(ch)

	var mu sync.Mutex
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for item := range ch {
				ok, warning := process(item)
				mu.Lock()
				if ok {
					okCount++
				} else {
					errCount++
				}
				if warning != "" {
					warnings = append(warnings, warning)
				}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	return okCount, errCount, warnings
}
