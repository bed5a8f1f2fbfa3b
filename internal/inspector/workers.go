package inspector

import (
	"context"
	"sync"

	"github.com/Nao-Mk2/aws-log-lister/internal/model"
)

// collectEvents fetches the events of every stream. The result is indexed
// like streams regardless of how many workers run.
func (in *Inspector) collectEvents(ctx context.Context, group string, streams []string, w model.TimeWindow) ([][]model.LogEvent, error) {
	results := make([][]model.LogEvent, len(streams))
	if in.cfg.Workers <= 1 || len(streams) <= 1 {
		for i, s := range streams {
			events, err := in.streamEvents(ctx, group, s, w)
			if err != nil {
				return nil, err
			}
			results[i] = events
		}
		return results, nil
	}

	workers := in.cfg.Workers
	if workers > len(streams) {
		workers = len(streams)
	}
	idxChan := make(chan int, len(streams))
	for i := range streams {
		idxChan <- i
	}
	close(idxChan)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range idxChan {
				events, err := in.streamEvents(ctx, group, streams[idx], w)
				if err != nil {
					mu.Lock()
					if firstErr == nil {
						firstErr = err
					}
					mu.Unlock()
					return
				}
				results[idx] = events
			}
		}()
	}
	wg.Wait()
	if firstErr != nil {
		return nil, firstErr
	}
	return results, nil
}
