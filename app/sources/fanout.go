package sources

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/lysyi3m/crypto-alerts/app/news"
	"golang.org/x/sync/errgroup"
)

type FetchResult struct {
	Items  []news.Item
	Counts map[string]int
	Failed []string
}

// FetchAll calls every source concurrently and merges the results in
// completion order. A source that panics contributes nothing and is listed
// in Failed; the others are unaffected.
func FetchAll(ctx context.Context, srcs []Source) FetchResult {
	var (
		mu     sync.Mutex
		result = FetchResult{Counts: make(map[string]int, len(srcs))}
	)

	g, gctx := errgroup.WithContext(ctx)

	for _, src := range srcs {
		g.Go(func() error {
			items, err := fetchIsolated(gctx, src)

			mu.Lock()
			defer mu.Unlock()

			if err != nil {
				slog.Error("Source fetch aborted", "source", src.Name(), "error", err)
				result.Failed = append(result.Failed, src.Name())
				return nil
			}

			result.Items = append(result.Items, items...)
			result.Counts[src.Name()] = len(items)
			return nil
		})
	}

	_ = g.Wait()

	return result
}

func fetchIsolated(ctx context.Context, src Source) (items []news.Item, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	return src.Fetch(ctx), nil
}
