package canshark

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// StatsSource provides the current statistics of every active channel.
// Implementations must not have side effects visible to the caller.
type StatsSource interface {
	ListChannelStats(ctx context.Context) ([]ChannelStat, error)
}

type SourceFunc func(ctx context.Context) ([]ChannelStat, error)

func (f SourceFunc) ListChannelStats(ctx context.Context) ([]ChannelStat, error) {
	return f(ctx)
}

// MultiSource queries all sources concurrently and concatenates the results
// in source order. A single failing source fails the whole query.
type MultiSource []StatsSource

func (m MultiSource) ListChannelStats(gctx context.Context) ([]ChannelStat, error) {
	for _, src := range m {
		if src == nil {
			return nil, ErrNilSource
		}
	}
	results := make([][]ChannelStat, len(m))
	errg, ctx := errgroup.WithContext(gctx)
	for i, src := range m {
		i, src := i, src
		errg.Go(func() error {
			stats, err := src.ListChannelStats(ctx)
			if err != nil {
				return err
			}
			results[i] = stats
			return nil
		})
	}
	if err := errg.Wait(); err != nil {
		return nil, err
	}
	out := make([]ChannelStat, 0)
	for _, r := range results {
		out = append(out, r...)
	}
	return out, nil
}
