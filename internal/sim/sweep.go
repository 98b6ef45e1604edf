package sim

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Case builds one independent simulation of a sweep.
type Case struct {
	Name  string
	Build func() (*Simulator, error)
}

// Sweep runs every case concurrently and returns results in case order.
// The first failing case cancels the others.
func Sweep(ctx context.Context, cfg Config, cases []Case) ([]*Result, error) {
	results := make([]*Result, len(cases))

	g, ctx := errgroup.WithContext(ctx)
	for i, c := range cases {
		i, c := i, c
		g.Go(func() error {
			s, err := c.Build()
			if err != nil {
				return err
			}
			res, err := s.Run(ctx, cfg)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
