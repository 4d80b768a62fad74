package publishers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// Fanout delivers each product event to every sink concurrently.
type Fanout struct {
	publishers []Publisher
}

// NewFanout drops nil entries and keeps the rest in order.
func NewFanout(pubs []Publisher) *Fanout {
	f := &Fanout{}
	for _, p := range pubs {
		if p != nil {
			f.publishers = append(f.publishers, p)
		}
	}
	return f
}

// Publish sends evt to all sinks and waits for every delivery. It returns how
// many sinks accepted the event and the joined errors of the ones that did not.
// A failing sink does not cancel deliveries to the others.
func (f *Fanout) Publish(ctx context.Context, evt Event) (int, error) {
	if f == nil || len(f.publishers) == 0 {
		return 0, nil
	}

	var (
		g         errgroup.Group
		delivered atomic.Int64
	)
	errs := make([]error, len(f.publishers))
	for i, p := range f.publishers {
		g.Go(func() error {
			if err := p.Publish(ctx, evt); err != nil {
				errs[i] = fmt.Errorf("%s publisher[%s]: %w", p.Type(), p.ID(), err)
				return nil
			}
			delivered.Add(1)
			return nil
		})
	}
	_ = g.Wait()
	return int(delivered.Load()), errors.Join(errs...)
}

// Size returns the number of sinks.
func (f *Fanout) Size() int {
	if f == nil {
		return 0
	}
	return len(f.publishers)
}

// Close releases sinks that hold client connections.
func (f *Fanout) Close() error {
	if f == nil {
		return nil
	}
	return CloseAll(f.publishers)
}

// CloseAll closes every publisher implementing io.Closer and joins the errors.
func CloseAll(pubs []Publisher) error {
	var errs []error
	for _, p := range pubs {
		if c, ok := p.(io.Closer); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, fmt.Errorf("close %s publisher[%s]: %w", p.Type(), p.ID(), err))
			}
		}
	}
	return errors.Join(errs...)
}
