package services

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
)

// Bootstrap starts the one-shot download and the live subscription, each
// after its own delay. The two are not ordered with respect to each other.
type Bootstrap struct {
	puller        *Puller
	listener      *Listener
	downloadDelay time.Duration
	listenDelay   time.Duration
}

func NewBootstrap(puller *Puller, listener *Listener, downloadDelay, listenDelay time.Duration) *Bootstrap {
	return &Bootstrap{
		puller:        puller,
		listener:      listener,
		downloadDelay: downloadDelay,
		listenDelay:   listenDelay,
	}
}

// Run returns once both calls have returned; the subscription only returns
// when ctx is done.
func (b *Bootstrap) Run(ctx context.Context) {
	var g errgroup.Group
	g.Go(func() error {
		if wait(ctx, b.downloadDelay) {
			b.puller.Pull(ctx)
		}
		return nil
	})
	g.Go(func() error {
		if wait(ctx, b.listenDelay) {
			b.listener.Listen(ctx)
		}
		return nil
	})
	_ = g.Wait()
}

// wait reports whether d elapsed before ctx was done.
func wait(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}
