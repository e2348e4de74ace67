package app

import (
	"context"
	"time"

	"github.com/giantswarm/contacts/internal/mailbox"
	"github.com/giantswarm/contacts/internal/reconciler"
	"github.com/giantswarm/contacts/pkg/logging"
)

// Watch applies edits of the mailbox file at path until ctx is cancelled or
// the returned stop function is called. onChange, if set, is called after
// each applied change with the batches it produced.
func (s *Session) Watch(ctx context.Context, path string, debounce time.Duration, onChange func([]reconciler.Result)) (stop func(), err error) {
	ctx, cancel := context.WithCancel(ctx)

	watcher := mailbox.NewWatcher(path, debounce)
	lists := make(chan []string)
	if err := watcher.Start(ctx, lists); err != nil {
		cancel()
		return nil, err
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case <-ctx.Done():
				return
			case emails := <-lists:
				results := s.ApplyFileChange(ctx, emails)
				if len(results) == 0 {
					logging.Debug("Session", "Mailbox file changed without affecting contacts")
					continue
				}
				if onChange != nil {
					onChange(results)
				}
			}
		}
	}()

	return func() {
		cancel()
		_ = watcher.Stop()
		<-done
	}, nil
}
