// ABOUTME: One-shot reads built on top of live subscriptions.
// ABOUTME: Subscribes, takes the initial snapshot, and unsubscribes.
package docstore

import (
	"context"
	"fmt"
)

// Fetch returns the current ordered contents of a collection.
func Fetch(ctx context.Context, s Store, q Query) ([]Document, error) {
	type result struct {
		docs []Document
		err  error
	}
	ch := make(chan result, 1)
	send := func(r result) {
		select {
		case ch <- r:
		default:
		}
	}

	unsub, err := s.Subscribe(ctx, q, Listener{
		OnSnapshot: func(docs []Document) { send(result{docs: docs}) },
		OnError:    func(err error) { send(result{err: err}) },
	})
	if err != nil {
		return nil, err
	}
	defer unsub()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-ch:
		if r.err != nil {
			return nil, fmt.Errorf("fetch %s: %w", q.Namespace(), r.err)
		}
		return r.docs, nil
	}
}
