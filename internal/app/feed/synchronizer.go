/*
Package feed synchronizes the shared message feed with the chat service.

Synchronization is exclusively pull-based: while active, the synchronizer
fetches the full feed once immediately and then on a fixed cadence, merging
each result into local state keyed by message ID. Sending is confirmed-append:
a message enters the local feed only after the server returns its canonical
record.
*/
package feed

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"gchat/internal/app/api"
	"gchat/internal/pkg/errs"
	"gchat/internal/pkg/logx"
)

// Client-side send throttle. The server is the real arbiter; this only keeps
// a stuck key from flooding it.
const (
	SendRate  = 1.0
	SendBurst = 5
)

// Snapshot is the feed state published to observers. Fetch-then-apply is
// atomic with respect to it: a snapshot never exposes a partially applied
// refresh.
type Snapshot struct {
	// Messages is the feed in server-assigned order, unique by ID.
	Messages []api.Message

	// SyncErr is the outcome of the most recent refresh: nil after a success,
	// a sync-kind error after a failure. Messages retains the last known good
	// feed either way.
	SyncErr error

	// LastSync is when the feed was last successfully fetched.
	LastSync time.Time
}

// Synchronizer polls the message feed while a session is active and applies
// optimistic appends on send.
type Synchronizer struct {
	api      *api.Client
	interval time.Duration
	limiter  *rate.Limiter

	mu         sync.Mutex
	messages   []api.Message
	syncErr    error
	lastSync   time.Time
	generation int
	cancel     context.CancelFunc
	subs       map[int]func(Snapshot)
	nextSub    int
}

// NewSynchronizer returns an inactive synchronizer polling at the given interval.
func NewSynchronizer(client *api.Client, interval time.Duration) *Synchronizer {
	return &Synchronizer{
		api:      client,
		interval: interval,
		limiter:  rate.NewLimiter(rate.Limit(SendRate), SendBurst),
		subs:     make(map[int]func(Snapshot)),
	}
}

// Start activates polling: one immediate fetch, then one per interval until
// Stop. Calling Start on an already active synchronizer is a no-op.
func (s *Synchronizer) Start() {
	s.mu.Lock()
	if s.cancel != nil {
		s.mu.Unlock()
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	gen := s.generation
	s.mu.Unlock()

	logx.Info("feed: synchronization started", "interval", s.interval.String())
	go s.run(ctx, gen)
}

// Stop deactivates polling. It is idempotent, and it guarantees that no fetch
// already in flight mutates the feed after Stop returns: the generation bumped
// here is re-checked under the lock before any result is applied.
func (s *Synchronizer) Stop() {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
		logx.Info("feed: synchronization stopped")
	}
	s.generation++
	s.mu.Unlock()
}

// Current returns the feed state as last published.
func (s *Synchronizer) Current() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{Messages: s.messages, SyncErr: s.syncErr, LastSync: s.lastSync}
}

// Subscribe registers fn to be called with every feed change, and calls it
// once immediately with the current state. It returns an unsubscribe function.
func (s *Synchronizer) Subscribe(fn func(Snapshot)) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	current := Snapshot{Messages: s.messages, SyncErr: s.syncErr, LastSync: s.lastSync}
	s.mu.Unlock()

	fn(current)

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// Send submits a new message. Empty and whitespace-only text is rejected
// before any network call. On success the server's canonical record is
// appended to the feed; on failure the caller keeps the draft and receives a
// send-kind error.
func (s *Synchronizer) Send(ctx context.Context, text string) (api.Message, error) {
	if strings.TrimSpace(text) == "" {
		return api.Message{}, errs.NewError(errs.ErrEmptyMessage)
	}

	if !s.limiter.Allow() {
		logx.Warn("feed: send rejected by local rate limit")
		return api.Message{}, errs.NewError(errs.ErrSendRateLimited)
	}

	message, err := s.api.SendMessage(ctx, text)
	if err != nil {
		logx.Error(err, "feed: message send failed")
		return api.Message{}, sendError(err)
	}

	s.mu.Lock()
	s.messages = appendUnique(s.messages, message)
	snapshot, observers := s.snapshotLocked()
	s.mu.Unlock()

	notify(observers, snapshot)
	return message, nil
}

// run is the polling loop. gen identifies the activation this loop belongs
// to; refresh results from a stale generation are never applied.
func (s *Synchronizer) run(ctx context.Context, gen int) {
	s.refresh(ctx, gen)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.refresh(ctx, gen)
		}
	}
}

// refresh fetches the full feed and applies it. On failure the last known
// good feed is kept and only the sync error flag changes, so a transient
// outage never flickers the view to an empty state.
func (s *Synchronizer) refresh(ctx context.Context, gen int) {
	fetched, err := s.api.Messages(ctx)

	s.mu.Lock()
	if gen != s.generation {
		// Deactivated while this fetch was in flight.
		s.mu.Unlock()
		return
	}

	if err != nil {
		logx.Warn("feed: refresh failed, keeping stale feed", "error", err)
		s.syncErr = errs.NewError(errs.ErrFeedSyncFailed)
	} else {
		s.messages = merge(fetched, s.messages)
		s.syncErr = nil
		s.lastSync = time.Now()
	}

	snapshot, observers := s.snapshotLocked()
	s.mu.Unlock()

	notify(observers, snapshot)
}

// snapshotLocked builds the current snapshot and observer list. Callers must
// hold s.mu and invoke the observers after releasing it.
func (s *Synchronizer) snapshotLocked() (Snapshot, []func(Snapshot)) {
	snapshot := Snapshot{Messages: s.messages, SyncErr: s.syncErr, LastSync: s.lastSync}
	observers := make([]func(Snapshot), 0, len(s.subs))
	for _, fn := range s.subs {
		observers = append(observers, fn)
	}
	return snapshot, observers
}

func notify(observers []func(Snapshot), snapshot Snapshot) {
	for _, fn := range observers {
		fn(snapshot)
	}
}

// merge reconciles a fetched feed with the local one. The fetched sequence is
// canonical, both in ordering and in field values; local messages the server
// response does not contain yet (confirmed sends racing the next poll) stay
// appended at the end in their original order. The result is unique by ID.
func merge(fetched, local []api.Message) []api.Message {
	merged := make([]api.Message, 0, len(fetched))
	seen := make(map[int64]struct{}, len(fetched))

	for _, message := range fetched {
		if _, ok := seen[message.ID]; ok {
			continue
		}
		seen[message.ID] = struct{}{}
		merged = append(merged, message)
	}

	for _, message := range local {
		if _, ok := seen[message.ID]; ok {
			continue
		}
		seen[message.ID] = struct{}{}
		merged = append(merged, message)
	}

	return merged
}

// appendUnique appends message unless the feed already contains its ID, which
// happens when a refresh returned the message before the send call finished.
func appendUnique(messages []api.Message, message api.Message) []api.Message {
	for _, existing := range messages {
		if existing.ID == message.ID {
			return messages
		}
	}
	return append(messages, message)
}

// sendError shapes a transport failure into a send-kind error, preferring the
// server's detail message when the failure carries one.
func sendError(err error) *errs.CustomError {
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		return errs.NewErrorWithDetail(errs.ErrMessageSendFailed, apiErr.Detail)
	}
	return errs.NewError(errs.ErrMessageSendFailed)
}
