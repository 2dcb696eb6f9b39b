package feed

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"gchat/internal/app/api"
	"gchat/internal/pkg/errs"
)

type noTokens struct{}

func (noTokens) Read() (string, bool) { return "", false }

func newSynchronizer(t *testing.T, interval time.Duration, configure func(r chi.Router)) (*Synchronizer, *atomic.Int64) {
	t.Helper()

	hits := &atomic.Int64{}
	router := chi.NewRouter()
	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits.Add(1)
			next.ServeHTTP(w, r)
		})
	})
	configure(router)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	client := api.NewClient(server.URL, 5*time.Second, noTokens{})
	s := NewSynchronizer(client, interval)
	t.Cleanup(s.Stop)

	return s, hits
}

// waitSnapshot reads published snapshots until one satisfies the predicate.
func waitSnapshot(t *testing.T, snapshots <-chan Snapshot, match func(Snapshot) bool) Snapshot {
	t.Helper()

	deadline := time.After(5 * time.Second)
	for {
		select {
		case snapshot := <-snapshots:
			if match(snapshot) {
				return snapshot
			}
		case <-deadline:
			t.Fatal("timed out waiting for matching feed snapshot")
		}
	}
}

func messageBody(id int64, text string) string {
	return fmt.Sprintf(`{"id":%d,"username":"ann","text":"%s","created_at":"2024-05-01T10:00:00Z"}`, id, text)
}

func TestSend_RejectsBlankTextWithoutNetworkCall(t *testing.T) {
	s, hits := newSynchronizer(t, time.Hour, func(r chi.Router) {})

	for _, text := range []string{"", "   ", "\n\t"} {
		_, err := s.Send(context.Background(), text)
		require.Error(t, err)
		require.Equal(t, errs.KindValidation, errs.KindOf(err))
	}

	require.Zero(t, hits.Load())
	require.Empty(t, s.Current().Messages)
}

func TestSend_AppendsServerAssignedMessage(t *testing.T) {
	s, _ := newSynchronizer(t, time.Hour, func(r chi.Router) {
		r.Post("/api/chat/messages/", func(w http.ResponseWriter, req *http.Request) {
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(messageBody(42, "hello")))
		})
	})

	message, err := s.Send(context.Background(), "hello")
	require.NoError(t, err)
	require.Equal(t, int64(42), message.ID)

	current := s.Current().Messages
	require.Len(t, current, 1)
	require.Equal(t, int64(42), current[len(current)-1].ID)
	require.Equal(t, "hello", current[len(current)-1].Text)
}

func TestSend_FailureLeavesFeedUnchanged(t *testing.T) {
	s, _ := newSynchronizer(t, time.Hour, func(r chi.Router) {
		r.Post("/api/chat/messages/", func(w http.ResponseWriter, req *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})
	})

	_, err := s.Send(context.Background(), "hello")
	require.Error(t, err)
	require.Equal(t, errs.KindSend, errs.KindOf(err))
	require.Empty(t, s.Current().Messages)
}

func TestSend_LocalRateLimit(t *testing.T) {
	var nextID atomic.Int64
	s, hits := newSynchronizer(t, time.Hour, func(r chi.Router) {
		r.Post("/api/chat/messages/", func(w http.ResponseWriter, req *http.Request) {
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(messageBody(nextID.Add(1), "hi")))
		})
	})

	for i := 0; i < SendBurst; i++ {
		_, err := s.Send(context.Background(), "hi")
		require.NoError(t, err)
	}

	_, err := s.Send(context.Background(), "one too many")
	require.Error(t, err)

	var customErr *errs.CustomError
	require.ErrorAs(t, err, &customErr)
	require.Equal(t, errs.ErrSendRateLimited, customErr.Code)
	require.Equal(t, int64(SendBurst), hits.Load())
}

func TestRefresh_GrowsFeedWithoutDuplicates(t *testing.T) {
	var calls atomic.Int64
	s, _ := newSynchronizer(t, 20*time.Millisecond, func(r chi.Router) {
		r.Get("/api/chat/messages/", func(w http.ResponseWriter, req *http.Request) {
			body := `[` + messageBody(1, "first") + `,` + messageBody(2, "second") + `]`
			if calls.Add(1) > 1 {
				body = `[` + messageBody(1, "first") + `,` + messageBody(2, "second") + `,` + messageBody(3, "third") + `]`
			}
			w.Write([]byte(body))
		})
	})

	snapshots := make(chan Snapshot, 64)
	defer s.Subscribe(func(snapshot Snapshot) { snapshots <- snapshot })()

	s.Start()

	final := waitSnapshot(t, snapshots, func(snapshot Snapshot) bool {
		return len(snapshot.Messages) == 3
	})

	require.Equal(t, int64(1), final.Messages[0].ID)
	require.Equal(t, int64(2), final.Messages[1].ID)
	require.Equal(t, int64(3), final.Messages[2].ID)
	require.NoError(t, final.SyncErr)
}

func TestRefresh_FailureKeepsStaleFeed(t *testing.T) {
	var calls atomic.Int64
	s, _ := newSynchronizer(t, 20*time.Millisecond, func(r chi.Router) {
		r.Get("/api/chat/messages/", func(w http.ResponseWriter, req *http.Request) {
			if calls.Add(1) > 1 {
				w.WriteHeader(http.StatusBadGateway)
				return
			}
			w.Write([]byte(`[` + messageBody(1, "first") + `,` + messageBody(2, "second") + `]`))
		})
	})

	snapshots := make(chan Snapshot, 64)
	defer s.Subscribe(func(snapshot Snapshot) { snapshots <- snapshot })()

	s.Start()

	failed := waitSnapshot(t, snapshots, func(snapshot Snapshot) bool {
		return snapshot.SyncErr != nil
	})

	// No flicker to empty: the last known good feed stays visible.
	require.Len(t, failed.Messages, 2)
	require.Equal(t, errs.KindSync, errs.KindOf(failed.SyncErr))
}

func TestStop_PreventsInFlightFetchFromApplying(t *testing.T) {
	release := make(chan struct{})
	s, _ := newSynchronizer(t, time.Hour, func(r chi.Router) {
		r.Get("/api/chat/messages/", func(w http.ResponseWriter, req *http.Request) {
			<-release
			w.Write([]byte(`[` + messageBody(1, "late") + `]`))
		})
	})

	s.Start()

	// Give the immediate fetch time to reach the blocking handler, then
	// deactivate while it is in flight.
	time.Sleep(50 * time.Millisecond)
	s.Stop()
	close(release)

	time.Sleep(100 * time.Millisecond)
	require.Empty(t, s.Current().Messages)
}

func TestStop_IsIdempotentAndRestartable(t *testing.T) {
	var calls atomic.Int64
	s, _ := newSynchronizer(t, time.Hour, func(r chi.Router) {
		r.Get("/api/chat/messages/", func(w http.ResponseWriter, req *http.Request) {
			calls.Add(1)
			w.Write([]byte(`[` + messageBody(1, "first") + `]`))
		})
	})

	snapshots := make(chan Snapshot, 64)
	defer s.Subscribe(func(snapshot Snapshot) { snapshots <- snapshot })()

	s.Stop()
	s.Stop()

	s.Start()
	waitSnapshot(t, snapshots, func(snapshot Snapshot) bool {
		return len(snapshot.Messages) == 1
	})

	s.Stop()
	s.Stop()

	s.Start()
	require.Eventually(t, func() bool {
		return calls.Load() >= 2
	}, 5*time.Second, 10*time.Millisecond, "restarted synchronizer never fetched again")
}

func TestMerge_ServerValuesAreCanonical(t *testing.T) {
	local := []api.Message{
		{ID: 6, Username: "bob", Text: "earlier"},
		{ID: 7, Username: "ann", Text: "draft copy"},
	}
	fetched := []api.Message{
		{ID: 6, Username: "bob", Text: "earlier"},
		{ID: 7, Username: "ann", Text: "server copy"},
	}

	merged := merge(fetched, local)

	require.Len(t, merged, 2)
	require.Equal(t, int64(7), merged[1].ID)
	require.Equal(t, "server copy", merged[1].Text)
}

func TestMerge_KeepsLocalAppendsPendingConfirmation(t *testing.T) {
	// A message confirmed by send but not yet included in the poll response
	// stays at the end until the server starts returning it.
	local := []api.Message{
		{ID: 1, Text: "old"},
		{ID: 9, Text: "just sent"},
	}
	fetched := []api.Message{
		{ID: 1, Text: "old"},
		{ID: 2, Text: "from someone else"},
	}

	merged := merge(fetched, local)

	require.Len(t, merged, 3)
	require.Equal(t, int64(1), merged[0].ID)
	require.Equal(t, int64(2), merged[1].ID)
	require.Equal(t, int64(9), merged[2].ID)
}

func TestMerge_DeduplicatesFetchedFeed(t *testing.T) {
	fetched := []api.Message{
		{ID: 1, Text: "a"},
		{ID: 1, Text: "a again"},
		{ID: 2, Text: "b"},
	}

	merged := merge(fetched, nil)

	require.Len(t, merged, 2)
	require.Equal(t, "a", merged[0].Text)
}
