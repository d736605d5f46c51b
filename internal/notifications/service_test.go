package notifications_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"testing"
	"time"

	"github.com/hbenali/aeropass/internal/badges"
	"github.com/hbenali/aeropass/internal/notifications"
	"github.com/hbenali/aeropass/pkg/badge"
	"github.com/hbenali/aeropass/pkg/keyset"
	"github.com/hbenali/aeropass/pkg/lifecycle"
)

type badgeStub struct {
	badges.System

	listRecordsFn func(ctx context.Context) ([]badge.Record, error)
	additionsFn   func(ctx context.Context, since time.Time) ([]badge.Addition, error)
	ackFn         func(ctx context.Context) error
}

func (b *badgeStub) ListRecords(ctx context.Context) ([]badge.Record, error) {
	return b.listRecordsFn(ctx)
}

func (b *badgeStub) Additions(ctx context.Context, since time.Time) ([]badge.Addition, error) {
	return b.additionsFn(ctx, since)
}

func (b *badgeStub) AcknowledgeAdditions(ctx context.Context) error {
	return b.ackFn(ctx)
}

type keysetStub struct {
	members map[string]struct{}
}

func newKeysetStub(dismissed ...string) *keysetStub {
	members := make(map[string]struct{}, len(dismissed))
	for _, id := range dismissed {
		members[id] = struct{}{}
	}
	return &keysetStub{members: members}
}

func (k *keysetStub) Start(*lifecycle.Coordinator) error { return nil }

func (k *keysetStub) Add(_ context.Context, _ string, members ...string) error {
	for _, m := range members {
		k.members[m] = struct{}{}
	}
	return nil
}

func (k *keysetStub) Remove(_ context.Context, _ string, members ...string) error {
	for _, m := range members {
		delete(k.members, m)
	}
	return nil
}

func (k *keysetStub) Has(_ context.Context, _ string, member string) (bool, error) {
	_, ok := k.members[member]
	return ok, nil
}

func (k *keysetStub) Members(_ context.Context, _ string) ([]string, error) {
	out := make([]string, 0, len(k.members))
	for m := range k.members {
		out = append(out, m)
	}
	sort.Strings(out)
	return out, nil
}

func (k *keysetStub) Clear(_ context.Context, _ string) error {
	k.members = make(map[string]struct{})
	return nil
}

var _ keyset.System = (*keysetStub)(nil)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// lateRecord is 20 days past its request date with no completion, which
// classifies as a critical processing delay.
func lateRecord(now time.Time) badge.Record {
	request := now.AddDate(0, 0, -20)
	return badge.Record{
		BadgeNum:    "B-1",
		Type:        badge.TypePermanent,
		FullName:    "Nadia Alaoui",
		Company:     "Atlas Handling",
		RequestDate: &request,
	}
}

func recentAddition(now time.Time) badge.Addition {
	return badge.Addition{
		BadgeNum: "B-2",
		Type:     badge.TypeTemporary,
		AddedBy:  "ops",
		AddedAt:  now.Add(-time.Hour),
	}
}

func newService(records []badge.Record, additions []badge.Addition, sets keyset.System) notifications.System {
	return notifications.New(
		&badgeStub{
			listRecordsFn: func(context.Context) ([]badge.Record, error) {
				return records, nil
			},
			additionsFn: func(context.Context, time.Time) ([]badge.Addition, error) {
				return additions, nil
			},
		},
		sets,
		badge.NotifyOptions{},
		discardLogger(),
	)
}

func TestFeed(t *testing.T) {
	now := time.Now()

	t.Run("classifies delays and new badges", func(t *testing.T) {
		svc := newService(
			[]badge.Record{lateRecord(now)},
			[]badge.Addition{recentAddition(now)},
			newKeysetStub(),
		)

		feed, err := svc.Feed(context.Background())
		if err != nil {
			t.Fatalf("feed: %v", err)
		}

		if feed.Summary.Total != 2 {
			t.Fatalf("total = %d, want 2", feed.Summary.Total)
		}
		if feed.Summary.Retard != 1 {
			t.Errorf("retard = %d, want 1", feed.Summary.Retard)
		}
		if feed.Summary.Nouveau != 1 {
			t.Errorf("nouveau = %d, want 1", feed.Summary.Nouveau)
		}

		ids := make(map[string]badge.Severity)
		for _, n := range feed.Notifications {
			ids[n.ID] = n.Severity
		}
		if sev, ok := ids["retard:B-1"]; !ok || sev != badge.SeverityCritique {
			t.Errorf("retard:B-1 severity = %v, want critique", sev)
		}
		if _, ok := ids["nouveau:B-2"]; !ok {
			t.Error("nouveau:B-2 missing from feed")
		}
	})

	t.Run("dismissed entries are suppressed", func(t *testing.T) {
		svc := newService(
			[]badge.Record{lateRecord(now)},
			[]badge.Addition{recentAddition(now)},
			newKeysetStub("retard:B-1"),
		)

		feed, err := svc.Feed(context.Background())
		if err != nil {
			t.Fatalf("feed: %v", err)
		}

		if feed.Summary.Total != 1 {
			t.Fatalf("total = %d, want 1", feed.Summary.Total)
		}
		if feed.Notifications[0].ID != "nouveau:B-2" {
			t.Errorf("id = %q, want nouveau:B-2", feed.Notifications[0].ID)
		}
	})

	t.Run("acknowledged additions never surface", func(t *testing.T) {
		ack := recentAddition(now)
		ack.Acknowledged = true

		svc := newService(nil, []badge.Addition{ack}, newKeysetStub())

		feed, err := svc.Feed(context.Background())
		if err != nil {
			t.Fatalf("feed: %v", err)
		}
		if feed.Summary.Total != 0 {
			t.Errorf("total = %d, want 0", feed.Summary.Total)
		}
	})

	t.Run("source errors propagate", func(t *testing.T) {
		boom := errors.New("database down")
		svc := notifications.New(
			&badgeStub{
				listRecordsFn: func(context.Context) ([]badge.Record, error) {
					return nil, boom
				},
				additionsFn: func(context.Context, time.Time) ([]badge.Addition, error) {
					return nil, nil
				},
			},
			newKeysetStub(),
			badge.NotifyOptions{},
			discardLogger(),
		)

		if _, err := svc.Feed(context.Background()); !errors.Is(err, boom) {
			t.Errorf("err = %v, want %v", err, boom)
		}
	})
}

func TestDismiss(t *testing.T) {
	now := time.Now()

	t.Run("records id in suppression set", func(t *testing.T) {
		sets := newKeysetStub()
		svc := newService(nil, nil, sets)

		if err := svc.Dismiss(context.Background(), "retard:B-1"); err != nil {
			t.Fatalf("dismiss: %v", err)
		}

		if _, ok := sets.members["retard:B-1"]; !ok {
			t.Error("id not added to suppression set")
		}
	})

	t.Run("empty id rejected", func(t *testing.T) {
		svc := newService(nil, nil, newKeysetStub())

		if err := svc.Dismiss(context.Background(), ""); !errors.Is(err, notifications.ErrInvalidID) {
			t.Errorf("err = %v, want ErrInvalidID", err)
		}
	})

	t.Run("dismissal survives feed recomputation", func(t *testing.T) {
		sets := newKeysetStub()
		svc := newService([]badge.Record{lateRecord(now)}, nil, sets)

		if err := svc.Dismiss(context.Background(), "retard:B-1"); err != nil {
			t.Fatalf("dismiss: %v", err)
		}

		feed, err := svc.Feed(context.Background())
		if err != nil {
			t.Fatalf("feed: %v", err)
		}
		if feed.Summary.Total != 0 {
			t.Errorf("total = %d, want 0 after dismissal", feed.Summary.Total)
		}
	})
}

func TestClearAll(t *testing.T) {
	now := time.Now()
	sets := newKeysetStub()
	svc := newService(
		[]badge.Record{lateRecord(now)},
		[]badge.Addition{recentAddition(now)},
		sets,
	)

	if err := svc.ClearAll(context.Background()); err != nil {
		t.Fatalf("clear all: %v", err)
	}

	for _, id := range []string{"retard:B-1", "nouveau:B-2"} {
		if _, ok := sets.members[id]; !ok {
			t.Errorf("%s not suppressed", id)
		}
	}

	feed, err := svc.Feed(context.Background())
	if err != nil {
		t.Fatalf("feed: %v", err)
	}
	if feed.Summary.Total != 0 {
		t.Errorf("total = %d, want 0 after clear", feed.Summary.Total)
	}
}

func TestAcknowledgeNew(t *testing.T) {
	called := false
	svc := notifications.New(
		&badgeStub{
			ackFn: func(context.Context) error {
				called = true
				return nil
			},
		},
		newKeysetStub(),
		badge.NotifyOptions{},
		discardLogger(),
	)

	if err := svc.AcknowledgeNew(context.Background()); err != nil {
		t.Fatalf("acknowledge: %v", err)
	}
	if !called {
		t.Error("additions not acknowledged")
	}
}
