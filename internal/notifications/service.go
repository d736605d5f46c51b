package notifications

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hbenali/aeropass/internal/badges"
	"github.com/hbenali/aeropass/pkg/badge"
	"github.com/hbenali/aeropass/pkg/keyset"
)

type service struct {
	badges badges.System
	sets   keyset.System
	opts   badge.NotifyOptions
	logger *slog.Logger
}

// New creates a notification service implementing the System interface.
func New(
	badgeSys badges.System,
	sets keyset.System,
	opts badge.NotifyOptions,
	logger *slog.Logger,
) System {
	return &service{
		badges: badgeSys,
		sets:   sets,
		opts:   opts,
		logger: logger.With("system", "notifications"),
	}
}

func (s *service) Handler() *Handler {
	return NewHandler(s, s.logger)
}

func (s *service) Feed(ctx context.Context) (*Feed, error) {
	now := time.Now()
	entries, err := s.classify(ctx, now)
	if err != nil {
		return nil, err
	}

	dismissed, err := s.sets.Members(ctx, DismissedSet)
	if err != nil {
		return nil, fmt.Errorf("read dismissed set: %w", err)
	}

	suppressed := make(map[string]struct{}, len(dismissed))
	for _, id := range dismissed {
		suppressed[id] = struct{}{}
	}

	visible := make([]badge.Notification, 0, len(entries))
	for _, n := range entries {
		if _, ok := suppressed[n.ID]; ok {
			continue
		}
		visible = append(visible, n)
	}

	return &Feed{
		Notifications: visible,
		Summary:       badge.Summarize(visible),
		LastUpdated:   now,
	}, nil
}

func (s *service) Dismiss(ctx context.Context, id string) error {
	if id == "" {
		return ErrInvalidID
	}

	if err := s.sets.Add(ctx, DismissedSet, id); err != nil {
		return fmt.Errorf("dismiss notification: %w", err)
	}

	s.logger.Info("notification dismissed", "id", id)
	return nil
}

func (s *service) ClearAll(ctx context.Context) error {
	entries, err := s.classify(ctx, time.Now())
	if err != nil {
		return err
	}

	ids := make([]string, 0, len(entries))
	for _, n := range entries {
		ids = append(ids, n.ID)
	}

	if err := s.sets.Add(ctx, DismissedSet, ids...); err != nil {
		return fmt.Errorf("clear notifications: %w", err)
	}

	s.logger.Info("notifications cleared", "count", len(ids))
	return nil
}

func (s *service) AcknowledgeNew(ctx context.Context) error {
	if err := s.badges.AcknowledgeAdditions(ctx); err != nil {
		return err
	}

	s.logger.Info("new badge notifications acknowledged")
	return nil
}

// classify fetches records and recent additions concurrently and runs the
// feed classification.
func (s *service) classify(ctx context.Context, now time.Time) ([]badge.Notification, error) {
	opts := s.opts
	if opts.NewWindow <= 0 {
		opts.NewWindow = 24 * time.Hour
	}

	var (
		records   []badge.Record
		additions []badge.Addition
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		records, err = s.badges.ListRecords(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		additions, err = s.badges.Additions(gctx, now.Add(-opts.NewWindow))
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return badge.ClassifyNotifications(records, additions, opts, now), nil
}
