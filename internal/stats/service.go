package stats

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hbenali/aeropass/internal/badges"
	"github.com/hbenali/aeropass/internal/notifications"
	"github.com/hbenali/aeropass/pkg/badge"
)

type service struct {
	badges        badges.System
	notifications notifications.System
	logger        *slog.Logger
}

// New creates a stats service implementing the System interface.
func New(
	badgeSys badges.System,
	notifySys notifications.System,
	logger *slog.Logger,
) System {
	return &service{
		badges:        badgeSys,
		notifications: notifySys,
		logger:        logger.With("system", "stats"),
	}
}

func (s *service) Handler() *Handler {
	return NewHandler(s, s.logger)
}

// Overview fans the source reads out concurrently: per-lifecycle counts, the
// annotated collection, and the notification feed.
func (s *service) Overview(ctx context.Context) (*Stats, error) {
	now := time.Now()

	var (
		counts Counts
		views  []badges.View
		feed   *notifications.Feed
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		counts.Permanent, err = s.badges.Count(gctx, badge.TypePermanent)
		return err
	})
	g.Go(func() error {
		var err error
		counts.Temporary, err = s.badges.Count(gctx, badge.TypeTemporary)
		return err
	})
	g.Go(func() error {
		var err error
		counts.Recovered, err = s.badges.Count(gctx, badge.TypeRecovered)
		return err
	})
	g.Go(func() error {
		var err error
		views, err = s.badges.ListAll(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		feed, err = s.notifications.Feed(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	counts.Total = counts.Permanent + counts.Temporary + counts.Recovered

	return &Stats{
		Counts:            counts,
		Statuses:          tallyStatuses(views),
		Delays:            tallyDelays(views),
		Companies:         countCompanies(views),
		AvgProcessingDays: avgProcessingDays(views),
		MonthlyCreations:  monthlyCreations(views, now),
		YearlyCreations:   yearlyCreations(views),
		Notifications:     feed.Summary,
		GeneratedAt:       now,
	}, nil
}
