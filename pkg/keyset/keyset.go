// Package keyset provides a persisted string-set store backed by Redis,
// with lifecycle coordination. It backs suppression and acknowledgement
// state that must survive service restarts but does not belong in the
// relational schema.
package keyset

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/hbenali/aeropass/pkg/lifecycle"
)

// System manages named persisted sets and lifecycle coordination.
type System interface {
	// Start registers startup and shutdown hooks with the lifecycle coordinator.
	Start(lc *lifecycle.Coordinator) error
	// Add inserts members into the named set.
	Add(ctx context.Context, set string, members ...string) error
	// Remove deletes members from the named set.
	Remove(ctx context.Context, set string, members ...string) error
	// Has reports whether the named set contains member.
	Has(ctx context.Context, set string, member string) (bool, error)
	// Members returns all members of the named set.
	Members(ctx context.Context, set string) ([]string, error)
	// Clear removes the named set entirely.
	Clear(ctx context.Context, set string) error
}

type store struct {
	client *redis.Client
	prefix string
	logger *slog.Logger
}

// New creates a keyset system from the given configuration. The client is
// created immediately but the connection is not verified until Start.
func New(cfg *Config, logger *slog.Logger) (System, error) {
	opts, err := redis.ParseURL(cfg.URL())
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	return &store{
		client: redis.NewClient(opts),
		prefix: cfg.KeyPrefix,
		logger: logger.With("system", "keyset"),
	}, nil
}

func (s *store) key(set string) string {
	return s.prefix + set
}

func (s *store) Start(lc *lifecycle.Coordinator) error {
	s.logger.Info("starting keyset store")

	lc.OnStartup(func() {
		if err := s.client.Ping(lc.Context()).Err(); err != nil {
			s.logger.Error("redis ping failed", "error", err)
			return
		}
		s.logger.Info("keyset store ready")
	})

	lc.OnShutdown(func() {
		<-lc.Context().Done()
		s.logger.Info("closing keyset store")

		if err := s.client.Close(); err != nil {
			s.logger.Error("keyset close failed", "error", err)
		}
	})

	return nil
}

func (s *store) Add(ctx context.Context, set string, members ...string) error {
	if len(members) == 0 {
		return nil
	}

	args := make([]any, len(members))
	for i, m := range members {
		args[i] = m
	}

	if err := s.client.SAdd(ctx, s.key(set), args...).Err(); err != nil {
		return fmt.Errorf("add to set %s: %w", set, err)
	}
	return nil
}

func (s *store) Remove(ctx context.Context, set string, members ...string) error {
	if len(members) == 0 {
		return nil
	}

	args := make([]any, len(members))
	for i, m := range members {
		args[i] = m
	}

	if err := s.client.SRem(ctx, s.key(set), args...).Err(); err != nil {
		return fmt.Errorf("remove from set %s: %w", set, err)
	}
	return nil
}

func (s *store) Has(ctx context.Context, set string, member string) (bool, error) {
	ok, err := s.client.SIsMember(ctx, s.key(set), member).Result()
	if err != nil {
		return false, fmt.Errorf("check set %s: %w", set, err)
	}
	return ok, nil
}

func (s *store) Members(ctx context.Context, set string) ([]string, error) {
	members, err := s.client.SMembers(ctx, s.key(set)).Result()
	if err != nil {
		return nil, fmt.Errorf("read set %s: %w", set, err)
	}
	return members, nil
}

func (s *store) Clear(ctx context.Context, set string) error {
	if err := s.client.Del(ctx, s.key(set)).Err(); err != nil {
		return fmt.Errorf("clear set %s: %w", set, err)
	}
	return nil
}
