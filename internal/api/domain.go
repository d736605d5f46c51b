package api

import (
	"github.com/hbenali/aeropass/internal/badges"
	"github.com/hbenali/aeropass/internal/contracts"
	"github.com/hbenali/aeropass/internal/notifications"
	"github.com/hbenali/aeropass/internal/stats"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Badges        badges.System
	Contracts     contracts.System
	Notifications notifications.System
	Stats         stats.System
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime) *Domain {
	badgeSystem := badges.New(
		runtime.Database.Connection(),
		runtime.Storage,
		runtime.Logger,
		runtime.Pagination,
	)

	contractSystem := contracts.New(
		badgeSystem,
		runtime.Storage,
		runtime.Logger,
	)

	notificationSystem := notifications.New(
		badgeSystem,
		runtime.Keyset,
		runtime.Notify,
		runtime.Logger,
	)

	statsSystem := stats.New(
		badgeSystem,
		notificationSystem,
		runtime.Logger,
	)

	return &Domain{
		Badges:        badgeSystem,
		Contracts:     contractSystem,
		Notifications: notificationSystem,
		Stats:         statsSystem,
	}
}
