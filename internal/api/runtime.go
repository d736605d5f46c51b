package api

import (
	"github.com/hbenali/aeropass/internal/config"
	"github.com/hbenali/aeropass/internal/infrastructure"
	"github.com/hbenali/aeropass/pkg/badge"
	"github.com/hbenali/aeropass/pkg/pagination"
)

// Runtime extends Infrastructure with API-specific configuration.
type Runtime struct {
	*infrastructure.Infrastructure
	Pagination pagination.Config
	Notify     badge.NotifyOptions
}

// NewRuntime creates an API runtime with a module-scoped logger.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	return &Runtime{
		Infrastructure: &infrastructure.Infrastructure{
			Lifecycle: infra.Lifecycle,
			Logger:    infra.Logger.With("module", "api"),
			Database:  infra.Database,
			Storage:   infra.Storage,
			Keyset:    infra.Keyset,
		},
		Pagination: cfg.API.Pagination,
		Notify:     cfg.Notifications.Options(),
	}
}
