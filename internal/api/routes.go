package api

import (
	"net/http"

	"github.com/hbenali/aeropass/internal/config"
	"github.com/hbenali/aeropass/pkg/openapi"
	"github.com/hbenali/aeropass/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	cfg *config.Config,
	runtime *Runtime,
) error {
	routes.Register(
		mux,
		domain.Badges.Handler().Routes(),
		domain.Contracts.Handler(cfg.API.MaxUploadSizeBytes()).Routes(),
		domain.Notifications.Handler().Routes(),
		domain.Stats.Handler().Routes(),
		newStorageHandler(runtime.Storage, runtime.Logger, cfg.Storage.MaxListSize).routes(),
	)

	spec := buildSpec(cfg)
	specBytes, err := openapi.MarshalJSON(spec)
	if err != nil {
		return err
	}
	mux.HandleFunc("GET /openapi.json", openapi.ServeSpec(specBytes))

	return nil
}
