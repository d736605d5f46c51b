package contracts

import (
	"context"
	"io"

	"github.com/hbenali/aeropass/pkg/badge"
)

// System defines the public contract for badge contract operations.
type System interface {
	Handler(maxUploadSize int64) *Handler

	Upload(ctx context.Context, typ badge.Type, badgeNum string, cmd UploadCommand) (*Receipt, error)
	// Download returns a stream for the contract blob. The caller must close
	// the reader. The returned filename is the original upload name.
	Download(ctx context.Context, typ badge.Type, badgeNum string) (io.ReadCloser, string, error)
	Delete(ctx context.Context, typ badge.Type, badgeNum string) error
	Exists(ctx context.Context, typ badge.Type, badgeNum string) (bool, error)
}
