package badges

import (
	"context"
	"time"

	"github.com/hbenali/aeropass/pkg/badge"
	"github.com/hbenali/aeropass/pkg/pagination"
)

// System defines the public contract for badge domain operations.
// Reads return views annotated with derived lifecycle status.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		typ badge.Type,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[View], error)

	// ListAll returns every badge across all three lifecycles, annotated.
	ListAll(ctx context.Context) ([]View, error)

	Find(ctx context.Context, typ badge.Type, badgeNum string) (*View, error)
	FindAny(ctx context.Context, badgeNum string) (*View, error)
	Create(ctx context.Context, typ badge.Type, cmd CreateCommand) (*View, error)
	Update(ctx context.Context, typ badge.Type, badgeNum string, cmd UpdateCommand) (*View, error)
	Delete(ctx context.Context, typ badge.Type, badgeNum string) error
	Count(ctx context.Context, typ badge.Type) (int, error)
	Search(ctx context.Context, term string) ([]View, error)

	// ListRecords returns every badge record across all three lifecycles,
	// unannotated, for classification consumers.
	ListRecords(ctx context.Context) ([]badge.Record, error)

	// Additions returns creation events added at or after since.
	Additions(ctx context.Context, since time.Time) ([]badge.Addition, error)
	// AcknowledgeAdditions marks all creation events as seen, removing them
	// from the nouveau feed.
	AcknowledgeAdditions(ctx context.Context) error

	// SetContract records contract metadata on a badge row.
	SetContract(ctx context.Context, typ badge.Type, badgeNum, filename string, uploadedAt time.Time) error
	// ClearContract removes contract metadata from a badge row.
	ClearContract(ctx context.Context, typ badge.Type, badgeNum string) error
}
