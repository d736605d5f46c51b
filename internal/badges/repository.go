package badges

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/hbenali/aeropass/pkg/badge"
	"github.com/hbenali/aeropass/pkg/pagination"
	"github.com/hbenali/aeropass/pkg/query"
	"github.com/hbenali/aeropass/pkg/repository"
	"github.com/hbenali/aeropass/pkg/storage"
)

type repo struct {
	db         *sql.DB
	storage    storage.System
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a badge repository implementing the System interface.
func New(
	db *sql.DB,
	store storage.System,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		storage:    store,
		logger:     logger.With("system", "badges"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) List(
	ctx context.Context,
	typ badge.Type,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[View], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projectionFor(typ), defaultSort).
		WhereSearch(page.Search, "BadgeNum", "FullName", "Company", "CIN")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count %s badges: %w", typ, err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	rows, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scannerFor(typ))
	if err != nil {
		return nil, fmt.Errorf("query %s badges: %w", typ, err)
	}

	result := pagination.NewPageResult(annotateAll(rows, time.Now()), total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, typ badge.Type, badgeNum string) (*View, error) {
	q, args := query.NewBuilder(projectionFor(typ)).BuildSingle("BadgeNum", badgeNum)

	b, err := repository.QueryOne(ctx, r.db, q, args, scannerFor(typ))
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	view := annotate(b, time.Now())
	return &view, nil
}

// FindAny looks the badge number up across all three lifecycles concurrently.
// When the number exists in more than one, permanent wins over temporary,
// temporary over recovered.
func (r *repo) FindAny(ctx context.Context, badgeNum string) (*View, error) {
	results := make([]*View, len(badge.Types))

	g, gctx := errgroup.WithContext(ctx)
	for i, typ := range badge.Types {
		g.Go(func() error {
			v, err := r.Find(gctx, typ, badgeNum)
			if err != nil {
				if errors.Is(err, ErrNotFound) {
					return nil
				}
				return err
			}
			results[i] = v
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, v := range results {
		if v != nil {
			return v, nil
		}
	}
	return nil, ErrNotFound
}

func (r *repo) Create(ctx context.Context, typ badge.Type, cmd CreateCommand) (*View, error) {
	q, args := insertQuery(typ, cmd.Record)

	b, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Badge, error) {
		created, err := repository.QueryOne(ctx, tx, q, args, scannerFor(typ))
		if err != nil {
			return Badge{}, err
		}

		addQ, addArgs := additionInsertQuery(uuid.New(), created.BadgeNum, typ, cmd.AddedBy)
		_, err = tx.ExecContext(ctx, addQ, addArgs...)
		return created, err
	})

	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("badge created", "type", typ, "badge_num", b.BadgeNum)
	view := annotate(b, time.Now())
	return &view, nil
}

func (r *repo) Update(ctx context.Context, typ badge.Type, badgeNum string, cmd UpdateCommand) (*View, error) {
	q, args := updateQuery(typ, badgeNum, cmd.Record)

	b, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Badge, error) {
		return repository.QueryOne(ctx, tx, q, args, scannerFor(typ))
	})

	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("badge updated", "type", typ, "badge_num", badgeNum)
	view := annotate(b, time.Now())
	return &view, nil
}

func (r *repo) Delete(ctx context.Context, typ badge.Type, badgeNum string) error {
	existing, err := r.Find(ctx, typ, badgeNum)
	if err != nil {
		return err
	}

	_, err = repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		if err := repository.ExecExpectOne(
			ctx, tx,
			fmt.Sprintf("DELETE FROM %s WHERE badge_num = $1", tableFor(typ)),
			badgeNum,
		); err != nil {
			return struct{}{}, err
		}

		_, err := tx.ExecContext(
			ctx,
			"DELETE FROM badge_additions WHERE badge_num = $1 AND badge_type = $2",
			badgeNum, typ,
		)
		return struct{}{}, err
	})

	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	if existing.ContractFilename != nil {
		key := contractKey(typ, badgeNum)
		if delErr := r.storage.Delete(ctx, key); delErr != nil && !errors.Is(delErr, storage.ErrNotFound) {
			r.logger.Warn("contract blob delete failed after badge delete", "key", key, "error", delErr)
		}
	}

	r.logger.Info("badge deleted", "type", typ, "badge_num", badgeNum)
	return nil
}

func (r *repo) Count(ctx context.Context, typ badge.Type) (int, error) {
	q, args := query.NewBuilder(projectionFor(typ)).BuildCount()

	var total int
	if err := r.db.QueryRowContext(ctx, q, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count %s badges: %w", typ, err)
	}
	return total, nil
}

// Search matches the term against badge number, name, company, and national
// ID across all three lifecycles concurrently.
func (r *repo) Search(ctx context.Context, term string) ([]View, error) {
	now := time.Now()

	var mu sync.Mutex
	views := make([]View, 0)

	g, gctx := errgroup.WithContext(ctx)
	for _, typ := range badge.Types {
		g.Go(func() error {
			qb := query.
				NewBuilder(projectionFor(typ), defaultSort).
				WhereSearch(&term, "BadgeNum", "FullName", "Company", "CIN")

			q, args := qb.Build()
			rows, err := repository.QueryMany(gctx, r.db, q, args, scannerFor(typ))
			if err != nil {
				return fmt.Errorf("search %s badges: %w", typ, err)
			}

			mu.Lock()
			views = append(views, annotateAll(rows, now)...)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return views, nil
}

func (r *repo) ListAll(ctx context.Context) ([]View, error) {
	rows, err := r.listAll(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	views := make([]View, 0, len(rows))
	for _, b := range rows {
		views = append(views, annotate(b, now))
	}
	return views, nil
}

func (r *repo) ListRecords(ctx context.Context) ([]badge.Record, error) {
	rows, err := r.listAll(ctx)
	if err != nil {
		return nil, err
	}

	records := make([]badge.Record, 0, len(rows))
	for _, b := range rows {
		records = append(records, b.Record)
	}
	return records, nil
}

func (r *repo) listAll(ctx context.Context) ([]Badge, error) {
	byType := make([][]Badge, len(badge.Types))

	g, gctx := errgroup.WithContext(ctx)
	for i, typ := range badge.Types {
		g.Go(func() error {
			q, args := query.NewBuilder(projectionFor(typ), defaultSort).Build()
			rows, err := repository.QueryMany(gctx, r.db, q, args, scannerFor(typ))
			if err != nil {
				return fmt.Errorf("list %s badges: %w", typ, err)
			}
			byType[i] = rows
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	all := make([]Badge, 0)
	for _, rows := range byType {
		all = append(all, rows...)
	}
	return all, nil
}

func (r *repo) Additions(ctx context.Context, since time.Time) ([]badge.Addition, error) {
	qb := query.NewBuilder(additionsProjection, query.SortField{Field: "AddedAt", Descending: true})
	q, args := qb.Build()

	all, err := repository.QueryMany(ctx, r.db, q, args, scanAddition)
	if err != nil {
		return nil, fmt.Errorf("query badge additions: %w", err)
	}

	recent := make([]badge.Addition, 0, len(all))
	for _, a := range all {
		if !a.AddedAt.Before(since) {
			recent = append(recent, a)
		}
	}
	return recent, nil
}

func (r *repo) AcknowledgeAdditions(ctx context.Context) error {
	if _, err := r.db.ExecContext(
		ctx,
		"UPDATE badge_additions SET acknowledged = TRUE WHERE acknowledged = FALSE",
	); err != nil {
		return fmt.Errorf("acknowledge additions: %w", err)
	}
	return nil
}

func (r *repo) SetContract(ctx context.Context, typ badge.Type, badgeNum, filename string, uploadedAt time.Time) error {
	err := repository.ExecExpectOne(
		ctx, r.db,
		fmt.Sprintf(
			`UPDATE %s
			 SET contract_filename = $1, contract_uploaded_at = $2, updated_at = NOW()
			 WHERE badge_num = $3`,
			tableFor(typ),
		),
		filename, uploadedAt, badgeNum,
	)
	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return nil
}

func (r *repo) ClearContract(ctx context.Context, typ badge.Type, badgeNum string) error {
	err := repository.ExecExpectOne(
		ctx, r.db,
		fmt.Sprintf(
			`UPDATE %s
			 SET contract_filename = NULL, contract_uploaded_at = NULL, updated_at = NOW()
			 WHERE badge_num = $1`,
			tableFor(typ),
		),
		badgeNum,
	)
	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return nil
}

func tableFor(typ badge.Type) string {
	switch typ {
	case badge.TypePermanent:
		return "permanent_badges"
	case badge.TypeTemporary:
		return "temporary_badges"
	default:
		return "recovered_badges"
	}
}

func contractKey(typ badge.Type, badgeNum string) string {
	return fmt.Sprintf("contracts/%s/%s.pdf", typ, badgeNum)
}

func additionInsertQuery(id uuid.UUID, badgeNum string, typ badge.Type, addedBy string) (string, []any) {
	return `
		INSERT INTO badge_additions(id, badge_num, badge_type, added_by)
		VALUES ($1, $2, $3, $4)`,
		[]any{id, badgeNum, typ, addedBy}
}

func insertQuery(typ badge.Type, rec badge.Record) (string, []any) {
	switch typ {
	case badge.TypePermanent:
		return `
			INSERT INTO permanent_badges(
				badge_num, full_name, company, cin,
				request_date, dgsn_sent_date, dgsn_return_date,
				gr_sent_date, gr_return_date, gr_returned, validity_duration)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			RETURNING ` + returningColumns(permanentProjection),
			[]any{
				rec.BadgeNum, rec.FullName, rec.Company, rec.CIN,
				rec.RequestDate, rec.DGSNSentDate, rec.DGSNReturnDate,
				rec.GRSentDate, rec.GRReturnDate, rec.GRReturned, rec.ValidityDuration,
			}
	case badge.TypeTemporary:
		return `
			INSERT INTO temporary_badges(
				badge_num, full_name, company, cin,
				request_date, dgsn_sent_date, dgsn_return_date,
				gr_sent_date, gr_return_date, gr_returned,
				validity_start, validity_end)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
			RETURNING ` + returningColumns(temporaryProjection),
			[]any{
				rec.BadgeNum, rec.FullName, rec.Company, rec.CIN,
				rec.RequestDate, rec.DGSNSentDate, rec.DGSNReturnDate,
				rec.GRSentDate, rec.GRReturnDate, rec.GRReturned,
				rec.ValidityStart, rec.ValidityEnd,
			}
	default:
		return `
			INSERT INTO recovered_badges(
				badge_num, full_name, company, cin,
				recovery_date, recovery_type, badge_type)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING ` + returningColumns(recoveredProjection),
			[]any{
				rec.BadgeNum, rec.FullName, rec.Company, rec.CIN,
				rec.RecoveryDate, rec.RecoveryType, rec.BadgeType,
			}
	}
}

func updateQuery(typ badge.Type, badgeNum string, rec badge.Record) (string, []any) {
	switch typ {
	case badge.TypePermanent:
		return `
			UPDATE permanent_badges SET
				full_name = $1, company = $2, cin = $3,
				request_date = $4, dgsn_sent_date = $5, dgsn_return_date = $6,
				gr_sent_date = $7, gr_return_date = $8, gr_returned = $9,
				validity_duration = $10, updated_at = NOW()
			WHERE badge_num = $11
			RETURNING ` + returningColumns(permanentProjection),
			[]any{
				rec.FullName, rec.Company, rec.CIN,
				rec.RequestDate, rec.DGSNSentDate, rec.DGSNReturnDate,
				rec.GRSentDate, rec.GRReturnDate, rec.GRReturned,
				rec.ValidityDuration, badgeNum,
			}
	case badge.TypeTemporary:
		return `
			UPDATE temporary_badges SET
				full_name = $1, company = $2, cin = $3,
				request_date = $4, dgsn_sent_date = $5, dgsn_return_date = $6,
				gr_sent_date = $7, gr_return_date = $8, gr_returned = $9,
				validity_start = $10, validity_end = $11, updated_at = NOW()
			WHERE badge_num = $12
			RETURNING ` + returningColumns(temporaryProjection),
			[]any{
				rec.FullName, rec.Company, rec.CIN,
				rec.RequestDate, rec.DGSNSentDate, rec.DGSNReturnDate,
				rec.GRSentDate, rec.GRReturnDate, rec.GRReturned,
				rec.ValidityStart, rec.ValidityEnd, badgeNum,
			}
	default:
		return `
			UPDATE recovered_badges SET
				full_name = $1, company = $2, cin = $3,
				recovery_date = $4, recovery_type = $5, badge_type = $6,
				updated_at = NOW()
			WHERE badge_num = $7
			RETURNING ` + returningColumns(recoveredProjection),
			[]any{
				rec.FullName, rec.Company, rec.CIN,
				rec.RecoveryDate, rec.RecoveryType, rec.BadgeType,
				badgeNum,
			}
	}
}
