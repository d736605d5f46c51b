package contracts

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/hbenali/aeropass/internal/badges"
	"github.com/hbenali/aeropass/pkg/badge"
	"github.com/hbenali/aeropass/pkg/storage"
)

type service struct {
	badges  badges.System
	storage storage.System
	logger  *slog.Logger
}

// New creates a contract service implementing the System interface.
func New(badgeSys badges.System, store storage.System, logger *slog.Logger) System {
	return &service{
		badges:  badgeSys,
		storage: store,
		logger:  logger.With("system", "contracts"),
	}
}

func (s *service) Handler(maxUploadSize int64) *Handler {
	return NewHandler(s, s.logger, maxUploadSize)
}

func (s *service) Upload(ctx context.Context, typ badge.Type, badgeNum string, cmd UploadCommand) (*Receipt, error) {
	pageCount, err := validatePDF(cmd.Data)
	if err != nil {
		return nil, err
	}

	if _, err := s.badges.Find(ctx, typ, badgeNum); err != nil {
		return nil, err
	}

	key := blobKey(typ, badgeNum)
	if err := s.storage.Upload(ctx, key, bytes.NewReader(cmd.Data), "application/pdf"); err != nil {
		return nil, fmt.Errorf("upload contract blob: %w", err)
	}

	uploadedAt := time.Now().UTC()
	if err := s.badges.SetContract(ctx, typ, badgeNum, cmd.Filename, uploadedAt); err != nil {
		if delErr := s.storage.Delete(ctx, key); delErr != nil {
			s.logger.Warn("compensating blob delete failed", "key", key, "error", delErr)
		}
		return nil, err
	}

	s.logger.Info("contract uploaded", "type", typ, "badge_num", badgeNum, "pages", pageCount)

	return &Receipt{
		BadgeNum:   badgeNum,
		BadgeType:  string(typ),
		Filename:   cmd.Filename,
		SizeBytes:  int64(len(cmd.Data)),
		PageCount:  pageCount,
		UploadedAt: uploadedAt,
	}, nil
}

func (s *service) Download(ctx context.Context, typ badge.Type, badgeNum string) (io.ReadCloser, string, error) {
	view, err := s.badges.Find(ctx, typ, badgeNum)
	if err != nil {
		return nil, "", err
	}
	if view.ContractFilename == nil {
		return nil, "", ErrNotFound
	}

	reader, err := s.storage.Download(ctx, blobKey(typ, badgeNum))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, "", ErrNotFound
		}
		return nil, "", fmt.Errorf("download contract blob: %w", err)
	}

	return reader, *view.ContractFilename, nil
}

func (s *service) Delete(ctx context.Context, typ badge.Type, badgeNum string) error {
	view, err := s.badges.Find(ctx, typ, badgeNum)
	if err != nil {
		return err
	}
	if view.ContractFilename == nil {
		return ErrNotFound
	}

	if err := s.badges.ClearContract(ctx, typ, badgeNum); err != nil {
		return err
	}

	if err := s.storage.Delete(ctx, blobKey(typ, badgeNum)); err != nil && !errors.Is(err, storage.ErrNotFound) {
		s.logger.Warn("contract blob delete failed after metadata clear", "type", typ, "badge_num", badgeNum, "error", err)
	}

	s.logger.Info("contract deleted", "type", typ, "badge_num", badgeNum)
	return nil
}

func (s *service) Exists(ctx context.Context, typ badge.Type, badgeNum string) (bool, error) {
	view, err := s.badges.Find(ctx, typ, badgeNum)
	if err != nil {
		return false, err
	}
	return view.ContractFilename != nil, nil
}

func blobKey(typ badge.Type, badgeNum string) string {
	return fmt.Sprintf("contracts/%s/%s.pdf", typ, badgeNum)
}

// validatePDF rejects non-PDF payloads and returns the page count.
// Both the magic bytes and pdfcpu parsing must agree.
func validatePDF(data []byte) (int, error) {
	if len(data) == 0 {
		return 0, ErrInvalidFile
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		return 0, ErrNotPDF
	}

	count, err := api.PageCount(bytes.NewReader(data), nil)
	if err != nil {
		return 0, ErrNotPDF
	}
	return count, nil
}
