package handler

import (
	"context"
	"encoding/json"
	stdErrors "errors"
	"os"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "github.com/ashok-rai/meetingbank-pipeline/errors"
	loaddto "github.com/ashok-rai/meetingbank-pipeline/internal/adapter/dto/load"
	"github.com/ashok-rai/meetingbank-pipeline/internal/adapter/presenter"
	"github.com/ashok-rai/meetingbank-pipeline/internal/domain/entities"
	loadusecase "github.com/ashok-rai/meetingbank-pipeline/internal/usecase/load"
)

// BatchLoader runs one batch load end to end
type BatchLoader interface {
	LoadBatch(ctx context.Context, batch *entities.Batch) (loadusecase.Report, error)
}

// BatchFetcher fetches staged batch objects from the staging bucket
type BatchFetcher interface {
	FetchBatch(ctx context.Context, objectName string) ([]byte, error)
}

// ReportArchiver stores outcome reports for later reconciliation
type ReportArchiver interface {
	ArchiveReport(ctx context.Context, runID string, report []byte) error
}

// Load handles batch load requests
type Load struct {
	loader   BatchLoader
	fetcher  BatchFetcher
	archiver ReportArchiver
	logger   *zap.Logger
}

// NewLoad creates a new load handler. fetcher and archiver are optional;
// without them only inline batches can be loaded and reports are not
// archived.
func NewLoad(loader BatchLoader, fetcher BatchFetcher, archiver ReportArchiver, logger *zap.Logger) *Load {
	return &Load{
		loader:   loader,
		fetcher:  fetcher,
		archiver: archiver,
		logger:   logger,
	}
}

// LoadBatch loads a batch submitted inline in the request body
func (h *Load) LoadBatch(c echo.Context) error {
	var req loaddto.LoadBatchRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, apperrors.ErrInvalidPayload(err))
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, apperrors.ErrBatchInvalid(err))
	}
	return h.run(c, &req)
}

// LoadFile loads a staged batch file, either from a local path or from the
// staging bucket by object name
func (h *Load) LoadFile(c echo.Context) error {
	var req loaddto.LoadFileRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, apperrors.ErrInvalidPayload(err))
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, apperrors.ErrInvalidArgument(err.Error()))
	}

	ctx := c.Request().Context()
	var raw []byte
	var err error
	switch {
	case req.Path != "":
		raw, err = os.ReadFile(req.Path)
		if err != nil {
			return HandleError(h.logger, c, apperrors.ErrInvalidArgument(err.Error()))
		}
	default:
		if h.fetcher == nil {
			return HandleError(h.logger, c, apperrors.ErrStorageFailed("fetch batch", stdErrors.New("object storage is not configured")))
		}
		raw, err = h.fetcher.FetchBatch(ctx, req.Object)
		if err != nil {
			return HandleError(h.logger, c, apperrors.ErrStorageFailed("fetch batch", err))
		}
	}

	batchReq, err := loaddto.ParseBatch(raw)
	if err != nil {
		return HandleError(h.logger, c, apperrors.ErrInvalidPayload(err))
	}
	return h.run(c, batchReq)
}

func (h *Load) run(c echo.Context, req *loaddto.LoadBatchRequest) error {
	ctx := c.Request().Context()
	report, err := h.loader.LoadBatch(ctx, req.ToBatch())
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	h.archive(ctx, report)
	return HandleSuccess(h.logger, c, presenter.LoadReport(report))
}

// archive uploads the outcome report; failures are logged, never surfaced to
// the caller.
func (h *Load) archive(ctx context.Context, report loadusecase.Report) {
	if h.archiver == nil {
		return
	}
	raw, err := json.Marshal(report)
	if err == nil {
		err = h.archiver.ArchiveReport(ctx, report.RunID, raw)
	}
	if err != nil && h.logger != nil {
		h.logger.Warn("archiving report failed",
			zap.String("run_id", report.RunID),
			zap.Error(err),
		)
	}
}
