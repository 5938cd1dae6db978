package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pdminh/imagebatch/internal/config"
	"github.com/pdminh/imagebatch/internal/models"
	"github.com/pdminh/imagebatch/internal/services/archive"
	"github.com/pdminh/imagebatch/internal/services/cache"
	"github.com/pdminh/imagebatch/internal/services/notify"
	"github.com/pdminh/imagebatch/internal/services/orchestrator"
	"github.com/pdminh/imagebatch/internal/services/processor"
	"github.com/pdminh/imagebatch/internal/services/storage"
	"go.uber.org/zap"
)

// BatchHandler is the HTTP collaborator around the conversion core:
// intake, run trigger, status, and archive download. It carries no
// conversion logic of its own.
type BatchHandler struct {
	processor *processor.ImageProcessor
	cache     *cache.RedisCache     // optional
	notifier  *notify.Notifier      // optional
	store     *storage.ArchiveStore // optional
	logger    *zap.Logger
	config    *config.Config
	registry  *batchRegistry
}

func NewBatchHandler(
	proc *processor.ImageProcessor,
	resultCache *cache.RedisCache,
	notifier *notify.Notifier,
	store *storage.ArchiveStore,
	logger *zap.Logger,
	cfg *config.Config,
) *BatchHandler {
	return &BatchHandler{
		processor: proc,
		cache:     resultCache,
		notifier:  notifier,
		store:     store,
		logger:    logger,
		config:    cfg,
		registry:  newBatchRegistry(),
	}
}

// CreateBatch opens a new empty batch.
func (h *BatchHandler) CreateBatch(c *gin.Context) {
	batch := models.NewBatch()

	opts := orchestrator.Options{
		Workers:     h.config.Batch.Workers,
		ItemTimeout: h.config.Batch.ItemTimeout,
	}
	if h.cache != nil {
		opts.Cache = h.cache
	}
	h.registry.add(&batchEntry{
		batch: batch,
		orch:  orchestrator.New(h.processor, h.logger, opts),
	})

	h.logger.Info("batch created", zap.String("batch_id", batch.ID))
	c.JSON(http.StatusCreated, models.APIResponse{
		Success: true,
		Data:    gin.H{"batch_id": batch.ID},
	})
}

// AddImages performs intake: every uploaded file becomes one pending
// item. Files that fail the cheap validation are reported and skipped;
// valid siblings are still accepted.
func (h *BatchHandler) AddImages(c *gin.Context) {
	entry, ok := h.registry.get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, models.APIResponse{Success: false, Error: "batch not found"})
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, models.APIResponse{Success: false, Error: "failed to parse form data"})
		return
	}
	files := form.File["images"]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, models.APIResponse{Success: false, Error: "no image files provided"})
		return
	}

	accepted := make([]models.ItemView, 0, len(files))
	rejected := make([]gin.H, 0)
	for _, fh := range files {
		data, err := readUpload(fh, h.config.Intake.MaxFileSize)
		if err == nil {
			err = h.processor.ValidateSource(data, h.config.Intake.MaxFileSize)
		}
		if err != nil {
			rejected = append(rejected, gin.H{"name": fh.Filename, "error": err.Error()})
			continue
		}
		item := entry.batch.Add(fh.Filename, data)
		accepted = append(accepted, models.ItemView{
			ID:           item.ID,
			OriginalName: item.OriginalName,
			Status:       item.Status().String(),
		})
	}

	h.logger.Info("intake complete",
		zap.String("batch_id", entry.batch.ID),
		zap.Int("accepted", len(accepted)),
		zap.Int("rejected", len(rejected)),
	)
	c.JSON(http.StatusOK, models.APIResponse{
		Success: true,
		Data: gin.H{
			"accepted": accepted,
			"rejected": rejected,
		},
	})
}

type runRequest struct {
	MaxDimension *int     `json:"max_dimension"`
	TargetFormat *string  `json:"target_format"`
	Quality      *float64 `json:"quality"`
}

// RunBatch triggers a conversion run with the configured policy,
// optionally overridden per request. A batch with a run in flight is
// rejected with 409.
func (h *BatchHandler) RunBatch(c *gin.Context) {
	entry, ok := h.registry.get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, models.APIResponse{Success: false, Error: "batch not found"})
		return
	}

	policy, err := h.config.Policy()
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.APIResponse{Success: false, Error: err.Error()})
		return
	}
	if c.Request.ContentLength > 0 {
		var req runRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.APIResponse{Success: false, Error: "invalid run request"})
			return
		}
		if req.MaxDimension != nil {
			policy.MaxDimension = *req.MaxDimension
		}
		if req.TargetFormat != nil {
			format, err := models.ParseFormat(*req.TargetFormat)
			if err != nil {
				c.JSON(http.StatusBadRequest, models.APIResponse{Success: false, Error: err.Error()})
				return
			}
			policy.TargetFormat = format
		}
		if req.Quality != nil {
			policy.Quality = *req.Quality
		}
		if err := policy.Validate(); err != nil {
			c.JSON(http.StatusBadRequest, models.APIResponse{Success: false, Error: err.Error()})
			return
		}
	}

	summary, err := entry.orch.Run(c.Request.Context(), entry.batch, policy)
	if err != nil {
		if errors.Is(err, models.ErrBatchInFlight) {
			c.JSON(http.StatusConflict, models.APIResponse{Success: false, Error: err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, models.APIResponse{Success: false, Error: err.Error()})
		return
	}

	if h.notifier != nil {
		if err := h.notifier.BatchComplete(c.Request.Context(), entry.batch.ID, summary); err != nil {
			h.logger.Warn("failed to publish batch event", zap.Error(err))
		}
	}

	c.JSON(http.StatusOK, models.APIResponse{Success: true, Data: models.ViewOf(entry.batch)})
}

// GetBatch reports item statuses and the batch summary, letting the
// caller tell full, partial and total failure apart.
func (h *BatchHandler) GetBatch(c *gin.Context) {
	entry, ok := h.registry.get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, models.APIResponse{Success: false, Error: "batch not found"})
		return
	}
	c.JSON(http.StatusOK, models.APIResponse{Success: true, Data: models.ViewOf(entry.batch)})
}

// DownloadArchive assembles the zip of all done items and streams it
// under the fixed filename. With ?persist=true the archive is also
// uploaded to the configured archive store. A failed assembly leaves
// the batch untouched and re-downloadable.
func (h *BatchHandler) DownloadArchive(c *gin.Context) {
	entry, ok := h.registry.get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, models.APIResponse{Success: false, Error: "batch not found"})
		return
	}

	data, err := archive.Build(entry.batch)
	if err != nil {
		h.logger.Error("archive build failed", zap.String("batch_id", entry.batch.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, models.APIResponse{Success: false, Error: err.Error()})
		return
	}

	if c.Query("persist") == "true" && h.store != nil {
		url, err := h.store.Save(c.Request.Context(), entry.batch.ID, data)
		if err != nil {
			h.logger.Warn("failed to persist archive", zap.Error(err))
		} else {
			c.JSON(http.StatusOK, models.APIResponse{
				Success: true,
				Data:    gin.H{"archive_url": url, "filename": archive.Filename},
			})
			return
		}
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", archive.Filename))
	c.Data(http.StatusOK, "application/zip", data)
}

// readUpload reads at most maxSize+1 bytes so the validator can tell
// an oversized file from one that just fits.
func readUpload(fh *multipart.FileHeader, maxSize int64) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(io.LimitReader(f, maxSize+1))
}
