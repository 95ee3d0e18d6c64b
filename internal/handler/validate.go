package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/schedcheck/internal/domain"
	"go.uber.org/zap"
)

// FileValidator validates one uploaded file.
type FileValidator interface {
	Validate(ctx context.Context, in *domain.FileInput) (*domain.ValidationResult, error)
}

// ValidateHandler handles schedule upload validation requests.
type ValidateHandler struct {
	validator     FileValidator
	maxUploadSize int64
	logger        *zap.Logger
}

// NewValidateHandler creates a new ValidateHandler. Request bodies larger
// than maxUploadSize bytes are rejected with 413.
func NewValidateHandler(validator FileValidator, maxUploadSize int64, logger *zap.Logger) *ValidateHandler {
	return &ValidateHandler{
		validator:     validator,
		maxUploadSize: maxUploadSize,
		logger:        logger.Named("validate_handler"),
	}
}

// Handle processes POST /validate requests. The file is read from the
// multipart field "file"; the optional field "lastModified" holds Unix
// milliseconds.
func (h *ValidateHandler) Handle(c *gin.Context) {
	startTime := time.Now()
	requestID := RequestID(c)

	logger := h.logger.With(zap.String("request_id", requestID))
	logger.Debug("received validation request")

	if c.Request.ContentLength > h.maxUploadSize {
		h.fail(c, http.StatusRequestEntityTooLarge, requestID, "Upload exceeds the maximum size")
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadSize)

	in, err := h.readUpload(c)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.fail(c, http.StatusRequestEntityTooLarge, requestID, "Upload exceeds the maximum size")
			return
		}
		logger.Warn("invalid upload", zap.Error(err))
		h.fail(c, http.StatusBadRequest, requestID, err.Error())
		return
	}

	result, err := h.validator.Validate(c.Request.Context(), in)
	if err != nil {
		logger.Warn("validation aborted", zap.Error(err))
		h.fail(c, http.StatusServiceUnavailable, requestID, "Validation did not complete")
		return
	}

	logger.Info("validation completed",
		zap.String("file_name", in.Name),
		zap.Bool("is_valid", result.IsValid),
		zap.Int("security_score", result.SecurityScore),
		zap.Duration("duration", time.Since(startTime)),
	)

	status := http.StatusOK
	if !result.IsValid {
		status = http.StatusUnprocessableEntity
	}
	c.JSON(status, domain.ValidationResponse{
		Success:     result.IsValid,
		Result:      result,
		RequestID:   requestID,
		ProcessedAt: time.Now(),
	})
}

func (h *ValidateHandler) readUpload(c *gin.Context) (*domain.FileInput, error) {
	fh, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrMissingFile, err)
	}

	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("opening upload: %w", err)
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("reading upload: %w", err)
	}

	in := &domain.FileInput{
		Name:             fh.Filename,
		SizeBytes:        uint64(fh.Size),
		DeclaredMIMEType: fh.Header.Get("Content-Type"),
		Content:          content,
	}
	if ms := c.PostForm("lastModified"); ms != "" {
		v, err := strconv.ParseInt(ms, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("lastModified must be Unix milliseconds: %w", err)
		}
		in.LastModified = time.UnixMilli(v).UTC()
	}
	return in, nil
}

func (h *ValidateHandler) fail(c *gin.Context, status int, requestID, msg string) {
	c.JSON(status, domain.ValidationResponse{
		Success:     false,
		Error:       msg,
		RequestID:   requestID,
		ProcessedAt: time.Now(),
	})
}
