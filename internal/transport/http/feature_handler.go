package http

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"storefeatures/internal/dataprocessing"
	apierrors "storefeatures/internal/errors"
	"storefeatures/internal/exporter"
	"storefeatures/internal/services"
)

// Multipart field names of the two input tables
const (
	FieldObservations = "observations"
	FieldStores       = "stores"
)

// Response headers describing the run
const (
	HeaderRunID    = "X-Run-ID"
	HeaderRows     = "X-Feature-Rows"
	HeaderRejected = "X-Rejected-Rows"
	HeaderWarnings = "X-Unmapped-Categories"
)

// multipartMemory is the part of an upload kept in memory before spilling
// to temporary files
const multipartMemory = 32 << 20

// FeatureHandler builds feature tables from uploaded inputs
type FeatureHandler struct {
	service      FeatureServiceInterface
	delimiter    rune
	maxBytes     int64
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewFeatureHandler creates a feature handler. Uploads larger than maxBytes
// in total are refused.
func NewFeatureHandler(service FeatureServiceInterface, delimiter rune, maxBytes int64, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *FeatureHandler {
	return &FeatureHandler{
		service:      service,
		delimiter:    delimiter,
		maxBytes:     maxBytes,
		logger:       logger.With(slog.String("component", "feature_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the feature routes
func (h *FeatureHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.Build)
	return r
}

// Build handles POST /api/v1/features. The body is multipart with an
// observations and a stores file. Query parameters: format=csv|xlsx and
// clean=true to fill missing cells first.
func (h *FeatureHandler) Build(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	format, err := parseFormat(r.URL.Query().Get("format"))
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}

	clean := false
	if v := r.URL.Query().Get("clean"); v != "" {
		clean, err = strconv.ParseBool(v)
		if err != nil {
			h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(
				fmt.Errorf("clean: %w", err)))
			return
		}
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		h.errorHandler.HandleError(w, r, uploadError(err, h.maxBytes))
		return
	}
	defer r.MultipartForm.RemoveAll()

	observations, err := h.readUpload(r, FieldObservations, dataprocessing.TableObservations)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	stores, err := h.readUpload(r, FieldStores, dataprocessing.TableStores)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	result, err := h.service.Build(ctx, services.BuildRequest{
		Observations: observations,
		Stores:       stores,
		Clean:        clean,
		Source:       services.SourceHTTP,
	})
	if err != nil {
		h.errorHandler.HandleError(w, r, classifyBuildError(err))
		return
	}

	summary := result.Summary
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "features."+string(format)))
	w.Header().Set(HeaderRunID, summary.RunID)
	w.Header().Set(HeaderRows, strconv.Itoa(summary.Rows))
	w.Header().Set(HeaderRejected, strconv.Itoa(summary.Rejected))
	w.Header().Set(HeaderWarnings, strconv.Itoa(len(summary.Warnings)))
	w.WriteHeader(http.StatusOK)

	// Headers are gone by now; a failed write can only be logged
	if err := h.service.WriteResult(ctx, w, format, result); err != nil {
		h.logger.ErrorContext(ctx, "failed to stream feature table",
			slog.String("error", err.Error()),
			slog.String("run_id", summary.RunID),
			slog.String("request_id", middleware.GetReqID(ctx)))
		return
	}

	h.logger.InfoContext(ctx, "feature table served",
		slog.String("run_id", summary.RunID),
		slog.String("format", string(format)),
		slog.Int("rows", summary.Rows),
		slog.Int("rejected", summary.Rejected))
}

// readUpload reads one multipart file field as a raw table
func (h *FeatureHandler) readUpload(r *http.Request, field, table string) (*dataprocessing.RawTable, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		if stderrors.Is(err, http.ErrMissingFile) {
			return nil, apierrors.MissingUploadError(field)
		}
		return nil, apierrors.InvalidRequestWithError(err)
	}
	defer func(f multipart.File) { f.Close() }(file)

	raw, err := dataprocessing.ReadTableFrom(file, header.Filename, table, h.delimiter)
	if err != nil {
		return nil, apierrors.InvalidRequestWithError(err)
	}
	return raw, nil
}

// uploadError maps a multipart parse failure. The multipart reader does not
// always wrap the size limit error, so its message is matched as well.
func uploadError(err error, limit int64) error {
	var maxErr *http.MaxBytesError
	if stderrors.As(err, &maxErr) {
		return apierrors.PayloadTooLargeError(maxErr.Limit)
	}
	if strings.Contains(err.Error(), "request body too large") {
		return apierrors.PayloadTooLargeError(limit)
	}
	return apierrors.InvalidRequestWithError(err)
}

// classifyBuildError keeps input and deadline errors as they are so the
// error handler maps them to 4xx and 504, and marks everything else as a
// failed run
func classifyBuildError(err error) error {
	switch {
	case apierrors.IsInputError(err),
		stderrors.Is(err, context.DeadlineExceeded),
		stderrors.Is(err, context.Canceled):
		return err
	case stderrors.Is(err, services.ErrMissingInput):
		return apierrors.InvalidRequestWithError(err)
	default:
		return apierrors.RunFailedError(err)
	}
}

func parseFormat(v string) (exporter.Format, error) {
	switch strings.ToLower(v) {
	case "", string(exporter.FormatCSV):
		return exporter.FormatCSV, nil
	case string(exporter.FormatXLSX):
		return exporter.FormatXLSX, nil
	default:
		return "", fmt.Errorf("format %q is not one of csv, xlsx", v)
	}
}
