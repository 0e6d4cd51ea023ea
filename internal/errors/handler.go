package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime"
	"runtime/debug"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

// Problem types following RFC 7807
const (
	TypeValidation      = "/errors/validation"
	TypeNotFound        = "/errors/not-found"
	TypeMethodNotAllow  = "/errors/method-not-allowed"
	TypeRateLimit       = "/errors/rate-limit"
	TypeInternal        = "/errors/internal"
	TypeTimeout         = "/errors/timeout"
	TypePayloadTooLarge = "/errors/payload-too-large"
)

// Input data problem types
const (
	TypeInputSchema = "/errors/input/schema"
	TypeDateParse   = "/errors/input/date-parse"
	TypeCellParse   = "/errors/input/cell-parse"
	TypeRunFailed   = "/errors/features/run-failed"
)

// ErrorHandler provides centralized error handling
type ErrorHandler struct {
	logger       *slog.Logger
	includeStack bool
}

// NewErrorHandler creates a new error handler
func NewErrorHandler(logger *slog.Logger, includeStack bool) *ErrorHandler {
	return &ErrorHandler{
		logger:       logger.With(slog.String("component", "error_handler")),
		includeStack: includeStack,
	}
}

// HandleError writes err as a problem response and logs it at warn level
// for client errors and error level otherwise
func (h *ErrorHandler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		return
	}

	reqID := middleware.GetReqID(r.Context())
	problem := h.ErrorToProblem(err, r)
	problem.TraceID = reqID

	level := slog.LevelError
	if problem.Status < http.StatusInternalServerError {
		level = slog.LevelWarn
	}
	h.logger.Log(r.Context(), level, "request failed",
		slog.String("error", err.Error()),
		slog.Int("status", problem.Status),
		slog.String("error_code", problem.ErrorCode),
		slog.String("request_id", reqID),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
	)

	if h.includeStack && problem.Status >= http.StatusInternalServerError {
		problem.Stack = getStackTrace()
	}

	render.Render(w, r, problem)
}

// ErrorToProblem maps err to a problem. Deadlines become 504, oversized
// bodies 413, bad input data 400; anything unrecognised is a 500.
func (h *ErrorHandler) ErrorToProblem(err error, r *http.Request) *Problem {
	if stderrors.Is(err, context.DeadlineExceeded) || stderrors.Is(err, context.Canceled) {
		return newProblem(r, http.StatusGatewayTimeout, TypeTimeout,
			"The feature run did not finish before the request deadline")
	}

	var maxBytesErr *http.MaxBytesError
	if stderrors.As(err, &maxBytesErr) {
		return apiErrorToProblem(PayloadTooLargeError(maxBytesErr.Limit), r)
	}

	if apiErr := FromInputError(err); apiErr != nil {
		return apiErrorToProblem(apiErr, r)
	}

	var apiErr *APIError
	if stderrors.As(err, &apiErr) {
		return apiErrorToProblem(apiErr, r)
	}

	p := newProblem(r, http.StatusInternalServerError, TypeInternal,
		"An unexpected error occurred while processing your request")
	p.ErrorCode = CodeInternal
	return p
}

var problemTypes = map[string]string{
	CodeInvalidRequest:  TypeValidation,
	CodeMissingUpload:   TypeValidation,
	CodeInputSchema:     TypeInputSchema,
	CodeDateParse:       TypeDateParse,
	CodeCellParse:       TypeCellParse,
	CodePayloadTooLarge: TypePayloadTooLarge,
	CodeRateLimit:       TypeRateLimit,
	CodeRunFailed:       TypeRunFailed,
}

func apiErrorToProblem(apiErr *APIError, r *http.Request) *Problem {
	problemType, ok := problemTypes[apiErr.ErrorCode]
	if !ok {
		problemType = TypeInternal
	}

	p := newProblem(r, apiErr.StatusCode, problemType, apiErr.Message)
	p.ErrorCode = apiErr.ErrorCode
	p.Details = apiErr.Details
	return p
}

// HandlePanic reports a recovered panic as a 500 problem
func (h *ErrorHandler) HandlePanic(w http.ResponseWriter, r *http.Request, recovered any) {
	reqID := middleware.GetReqID(r.Context())

	h.logger.ErrorContext(r.Context(), "panic recovered",
		slog.Any("panic", recovered),
		slog.String("request_id", reqID),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("stack", string(debug.Stack())),
	)

	p := newProblem(r, http.StatusInternalServerError, TypeInternal, "An unexpected error occurred")
	p.ErrorCode = CodeInternal
	p.TraceID = reqID
	if h.includeStack {
		p.Panic = fmt.Sprint(recovered)
		p.Stack = getStackTrace()
	}

	render.Render(w, r, p)
}

// NotFound answers unknown routes
func (h *ErrorHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	p := newProblem(r, http.StatusNotFound, TypeNotFound, "The requested resource was not found")
	p.TraceID = middleware.GetReqID(r.Context())
	render.Render(w, r, p)
}

// MethodNotAllowed answers known routes called with the wrong method
func (h *ErrorHandler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	p := newProblem(r, http.StatusMethodNotAllowed, TypeMethodNotAllow,
		fmt.Sprintf("Method %s is not allowed for this endpoint", r.Method))
	p.TraceID = middleware.GetReqID(r.Context())
	render.Render(w, r, p)
}

func getStackTrace() string {
	buf := make([]byte, 1024*8)
	n := runtime.Stack(buf, false)
	return string(buf[:n])
}
