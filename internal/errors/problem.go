package errors

import (
	"net/http"

	"github.com/go-chi/render"
)

// Problem is an RFC 7807 response body. ErrorCode carries one of the
// Code* constants so clients can branch without parsing Type.
type Problem struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`

	ErrorCode string `json:"error_code,omitempty"`
	TraceID   string `json:"trace_id,omitempty"`
	Details   any    `json:"details,omitempty"`

	// Only filled when the handler is built with includeStack
	Panic string `json:"panic,omitempty"`
	Stack string `json:"stack,omitempty"`
}

// Render implements render.Renderer
func (p *Problem) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, p.Status)
	return nil
}

func newProblem(r *http.Request, status int, problemType, detail string) *Problem {
	return &Problem{
		Type:     problemType,
		Title:    http.StatusText(status),
		Status:   status,
		Detail:   detail,
		Instance: r.URL.Path,
	}
}
