package response

import "github.com/CodexSoftwareDevelopment/LeadSweep/internal/entity"

type HealthResponse struct {
	Status string `json:"status"`
}

// ProgressResponse is the DTO for a run's progress, mirroring entity.Progress.
type ProgressResponse struct {
	Query     string `json:"query"`
	Phase     string `json:"phase"` // "starting", "loading", "extracting", "writing", "done", "failed"
	Target    int    `json:"target"`
	Loaded    int    `json:"loaded"`
	Processed int    `json:"processed"`
	Scraped   int    `json:"scraped"`
	Failed    int    `json:"failed"`
	Error     string `json:"error,omitempty"`
}

func NewProgressResponse(p entity.Progress) ProgressResponse {
	return ProgressResponse{
		Query:     p.Query,
		Phase:     string(p.Phase),
		Target:    p.Target,
		Loaded:    p.Loaded,
		Processed: p.Processed,
		Scraped:   p.Scraped,
		Failed:    p.Failed,
		Error:     p.Error,
	}
}

type ErrorResponse struct {
	Error string `json:"error"`
}
