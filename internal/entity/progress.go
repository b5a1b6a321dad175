package entity

// Phase names the stage a run is currently in.
type Phase string

const (
	PhaseStarting   Phase = "starting"
	PhaseLoading    Phase = "loading"
	PhaseExtracting Phase = "extracting"
	PhaseWriting    Phase = "writing"
	PhaseDone       Phase = "done"
	PhaseFailed     Phase = "failed"
)

// Progress is a point-in-time view of a run, safe to hand to observers.
type Progress struct {
	Query     string `json:"query"`
	Phase     Phase  `json:"phase"`
	Target    int    `json:"target"`
	Loaded    int    `json:"loaded"`
	Processed int    `json:"processed"`
	Scraped   int    `json:"scraped"`
	Failed    int    `json:"failed"`
	Error     string `json:"error,omitempty"`
}
