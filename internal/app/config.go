package app

// Advance selects when control fields are advanced relative to compilation.
const (
	AdvanceBefore = "before"
	AdvanceAfter  = "after"
	AdvanceOff    = "off"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	WorkflowPath        string
	CatalogPath         string
	BackendURL          string
	Advance             string
	AcknowledgeWarnings bool
	LogFormat           string
	LogLevel            string
	Seed                int64
}
