// Package models defines the request and response bodies of the HTTP API.
package models

// Health check models
type HealthData struct {
	Status  string `json:"status" example:"ok" doc:"Service status"`
	Message string `json:"message" example:"API is healthy" doc:"Status message"`
}

type HealthResponse struct {
	Body HealthData
}

// Version models
type VersionData struct {
	Version   string `json:"version" example:"1.2.0" doc:"Application version"`
	GitCommit string `json:"git_commit,omitempty" example:"a1b2c3d" doc:"Git commit hash"`
	BuildDate string `json:"build_date,omitempty" example:"2025-01-27" doc:"Build date"`
	GoVersion string `json:"go_version" example:"go1.24" doc:"Go toolchain version"`
	Platform  string `json:"platform" example:"linux/arm64" doc:"Build platform"`
}

type VersionResponse struct {
	Body VersionData
}

// Stats models
type StatsData struct {
	DevicesPresent int    `json:"devices_present" example:"2" doc:"Capture devices currently present"`
	Attached       uint64 `json:"attached_total" example:"5" doc:"Total device attach events"`
	Detached       uint64 `json:"detached_total" example:"3" doc:"Total device detach events"`
	ControlReads   uint64 `json:"control_reads_total" example:"120" doc:"Total control read operations"`
	ControlWrites  uint64 `json:"control_writes_total" example:"14" doc:"Total control write operations"`
	ControlFailed  uint64 `json:"control_errors_total" example:"1" doc:"Total failed control operations"`
}

type StatsResponse struct {
	Body StatsData
}

// Log models
type LogEntry struct {
	Timestamp  string         `json:"timestamp" example:"2025-01-27T10:30:00.123Z" doc:"Log timestamp"`
	Level      string         `json:"level" example:"info" doc:"Log level"`
	Module     string         `json:"module" example:"v4l2" doc:"Source module"`
	Message    string         `json:"message" doc:"Log message"`
	Attributes map[string]any `json:"attributes,omitempty" doc:"Structured log attributes"`
}

type LogsData struct {
	Entries []LogEntry `json:"entries" doc:"Log entries in chronological order"`
	Count   int        `json:"count" example:"100" doc:"Number of entries returned"`
}

type LogsResponse struct {
	Body LogsData
}
