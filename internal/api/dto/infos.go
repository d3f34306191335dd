package dto

import "time"

// InfosResponse is the health and diagnostic snapshot served by
// GET /api/infos.
type InfosResponse struct {
	Status      string          `json:"status"`
	Server      string          `json:"server"`
	Port        string          `json:"port"`
	Timestamp   time.Time       `json:"timestamp"`
	UptimeSec   float64         `json:"uptime"`
	History     HistoryInfos    `json:"history"`
	APIKey      APIKeyInfos     `json:"apiKey"`
	Environment EnvironmentInfo `json:"environment"`
}

// HistoryInfos summarizes the history store state.
type HistoryInfos struct {
	Count    int `json:"count"`
	Capacity int `json:"capacity"`
}

// APIKeyInfos reports credential presence with a masked value.
type APIKeyInfos struct {
	Configured bool   `json:"configured"`
	Masked     string `json:"masked,omitempty"`
}

// EnvironmentInfo describes the runtime.
type EnvironmentInfo struct {
	GoVersion string `json:"goVersion"`
	Platform  string `json:"platform"`
}
