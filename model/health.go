package model

// HealthStatus is returned by the health endpoint.
type HealthStatus struct {
	Status   string `json:"status"`
	Sessions int    `json:"sessions"`
	// Online counts live sessions across every server sharing Redis.
	// It is omitted when Redis is disabled.
	Online  *int64 `json:"online,omitempty"`
	Version string `json:"version"`
}
