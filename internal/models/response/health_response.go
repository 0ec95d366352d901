package response

import "time"

// HealthResponse represents the health check body
type HealthResponse struct {
	Status      string    `json:"status" example:"ok"`
	Timestamp   time.Time `json:"timestamp"`
	Environment string    `json:"environment" example:"production"`
	Database    string    `json:"database" example:"connected"`
}
