package dto

import "time"

// APIResponse is the envelope of every successful response.
type APIResponse struct {
	Success   bool         `json:"success" example:"true"`
	Message   string       `json:"message,omitempty" example:"Enrollment created successfully"`
	Data      interface{}  `json:"data,omitempty"`
	Error     *ErrorDetail `json:"error,omitempty"`
	Timestamp time.Time    `json:"timestamp" example:"2025-04-23T12:01:05.123Z"`
}

// NewSuccessResponse creates a standard success envelope
func NewSuccessResponse(data interface{}, message string) APIResponse {
	return APIResponse{
		Success:   true,
		Message:   message,
		Data:      data,
		Timestamp: time.Now(),
	}
}

// HealthResponse is returned by the health endpoint
type HealthResponse struct {
	Status  string `json:"status" example:"healthy"`
	Service string `json:"service" example:"enrollment-service"`
}

// ServiceInfoResponse describes the running service and its endpoints
type ServiceInfoResponse struct {
	Service   string            `json:"service" example:"Enrollment Service"`
	Version   string            `json:"version" example:"1.0.0"`
	Status    string            `json:"status" example:"running"`
	Endpoints map[string]string `json:"endpoints"`
}
