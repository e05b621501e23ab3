package models

import "fmt"

// HealthStatus is the /health payload of the prediction service.
type HealthStatus struct {
	Status    string `json:"status" validate:"required"`
	Model     string `json:"model"`
	Version   string `json:"version,omitempty"`
	Timestamp string `json:"timestamp"`
}

// OK reports whether the service declared itself healthy.
func (h *HealthStatus) OK() bool {
	return h.Status == "ok"
}

// Validate requires a status string.
func (h *HealthStatus) Validate() error {
	if err := validate.Struct(h); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidHealth, err)
	}
	return nil
}
