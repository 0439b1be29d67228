package dto

// ServiceCheck reports the readiness of one backing service.
type ServiceCheck struct {
	// Service names the checked dependency, e.g. "postgres" or "redis".
	Service string `json:"service"`

	// IsReady is the outcome of the check.
	IsReady bool `json:"is_ready"`

	// Error describes the failure when IsReady is false, empty otherwise.
	Error string `json:"error"`
}

// ReadyResponse is the aggregate served by the readiness endpoint.
// IsReady is true only when every individual check passed.
type ReadyResponse struct {
	IsReady bool           `json:"is_ready"`
	Checks  []ServiceCheck `json:"checks"`
}

// NewReadyResponse aggregates individual checks into the readiness response.
// The empty check list is considered ready.
func NewReadyResponse(checks []ServiceCheck) ReadyResponse {
	ready := true
	for _, check := range checks {
		if !check.IsReady {
			ready = false
			break
		}
	}
	return ReadyResponse{IsReady: ready, Checks: checks}
}
