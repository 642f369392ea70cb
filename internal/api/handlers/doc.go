// Package handlers implements the tripmock marketplace backend: per-role
// listing, save and currency endpoints registered on a huma API, plus the
// plain Echo health probes.
package handlers

// StatusResponse is the body of the health probes. Reason says why a probe
// failed.
type StatusResponse struct {
	Status string `json:"status" example:"ok"`
	Reason string `json:"reason,omitempty" example:"no products loaded"`
}
