package server

import "go-rdpaudit/database"

// response defines the basic HTTP response returned by the server.
type response struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

// RunsResponse defines the JSON structure listing stored runs.
type RunsResponse struct {
	Runs []database.RunDB `json:"runs"`
}

// SuccessesResponse defines the JSON structure of the successes of a run.
type SuccessesResponse struct {
	RunID     uint                 `json:"run_id"`
	Successes []database.SuccessDB `json:"successes"`
}

// HealthResponse defines the JSON structure of the health endpoint.
type HealthResponse struct {
	Status string `json:"status"`
}
