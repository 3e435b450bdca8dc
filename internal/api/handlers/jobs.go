package handlers

import (
	"net/http"

	"github.com/wonny/aegis-wheel/internal/scheduler"
)

// JobStatsProvider exposes scheduler statistics
type JobStatsProvider interface {
	GetJobStats() map[string]scheduler.JobStats
}

// JobsHandler serves scheduler statistics when the scheduler runs in-process
type JobsHandler struct {
	scheduler JobStatsProvider
}

// NewJobsHandler creates a new jobs handler
func NewJobsHandler(s JobStatsProvider) *JobsHandler {
	return &JobsHandler{scheduler: s}
}

// GetStats returns statistics for every scheduled job
// GET /api/jobs
func (h *JobsHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.scheduler.GetJobStats())
}
