package controllers

import (
	"net/http"

	"github.com/dmreyes-dev/partstream-backend/api/responses"
	statssvc "github.com/dmreyes-dev/partstream-backend/internal/stats"
	"github.com/dmreyes-dev/partstream-backend/pkg/logger"
)

// AdminStats returns the dashboard counters.
func AdminStats(svc statssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		overview, err := svc.Overview(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"stats": overview})
	}
}
