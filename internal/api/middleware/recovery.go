package middleware

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/fluency-harness/internal/api/apierr"
	"github.com/mcoot/fluency-harness/internal/middleware"
)

// Recovery turns API panics into a 500 backend_failure envelope. The
// affected student, if any, is logged alongside the shared panic log line.
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return middleware.Recovery(logger, func(w http.ResponseWriter, r *http.Request, _ any) {
		if state := GetPlayerState(r.Context()); state != nil {
			logger.Error("api request failed for student",
				slog.Int64("student_id", int64(state.Student.ID)),
				slog.String("login_id", state.Student.LoginID),
			)
		}
		apierr.WriteError(w, apierr.NewInternalError())
	})
}
