package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	chimw "github.com/go-chi/chi/v5/middleware"

	id "github.com/sampleslayer92/utopia-produkcia-sub005/pkg/domain"
	dErrors "github.com/sampleslayer92/utopia-produkcia-sub005/pkg/domain-errors"
	"github.com/sampleslayer92/utopia-produkcia-sub005/pkg/platform/httputil"
	"github.com/sampleslayer92/utopia-produkcia-sub005/pkg/requestcontext"
)

// HeaderUserID carries the staff identity resolved by the upstream auth proxy.
const HeaderUserID = "X-User-ID"

// Identity copies the request id and the proxy-supplied staff identity into
// the request context. The header is optional; a malformed one is rejected.
func Identity(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			requestID := chimw.GetReqID(ctx)
			ctx = requestcontext.WithRequestID(ctx, requestID)

			if raw := strings.TrimSpace(r.Header.Get(HeaderUserID)); raw != "" {
				userID, err := id.ParseUserID(raw)
				if err != nil {
					logger.WarnContext(ctx, "malformed user id header",
						"request_id", requestID,
						"error", err,
					)
					httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid "+HeaderUserID+" header"))
					return
				}
				ctx = requestcontext.WithUserID(ctx, userID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
