package http

import (
	"net/http"

	"github.com/aussiebroadwan/idgate/pkg/authsdk"
	"github.com/aussiebroadwan/idgate/pkg/httpx"
)

// HealthHandler godoc
//
//	@Summary		Health
//	@Description	Reports that the server is up. Kept for clients that predate /livez.
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	authsdk.HealthResponse	"status, version"
//	@Router			/health [get]
func HealthHandler(version string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, authsdk.HealthResponse{
			Status:  "ok",
			Version: version,
		})
	}
}
