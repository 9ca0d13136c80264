package handlers

import (
	"net/http"

	"github.com/upb/shotlocker/app"
	"github.com/upb/shotlocker/identity"
	"github.com/upb/shotlocker/utils"
	"go.uber.org/zap"
)

// AuthConfigHandler serves the identity provider descriptor the client
// bootstraps from.
func AuthConfigHandler(deps *app.ServerDependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		desc := deps.Descriptor
		resp := identity.ConfigResponse{Auth: &desc}

		if err := utils.WriteJSON(w, http.StatusOK, resp); err != nil {
			deps.Logger.Error("failed to write auth config", zap.Error(err))
		}
	}
}
