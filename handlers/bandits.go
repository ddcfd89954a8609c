// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/danielhkuo/bandit-demo/middleware"
	"github.com/danielhkuo/bandit-demo/models"
)

// ListBandits handles GET /bandits
func ListBandits(w http.ResponseWriter, r *http.Request) {
	middleware.JSONResponse(w, http.StatusOK, models.ListBanditsResponse{
		Bandits: models.Catalogue(),
	})
}
