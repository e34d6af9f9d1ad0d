package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"minter/internal/httpkit"
	"minter/internal/pkg/errors"
	"minter/internal/repositories"
)

func (h *Handler) GetTeam(w http.ResponseWriter, r *http.Request) error {
	teamID := strings.TrimSpace(chi.URLParam(r, "teamId"))
	if teamID == "" {
		return errors.ValidationField("teamId", "teamId is required")
	}

	team, err := h.teams.Get(r.Context(), teamID)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return errors.NotFound("team", teamID)
		}
		return err
	}
	httpkit.WriteJSON(w, http.StatusOK, map[string]any{"team": team})
	return nil
}
