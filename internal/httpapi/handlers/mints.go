package handlers

import (
	"net/http"
	"strings"

	"minter/internal/httpkit"
	"minter/internal/pkg/errors"
	"minter/internal/worker/processor"
	"minter/internal/worker/queue"
)

type CreateMintRequest struct {
	TeamID        string `json:"teamId"`
	WalletAddress string `json:"walletAddress"`
	ImageURI      string `json:"imageUri"`
}

// PostMint enqueues a mint job. Only presence is checked here; the worker
// itself forwards whatever it receives.
func (h *Handler) PostMint(w http.ResponseWriter, r *http.Request) error {
	var req CreateMintRequest
	if err := httpkit.DecodeJSON(r, &req); err != nil {
		return errors.WrapWithCode(err, errors.CodeValidation, "api.post_mint", "invalid json body")
	}

	payload := processor.MintRequest{
		TeamID:        strings.TrimSpace(req.TeamID),
		WalletAddress: strings.TrimSpace(req.WalletAddress),
		ImageURI:      strings.TrimSpace(req.ImageURI),
	}
	required := []struct{ field, value string }{
		{"teamId", payload.TeamID},
		{"walletAddress", payload.WalletAddress},
		{"imageUri", payload.ImageURI},
	}
	for _, f := range required {
		if f.value == "" {
			return errors.ValidationField(f.field, f.field+" is required")
		}
	}

	job, err := queue.NewJob(processor.JobName, payload)
	if err != nil {
		return err
	}
	stored, err := h.queue.Enqueue(r.Context(), job)
	if err != nil {
		return err
	}

	h.log.FromContext(r.Context()).Info("mint enqueued",
		"job_id", stored.ID,
		"team_id", payload.TeamID,
	)
	httpkit.WriteJSON(w, http.StatusAccepted, map[string]any{"job": stored})
	return nil
}
