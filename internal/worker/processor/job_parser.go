package processor

import (
	"encoding/json"

	"minter/internal/pkg/errors"
)

// JobName is the queue job name for mint requests.
const JobName = "mint"

// MintRequest is the payload of a mint job. ImageURI is used as the token
// metadata URI.
type MintRequest struct {
	TeamID        string `json:"teamId"`
	WalletAddress string `json:"walletAddress"`
	ImageURI      string `json:"imageUri"`
}

// DecodeMintRequest reads the payload without checking its fields. Missing
// values come back empty and are left for the chain client to reject.
func DecodeMintRequest(data json.RawMessage) (MintRequest, error) {
	var req MintRequest
	if len(data) == 0 {
		return req, errors.Validation("mint job has no payload")
	}
	if err := json.Unmarshal(data, &req); err != nil {
		return req, errors.WrapWithCode(err, errors.CodeValidation, "processor.decode", "mint payload is not a JSON object")
	}
	return req, nil
}
