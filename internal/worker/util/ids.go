package util

import "github.com/google/uuid"

// NewID returns prefix_<uuid v4>.
func NewID(prefix string) string {
	return prefix + "_" + uuid.NewString()
}
