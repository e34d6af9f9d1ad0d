package processor

import (
	"fmt"
	"strings"
)

// ReceiptKey is the object key a receipt is stored under.
func ReceiptKey(teamID, txHash string) string {
	return fmt.Sprintf("receipts/%s/%s.json", SanitizeFilename(teamID), SanitizeFilename(txHash))
}

// SanitizeFilename keeps a value usable as a single path segment.
func SanitizeFilename(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "..", "")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, " ", "_")
	if s == "" {
		return "unknown"
	}
	return s
}
