package processor

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"minter/internal/adapters/storage/localfs"
	"minter/internal/models"
)

func TestReceiptKey(t *testing.T) {
	assert.Equal(t, "receipts/T1/0xabc.json", ReceiptKey("T1", "0xabc"))
	assert.Equal(t, "receipts/_etc_passwd/0xabc.json", ReceiptKey("../etc/passwd", "0xabc"))
	assert.Equal(t, "receipts/unknown/0xabc.json", ReceiptKey("  ", "0xabc"))
}

func TestStorageArchiveWritesJSON(t *testing.T) {
	root := t.TempDir()
	archive := NewStorageArchive(localfs.New(root))
	ctx := context.Background()

	receipt := models.MintReceipt{
		JobID:         "mint_1",
		TeamID:        "T1",
		WalletAddress: "0x70997970C51812dc3A010C7d01b50e0d17dc79C8",
		TokenURI:      "ipfs://img",
		TxHash:        "0xabc",
		SentAt:        time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, archive.Archive(ctx, receipt))

	raw, err := os.ReadFile(filepath.Join(root, "receipts", "T1", "0xabc.json"))
	require.NoError(t, err)
	var got models.MintReceipt
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, receipt, got)
}
