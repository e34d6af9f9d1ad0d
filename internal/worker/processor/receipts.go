package processor

import (
	"bytes"
	"context"
	"encoding/json"

	"minter/internal/models"
	"minter/internal/pkg/errors"
	"minter/internal/ports"
)

// StorageArchive writes receipts as JSON objects through a storage provider.
type StorageArchive struct {
	sp ports.StorageProvider
}

func NewStorageArchive(sp ports.StorageProvider) *StorageArchive {
	return &StorageArchive{sp: sp}
}

func (a *StorageArchive) Archive(ctx context.Context, receipt models.MintReceipt) error {
	const op = "processor.archive"

	body, err := json.MarshalIndent(receipt, "", "  ")
	if err != nil {
		return errors.Wrap(err, op, "marshal receipt")
	}

	key := ReceiptKey(receipt.TeamID, receipt.TxHash)
	_, err = a.sp.PutObject(ctx, ports.PutObjectInput{
		ObjectKey:   key,
		ContentType: "application/json",
		Reader:      bytes.NewReader(body),
		Size:        int64(len(body)),
	})
	if err != nil {
		return errors.Wrap(err, op, "store receipt").
			WithField("provider", a.sp.Provider()).
			WithField("object_key", key)
	}
	return nil
}
