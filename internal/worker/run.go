// Package worker wires the mint processor to a queue consumer.
package worker

import (
	"context"
	"time"

	"minter/internal/pkg/errors"
	"minter/internal/pkg/logger"
	"minter/internal/worker/processor"
)

// Run consumes mint jobs until ctx is cancelled. Job failures are handled by
// the consumer's retry policy and never stop Run.
func Run(ctx context.Context, d Deps) error {
	log := d.Log
	if log == nil {
		log = logger.New(logger.Config{})
	}
	log = log.WithComponent("worker")

	if d.Consumer == nil || d.Minter == nil || d.Teams == nil {
		return errors.New(errors.CodeFailedPrecond, "worker requires a consumer, a minter and a team store")
	}

	var receipts processor.ReceiptArchive
	if d.Storage != nil {
		receipts = processor.NewStorageArchive(d.Storage)
		log.Info("receipt archive enabled", "provider", d.Storage.Provider())
	}

	p := processor.New(processor.Deps{
		Minter:   d.Minter,
		Teams:    d.Teams,
		Receipts: receipts,
		Log:      log,
	})

	start := time.Now()
	log.Info("worker started")
	err := d.Consumer.Consume(ctx, p)
	log.Info("worker stopped", "uptime", time.Since(start).Round(time.Second).String())
	if err != nil && ctx.Err() == nil {
		return errors.Wrap(err, "worker.run", "consumer exited")
	}
	return nil
}
