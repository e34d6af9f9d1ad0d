package worker

import (
	"minter/internal/pkg/logger"
	"minter/internal/ports"
	"minter/internal/worker/processor"
	"minter/internal/worker/queue"
)

// Deps are built once in main and shared by every job.
type Deps struct {
	Consumer queue.Consumer
	Minter   processor.Minter
	Teams    processor.TeamStore
	// Storage is optional; when set, a receipt is written for each mint.
	Storage ports.StorageProvider
	Log     *logger.Logger
}
