// Package processor turns mint jobs into a batchMint transaction and a team
// update.
package processor

import (
	"context"
	"time"

	"minter/internal/models"
	"minter/internal/observability/metrics"
	"minter/internal/pkg/errors"
	"minter/internal/pkg/logger"
	"minter/internal/worker/queue"
)

// Minter sends batchMint transactions and returns the transaction hash once
// the node accepted the broadcast.
type Minter interface {
	BatchMint(ctx context.Context, recipients []string, uris []string) (string, error)
}

// TeamStore flips the minted flag on a team row.
type TeamStore interface {
	MarkMinted(ctx context.Context, teamID string) error
}

// ReceiptArchive keeps a record of every broadcast mint.
type ReceiptArchive interface {
	Archive(ctx context.Context, receipt models.MintReceipt) error
}

type Deps struct {
	Minter Minter
	Teams  TeamStore
	// Receipts is optional.
	Receipts ReceiptArchive
	Log      *logger.Logger
}

type Processor struct {
	minter   Minter
	teams    TeamStore
	receipts ReceiptArchive
	log      *logger.Logger
	now      func() time.Time
}

func New(d Deps) *Processor {
	log := d.Log
	if log == nil {
		log = logger.New(logger.Config{})
	}
	return &Processor{
		minter:   d.Minter,
		teams:    d.Teams,
		receipts: d.Receipts,
		log:      log.WithComponent("processor"),
		now:      time.Now,
	}
}

// ProcessJob mints one token for the job's wallet and marks the team as
// minted. Errors from the minter or the store are returned as is so the
// queue can retry them.
func (p *Processor) ProcessJob(ctx context.Context, job *queue.Job) error {
	log := p.log.FromContext(ctx).WithJobID(job.ID)

	req, err := DecodeMintRequest(job.Data)
	if err != nil {
		return p.failJob(ctx, job, "", err)
	}
	log = log.WithTeamID(req.TeamID)

	log.Info("processing mint",
		"wallet", req.WalletAddress,
		"uri", req.ImageURI,
		"attempt", job.Attempts,
	)

	txHash, err := p.minter.BatchMint(ctx, []string{req.WalletAddress}, []string{req.ImageURI})
	if err != nil {
		metrics.RecordMintTransaction(string(errors.CodeOr(err, errors.CodeChainCall)))
		return p.failJob(ctx, job, req.TeamID, err)
	}
	metrics.RecordMintTransaction("")
	log.Info("transaction sent", "tx_hash", txHash)

	p.archive(ctx, log, job, req, txHash)

	if err := p.teams.MarkMinted(ctx, req.TeamID); err != nil {
		metrics.RecordTeamUpdate(false)
		// The transaction is already out; a retry will mint again.
		log.Warn("team update failed after broadcast", "tx_hash", txHash)
		return p.failJob(ctx, job, req.TeamID, err)
	}
	metrics.RecordTeamUpdate(true)
	log.Info("team updated")
	return nil
}

func (p *Processor) archive(ctx context.Context, log *logger.Logger, job *queue.Job, req MintRequest, txHash string) {
	if p.receipts == nil {
		return
	}
	err := p.receipts.Archive(ctx, models.MintReceipt{
		JobID:         job.ID,
		TeamID:        req.TeamID,
		WalletAddress: req.WalletAddress,
		TokenURI:      req.ImageURI,
		TxHash:        txHash,
		SentAt:        p.now().UTC(),
	})
	if err != nil {
		log.Warn("receipt archive failed", "tx_hash", txHash, "error", err.Error())
	}
}

// failJob logs cause and hands it back untouched.
func (p *Processor) failJob(ctx context.Context, job *queue.Job, teamID string, cause error) error {
	log := p.log.FromContext(ctx).WithJobID(job.ID)
	if teamID != "" {
		log = log.WithTeamID(teamID)
	}

	var mintErr *errors.Error
	if errors.As(cause, &mintErr) {
		log.Error("mint failed",
			"code", string(mintErr.Code),
			"op", mintErr.Op,
			"message", mintErr.Message,
			"attempt", job.Attempts,
			"error", cause.Error(),
		)
	} else {
		log.Error("mint failed", "attempt", job.Attempts, "error", cause.Error())
	}
	return cause
}
