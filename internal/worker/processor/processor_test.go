package processor_test

import (
	"context"
	"encoding/json"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"minter/internal/mocks"
	"minter/internal/models"
	"minter/internal/pkg/errors"
	"minter/internal/pkg/logger"
	"minter/internal/worker/processor"
	"minter/internal/worker/queue"
)

const (
	wallet = "0x70997970C51812dc3A010C7d01b50e0d17dc79C8"
	uri    = "ipfs://bafy/team-1.png"
	txHash = "0x9f1c5e1a4c2b7d0e3f86a1b2c3d4e5f60718293a4b5c6d7e8f9012345678abcd"
)

type fixture struct {
	minter   *mocks.MockMinter
	teams    *mocks.MockTeamStore
	receipts *mocks.MockReceiptArchive
	proc     *processor.Processor
}

func newFixture(t *testing.T, withReceipts bool) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	f := &fixture{
		minter: mocks.NewMockMinter(ctrl),
		teams:  mocks.NewMockTeamStore(ctrl),
	}
	deps := processor.Deps{
		Minter: f.minter,
		Teams:  f.teams,
		Log:    logger.New(logger.Config{Level: "error", Output: io.Discard}),
	}
	if withReceipts {
		f.receipts = mocks.NewMockReceiptArchive(ctrl)
		deps.Receipts = f.receipts
	}
	f.proc = processor.New(deps)
	return f
}

func mintJob(t *testing.T, payload any) *queue.Job {
	t.Helper()
	job, err := queue.NewJob(processor.JobName, payload)
	require.NoError(t, err)
	job.Attempts = 1
	job.MaxAttempts = 3
	return job
}

func validJob(t *testing.T) *queue.Job {
	return mintJob(t, processor.MintRequest{TeamID: "T1", WalletAddress: wallet, ImageURI: uri})
}

func TestProcessJobMintsThenMarksTeam(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	gomock.InOrder(
		f.minter.EXPECT().BatchMint(gomock.Any(), []string{wallet}, []string{uri}).Return(txHash, nil),
		f.teams.EXPECT().MarkMinted(gomock.Any(), "T1").Return(nil),
	)

	require.NoError(t, f.proc.ProcessJob(ctx, validJob(t)))
}

func TestProcessJobMintFailureSkipsTeamUpdate(t *testing.T) {
	f := newFixture(t, true)
	rpcErr := errors.WrapWithCode(assert.AnError, errors.CodeChainCall, "chain.batch_mint", "send transaction")

	f.minter.EXPECT().BatchMint(gomock.Any(), gomock.Any(), gomock.Any()).Return("", rpcErr)
	// No MarkMinted or Archive expectations: any call fails the test.

	err := f.proc.ProcessJob(context.Background(), validJob(t))
	assert.Same(t, rpcErr, err)
}

func TestProcessJobTeamUpdateFailureIsReturned(t *testing.T) {
	f := newFixture(t, false)
	dbErr := assert.AnError

	f.minter.EXPECT().BatchMint(gomock.Any(), gomock.Any(), gomock.Any()).Return(txHash, nil)
	f.teams.EXPECT().MarkMinted(gomock.Any(), "T1").Return(dbErr)

	err := f.proc.ProcessJob(context.Background(), validJob(t))
	assert.Equal(t, dbErr, err)
}

func TestProcessJobArchivesReceipt(t *testing.T) {
	f := newFixture(t, true)
	job := validJob(t)

	f.minter.EXPECT().BatchMint(gomock.Any(), gomock.Any(), gomock.Any()).Return(txHash, nil)
	f.receipts.EXPECT().Archive(gomock.Any(), gomock.Cond(func(r models.MintReceipt) bool {
		return r.JobID == job.ID &&
			r.TeamID == "T1" &&
			r.WalletAddress == wallet &&
			r.TokenURI == uri &&
			r.TxHash == txHash &&
			!r.SentAt.IsZero()
	})).Return(nil)
	f.teams.EXPECT().MarkMinted(gomock.Any(), "T1").Return(nil)

	require.NoError(t, f.proc.ProcessJob(context.Background(), job))
}

func TestProcessJobArchiveFailureDoesNotFailJob(t *testing.T) {
	f := newFixture(t, true)

	f.minter.EXPECT().BatchMint(gomock.Any(), gomock.Any(), gomock.Any()).Return(txHash, nil)
	f.receipts.EXPECT().Archive(gomock.Any(), gomock.Any()).Return(assert.AnError)
	f.teams.EXPECT().MarkMinted(gomock.Any(), "T1").Return(nil)

	assert.NoError(t, f.proc.ProcessJob(context.Background(), validJob(t)))
}

func TestProcessJobPassesUnvalidatedPayloadThrough(t *testing.T) {
	f := newFixture(t, false)
	chainErr := errors.New(errors.CodeValidation, "bad recipient")

	// Missing wallet and a non-hex uri still reach the minter.
	f.minter.EXPECT().BatchMint(gomock.Any(), []string{""}, []string{"not a uri"}).Return("", chainErr)

	err := f.proc.ProcessJob(context.Background(), mintJob(t, map[string]string{"teamId": "T9", "imageUri": "not a uri"}))
	assert.Same(t, chainErr, err)
}

func TestProcessJobRejectsNonJSONPayload(t *testing.T) {
	f := newFixture(t, false)

	job := &queue.Job{ID: "mint_1", Name: processor.JobName, Data: json.RawMessage(`"just a string"`), Attempts: 1}
	err := f.proc.ProcessJob(context.Background(), job)
	assert.True(t, errors.IsValidation(err))

	job.Data = nil
	err = f.proc.ProcessJob(context.Background(), job)
	assert.True(t, errors.IsValidation(err))
}
