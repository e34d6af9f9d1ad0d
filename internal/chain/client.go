// Package chain submits batchMint transactions to the NFT contract.
package chain

import (
	"context"
	"crypto/ecdsa"
	stderrors "errors"
	"fmt"
	"math/big"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"

	minterv0 "minter/internal/contracts/minter/v0"
	"minter/internal/pkg/errors"
)

// SepoliaChainID is used when Config.ChainID is zero.
const SepoliaChainID int64 = 11155111

var (
	ErrEmptyBatch     = stderrors.New("chain: empty batch")
	ErrLengthMismatch = stderrors.New("chain: recipients and uris differ in length")
	ErrInvalidAddress = stderrors.New("chain: invalid recipient address")
)

type Config struct {
	RPCURL          string
	PrivateKey      string
	ContractAddress string
	ChainID         int64
}

// Client signs with a single key and sends through one backend.
type Client struct {
	contract *bind.BoundContract
	opts     bind.TransactOpts
	address  common.Address
	closer   func()

	// mu serializes sends so pending-nonce lookups do not race.
	mu sync.Mutex
}

// Dial connects to cfg.RPCURL and checks that the node serves cfg.ChainID.
func Dial(ctx context.Context, cfg Config) (*Client, error) {
	const op = "chain.dial"

	ec, err := ethclient.DialContext(ctx, cfg.RPCURL)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, op, "dial rpc")
	}

	remote, err := ec.ChainID(ctx)
	if err != nil {
		ec.Close()
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, op, "read chain id")
	}
	if want := chainID(cfg); remote.Cmp(want) != 0 {
		ec.Close()
		return nil, errors.Newf(errors.CodeFailedPrecond, "rpc serves chain %s, expected %s", remote, want)
	}

	c, err := New(ec, cfg)
	if err != nil {
		ec.Close()
		return nil, err
	}
	c.closer = ec.Close
	return c, nil
}

// New binds the batch-mint contract on backend.
func New(backend bind.ContractBackend, cfg Config) (*Client, error) {
	const op = "chain.new"

	key, err := ParsePrivateKey(cfg.PrivateKey)
	if err != nil {
		return nil, err
	}
	if !common.IsHexAddress(cfg.ContractAddress) {
		return nil, errors.ValidationField("CONTRACT_ADDRESS", "contract address is not a hex address")
	}

	opts, err := bind.NewKeyedTransactorWithChainID(key, chainID(cfg))
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInternal, op, "build transactor")
	}

	parsed, err := abi.JSON(strings.NewReader(minterv0.BatchMintABI))
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInternal, op, "parse abi")
	}

	addr := common.HexToAddress(cfg.ContractAddress)
	return &Client{
		contract: bind.NewBoundContract(addr, parsed, backend, backend, backend),
		opts:     *opts,
		address:  opts.From,
	}, nil
}

// ParsePrivateKey accepts a hex secp256k1 key with or without 0x.
func ParsePrivateKey(hexKey string) (*ecdsa.PrivateKey, error) {
	hexKey = strings.TrimSpace(hexKey)
	hexKey = strings.TrimPrefix(strings.TrimPrefix(hexKey, "0x"), "0X")
	key, err := crypto.HexToECDSA(hexKey)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeValidation, "chain.parse_key", "invalid private key").
			WithField("field", "PRIVATE_KEY")
	}
	return key, nil
}

// Address is the account that signs mint transactions.
func (c *Client) Address() common.Address {
	return c.address
}

// BatchMint sends batchMint(recipients, uris) and returns the transaction
// hash once the node has accepted it. It does not wait for inclusion.
func (c *Client) BatchMint(ctx context.Context, recipients []string, uris []string) (string, error) {
	const op = "chain.batch_mint"

	switch {
	case len(recipients) == 0:
		return "", errors.WrapWithCode(ErrEmptyBatch, errors.CodeValidation, op, "nothing to mint")
	case len(recipients) != len(uris):
		return "", errors.WrapWithCode(ErrLengthMismatch, errors.CodeValidation, op,
			fmt.Sprintf("%d recipients, %d uris", len(recipients), len(uris)))
	}

	addrs := make([]common.Address, len(recipients))
	for i, r := range recipients {
		if !common.IsHexAddress(r) {
			return "", errors.WrapWithCode(ErrInvalidAddress, errors.CodeValidation, op, "bad recipient").
				WithField("recipient", r)
		}
		addrs[i] = common.HexToAddress(r)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	opts := c.opts
	opts.Context = ctx

	tx, err := c.contract.Transact(&opts, minterv0.MethodBatchMint, addrs, uris)
	if err != nil {
		return "", errors.WrapWithCode(err, errors.CodeChainCall, op, "send batchMint")
	}
	return tx.Hash().Hex(), nil
}

func (c *Client) Close() {
	if c.closer != nil {
		c.closer()
	}
}

func chainID(cfg Config) *big.Int {
	if cfg.ChainID == 0 {
		return big.NewInt(SepoliaChainID)
	}
	return big.NewInt(cfg.ChainID)
}
