package chain

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"

	"minter/internal/pkg/errors"
)

// HeaderReader is the part of an RPC backend a Reader needs.
type HeaderReader interface {
	HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error)
}

// Reader is an RPC handle without a signing key, used by processes that only
// need to know whether the node answers.
type Reader struct {
	headers HeaderReader
	closer  func()
}

// DialReader connects to rpcURL. No request is made until Ping.
func DialReader(ctx context.Context, rpcURL string) (*Reader, error) {
	ec, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeValidation, "chain.dial_reader", "dial rpc").
			WithField("field", "RPC_URL")
	}
	r := NewReader(ec)
	r.closer = ec.Close
	return r, nil
}

func NewReader(headers HeaderReader) *Reader {
	return &Reader{headers: headers}
}

// Ping fetches the latest header.
func (r *Reader) Ping(ctx context.Context) error {
	if _, err := r.headers.HeaderByNumber(ctx, nil); err != nil {
		return errors.WrapWithCode(err, errors.CodeUnavailable, "chain.ping", "rpc unreachable")
	}
	return nil
}

func (r *Reader) Close() {
	if r.closer != nil {
		r.closer()
	}
}
