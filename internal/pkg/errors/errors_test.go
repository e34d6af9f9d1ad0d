package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCapturesStack(t *testing.T) {
	err := New(CodeValidation, "invalid payload")

	assert.Equal(t, CodeValidation, err.Code)
	assert.Equal(t, "invalid payload", err.Message)
	assert.NotEmpty(t, err.Stack)
	assert.Contains(t, err.StackTrace(), "TestNewCapturesStack")
}

func TestErrorString(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "code only",
			err:  &Error{Code: CodeValidation, Message: "bad"},
			want: "[VALIDATION_ERROR] bad",
		},
		{
			name: "op and cause",
			err: &Error{
				Code:    CodeChainCall,
				Message: "batchMint failed",
				Op:      "processor.mint",
				Err:     fmt.Errorf("execution reverted"),
			},
			want: "processor.mint: [CHAIN_CALL_ERROR] batchMint failed: execution reverted",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestWrap(t *testing.T) {
	assert.Nil(t, Wrap(nil, "op", "msg"))

	cause := errors.New("connection refused")
	wrapped := Wrap(cause, "teams.mark_minted", "update failed")
	assert.Equal(t, CodeInternal, wrapped.Code)
	assert.ErrorIs(t, wrapped, cause)

	inner := NotFound("team", "T1")
	outer := Wrap(inner, "processor.update", "team update failed")
	assert.Equal(t, CodeNotFound, outer.Code, "wrap keeps an existing code")
	assert.Equal(t, "T1", outer.Fields["id"])
}

func TestWrapWithCode(t *testing.T) {
	cause := errors.New("dial tcp: i/o timeout")
	err := WrapWithCode(cause, CodeDatabase, "teams.get", "query failed")

	assert.Equal(t, CodeDatabase, err.Code)
	assert.Equal(t, "teams.get", GetOp(err))
	assert.ErrorIs(t, err, cause)
	assert.Nil(t, WrapWithCode(nil, CodeDatabase, "op", "msg"))
}

func TestHTTPStatus(t *testing.T) {
	tests := map[Code]int{
		CodeValidation:    400,
		CodeNotFound:      404,
		CodeConflict:      409,
		CodeFailedPrecond: 412,
		CodeUnavailable:   503,
		CodeQueue:         503,
		CodeTimeout:       504,
		CodeChainCall:     502,
		CodeDatabase:      500,
		CodeInternal:      500,
	}
	for code, status := range tests {
		t.Run(string(code), func(t *testing.T) {
			assert.Equal(t, status, (&Error{Code: code}).HTTPStatus())
		})
	}

	assert.Equal(t, 500, GetHTTPStatus(errors.New("plain")))
	assert.Equal(t, 404, GetHTTPStatus(fmt.Errorf("ctx: %w", NotFound("team", "T1"))))
}

func TestCodeHelpers(t *testing.T) {
	plain := errors.New("plain")
	assert.Equal(t, CodeInternal, GetCode(plain))
	assert.Equal(t, CodeChainCall, CodeOr(plain, CodeChainCall))
	assert.Equal(t, CodeValidation, CodeOr(Validation("x"), CodeChainCall))

	assert.True(t, IsNotFound(NotFound("team", "T1")))
	assert.True(t, IsValidation(ValidationField("teamId", "required")))
	assert.False(t, IsValidation(plain))
	assert.Nil(t, GetFields(plain))
	assert.Equal(t, "teamId", GetFields(ValidationField("teamId", "required"))["field"])
}

func TestUnavailable(t *testing.T) {
	err := Unavailable("redis")
	assert.Equal(t, CodeUnavailable, err.Code)
	assert.Equal(t, "redis", err.Fields["service"])
}

func TestErrorIsMatchesCode(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", New(CodeNotFound, "team missing"))

	assert.True(t, Is(err, &Error{Code: CodeNotFound}))
	assert.False(t, Is(err, &Error{Code: CodeConflict}))

	var target *Error
	require.True(t, As(err, &target))
	assert.Equal(t, "team missing", target.Message)
}

func TestJoin(t *testing.T) {
	a, b := errors.New("a"), errors.New("b")
	joined := Join(a, b)
	assert.ErrorIs(t, joined, a)
	assert.ErrorIs(t, joined, b)
	assert.NoError(t, Join())
}
