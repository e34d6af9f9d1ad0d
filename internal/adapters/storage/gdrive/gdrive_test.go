package gdrive

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"minter/internal/pkg/errors"
	"minter/internal/ports"
)

// fakeDrive answers every upload with status and body.
func fakeDrive(t *testing.T, status int, body string) *Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)

	svc, err := drive.NewService(context.Background(),
		option.WithEndpoint(srv.URL+"/drive/v3/"),
		option.WithHTTPClient(srv.Client()),
	)
	require.NoError(t, err)
	return NewClient(svc, "folder-1")
}

func receiptInput() ports.PutObjectInput {
	return ports.PutObjectInput{
		ObjectKey:   "receipts/T1/0xabc.json",
		ContentType: "application/json",
		Reader:      strings.NewReader(`{"txHash":"0xabc"}`),
		Size:        18,
	}
}

func TestPutObjectReturnsFileID(t *testing.T) {
	c := fakeDrive(t, http.StatusOK, `{"id":"file-123"}`)

	out, err := c.PutObject(context.Background(), receiptInput())
	require.NoError(t, err)
	assert.Equal(t, "file-123", out.ObjectKey)
	assert.EqualValues(t, 18, out.Size)
	assert.Equal(t, ProviderName, c.Provider())
}

func TestPutObjectRequiresKey(t *testing.T) {
	c := fakeDrive(t, http.StatusOK, `{"id":"file-123"}`)
	_, err := c.PutObject(context.Background(), ports.PutObjectInput{Reader: strings.NewReader("x")})
	assert.True(t, errors.IsValidation(err))
}

func TestPutObjectClassifiesAPIErrors(t *testing.T) {
	c := fakeDrive(t, http.StatusForbidden, `{"error":{"code":403,"message":"insufficient permissions"}}`)

	_, err := c.PutObject(context.Background(), receiptInput())
	require.Error(t, err)
	assert.Equal(t, errors.CodeFailedPrecond, errors.GetCode(err))
	assert.EqualValues(t, http.StatusForbidden, errors.GetFields(err)["status"])
}
