package localfs

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"minter/internal/pkg/errors"
	"minter/internal/ports"
)

func TestPutObjectWritesFile(t *testing.T) {
	root := t.TempDir()
	l := New(root)

	out, err := l.PutObject(context.Background(), ports.PutObjectInput{
		ObjectKey:   "receipts/T1/0xabc.json",
		ContentType: "application/json",
		Reader:      strings.NewReader(`{"txHash":"0xabc"}`),
	})
	require.NoError(t, err)
	assert.Equal(t, "receipts/T1/0xabc.json", out.ObjectKey)
	assert.EqualValues(t, 18, out.Size)

	body, err := os.ReadFile(filepath.Join(root, "receipts", "T1", "0xabc.json"))
	require.NoError(t, err)
	assert.Equal(t, `{"txHash":"0xabc"}`, string(body))

	entries, err := os.ReadDir(filepath.Join(root, "receipts", "T1"))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files are cleaned up")
}

func TestPutObjectOverwrites(t *testing.T) {
	root := t.TempDir()
	l := New(root)
	ctx := context.Background()

	for _, body := range []string{"first", "second"} {
		_, err := l.PutObject(ctx, ports.PutObjectInput{ObjectKey: "a/b.txt", Reader: strings.NewReader(body)})
		require.NoError(t, err)
	}

	got, err := os.ReadFile(filepath.Join(root, "a", "b.txt"))
	require.NoError(t, err)
	assert.Equal(t, "second", string(got))
}

func TestKeysStayInsideRoot(t *testing.T) {
	root := t.TempDir()
	l := New(root)

	_, err := l.PutObject(context.Background(), ports.PutObjectInput{
		ObjectKey: "../../escape.txt",
		Reader:    strings.NewReader("x"),
	})
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(root, "escape.txt"))
	assert.NoError(t, err)
}

func TestEmptyKey(t *testing.T) {
	_, err := New(t.TempDir()).PutObject(context.Background(), ports.PutObjectInput{Reader: strings.NewReader("x")})
	assert.True(t, errors.IsValidation(err))
}
