// Package localfs stores objects as files under a root directory.
package localfs

import (
	"context"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"minter/internal/pkg/errors"
	"minter/internal/ports"
)

const ProviderName = "localfs"

type LocalFS struct {
	root string
}

func New(root string) *LocalFS {
	return &LocalFS{root: root}
}

func (l *LocalFS) Provider() string { return ProviderName }

// resolve maps an object key to a path inside root, rejecting keys that
// would escape it.
func (l *LocalFS) resolve(objectKey string) (string, error) {
	clean := path.Clean("/" + strings.TrimSpace(objectKey))
	if clean == "/" {
		return "", errors.ValidationField("object_key", "object key is required")
	}
	return filepath.Join(l.root, filepath.FromSlash(strings.TrimPrefix(clean, "/"))), nil
}

// PutObject writes through a temp file and renames it into place so readers
// never observe a partial object.
func (l *LocalFS) PutObject(ctx context.Context, in ports.PutObjectInput) (ports.PutObjectOutput, error) {
	const op = "localfs.put"

	dst, err := l.resolve(in.ObjectKey)
	if err != nil {
		return ports.PutObjectOutput{}, err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return ports.PutObjectOutput{}, errors.Wrap(err, op, "create directory")
	}

	tmp, err := os.CreateTemp(filepath.Dir(dst), ".put-*")
	if err != nil {
		return ports.PutObjectOutput{}, errors.Wrap(err, op, "create temp file")
	}
	defer os.Remove(tmp.Name())

	n, err := io.Copy(tmp, in.Reader)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return ports.PutObjectOutput{}, errors.Wrap(err, op, "write object")
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		return ports.PutObjectOutput{}, errors.Wrap(err, op, "commit object")
	}

	return ports.PutObjectOutput{ObjectKey: in.ObjectKey, Size: n}, nil
}
