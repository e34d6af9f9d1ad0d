// Package gdrive stores objects as files in a Google Drive folder.
package gdrive

import (
	"context"
	"net/http"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"

	"minter/internal/pkg/errors"
	"minter/internal/ports"
)

const ProviderName = "gdrive"

// Client uploads under folderID. The object key becomes the file name and
// PutObject reports the Drive file id.
type Client struct {
	srv      *drive.Service
	folderID string
}

func NewClient(srv *drive.Service, folderID string) *Client {
	return &Client{srv: srv, folderID: folderID}
}

func (c *Client) Provider() string { return ProviderName }

func (c *Client) PutObject(ctx context.Context, in ports.PutObjectInput) (ports.PutObjectOutput, error) {
	if in.ObjectKey == "" {
		return ports.PutObjectOutput{}, errors.ValidationField("object_key", "object key is required")
	}

	file := &drive.File{
		Name:          in.ObjectKey,
		MimeType:      in.ContentType,
		AppProperties: map[string]string{"objectKey": in.ObjectKey},
	}
	if c.folderID != "" {
		file.Parents = []string{c.folderID}
	}

	call := c.srv.Files.Create(file).SupportsAllDrives(true).Fields("id", "size")
	if in.ContentType != "" {
		call = call.Media(in.Reader, googleapi.ContentType(in.ContentType))
	} else {
		call = call.Media(in.Reader)
	}

	created, err := call.Context(ctx).Do()
	if err != nil {
		return ports.PutObjectOutput{}, classify(err, "gdrive.put", "upload file")
	}

	size := created.Size
	if size == 0 {
		size = in.Size
	}
	return ports.PutObjectOutput{ObjectKey: created.Id, Size: size}, nil
}

func classify(err error, op, msg string) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		switch {
		case gerr.Code == http.StatusTooManyRequests || gerr.Code >= 500:
			return errors.WrapWithCode(err, errors.CodeUnavailable, op, msg).WithField("status", gerr.Code)
		case gerr.Code == http.StatusUnauthorized || gerr.Code == http.StatusForbidden:
			return errors.WrapWithCode(err, errors.CodeFailedPrecond, op, msg+": check drive credentials").WithField("status", gerr.Code)
		}
	}
	return errors.Wrap(err, op, msg)
}
