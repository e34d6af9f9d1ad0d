package storage

import (
	"context"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	drive "google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"minter/internal/adapters/storage/gdrive"
	"minter/internal/adapters/storage/localfs"
	"minter/internal/config"
	"minter/internal/pkg/errors"
)

// NewProvider builds the configured provider. It returns nil, nil when
// archiving is disabled.
func NewProvider(ctx context.Context, cfg config.StorageConfig) (Provider, error) {
	switch cfg.Provider {
	case config.StorageNone, "":
		return nil, nil
	case config.StorageLocalFS:
		if cfg.LocalRoot == "" {
			return nil, errors.ValidationField("STORAGE_LOCAL_ROOT", "localfs storage requires a root directory")
		}
		return localfs.New(cfg.LocalRoot), nil
	case config.StorageGDrive:
		return newGDriveProvider(ctx, cfg.GDrive)
	default:
		return nil, errors.ValidationField("STORAGE_PROVIDER", "unknown storage provider: "+cfg.Provider)
	}
}

// OAuthConfig returns the OAuth client used both by the gdrive provider and
// by the gdrive-auth helper that mints refresh tokens.
func OAuthConfig(g config.GDriveConfig, redirectURL string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     g.ClientID,
		ClientSecret: g.ClientSecret,
		Endpoint:     google.Endpoint,
		RedirectURL:  redirectURL,
		Scopes:       []string{drive.DriveFileScope},
	}
}

func newGDriveProvider(ctx context.Context, g config.GDriveConfig) (Provider, error) {
	if g.ClientID == "" || g.ClientSecret == "" || g.RefreshToken == "" {
		return nil, errors.Validation("gdrive storage requires GDRIVE_CLIENT_ID, GDRIVE_CLIENT_SECRET and GDRIVE_REFRESH_TOKEN")
	}

	// The token source refreshes on its own; ctx only scopes the HTTP client.
	httpClient := OAuthConfig(g, "").Client(ctx, &oauth2.Token{RefreshToken: g.RefreshToken})

	srv, err := drive.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "storage.gdrive", "create drive service")
	}
	return gdrive.NewClient(srv, g.FolderID), nil
}
