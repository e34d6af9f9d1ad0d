package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"minter/internal/adapters/storage/gdrive"
	"minter/internal/adapters/storage/localfs"
	"minter/internal/config"
	"minter/internal/pkg/errors"
)

func TestNewProvider(t *testing.T) {
	ctx := context.Background()

	p, err := NewProvider(ctx, config.StorageConfig{Provider: config.StorageNone})
	require.NoError(t, err)
	assert.Nil(t, p)

	p, err = NewProvider(ctx, config.StorageConfig{Provider: config.StorageLocalFS, LocalRoot: t.TempDir()})
	require.NoError(t, err)
	assert.Equal(t, localfs.ProviderName, p.Provider())

	p, err = NewProvider(ctx, config.StorageConfig{
		Provider: config.StorageGDrive,
		GDrive:   config.GDriveConfig{ClientID: "id", ClientSecret: "secret", RefreshToken: "refresh", FolderID: "f"},
	})
	require.NoError(t, err)
	assert.Equal(t, gdrive.ProviderName, p.Provider())
}

func TestNewProviderRejectsBadConfig(t *testing.T) {
	ctx := context.Background()

	_, err := NewProvider(ctx, config.StorageConfig{Provider: "s3"})
	assert.True(t, errors.IsValidation(err))

	_, err = NewProvider(ctx, config.StorageConfig{Provider: config.StorageGDrive})
	assert.True(t, errors.IsValidation(err))

	_, err = NewProvider(ctx, config.StorageConfig{Provider: config.StorageLocalFS})
	assert.True(t, errors.IsValidation(err))
}

func TestOAuthConfigScopes(t *testing.T) {
	c := OAuthConfig(config.GDriveConfig{ClientID: "id", ClientSecret: "s"}, "http://localhost:8085/callback")
	assert.Equal(t, "id", c.ClientID)
	assert.Equal(t, "http://localhost:8085/callback", c.RedirectURL)
	assert.Contains(t, c.Scopes, "https://www.googleapis.com/auth/drive.file")
}
