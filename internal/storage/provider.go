// Package storage selects the receipt archive backend from configuration.
package storage

import "minter/internal/ports"

// Provider is an alias to ports.StorageProvider to keep call-sites simple.
type Provider = ports.StorageProvider
