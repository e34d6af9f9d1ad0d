package models

import "time"

// Team is the slice of the teams table the minter reads and writes.
type Team struct {
	TeamID    string    `json:"teamId"`
	NFTMinted bool      `json:"nftMinted"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// MintReceipt records a broadcast batchMint transaction for one team.
type MintReceipt struct {
	JobID         string    `json:"jobId"`
	TeamID        string    `json:"teamId"`
	WalletAddress string    `json:"walletAddress"`
	TokenURI      string    `json:"tokenUri"`
	TxHash        string    `json:"txHash"`
	SentAt        time.Time `json:"sentAt"`
}
