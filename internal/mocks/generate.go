// Package mocks holds gomock doubles for the worker and API collaborators.
package mocks

//go:generate mockgen -destination=minter_mock.go -package=mocks minter/internal/worker/processor Minter,TeamStore,ReceiptArchive
//go:generate mockgen -destination=queue_mock.go -package=mocks minter/internal/worker/queue Enqueuer
//go:generate mockgen -destination=team_reader_mock.go -package=mocks minter/internal/httpapi/handlers TeamReader,Pinger
