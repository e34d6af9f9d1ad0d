// Package handlers implements the HTTP endpoints of the mint API.
package handlers

import (
	"context"

	"minter/internal/models"
	"minter/internal/pkg/logger"
	"minter/internal/worker/queue"
)

// TeamReader loads a team row.
type TeamReader interface {
	Get(ctx context.Context, teamID string) (*models.Team, error)
}

// Pinger is a dependency that can report whether it is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

type Deps struct {
	Teams TeamReader
	Queue queue.Enqueuer
	// Checks are run by GET /health?deep=true, keyed by dependency name.
	Checks map[string]Pinger
	Log    *logger.Logger
}

type Handler struct {
	teams  TeamReader
	queue  queue.Enqueuer
	checks map[string]Pinger
	log    *logger.Logger
}

func New(d Deps) *Handler {
	log := d.Log
	if log == nil {
		log = logger.New(logger.Config{})
	}
	return &Handler{
		teams:  d.Teams,
		queue:  d.Queue,
		checks: d.Checks,
		log:    log.WithComponent("api"),
	}
}
