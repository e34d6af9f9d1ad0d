package repositories

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"minter/internal/models"
	"minter/internal/pkg/errors"
)

// ErrTeamNotFound is returned when no row matches a team id.
var ErrTeamNotFound = stderrors.New("team not found")

// DB is the subset of *pgxpool.Pool used by the repositories.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const schemaTeams = `
CREATE TABLE IF NOT EXISTS teams (
	team_id    TEXT PRIMARY KEY,
	nft_minted BOOLEAN NOT NULL DEFAULT FALSE,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

type TeamRepository struct {
	db DB
}

func NewTeamRepository(db DB) *TeamRepository {
	return &TeamRepository{db: db}
}

// EnsureSchema creates the teams table when it does not exist.
func (r *TeamRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, schemaTeams); err != nil {
		return classify(err, "teams.ensure_schema", "create teams table")
	}
	return nil
}

// MarkMinted sets nft_minted on the team. The update is idempotent.
func (r *TeamRepository) MarkMinted(ctx context.Context, teamID string) error {
	const op = "teams.mark_minted"

	tag, err := r.db.Exec(ctx, `
		UPDATE teams
		SET nft_minted = TRUE, updated_at = NOW()
		WHERE team_id = $1
	`, teamID)
	if err != nil {
		return classify(err, op, "update team").WithField("team_id", teamID)
	}
	if tag.RowsAffected() == 0 {
		return errors.WrapWithCode(ErrTeamNotFound, errors.CodeNotFound, op, fmt.Sprintf("team %s", teamID)).WithField("team_id", teamID)
	}
	return nil
}

func (r *TeamRepository) Get(ctx context.Context, teamID string) (*models.Team, error) {
	const op = "teams.get"

	var t models.Team
	err := r.db.QueryRow(ctx, `
		SELECT team_id, nft_minted, updated_at
		FROM teams
		WHERE team_id = $1
	`, teamID).Scan(&t.TeamID, &t.NFTMinted, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errors.WrapWithCode(ErrTeamNotFound, errors.CodeNotFound, op, fmt.Sprintf("team %s", teamID)).WithField("team_id", teamID)
		}
		return nil, classify(err, op, "select team").WithField("team_id", teamID)
	}
	return &t, nil
}

// classify maps Postgres failures onto error codes.
func classify(err error, op, msg string) *errors.Error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgerrcode.IsConnectionException(pgErr.Code),
			pgerrcode.IsInsufficientResources(pgErr.Code),
			pgErr.Code == pgerrcode.AdminShutdown,
			pgErr.Code == pgerrcode.CannotConnectNow:
			return errors.WrapWithCode(err, errors.CodeUnavailable, op, msg).WithField("pg_code", pgErr.Code)
		case pgErr.Code == pgerrcode.UndefinedTable:
			return errors.WrapWithCode(err, errors.CodeFailedPrecond, op, msg+": schema missing").WithField("pg_code", pgErr.Code)
		case pgErr.Code == pgerrcode.QueryCanceled:
			return errors.WrapWithCode(err, errors.CodeTimeout, op, msg).WithField("pg_code", pgErr.Code)
		default:
			return errors.WrapWithCode(err, errors.CodeDatabase, op, msg).WithField("pg_code", pgErr.Code)
		}
	}
	if pgconn.Timeout(err) {
		return errors.WrapWithCode(err, errors.CodeTimeout, op, msg)
	}
	return errors.WrapWithCode(err, errors.CodeDatabase, op, msg)
}
