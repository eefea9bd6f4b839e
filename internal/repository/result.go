package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/vancomm/minegrid/internal/mines"
	"github.com/vancomm/minegrid/internal/session"
)

// GameResult is a finished round. Boards themselves are never stored.
type GameResult struct {
	GameResultId  int64              `db:"game_result_id" json:"game_result_id"`
	GameId        uuid.UUID          `db:"game_id" json:"game_id"`
	Round         int                `db:"round" json:"round"`
	PlayerId      *int64             `db:"player_id" json:"player_id,omitempty"`
	Size          int                `db:"size" json:"size"`
	Density       float64            `db:"density" json:"density"`
	HazardCount   int                `db:"hazard_count" json:"hazard_count"`
	Won           bool               `db:"won" json:"won"`
	RevealedCount int                `db:"revealed_count" json:"revealed_count"`
	FlaggedCount  int                `db:"flagged_count" json:"flagged_count"`
	StartedAt     time.Time          `db:"started_at" json:"started_at"`
	EndedAt       time.Time          `db:"ended_at" json:"ended_at"`
	CreatedAt     pgtype.Timestamptz `db:"created_at" json:"-"`
}

type CreateGameResultParams struct {
	GameId        uuid.UUID
	Round         int
	PlayerId      *int64
	Params        mines.Params
	HazardCount   int
	Won           bool
	RevealedCount int
	FlaggedCount  int
	StartedAt     time.Time
	EndedAt       time.Time
}

// NewGameResultParams describes a finished snapshot. ok is false while the
// round is still in progress.
func NewGameResultParams(s session.Snapshot) (params CreateGameResultParams, ok bool) {
	if s.EndedAt == nil || s.Status == mines.InProgress {
		return params, false
	}
	params = CreateGameResultParams{
		GameId:        s.ID,
		Round:         s.Round,
		PlayerId:      s.PlayerID,
		Params:        s.Params,
		HazardCount:   s.TotalHazards,
		Won:           s.Status == mines.Won,
		RevealedCount: s.Revealed,
		FlaggedCount:  s.Flagged,
		StartedAt:     s.StartedAt,
		EndedAt:       *s.EndedAt,
	}
	return params, true
}

func (p CreateGameResultParams) Args() pgx.NamedArgs {
	args := pgx.NamedArgs{
		"game_id":        p.GameId,
		"round":          p.Round,
		"player_id":      nil,
		"size":           p.Params.Size,
		"density":        p.Params.Density,
		"hazard_count":   p.HazardCount,
		"won":            p.Won,
		"revealed_count": p.RevealedCount,
		"flagged_count":  p.FlaggedCount,
		"started_at":     p.StartedAt,
		"ended_at":       p.EndedAt,
	}
	if p.PlayerId != nil {
		args["player_id"] = *p.PlayerId
	}
	return args
}

func (q *Queries) CreateGameResult(
	ctx context.Context, params CreateGameResultParams,
) (*GameResult, error) {
	rows, _ := q.db.Query(
		ctx,
		`INSERT INTO game_result (
			game_id, round, player_id, size, density, hazard_count,
			won, revealed_count, flagged_count, started_at, ended_at
		)
		VALUES (
			@game_id, @round, @player_id, @size, @density, @hazard_count,
			@won, @revealed_count, @flagged_count, @started_at, @ended_at
		)
		RETURNING *;`,
		params.Args(),
	)
	return pgx.CollectExactlyOneRow(
		rows, pgx.RowToAddrOfStructByName[GameResult],
	)
}

// GetPlayerResults lists a player's rounds, latest first.
func (q *Queries) GetPlayerResults(
	ctx context.Context, playerId int64, limit int,
) ([]GameResult, error) {
	rows, err := q.db.Query(
		ctx,
		`SELECT * FROM game_result
		WHERE player_id = $1
		ORDER BY ended_at DESC
		LIMIT $2;`,
		playerId, limit,
	)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[GameResult])
}
