// custom query
package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/vancomm/minegrid/internal/mines"
)

const DefaultHighscoreLimit = 50

type Highscore struct {
	GameId      uuid.UUID `db:"game_id" json:"game_id"`
	Username    *string   `db:"username" json:"username"`
	Size        int       `db:"size" json:"size"`
	Density     float64   `db:"density" json:"density"`
	HazardCount int       `db:"hazard_count" json:"hazard_count"`
	PlaytimeMs  float64   `db:"playtime_ms" json:"playtime_ms"`
}

type HighscoreFilter struct {
	Username *string
	Params   *mines.Params
	Limit    int
}

func (f HighscoreFilter) WhereClause() (string, pgx.NamedArgs) {
	clauses := make([]string, 0)
	args := pgx.NamedArgs{}
	if f.Username != nil {
		clauses = append(clauses, "username = @username")
		args["username"] = *f.Username
	}
	if f.Params != nil {
		clauses = append(
			clauses,
			"size = @size",
			"density = @density",
		)
		args["size"] = f.Params.Size
		args["density"] = f.Params.Density
	}
	return strings.Join(clauses, " AND "), args
}

func (q *Queries) GetHighscores(
	ctx context.Context, filter HighscoreFilter,
) ([]Highscore, error) {
	query := `
	SELECT
		game_id,
		username,
		size,
		density,
		hazard_count,
		(
			extract('epoch' from ended_at) -
			extract('epoch' from started_at)
		) * 1000 playtime_ms
	FROM game_result
		LEFT OUTER JOIN player using (player_id)
	WHERE
		won = true
	`

	whereClause, args := filter.WhereClause()
	if whereClause != "" {
		query += " AND " + whereClause
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = DefaultHighscoreLimit
	}
	args["limit"] = limit
	query += " ORDER BY playtime_ms LIMIT @limit;"

	rows, err := q.db.Query(ctx, query, args)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[Highscore])
}
