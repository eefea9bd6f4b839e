package handlers

import (
	"fmt"
	"net/url"

	"github.com/google/uuid"

	"github.com/vancomm/minegrid/internal/command"
	"github.com/vancomm/minegrid/internal/mines"
	"github.com/vancomm/minegrid/internal/session"
)

type CreateNewGameDTO struct {
	Size    *int     `schema:"size"`
	Density *float64 `schema:"density"`
}

// ParseCreateNewGameDTO fills in missing fields from defaults.
func ParseCreateNewGameDTO(src url.Values, defaults mines.Params) (mines.Params, error) {
	var dto CreateNewGameDTO
	if err := decoder.Decode(&dto, src); err != nil {
		return mines.Params{}, err
	}
	params := defaults
	if dto.Size != nil {
		params.Size = *dto.Size
	}
	if dto.Density != nil {
		params.Density = *dto.Density
	}
	return params, nil
}

type MoveDTO struct {
	Move string `schema:"move,required"`
	Row  int    `schema:"row,required"`
	Col  int    `schema:"col,required"`
}

var moveKinds = map[string]command.Kind{
	"open":  command.Open,
	"flag":  command.Flag,
	"chord": command.Chord,
}

func ParseMoveDTO(src url.Values) (command.Command, error) {
	var dto MoveDTO
	if err := decoder.Decode(&dto, src); err != nil {
		return command.Command{}, err
	}
	kind, ok := moveKinds[dto.Move]
	if !ok {
		return command.Command{}, fmt.Errorf(`unknown move "%s"`, dto.Move)
	}
	return command.Command{
		Kind:  kind,
		Point: mines.Point{Row: dto.Row, Col: dto.Col},
	}, nil
}

type GameDTO struct {
	GameId         uuid.UUID    `json:"game_id"`
	Round          int          `json:"round"`
	Size           int          `json:"size"`
	Density        float64      `json:"density"`
	HazardCount    int          `json:"hazard_count"`
	RemainingFlags int          `json:"remaining_flags"`
	RevealedCount  int          `json:"revealed_count"`
	FlaggedCount   int          `json:"flagged_count"`
	Status         mines.Status `json:"status"`
	Grid           mines.Grid   `json:"grid"`
	StartedAt      int64        `json:"started_at"`
	EndedAt        *int64       `json:"ended_at,omitempty"`
}

func NewGameDTO(s session.Snapshot) *GameDTO {
	var endedAt *int64
	if s.EndedAt != nil {
		e := s.EndedAt.UnixMilli()
		endedAt = &e
	}
	return &GameDTO{
		GameId:         s.ID,
		Round:          s.Round,
		Size:           s.Params.Size,
		Density:        s.Params.Density,
		HazardCount:    s.TotalHazards,
		RemainingFlags: s.RemainingFlags,
		RevealedCount:  s.Revealed,
		FlaggedCount:   s.Flagged,
		Status:         s.Status,
		Grid:           s.Grid,
		StartedAt:      s.StartedAt.UnixMilli(),
		EndedAt:        endedAt,
	}
}

type MoveResultDTO struct {
	Game     *GameDTO              `json:"game"`
	Outcomes []mines.RevealOutcome `json:"outcomes"`
	Flag     *mines.FlagState      `json:"flag,omitempty"`
	Error    string                `json:"error,omitempty"`
}

func NewMoveResultDTO(s session.Snapshot, moves ...session.Move) *MoveResultDTO {
	dto := &MoveResultDTO{
		Game:     NewGameDTO(s),
		Outcomes: make([]mines.RevealOutcome, 0),
	}
	for _, m := range moves {
		dto.Outcomes = append(dto.Outcomes, m.Outcomes...)
		if m.Flag != nil {
			dto.Flag = m.Flag
		}
	}
	return dto
}
