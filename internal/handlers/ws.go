package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vancomm/minegrid/internal/session"
)

// ConnectWS upgrades to a WebSocket over which the client sends commands
// (see package command) and receives one [MoveResultDTO] per message. The
// current state is sent right after the upgrade. The connection is closed
// once the game has been swept from the registry.
func (g GameHandler) ConnectWS(w http.ResponseWriter, r *http.Request) {
	game := g.lookup(w, r)
	if game == nil {
		return
	}

	conn, err := g.ws.Upgrader.Upgrade(w, r, nil) // headers sent here
	if err != nil {
		g.logger.Error("unable to upgrade", slog.Any("error", err))
		return
	}
	defer conn.Close()

	logger := g.logger.With(slog.String("id", game.ID.String()))
	logger.Debug("established WS connection")

	err = g.runGameLoop(r.Context(), conn, game)
	if err == nil || websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
		logger.Debug("WS connection closed")
		return
	}
	logger.Warn("error in ws loop", slog.Any("error", err))
}

func (g GameHandler) keepAlive(conn *websocket.Conn, done <-chan struct{}) {
	ticker := time.NewTicker(g.ws.PingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			deadline := time.Now().Add(g.ws.PingPeriod)
			if err := conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				return
			}
		}
	}
}

func (g GameHandler) runGameLoop(
	ctx context.Context, conn *websocket.Conn, game *session.Game,
) error {
	timeout := 2 * g.ws.PingPeriod
	conn.SetReadDeadline(time.Now().Add(timeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(timeout))
	})

	done := make(chan struct{})
	defer close(done)
	go g.keepAlive(conn, done)

	if err := conn.WriteJSON(NewMoveResultDTO(game.Snapshot())); err != nil {
		return fmt.Errorf("unable to write json: %w", err)
	}

	for {
		mt, buf, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		if mt != websocket.TextMessage {
			continue
		}
		conn.SetReadDeadline(time.Now().Add(timeout))

		// a swept game is gone for good, even for open connections
		if _, err := g.games.Get(game.ID); err != nil {
			dto := NewMoveResultDTO(game.Snapshot())
			dto.Error = err.Error()
			if err := conn.WriteJSON(dto); err != nil {
				return fmt.Errorf("unable to write json: %w", err)
			}
			msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "game expired")
			return conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
		}

		dto := g.execute(ctx, game, string(buf))
		if err := conn.WriteJSON(dto); err != nil {
			return fmt.Errorf("unable to write json: %w", err)
		}
	}
}
