package handlers

import (
	"context"
	"log/slog"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

// UpgradeWebsocket gates the event stream route to real websocket upgrades.
func UpgradeWebsocket(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// HandleEventStream attaches a client to the auction event stream. The
// client first receives a full snapshot, then every event in publish order.
// The read loop only watches for the client going away.
func (app *WebApp) HandleEventStream() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		broadcaster := app.Manager.Broadcaster()
		id, events := broadcaster.Subscribe()
		defer broadcaster.Unsubscribe(id)

		slog.Info("Websocket client connected",
			slog.String("type", "ws"),
			slog.Int64("subscriber_id", id),
			slog.String("remote", conn.RemoteAddr().String()),
		)

		snap, err := app.Manager.Snapshot(context.Background())
		if err != nil {
			slog.Error("Failed to build websocket snapshot",
				slog.String("type", "ws"),
				slog.Any("error", err),
			)
			return
		}
		if err := conn.WriteJSON(fiber.Map{"event": "snapshot", "data": snap}); err != nil {
			return
		}

		done := make(chan struct{})
		go func() {
			defer close(done)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		for {
			select {
			case evt, ok := <-events:
				if !ok {
					// Evicted for falling behind.
					return
				}
				if err := conn.WriteJSON(evt); err != nil {
					slog.Info("Websocket client disconnected",
						slog.String("type", "ws"),
						slog.Int64("subscriber_id", id),
					)
					return
				}
			case <-done:
				return
			}
		}
	})
}
