package web

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/lakshya-inakhiya/go-ash/pkg/hub"
)

// registerWS wires the websocket upgrade middleware and routes.
func registerWS(app *fiber.App, s *Server) {
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	app.Get("/ws/status", websocket.New(s.handleStatusWS))
	app.Get("/ws/frames", websocket.New(s.handleFramesWS))
}

// handleIndex serves the built-in viewer page.
func (s *Server) handleIndex(c *fiber.Ctx) error {
	c.Type("html", "utf-8")
	return c.SendString(indexHTML)
}

// handleState returns the current state snapshot.
func (s *Server) handleState(c *fiber.Ctx) error {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return c.JSON(s.state)
}

// handleConversation returns the recent conversation.
func (s *Server) handleConversation(c *fiber.Ctx) error {
	s.conversationMu.RLock()
	defer s.conversationMu.RUnlock()
	return c.JSON(s.conversation)
}

// handleStatusWS pushes state snapshots. The current state goes out
// immediately so a fresh tab is never blank.
func (s *Server) handleStatusWS(conn *websocket.Conn) {
	s.stateMu.RLock()
	state := s.state
	s.stateMu.RUnlock()

	if err := conn.WriteJSON(state); err != nil {
		conn.Close()
		return
	}

	hub.NewViewer(s.statusHub, conn).Run()
}

// handleFramesWS streams PNG face frames.
func (s *Server) handleFramesWS(conn *websocket.Conn) {
	hub.NewViewer(s.frameHub, conn).Run()
}
