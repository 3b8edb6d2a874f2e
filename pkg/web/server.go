// Package web serves a browser preview of the robot: the face that
// would appear on the panel, live state and the recent conversation.
// It exists for development on machines without the display attached.
package web

import (
	"bytes"
	"image/png"
	"log/slog"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/lakshya-inakhiya/go-ash/pkg/display"
	"github.com/lakshya-inakhiya/go-ash/pkg/hub"
	"github.com/lakshya-inakhiya/go-ash/pkg/pixbuf"
)

// State is the live snapshot shown on the dashboard.
type State struct {
	Backend    string  `json:"backend"`
	Expression string  `json:"expression"`
	InputMode  string  `json:"input_mode"`
	Listening  bool    `json:"listening"`
	Speaking   bool    `json:"speaking"`
	SimServos  bool    `json:"servos_simulated"`
	LeftArm    float64 `json:"left_arm"`
	RightArm   float64 `json:"right_arm"`
	LastHeard  string  `json:"last_heard"`
	LastReply  string  `json:"last_reply"`
}

// Exchange is one line of the conversation shown on the dashboard.
type Exchange struct {
	Time string `json:"time"`
	Role string `json:"role"`
	Text string `json:"text"`
}

// Server is the preview server.
type Server struct {
	app    *fiber.App
	addr   string
	logger *slog.Logger

	state   State
	stateMu sync.RWMutex

	conversation   []Exchange
	conversationMu sync.RWMutex

	// Hubs for websocket broadcast
	statusHub *hub.Hub
	frameHub  *hub.Hub
}

// NewServer creates a preview server that will listen on addr.
func NewServer(addr string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		addr:         addr,
		logger:       logger.With("component", "web"),
		conversation: make([]Exchange, 0, 100),
		statusHub:    hub.New("status", logger),
		frameHub:     hub.New("frames", logger),
	}

	app := fiber.New(fiber.Config{
		AppName:               "Ash Preview",
		DisableStartupMessage: true,
	})

	// CORS for local development
	app.Use(cors.New())

	app.Get("/", s.handleIndex)

	api := app.Group("/api")
	api.Get("/state", s.handleState)
	api.Get("/conversation", s.handleConversation)

	registerWS(app, s)

	s.app = app
	return s
}

// Start runs the hubs and listens. Blocks until Shutdown.
func (s *Server) Start() error {
	go s.statusHub.Run()
	go s.frameHub.Run()
	s.logger.Info("web preview listening", "addr", s.addr)
	return s.app.Listen(s.addr)
}

// StartAsync starts the server in a goroutine.
func (s *Server) StartAsync() {
	go func() {
		if err := s.Start(); err != nil {
			s.logger.Error("web preview stopped", "error", err)
		}
	}()
}

// Shutdown stops the listener and disconnects all viewers.
func (s *Server) Shutdown() error {
	err := s.app.Shutdown()
	s.statusHub.Stop()
	s.frameHub.Stop()
	return err
}

// UpdateState mutates the state under lock and pushes the new snapshot
// to all status viewers.
func (s *Server) UpdateState(update func(*State)) {
	s.stateMu.Lock()
	update(&s.state)
	state := s.state
	s.stateMu.Unlock()

	s.statusHub.BroadcastJSON(state)
}

// AddExchange records one line of conversation. The buffer keeps the
// last 100 lines.
func (s *Server) AddExchange(role, text string) {
	entry := Exchange{
		Time: time.Now().Format("15:04:05"),
		Role: role,
		Text: text,
	}

	s.conversationMu.Lock()
	s.conversation = append(s.conversation, entry)
	if len(s.conversation) > 100 {
		s.conversation = s.conversation[1:]
	}
	s.conversationMu.Unlock()
}

// BroadcastFrame pushes an encoded PNG to all frame viewers.
func (s *Server) BroadcastFrame(data []byte) {
	s.frameHub.BroadcastBinary(data)
}

// Attach mirrors every frame the simulated backend presents. Frames are
// encoded only while someone is watching.
func (s *Server) Attach(sim *display.Simulated) {
	sim.SetOnFrame(func(frame *pixbuf.Buffer) {
		if s.frameHub.ViewerCount() == 0 {
			return
		}
		var buf bytes.Buffer
		if err := png.Encode(&buf, frame.ToImage()); err != nil {
			s.logger.Warn("frame encode failed", "error", err)
			return
		}
		s.frameHub.BroadcastBinary(buf.Bytes())
	})
}

// ViewerCount returns how many browsers are watching frames.
func (s *Server) ViewerCount() int {
	return s.frameHub.ViewerCount()
}
