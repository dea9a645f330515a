package signal

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/benbjohnson/clock"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Roulette/internal/app"
	"github.com/dkeye/Roulette/internal/config"
	"github.com/dkeye/Roulette/internal/core"
	"github.com/dkeye/Roulette/internal/domain"
)

var ErrBackpressure = errors.New("backpressure")

// ChatWSController owns the websocket surface of the matchmaking service.
type ChatWSController struct {
	Coord   *app.Coordinator
	Limiter *FindMatchLimiter
	cfg     *config.Config
}

func NewChatWSController(coord *app.Coordinator, cfg *config.Config) *ChatWSController {
	return &ChatWSController{
		Coord:   coord,
		Limiter: NewFindMatchLimiter(cfg.MatchBurst, cfg.MatchWindow, clock.New()),
		cfg:     cfg,
	}
}

type wsChatConn struct {
	conn *websocket.Conn
	send chan core.Frame

	mu     sync.RWMutex
	closed bool
}

func (c *wsChatConn) TrySend(f core.Frame) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return errors.New("connection closed")
	}
	select {
	case c.send <- f:
	default:
		return ErrBackpressure
	}
	return nil
}

func (c *wsChatConn) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	_ = c.conn.Close()
	c.mu.Unlock()
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// HandleChat validates the handshake, upgrades the connection, registers it
// with the coordinator and runs the pumps until the peer goes away.
// Handshake query params: userId (falls back to the client-token cookie),
// mode (video|text), interests (comma-joined). Origin comes from the
// proxy-aware client IP and is diagnostics-only.
func (ctl *ChatWSController) HandleChat(ctx context.Context, c *gin.Context) {
	userID := c.Query("userId")
	if userID == "" {
		userID = c.GetString("client_token")
	}

	profile, err := domain.NewProfile(userID, c.Query("mode"), c.Query("interests"), c.ClientIP())
	if err != nil {
		log.Warn().Err(err).Str("module", "signal").Str("user", userID).Msg("bad handshake")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Msg("ws upgrade")
		return
	}
	if ctl.cfg.ReadLimit > 0 {
		ws.SetReadLimit(ctl.cfg.ReadLimit)
	}

	id := core.ConnID(uuid.NewString())
	conn := &wsChatConn{
		conn: ws,
		send: make(chan core.Frame, 32),
	}
	log.Info().Str("module", "signal").Str("conn", string(id)).
		Str("user", string(profile.UserID)).Str("mode", string(profile.Mode)).
		Msg("new WS connection")

	ctl.Coord.Connect(&app.Binding{Conn: id, Profile: profile, Signal: conn})

	go ctl.writePump(ctx, conn)
	go ctl.readPump(ctx, id, profile, conn)
}

func (ctl *ChatWSController) sendJSON(c *wsChatConn, f core.Frame) {
	if err := c.TrySend(f); err != nil {
		log.Warn().Err(err).Str("module", "signal").Msg("send dropped")
	}
}
