package signal

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/GowthamJegatheeswaran/Network-Project/internal/app/orch"
	"github.com/GowthamJegatheeswaran/Network-Project/internal/config"
	"github.com/GowthamJegatheeswaran/Network-Project/internal/core"
	"github.com/GowthamJegatheeswaran/Network-Project/internal/domain"
)

var ErrBackpressure = errors.New("backpressure")

type SignalWSController struct {
	Orch *orch.Orchestrator
	Cfg  *config.Config
	Chat *RateLimiter
}

func NewSignalWSController(o *orch.Orchestrator, cfg *config.Config) *SignalWSController {
	return &SignalWSController{
		Orch: o,
		Cfg:  cfg,
		Chat: NewRateLimiter(cfg.ChatBurst, cfg.ChatInterval),
	}
}

type WsSignalConn struct {
	conn *websocket.Conn
	send chan core.Frame

	mu     sync.RWMutex
	closed bool
}

func (c *WsSignalConn) TrySend(f core.Frame) error {
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

func (c *WsSignalConn) Close() {
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

// HandleSignal upgrades the request and runs the connection until the
// socket dies. Each connection gets a fresh id: ids are per connection
// lifetime, never shared across tabs.
func (ctl *SignalWSController) HandleSignal(ctx context.Context, c *gin.Context) {
	id := domain.ConnID(uuid.NewString())

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("ws upgrade")
		return
	}
	log.Info().Str("module", "signal").Str("conn", string(id)).Msg("new WS connection")

	conn := &WsSignalConn{
		conn: ws,
		send: make(chan core.Frame, ctl.Cfg.SendBuffer),
	}

	if err := ctl.Orch.Connect(id, conn); err != nil {
		conn.Close()
		return
	}
	ctx, cancel := context.WithCancel(ctx)

	var once sync.Once
	disconnect := func() {
		once.Do(func() {
			ctl.Orch.Disconnect(id)
			ctl.Chat.Forget(id)
			cancel()
			conn.Close()
		})
	}

	go ctl.writePump(ctx, conn)
	go func() {
		defer disconnect()
		ctl.readPump(ctx, id, conn)
	}()
}
