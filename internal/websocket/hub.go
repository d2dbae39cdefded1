package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"docsum/internal/middleware"
	"docsum/internal/models"
)

const writeWait = 5 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *client) write(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// Hub pushes progress messages to the browser tabs of a session. With a Redis
// client, messages go through pub/sub so any instance can reach the session.
type Hub struct {
	mu          sync.RWMutex
	connections map[string][]*client
	redisClient *redis.Client
	cancelFuncs map[string]context.CancelFunc
	log         *zap.Logger
}

func NewHub(redisClient *redis.Client, log *zap.Logger) *Hub {
	return &Hub{
		connections: make(map[string][]*client),
		redisClient: redisClient,
		cancelFuncs: make(map[string]context.CancelFunc),
		log:         log,
	}
}

func channelName(sessionID string) string {
	return "session_updates:" + sessionID
}

// HandleWebSocket upgrades the request. The session comes from the cookie middleware.
func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	sessionID := middleware.GetSessionID(r.Context())
	if sessionID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	c := &client{conn: conn}
	h.registerConnection(sessionID, c)

	// Keep connection alive and handle disconnect
	go func() {
		defer h.unregisterConnection(sessionID, c)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
	}()
}

func (h *Hub) registerConnection(sessionID string, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.connections[sessionID] = append(h.connections[sessionID], c)

	// First connection for this session subscribes
	if h.redisClient != nil && len(h.connections[sessionID]) == 1 {
		ctx, cancel := context.WithCancel(context.Background())
		h.cancelFuncs[sessionID] = cancel
		go h.subscribeToPubSub(ctx, sessionID)
	}

	h.log.Debug("websocket connected", zap.String("session_id", sessionID), zap.Int("total", len(h.connections[sessionID])))
}

func (h *Hub) unregisterConnection(sessionID string, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	c.conn.Close()

	conns := h.connections[sessionID]
	for i, existing := range conns {
		if existing == c {
			h.connections[sessionID] = append(conns[:i], conns[i+1:]...)
			break
		}
	}

	if len(h.connections[sessionID]) == 0 {
		delete(h.connections, sessionID)
		if cancel, ok := h.cancelFuncs[sessionID]; ok {
			cancel()
			delete(h.cancelFuncs, sessionID)
		}
	}

	h.log.Debug("websocket disconnected", zap.String("session_id", sessionID))
}

func (h *Hub) subscribeToPubSub(ctx context.Context, sessionID string) {
	pubsub := h.redisClient.Subscribe(ctx, channelName(sessionID))
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			h.broadcast(sessionID, []byte(msg.Payload))
		}
	}
}

func (h *Hub) broadcast(sessionID string, data []byte) {
	h.mu.RLock()
	conns := append([]*client(nil), h.connections[sessionID]...)
	h.mu.RUnlock()

	for _, c := range conns {
		if err := c.write(data); err != nil {
			h.log.Debug("websocket write failed", zap.String("session_id", sessionID), zap.Error(err))
		}
	}
}

// Send delivers msg to every open tab of the session. Delivery is best effort.
func (h *Hub) Send(ctx context.Context, sessionID string, msg models.WSMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}

	if h.redisClient != nil {
		err := h.redisClient.Publish(ctx, channelName(sessionID), data).Err()
		if err == nil {
			return
		}
		h.log.Warn("progress publish failed, delivering locally", zap.Error(err))
	}
	h.broadcast(sessionID, data)
}

// Status reports a processing step to the session.
func (h *Hub) Status(ctx context.Context, sessionID string, step int, name string) {
	h.Send(ctx, sessionID, models.WSMessage{
		Type:    "status_update",
		Payload: models.StatusUpdate{Step: step, StepName: name},
	})
}

// Done tells the session the running action finished.
func (h *Hub) Done(ctx context.Context, sessionID string) {
	h.Send(ctx, sessionID, models.WSMessage{Type: "done"})
}
