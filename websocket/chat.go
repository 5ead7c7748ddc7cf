package websocket

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/yxyphoebe/lavender-mind-haven-sub000/internal/ratelimit"
	"github.com/yxyphoebe/lavender-mind-haven-sub000/middlewares"
	"github.com/yxyphoebe/lavender-mind-haven-sub000/models"
)

const (
	chatRoute    = "/chat"
	replyTimeout = 60 * time.Second
)

// Replier produces the persona's answer to a user message.
type Replier interface {
	Reply(ctx context.Context, userID, personaID, text string) (models.ChatMessage, models.ChatMessage, error)
}

// RouteTracker records the screen a user is on.
type RouteTracker interface {
	Track(ctx context.Context, userID, route string) (models.NavigationTransition, error)
}

// ChatClient is one open chat socket.
type ChatClient struct {
	Conn      *websocket.Conn
	SessionID string
	UserID    string
	PersonaID string
	writeMu   sync.Mutex
}

// SafeWriteJSON serialises writes; gorilla connections allow one writer.
func (cc *ChatClient) SafeWriteJSON(v interface{}) error {
	cc.writeMu.Lock()
	defer cc.writeMu.Unlock()
	return cc.Conn.WriteJSON(v)
}

// Inbound is a frame sent by the client.
type Inbound struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// Outbound is a frame sent to the client.
type Outbound struct {
	Type      string              `json:"type"`
	SessionID string              `json:"sessionId,omitempty"`
	Message   *models.ChatMessage `json:"message,omitempty"`
	Error     string              `json:"error,omitempty"`
}

// ChatHub keeps the open chat sockets per user and persona so every device
// of the user sees the same conversation.
type ChatHub struct {
	replier  Replier
	tracker  RouteTracker
	limiter  ratelimit.Limiter
	logger   *log.Logger
	upgrader websocket.Upgrader

	mu      sync.RWMutex
	clients map[string]map[*ChatClient]bool
}

func NewChatHub(replier Replier, tracker RouteTracker, limiter ratelimit.Limiter, allowedOrigins []string, logger *log.Logger) *ChatHub {
	origins := make(map[string]bool, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		origins[origin] = true
	}
	return &ChatHub{
		replier: replier,
		tracker: tracker,
		limiter: limiter,
		logger:  logger.With("component", "chat-ws"),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || len(origins) == 0 || origins[origin]
			},
		},
		clients: make(map[string]map[*ChatClient]bool),
	}
}

func conversationKey(userID, personaID string) string {
	return userID + "/" + personaID
}

func (h *ChatHub) register(client *ChatClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	key := conversationKey(client.UserID, client.PersonaID)
	if h.clients[key] == nil {
		h.clients[key] = make(map[*ChatClient]bool)
	}
	h.clients[key][client] = true
}

func (h *ChatHub) unregister(client *ChatClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	key := conversationKey(client.UserID, client.PersonaID)
	delete(h.clients[key], client)
	if len(h.clients[key]) == 0 {
		delete(h.clients, key)
	}
	client.Conn.Close()
}

// ClientCount returns how many sockets are open for the conversation.
func (h *ChatHub) ClientCount(userID, personaID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[conversationKey(userID, personaID)])
}

func (h *ChatHub) broadcast(userID, personaID string, frame Outbound) {
	h.mu.RLock()
	targets := make([]*ChatClient, 0, len(h.clients[conversationKey(userID, personaID)]))
	for client := range h.clients[conversationKey(userID, personaID)] {
		targets = append(targets, client)
	}
	h.mu.RUnlock()

	for _, client := range targets {
		if err := client.SafeWriteJSON(frame); err != nil {
			h.logger.Warn("Dropping chat client after failed write", "session", client.SessionID, "err", err)
			go h.unregister(client)
		}
	}
}

// HandleChat upgrades GET /ws/chat/:personaId. It must run behind
// middlewares.AuthMiddleware.
func (h *ChatHub) HandleChat(c *gin.Context) {
	userID := middlewares.UserID(c)
	personaID := c.Param("personaId")
	if userID == "" || personaID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user and persona are required"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("WebSocket upgrade error", "err", err)
		return
	}

	client := &ChatClient{Conn: conn, SessionID: uuid.NewString(), UserID: userID, PersonaID: personaID}
	h.register(client)
	defer h.unregister(client)

	if _, err := h.tracker.Track(c.Request.Context(), userID, chatRoute); err != nil {
		h.logger.Warn("Failed to record chat navigation", "user", userID, "err", err)
	}
	if err := client.SafeWriteJSON(Outbound{Type: "connected", SessionID: client.SessionID}); err != nil {
		return
	}

	for {
		var frame Inbound
		if err := conn.ReadJSON(&frame); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("Chat WebSocket error", "session", client.SessionID, "err", err)
			}
			return
		}

		switch frame.Type {
		case "ping":
			_ = client.SafeWriteJSON(Outbound{Type: "pong"})
		case "message":
			h.handleMessage(client, frame.Text)
		default:
			_ = client.SafeWriteJSON(Outbound{Type: "error", Error: "unknown message type"})
		}
	}
}

func (h *ChatHub) handleMessage(client *ChatClient, text string) {
	ctx, cancel := context.WithTimeout(context.Background(), replyTimeout)
	defer cancel()

	if h.limiter != nil {
		allowed, err := h.limiter.Allow(ctx, "chat:"+client.UserID)
		if err == nil && !allowed {
			_ = client.SafeWriteJSON(Outbound{Type: "error", Error: "Too many messages, please slow down"})
			return
		}
	}

	h.broadcast(client.UserID, client.PersonaID, Outbound{Type: "typing"})

	userTurn, reply, err := h.replier.Reply(ctx, client.UserID, client.PersonaID, text)
	if userTurn.Text != "" {
		h.broadcast(client.UserID, client.PersonaID, Outbound{Type: "message", Message: &userTurn})
	}
	if err != nil {
		h.logger.Error("Chat reply failed", "user", client.UserID, "persona", client.PersonaID, "err", err)
		_ = client.SafeWriteJSON(Outbound{Type: "error", Error: "Reply unavailable"})
		return
	}
	h.broadcast(client.UserID, client.PersonaID, Outbound{Type: "reply", Message: &reply})
}
