package chat

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"wmx/internal/domain"
	jwtsvc "wmx/internal/pkg/jwt"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	pongWait     = 60 * time.Second
	pingInterval = 30 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// origin enforcement happens at the CORS layer for the REST API;
		// the socket is protected by the token check below
		return true
	},
}

// WSHandler upgrades authenticated clients and pumps chat events.
type WSHandler struct {
	hub     *Hub
	jwt     *jwtsvc.Service
	users   UserReader
	service *Service
}

func NewWSHandler(hub *Hub, jwt *jwtsvc.Service, users UserReader, service *Service) *WSHandler {
	return &WSHandler{hub: hub, jwt: jwt, users: users, service: service}
}

// HandleWebSocket serves GET /ws/chat?token=JWT. Browsers cannot set headers
// on a socket upgrade, so the token travels as a query parameter.
func (h *WSHandler) HandleWebSocket(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Token is required. Use ?token=YOUR_JWT_TOKEN"})
		return
	}

	claims, err := h.jwt.ValidateToken(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
		return
	}

	// same rule as the HTTP middleware: role and active flag come from the
	// database, not the token
	user, err := h.users.GetByID(c.Request.Context(), claims.UserID)
	if err != nil || !user.IsActive {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Account is not active"})
		return
	}

	raw, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("ws_upgrade_failed user=%d err=%v", user.ID, err)
		return
	}
	conn := newWSConn(raw)

	h.hub.Register(user.ID, conn)
	log.Printf("ws_connected user=%d", user.ID)

	defer func() {
		h.hub.Unregister(user.ID)
		log.Printf("ws_disconnected user=%d", user.ID)
	}()

	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	go h.pingLoop(conn)

	h.readLoop(conn, user.ID, user.Role == domain.RoleAdmin)
}

func (h *WSHandler) pingLoop(conn *wsConn) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for range ticker.C {
		if err := conn.Ping(); err != nil {
			return
		}
	}
}

func (h *WSHandler) readLoop(conn *wsConn, userID int64, isAdmin bool) {
	for {
		_, rawMsg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure) {
				log.Printf("ws_read_error user=%d err=%v", userID, err)
			}
			return
		}
		conn.SetReadDeadline(time.Now().Add(pongWait))

		var msg WSClientMessage
		if err := json.Unmarshal(rawMsg, &msg); err != nil {
			h.sendError(conn, "INVALID_JSON", "Failed to parse message")
			continue
		}

		switch msg.Type {
		case "message":
			h.handleMessage(conn, userID, isAdmin, msg)
		case "typing":
			h.service.Typing(context.Background(), userID, isAdmin, msg.ProjectID, msg.IsTyping)
		case "ping":
			_ = conn.WriteJSON(newPongEvent())
		default:
			h.sendError(conn, "UNKNOWN_TYPE", "Unknown message type: "+msg.Type)
		}
	}
}

func (h *WSHandler) handleMessage(conn *wsConn, userID int64, isAdmin bool, msg WSClientMessage) {
	if msg.ProjectID <= 0 {
		h.sendError(conn, "INVALID_PROJECT", "project_id is required")
		return
	}

	_, err := h.service.SendMessage(context.Background(), userID, isAdmin, msg.ProjectID,
		SendMessageRequest{Body: msg.Body})
	if err != nil {
		switch err {
		case ErrNotFound, ErrForbidden:
			h.sendError(conn, "FORBIDDEN", "You do not have access to this conversation")
		case ErrEmptyMessage:
			h.sendError(conn, "EMPTY_CONTENT", "Message needs text")
		default:
			h.sendError(conn, "SEND_FAILED", "Failed to send message")
		}
	}
}

func (h *WSHandler) sendError(conn *wsConn, code, message string) {
	_ = conn.WriteJSON(newErrorEvent(code, message))
}
