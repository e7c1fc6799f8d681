package http

import (
	"context"
	"time"

	"gestion-personas/internal/personas/domain/model"
	"gestion-personas/internal/personas/usecase"
	"gestion-personas/internal/shared/logger"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	wsWriteTimeout = 10 * time.Second
	wsPingInterval = 30 * time.Second
)

// ChangeMessage is pushed to change-feed clients
type ChangeMessage struct {
	Type     string             `json:"type"`
	Changed  []model.Collection `json:"changed,omitempty"`
	Snapshot model.Snapshot     `json:"snapshot"`
}

// WebSocketHandler streams collection snapshots to connected clients
type WebSocketHandler struct {
	personasUC usecase.PersonasUsecase
	log        logger.Logger
}

// NewWebSocketHandler creates a new WebSocketHandler
func NewWebSocketHandler(uc usecase.PersonasUsecase, log logger.Logger) *WebSocketHandler {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &WebSocketHandler{personasUC: uc, log: log.WithComponent("personas_ws")}
}

// RegisterRoutes registers the change feed endpoint
func (h *WebSocketHandler) RegisterRoutes(router fiber.Router) {
	ws := router.Group("/ws/v1")
	ws.Use("/changes", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	ws.Get("/changes", websocket.New(h.handleConnection))
}

// handleConnection sends the current snapshot, then one message per change.
// Only the latest pending change is kept for a slow client since every
// message carries the full state.
func (h *WebSocketHandler) handleConnection(conn *websocket.Conn) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	clientID := uuid.NewString()
	log := h.log.WithFields(map[string]interface{}{"client_id": clientID})
	log.Info("Change feed client connected")

	pending := make(chan ChangeMessage, 1)
	subID := h.personasUC.Subscribe(func(_ context.Context, event model.ChangeEvent) {
		msg := ChangeMessage{Type: "change", Changed: event.Changed, Snapshot: event.Snapshot}
		for {
			select {
			case pending <- msg:
				return
			default:
			}
			select {
			case <-pending:
			default:
			}
		}
	})
	defer func() {
		h.personasUC.Unsubscribe(subID)
		log.Info("Change feed client disconnected")
	}()

	// reader detects the close; client messages are ignored
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					log.Warnf("Change feed read error: %v", err)
				}
				return
			}
		}
	}()

	initial := ChangeMessage{Type: "snapshot", Snapshot: h.personasUC.Snapshot(ctx)}
	if err := h.send(conn, initial); err != nil {
		log.Warnf("Failed to send initial snapshot: %v", err)
		return
	}

	ping := time.NewTicker(wsPingInterval)
	defer ping.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-pending:
			if msg.Snapshot.Version <= initial.Snapshot.Version {
				// already covered by the initial snapshot
				continue
			}
			if err := h.send(conn, msg); err != nil {
				log.Warnf("Failed to send change: %v", err)
				return
			}
		case <-ping.C:
			deadline := time.Now().Add(wsWriteTimeout)
			if err := conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				return
			}
		}
	}
}

func (h *WebSocketHandler) send(conn *websocket.Conn, msg ChangeMessage) error {
	if err := conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout)); err != nil {
		return err
	}
	return conn.WriteJSON(msg)
}
