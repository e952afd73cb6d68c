package handler

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"meditation-server/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	// Время, разрешенное для записи сообщения клиенту.
	writeWait = 10 * time.Second
	// Время, разрешенное для чтения следующего pong сообщения от клиента.
	pongWait = 60 * time.Second
	// Отправлять пинги клиенту с этим периодом. Должно быть меньше pongWait.
	pingPeriod = (pongWait * 9) / 10
	// Максимальный размер сообщения, разрешенный от клиента.
	maxMessageSize = 512
)

func (h *MeditationHandler) upgrader() *websocket.Upgrader {
	allowed := make(map[string]struct{}, len(h.opts.AllowedOrigins))
	for _, origin := range h.opts.AllowedOrigins {
		allowed[origin] = struct{}{}
	}
	return &websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" {
				return true
			}
			if _, ok := allowed["*"]; ok {
				return true
			}
			if _, ok := allowed[origin]; ok {
				return true
			}
			u, err := url.Parse(origin)
			return err == nil && u.Host == r.Host
		},
	}
}

// streamStatus отдает текущее состояние заявки, затем события смены статуса до терминального.
//
// @Summary Поток смены статусов заявки (WebSocket)
// @Tags meditations
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID заявки"
// @Success 101
// @Failure 404 {object} models.ErrorResponse
// @Router /meditations/{id}/ws [get]
func (h *MeditationHandler) streamStatus(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	if h.statuses == nil {
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, models.ErrorResponse{Code: models.ErrCodeInternal, Message: "Live status is not available"})
		return
	}
	log := h.logger.With(zap.String("meditationID", id.String()), zap.String("userID", userID.String()))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Подписка до чтения снимка: событие между ними не потеряется
	events, unsubscribe, err := h.statuses.SubscribeStatus(ctx, id.String())
	if err != nil {
		handleServiceError(c, err, h.logger)
		return
	}
	defer unsubscribe()

	m, err := h.meditations.GetStatus(c.Request.Context(), userID, id)
	if err != nil {
		handleServiceError(c, err, h.logger)
		return
	}

	conn, err := h.upgrader().Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// upgrader уже ответил клиенту
		log.Warn("Failed to upgrade connection", zap.Error(err))
		return
	}
	defer conn.Close()
	log.Info("Status stream opened")

	if err := writeJSON(conn, toMeditationResponse(m)); err != nil {
		log.Warn("Failed to send status snapshot", zap.Error(err))
		return
	}
	if m.Status.IsTerminal() {
		closeNormally(conn, "meditation finished")
		return
	}

	go readPump(conn, cancel, log)

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Info("Status stream closed by client")
			return
		case event, ok := <-events:
			if !ok {
				log.Info("Status subscription closed")
				closeNormally(conn, "subscription closed")
				return
			}
			if err := writeJSON(conn, event); err != nil {
				log.Warn("Failed to send status event", zap.Error(err))
				return
			}
			if event.Status.IsTerminal() {
				closeNormally(conn, "meditation finished")
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Debug("Failed to send ping", zap.Error(err))
				return
			}
		}
	}
}

// readPump нужен только для pong и обнаружения разрыва. Сообщения клиента игнорируются.
func readPump(conn *websocket.Conn, cancel context.CancelFunc, log *zap.Logger) {
	defer cancel()
	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Debug("WebSocket read error", zap.Error(err))
			}
			return
		}
	}
}

func writeJSON(conn *websocket.Conn, v interface{}) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(v)
}

func closeNormally(conn *websocket.Conn, reason string) {
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, reason)
	_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
}
