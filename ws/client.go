package ws

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"workhub_backend/internal/logger"
	"workhub_backend/internal/services"
	"workhub_backend/internal/services/dto"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 16 * 1024
)

// IncomingEvent — конверт входящего сообщения от клиента.
type IncomingEvent struct {
	Action string          `json:"action"`
	Data   json.RawMessage `json:"data"`
}

type Client struct {
	UserID uint
	conn   *websocket.Conn
	send   chan Event
	done   chan struct{}

	closeOnce   sync.Once
	manager     *Manager
	chatService services.ChatService
}

func newClient(userID uint, conn *websocket.Conn, manager *Manager, chat services.ChatService) *Client {
	return &Client{
		UserID:      userID,
		conn:        conn,
		send:        make(chan Event, 64),
		done:        make(chan struct{}),
		manager:     manager,
		chatService: chat,
	}
}

// shutdown сигнализирует writePump завершиться. Канал send не закрывается:
// запоздалый enqueue из readPump вытесненного соединения просто никуда
// не доставляется.
func (c *Client) shutdown() {
	c.closeOnce.Do(func() { close(c.done) })
}

func (c *Client) readPump() {
	defer func() {
		c.manager.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.WithError(err).Debug("ws read error", "user_id", c.UserID)
			}
			return
		}

		var event IncomingEvent
		if err := json.Unmarshal(raw, &event); err != nil {
			c.sendError("invalid event payload")
			continue
		}

		c.handleEvent(event)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case <-c.done:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return

		case event := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(event); err != nil {
				logger.WithError(err).Debug("ws write error", "user_id", c.UserID)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) handleEvent(event IncomingEvent) {
	ctx := context.Background()

	switch event.Action {
	case "send_message":
		var req dto.CreateMessageRequest
		if err := json.Unmarshal(event.Data, &req); err != nil {
			c.sendError("invalid send_message payload")
			return
		}

		msg, err := c.chatService.CreateMessage(ctx, c.UserID, req)
		if err != nil {
			logger.WithError(err).Debug("ws send_message failed", "user_id", c.UserID)
			c.sendError(err.Error())
			return
		}
		// Отправителю возвращаем созданное сообщение; получателю его
		// доставит ChatService через Push.
		c.enqueue(Event{Type: "message_sent", Data: msg})

	case "mark_read":
		var payload struct {
			MessageID uint `json:"message_id"`
		}
		if err := json.Unmarshal(event.Data, &payload); err != nil {
			c.sendError("invalid mark_read payload")
			return
		}

		msg, err := c.chatService.UpdateReadStatus(ctx, c.UserID, payload.MessageID, true)
		if err != nil {
			c.sendError(err.Error())
			return
		}
		c.enqueue(Event{Type: "message_read", Data: msg})

	default:
		c.sendError("unknown action: " + event.Action)
	}
}

func (c *Client) enqueue(event Event) {
	select {
	case <-c.done:
		return
	default:
	}

	select {
	case c.send <- event:
	default:
	}
}

func (c *Client) sendError(msg string) {
	c.enqueue(Event{Type: "error", Data: msg})
}
