package handler

import (
	"errors"
	"log"
	"time"

	"github.com/Sakshi-mali06/Krushi-Sevak-Backend-new/internal/model"
	"github.com/Sakshi-mali06/Krushi-Sevak-Backend-new/internal/service"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const writeWait = 10 * time.Second

type WSHandler struct {
	chatSvc      *service.ChatService
	readTimeout  time.Duration
	pingInterval time.Duration
}

func NewWSHandler(chatSvc *service.ChatService, readTimeout, pingInterval time.Duration) *WSHandler {
	return &WSHandler{chatSvc: chatSvc, readTimeout: readTimeout, pingInterval: pingInterval}
}

// Upgrade accepts any client; there is no authentication on the chat channel.
// GET /ws
func (h *WSHandler) Upgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return websocket.New(h.handleConnection)(c)
	}
	return fiber.ErrUpgradeRequired
}

func (h *WSHandler) handleConnection(c *websocket.Conn) {
	client := service.NewWSClient(uuid.NewString(), c)

	writerDone := make(chan struct{})
	go h.writeLoop(c, client, writerDone)

	h.chatSvc.Connect(client)
	defer func() {
		h.chatSvc.Handle(client, model.Disconnect{})
		<-writerDone
	}()

	c.SetReadDeadline(time.Now().Add(h.readTimeout))
	c.SetPongHandler(func(string) error {
		return c.SetReadDeadline(time.Now().Add(h.readTimeout))
	})

	for {
		_, msg, err := c.ReadMessage()
		if err != nil {
			break
		}

		// Any frame counts as liveness
		c.SetReadDeadline(time.Now().Add(h.readTimeout))

		event, err := model.DecodeClientEvent(msg)
		if err != nil {
			if errors.Is(err, model.ErrUnknownEvent) {
				log.Printf("[WS] %s: %v", client.ID, err)
				continue
			}
			log.Printf("[WS] %s: rejected frame: %v", client.ID, err)
			h.chatSvc.SendError(client, err.Error())
			continue
		}
		h.chatSvc.Handle(client, event)
	}
}

// writeLoop is the only writer on the connection. It exits when the hub
// closes client.Send or a write fails.
func (h *WSHandler) writeLoop(c *websocket.Conn, client *service.WSClient, done chan<- struct{}) {
	ticker := time.NewTicker(h.pingInterval)
	defer func() {
		ticker.Stop()
		_ = c.Close()
		close(done)
	}()

	for {
		select {
		case msg, ok := <-client.Send:
			c.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			c.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
