package services

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"gorm.io/gorm"

	"github.com/yaqoubhassan/express-chat-api/models"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 8192
	sendBuffer     = 64
)

// Client is one WebSocket connection bound to a user's channel.
type Client struct {
	UserID string
	Send   chan []byte

	conn    *websocket.Conn
	manager *Manager

	mu     sync.Mutex
	closed bool
}

func NewClient(manager *Manager, conn *websocket.Conn, userID string) *Client {
	return &Client{
		UserID:  userID,
		Send:    make(chan []byte, sendBuffer),
		conn:    conn,
		manager: manager,
	}
}

// Manager owns the presence registry and fans events out to per-user
// channels. Delivery is fire-and-forget: the durable store is the source of
// truth, a missed socket event is only a lost latency optimization.
type Manager struct {
	db       *gorm.DB
	presence *Presence
	messages *MessageService
	baseURL  string

	register   chan *Client
	unregister chan *Client
}

func NewManager(db *gorm.DB, messages *MessageService, baseURL string) *Manager {
	return &Manager{
		db:         db,
		presence:   NewPresence(),
		messages:   messages,
		baseURL:    baseURL,
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Presence exposes the registry to the HTTP layer (peer online flags).
func (m *Manager) Presence() *Presence {
	return m.presence
}

// Run processes connection lifecycle events. Started once at startup.
func (m *Manager) Run() {
	for {
		select {
		case client := <-m.register:
			m.presence.Add(client)
			m.stampActive(client.UserID)
			m.broadcastOnline()
			log.Printf("client connected: %s", client.UserID)

		case client := <-m.unregister:
			m.presence.Remove(client)
			m.stampActive(client.UserID)
			client.closeSend()
			m.broadcastOnline()
			log.Printf("client disconnected: %s", client.UserID)
		}
	}
}

// Register subscribes a connection to its user's channel. Connecting is
// joining: there is no separate room handshake.
func (m *Manager) Register(c *Client) {
	m.register <- c
}

// Unregister removes a connection from the registry.
func (m *Manager) Unregister(c *Client) {
	m.unregister <- c
}

// Emit delivers one event to every open connection of the user. A user with
// no connections gets nothing, silently.
func (m *Manager) Emit(userID string, event string, payload interface{}) {
	data, err := marshalEnvelope(event, payload)
	if err != nil {
		log.Printf("failed to marshal %s event: %v", event, err)
		return
	}
	for _, client := range m.presence.ClientsOf(userID) {
		client.enqueue(data)
	}
}

// broadcastOnline pushes the current online-id set to every connection.
func (m *Manager) broadcastOnline() {
	data, err := marshalEnvelope(EventUserStatusChange, m.presence.OnlineIDs())
	if err != nil {
		log.Printf("failed to marshal status event: %v", err)
		return
	}
	for _, client := range m.presence.AllClients() {
		client.enqueue(data)
	}
}

// stampActive persists the user's last-seen time on connect and disconnect.
func (m *Manager) stampActive(userID string) {
	err := m.db.Model(&models.User{}).
		Where("id = ?", userID).
		Update("active_status", time.Now()).Error
	if err != nil {
		log.Printf("failed to update active status for %s: %v", userID, err)
	}
}

func marshalEnvelope(event string, payload interface{}) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Event: event, Data: data})
}

// enqueue hands a frame to the write pump. An Emit racing a disconnect must
// not hit a closed channel, hence the flag.
func (c *Client) enqueue(data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.Send <- data:
	default:
		// Slow consumer, drop the event rather than block the sender.
		log.Printf("dropping event for %s: send buffer full", c.UserID)
	}
}

func (c *Client) closeSend() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.Send)
}

// ReadPump consumes client-originated events until the connection drops.
func (c *Client) ReadPump() {
	defer func() {
		c.manager.Unregister(c)
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
			break
		}

		var env Envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			log.Printf("invalid frame from %s: %s", c.UserID, raw)
			continue
		}
		c.handleEvent(env)
	}
}

// SendMessagePayload is the client→server body of a sendMessage frame.
type SendMessagePayload struct {
	ReceiverID    string `json:"receiverId"`
	Type          string `json:"type"`
	Content       string `json:"content"`
	Media         string `json:"media"`
	AudioDuration string `json:"audioDuration"`
}

type typingPayload struct {
	ReceiverID string `json:"receiverId"`
}

func (c *Client) handleEvent(env Envelope) {
	switch env.Event {
	case EventSendMessage:
		var p SendMessagePayload
		if err := json.Unmarshal(env.Data, &p); err != nil {
			return
		}
		c.manager.handleSendMessage(c.UserID, p)

	case EventTyping, EventStopTyping:
		var p typingPayload
		if err := json.Unmarshal(env.Data, &p); err != nil || p.ReceiverID == "" {
			return
		}
		c.manager.Emit(p.ReceiverID, env.Event, TypingEvent{SenderID: c.UserID})

	case EventJoinRoom:
		// Connecting already subscribed this client to its own channel;
		// kept for older clients that still send it. Idempotent no-op.

	default:
		log.Printf("unknown event %q from %s", env.Event, c.UserID)
	}
}

// handleSendMessage persists a socket-originated message and notifies the
// receiver, mirroring the HTTP send path.
func (m *Manager) handleSendMessage(senderID string, p SendMessagePayload) {
	if p.ReceiverID == "" || p.ReceiverID == senderID {
		return
	}
	msg := buildMessage(senderID, p)

	res, err := m.messages.Send(senderID, p.ReceiverID, msg)
	if err != nil {
		log.Printf("socket send from %s failed: %v", senderID, err)
		return
	}

	var sender models.User
	if err := m.db.Where("id = ?", senderID).First(&sender).Error; err != nil {
		log.Printf("socket send from %s: sender lookup failed: %v", senderID, err)
		return
	}

	m.Emit(p.ReceiverID, EventMessage, NewMessageEvent(res, &sender, p.ReceiverID, m.baseURL))
}

func buildMessage(senderID string, p SendMessagePayload) *models.Message {
	switch p.Type {
	case models.MessageTypeImage, models.MessageTypeVideo:
		return models.NewMediaMessage("", senderID, p.Type, p.Media)
	case models.MessageTypeAudio:
		return models.NewAudioMessage("", senderID, p.Media, p.AudioDuration)
	default:
		return models.NewTextMessage("", senderID, p.Content)
	}
}

// WritePump drains the send channel to the socket and keeps the connection
// alive with pings.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
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
