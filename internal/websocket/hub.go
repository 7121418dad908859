package websocket

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/habla-ai/habla/domain/entities"
	"github.com/habla-ai/habla/domain/repositories"
	"github.com/habla-ai/habla/internal/observability"
	"github.com/habla-ai/habla/usecase"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 512 * 1024 // 512KB for audio chunks

	// Default sample rate for learner microphone capture.
	defaultSampleRate = 24000

	// Time budget for one full reply turn (LLM + TTS streaming).
	replyTimeout = 60 * time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// TODO: Implement proper origin checking
		return true
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// Hub maintains the set of active clients.
type Hub struct {
	// Registered clients.
	clients map[string]*Client

	// Register requests from the clients.
	register chan *Client

	// Unregister requests from clients.
	unregister chan *Client

	// Mutex for thread-safe access to clients map
	mu sync.RWMutex

	conversation *usecase.ConversationService

	logger *zap.Logger
}

// NewHub creates a new WebSocket hub
func NewHub(conversation *usecase.ConversationService, logger *zap.Logger) *Hub {
	return &Hub{
		clients:      make(map[string]*Client),
		register:     make(chan *Client),
		unregister:   make(chan *Client),
		conversation: conversation,
		logger:       logger,
	}
}

// Run starts the hub's main loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.sessionID] = client
			h.mu.Unlock()
			observability.SessionConnected()
			h.logger.Info("Client registered", zap.String("sessionID", client.sessionID))

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.sessionID]; ok {
				delete(h.clients, client.sessionID)
				// The send channel stays open: an in-flight reply
				// goroutine may still write to it. It observes done
				// and stops instead.
				client.shutdown()
			}
			h.mu.Unlock()
			observability.SessionDisconnected()
			h.logger.Info("Client unregistered", zap.String("sessionID", client.sessionID))
		}
	}
}

// WriteData is one outbound websocket frame.
type WriteData struct {
	// Type is websocket.TextMessage or websocket.BinaryMessage
	Type    int
	Payload []byte
}

// Client is a middleman between the websocket connection and the hub.
type Client struct {
	hub *Hub

	// The websocket connection.
	conn *websocket.Conn

	// Buffered channel of outbound messages. Never closed; done signals
	// shutdown so reply goroutines cannot hit a closed channel.
	send chan WriteData

	// Closed when the hub drops the client.
	done      chan struct{}
	closeOnce sync.Once

	sessionID string

	logger *zap.Logger

	// Tutoring session state
	session     *entities.ConversationSession
	chatSession repositories.ChatSession

	// Voice recording state
	audioBuffer bytes.Buffer
	sampleRate  int
	listening   bool

	mutex sync.Mutex
}

// HandleChat upgrades the connection and starts a tutoring session for an
// authenticated session ID.
func HandleChat(hub *Hub, c echo.Context, sessionID string, logger *zap.Logger) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		logger.Error("WebSocket upgrade failed", zap.Error(err))
		return err
	}

	client := &Client{
		hub:        hub,
		conn:       conn,
		send:       make(chan WriteData, 256),
		done:       make(chan struct{}),
		sessionID:  sessionID,
		logger:     logger,
		session:    entities.NewConversationSession(sessionID),
		sampleRate: defaultSampleRate,
	}

	client.hub.register <- client

	go client.writePump()
	go client.readPump()

	client.sendWelcome()

	return nil
}

// readPump pumps messages from the websocket connection to the handlers.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		messageType, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Error("WebSocket error", zap.Error(err))
			}
			break
		}

		switch messageType {
		case websocket.TextMessage:
			c.processMessage(message)
		case websocket.BinaryMessage:
			c.processAudioChunk(message)
		default:
			c.logger.Warn("Received unknown message type", zap.Int("type", messageType))
		}
	}
}

// writePump pumps messages from the hub to the websocket connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(message.Type, message.Payload); err != nil {
				c.logger.Error("Failed to write message", zap.Error(err))
				return
			}

		case <-c.done:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// shutdown signals reply goroutines and the write pump to stop. Idempotent.
func (c *Client) shutdown() {
	c.closeOnce.Do(func() {
		close(c.done)
	})
}

// sendJSON marshals a message onto the outbound queue. After shutdown the
// message is silently discarded.
func (c *Client) sendJSON(message interface{}) {
	payload, err := json.Marshal(message)
	if err != nil {
		c.logger.Error("Failed to marshal outgoing message", zap.Error(err))
		return
	}
	select {
	case <-c.done:
		return
	default:
	}
	select {
	case c.send <- WriteData{Type: websocket.TextMessage, Payload: payload}:
	default:
		c.logger.Warn("Dropping outgoing message, send buffer full",
			zap.String("sessionID", c.sessionID))
	}
}

func (c *Client) sendError(code, message string) {
	c.sendJSON(NewErrorMessage(code, message))
}

func (c *Client) sendWelcome() {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.sendJSON(NewWelcomeMessage(c.session))
	c.sendJSON(NewSettingsSyncMessage(c.session))
}

// processMessage dispatches an incoming text frame.
func (c *Client) processMessage(message []byte) {
	parsed, err := ParseMessage(message)
	if err != nil {
		c.logger.Warn("Failed to parse message", zap.Error(err))
		c.sendError("invalid_message", err.Error())
		return
	}

	switch msg := parsed.(type) {
	case *BaseMessage:
		switch msg.Type {
		case MessageTypeSessionStart:
			c.sendWelcome()
		case MessageTypeListeningEnd:
			c.handleListeningEnd()
		}
	case *ChatMessage:
		go c.respond(msg.Content)
	case *SettingsUpdateMessage:
		c.handleSettingsUpdate(msg)
	case *ListeningStartMessage:
		c.handleListeningStart(msg)
	}
}

func (c *Client) handleSettingsUpdate(msg *SettingsUpdateMessage) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if err := c.session.SetLanguages(msg.TargetLanguage, msg.MotherTongue); err != nil {
		c.sendError("invalid_settings", err.Error())
		return
	}

	// The system prompt changed; rebuild the chat session lazily.
	c.chatSession = nil

	c.logger.Info("Session languages updated",
		zap.String("sessionID", c.sessionID),
		zap.String("target", msg.TargetLanguage),
		zap.String("mother", msg.MotherTongue))

	c.sendJSON(&SettingsSyncMessage{
		BaseMessage:     BaseMessage{Type: MessageTypeSettingsUpdated, Timestamp: now()},
		TargetLanguage:  c.session.TargetLanguage,
		MotherTongue:    c.session.MotherTongue,
		TargetDeepLCode: c.session.Target().DeepLCode,
		MotherDeepLCode: c.session.Mother().DeepLCode,
	})
	c.sendJSON(NewWelcomeMessage(c.session))
}

func (c *Client) handleListeningStart(msg *ListeningStartMessage) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.audioBuffer.Reset()
	c.listening = true
	if msg.SampleRate > 0 {
		c.sampleRate = msg.SampleRate
	}

	c.logger.Debug("Listening started",
		zap.String("sessionID", c.sessionID),
		zap.Int("sampleRate", c.sampleRate))
}

// processAudioChunk buffers binary PCM data while a recording is open.
func (c *Client) processAudioChunk(data []byte) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if !c.listening {
		c.logger.Warn("Received audio chunk outside a recording",
			zap.String("sessionID", c.sessionID))
		return
	}

	c.audioBuffer.Write(data)
}

func (c *Client) handleListeningEnd() {
	c.mutex.Lock()
	if !c.listening {
		c.mutex.Unlock()
		return
	}
	c.listening = false
	pcm := make([]byte, c.audioBuffer.Len())
	copy(pcm, c.audioBuffer.Bytes())
	c.audioBuffer.Reset()
	sampleRate := c.sampleRate
	c.mutex.Unlock()

	if len(pcm) == 0 {
		return
	}

	go c.respondToAudio(pcm, sampleRate)
}

func (c *Client) respondToAudio(pcm []byte, sampleRate int) {
	ctx, cancel := context.WithTimeout(context.Background(), replyTimeout)
	defer cancel()

	c.mutex.Lock()
	target := c.session.Target()
	c.mutex.Unlock()

	transcription, err := c.hub.conversation.Transcribe(ctx, target, pcm, sampleRate)
	if err != nil {
		c.logger.Error("Failed to transcribe audio",
			zap.String("sessionID", c.sessionID),
			zap.Error(err))
		c.sendError("transcription_failed", "Sorry, I couldn't process your audio. Please try again.")
		return
	}

	c.sendJSON(NewTranscriptionMessage(transcription))
	c.respond(transcription)
}

// respond runs one full tutor turn: LLM reply, then streamed TTS audio
// bracketed by speaking_start/speaking_end frames. The session lock is
// held only while touching session state, never across a provider call,
// so settings updates and audio chunks keep flowing during a reply.
func (c *Client) respond(userText string) {
	ctx, cancel := context.WithTimeout(context.Background(), replyTimeout)
	defer cancel()

	c.mutex.Lock()
	if c.chatSession == nil {
		chatSession, err := c.hub.conversation.StartChat(ctx, c.session)
		if err != nil {
			c.mutex.Unlock()
			c.logger.Error("Failed to create chat session",
				zap.String("sessionID", c.sessionID),
				zap.Error(err))
			c.sendError("chat_failed", "Failed to start the conversation. Please try again.")
			return
		}
		c.chatSession = chatSession
	}
	chat := c.chatSession
	c.hub.conversation.RecordPrompt(c.session, userText)
	target := c.session.Target()
	c.mutex.Unlock()

	reply, err := c.hub.conversation.Ask(ctx, chat, userText)
	if err != nil {
		c.logger.Error("Failed to generate tutor reply",
			zap.String("sessionID", c.sessionID),
			zap.Error(err))
		c.sendError("chat_failed", "Failed to generate a reply. Please try again.")
		return
	}

	c.mutex.Lock()
	c.hub.conversation.RecordReply(c.session, reply)
	c.mutex.Unlock()

	c.sendJSON(NewSpeakingStartMessage(reply.Content, target.TutorName))

	audioChan, err := c.hub.conversation.Speak(ctx, target, reply.Content)
	if err != nil {
		// Text reply was already delivered; close the turn without audio.
		c.logger.Error("Failed to synthesize tutor reply",
			zap.String("sessionID", c.sessionID),
			zap.Error(err))
		c.sendJSON(NewSpeakingEndMessage())
		return
	}

	for audioData := range audioChan {
		select {
		case c.send <- WriteData{Type: websocket.BinaryMessage, Payload: audioData}:
		case <-c.done:
			return
		case <-ctx.Done():
			c.sendJSON(NewSpeakingEndMessage())
			return
		}
	}

	c.sendJSON(NewSpeakingEndMessage())
}
