package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/gofiber/contrib/websocket"
	"github.com/theleywin/Backend-Skill-Barter/src/models"
)

// LocalUserID is the fiber.Ctx local under which the authenticated user id travels into the socket
const LocalUserID = "userID"

// MessageSender persists a chat message and fans it out.
type MessageSender interface {
	Send(ctx context.Context, senderID, recipientID uint, content string) (*models.Message, error)
}

// SocketHandler serves one WebSocket connection per authenticated user.
type SocketHandler struct {
	Hub    Hub
	Sender MessageSender
	Logger *slog.Logger
	// DescribeError turns a send failure into the text shown to the client.
	// Defaults to err.Error().
	DescribeError func(error) string
}

// userRef accepts a user id encoded either as a JSON number or a JSON string
type userRef uint

func (r *userRef) UnmarshalJSON(b []byte) error {
	raw := strings.Trim(string(b), `"`)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return errors.New("invalid user id")
	}
	*r = userRef(id)
	return nil
}

type sendMessagePayload struct {
	Recipient userRef `json:"recipient"`
	Content   string  `json:"content"`
}

// socketSession is the per-connection state: one socket, zero or one channel subscription
type socketSession struct {
	handler *SocketHandler
	conn    *websocket.Conn
	userID  uint
	logger  *slog.Logger

	writeMu sync.Mutex
	sub     *Subscription
	pumps   sync.WaitGroup
}

// Handle is the websocket.New callback
func (h *SocketHandler) Handle(conn *websocket.Conn) {
	logger := h.Logger
	if logger == nil {
		logger = slog.Default()
	}

	userID, ok := conn.Locals(LocalUserID).(uint)
	if !ok || userID == 0 {
		_ = conn.WriteJSON(errorEnvelope("unauthenticated"))
		_ = conn.Close()
		return
	}

	session := &socketSession{
		handler: h,
		conn:    conn,
		userID:  userID,
		logger:  logger.With("user", userID),
	}
	session.logger.Info("socket connected")

	ctx, cancel := context.WithCancel(context.Background())
	defer func() {
		cancel()
		if session.sub != nil {
			session.sub.Close()
		}
		session.pumps.Wait()
		session.logger.Info("socket disconnected")
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var env Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			session.write(errorEnvelope("malformed frame"))
			continue
		}

		switch env.Event {
		case EventJoinRoom:
			session.join(ctx, env.Data)
		case EventSendMessage:
			session.send(ctx, env.Data)
		default:
			session.write(errorEnvelope("unknown event " + env.Event))
		}
	}
}

// join subscribes the socket to its own user channel. A socket may only join the
// channel of the user its token was issued for.
func (s *socketSession) join(ctx context.Context, data json.RawMessage) {
	var room userRef
	if err := json.Unmarshal(data, &room); err != nil {
		s.write(errorEnvelope("invalid room"))
		return
	}
	if uint(room) != s.userID {
		s.write(errorEnvelope("cannot join another user's room"))
		return
	}
	if s.sub != nil {
		return
	}

	sub, err := s.handler.Hub.Subscribe(ctx, s.userID)
	if err != nil {
		s.logger.Error("subscribe failed", "error", err)
		s.write(errorEnvelope("could not join room"))
		return
	}
	s.sub = sub

	s.pumps.Add(1)
	go func() {
		defer s.pumps.Done()
		for env := range sub.C {
			s.write(env)
		}
	}()

	if joined, err := NewEnvelope(EventJoined, s.userID); err == nil {
		s.write(joined)
	}
}

// send persists the message through the MessageSender. The sender is always the
// socket's user; the fan-out to both channels happens in the sender.
func (s *socketSession) send(ctx context.Context, data json.RawMessage) {
	var payload sendMessagePayload
	if err := json.Unmarshal(data, &payload); err != nil {
		s.write(errorEnvelope("invalid message payload"))
		return
	}

	if _, err := s.handler.Sender.Send(ctx, s.userID, uint(payload.Recipient), payload.Content); err != nil {
		s.logger.Warn("send_message failed", "recipient", uint(payload.Recipient), "error", err)
		describe := s.handler.DescribeError
		if describe == nil {
			describe = func(err error) string { return err.Error() }
		}
		s.write(errorEnvelope(describe(err)))
	}
}

func (s *socketSession) write(env Envelope) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if err := s.conn.WriteJSON(env); err != nil {
		s.logger.Debug("socket write failed", "event", env.Event, "error", err)
	}
}

func errorEnvelope(message string) Envelope {
	env, _ := NewEnvelope(EventError, map[string]string{"message": message})
	return env
}
