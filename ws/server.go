// Package ws is the socket-facing protocol handler: it upgrades connections,
// decodes inbound envelopes, and drives the session service. Each connection
// is a small state machine, unbound until a successful join and unbound again
// on leave or disconnect.
package ws

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/Harshmalhotra78898/LiveInteract/domain"
	"github.com/Harshmalhotra78898/LiveInteract/domain/event"
	"github.com/Harshmalhotra78898/LiveInteract/errors"
	"github.com/Harshmalhotra78898/LiveInteract/services"
)

const (
	writeWait  = 5 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 54 * time.Second
)

type Server struct {
	log          *slog.Logger
	service      services.ISessionService
	upgrader     websocket.Upgrader
	validate     *validator.Validate
	sinkBuffer   int
	maxFrameSize int64
}

// NewServer builds the websocket endpoint. maxFrameSize bounds a single
// inbound frame and therefore the largest accepted image payload.
func NewServer(log *slog.Logger, service services.ISessionService, sinkBuffer int, maxFrameSize int64) *Server {
	return &Server{
		log:     log,
		service: service,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		validate:     validator.New(),
		sinkBuffer:   sinkBuffer,
		maxFrameSize: maxFrameSize,
	}
}

// connection is the per-socket state machine. pin is empty while unbound.
// Only the read loop mutates it, so no lock is needed.
type connection struct {
	id   string
	pin  string
	ws   *websocket.Conn
	sink *Sink
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	wsConn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", "error", err)
		return
	}

	conn := &connection{
		id:   uuid.NewString(),
		ws:   wsConn,
		sink: NewSink(s.sinkBuffer),
	}
	s.log.Info("connection opened", "participant", conn.id, "remote", r.RemoteAddr)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	go s.writePump(ctx, conn)
	s.readLoop(ctx, conn)

	// The read loop only returns once the transport is gone. Disconnect and
	// explicit leave share the same idempotent path, so a client that left
	// before closing is not counted twice.
	if conn.pin != "" {
		s.service.Leave(context.Background(), conn.pin, conn.id)
		conn.pin = ""
	}
	wsConn.Close()
	s.log.Info("connection closed", "participant", conn.id)
}

func (s *Server) readLoop(ctx context.Context, conn *connection) {
	conn.ws.SetReadLimit(s.maxFrameSize)
	_ = conn.ws.SetReadDeadline(time.Now().Add(pongWait))
	conn.ws.SetPongHandler(func(string) error {
		return conn.ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var env Envelope
		if err := conn.ws.ReadJSON(&env); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.Warn("connection read error", "participant", conn.id, "error", err)
			}
			return
		}
		s.dispatch(ctx, conn, env)
	}
}

func (s *Server) dispatch(ctx context.Context, conn *connection, env Envelope) {
	switch env.Event {
	case evJoinSession:
		s.handleJoin(ctx, conn, env.Data)
	case evSendMessage:
		s.handleText(ctx, conn, env.Data)
	case evSendImage:
		s.handleImage(ctx, conn, env.Data)
	case evLeaveSession:
		s.handleLeave(ctx, conn)
	default:
		s.log.Debug(errors.ErrUnknownEvent.Error(), "participant", conn.id, "event", env.Event)
	}
}

func (s *Server) handleJoin(ctx context.Context, conn *connection, data json.RawMessage) {
	var payload JoinPayload
	if !s.decode(ctx, conn, data, &payload, "a 6-digit PIN is required") {
		return
	}
	if conn.pin != "" {
		// A binding whose session already expired underneath us is stale;
		// clear it so the connection can join again without an explicit leave.
		if s.service.IsMember(conn.pin, conn.id) {
			s.sendError(ctx, conn, "already in a session, leave it first")
			return
		}
		conn.pin = ""
	}

	// Join only binds on success; a Full rejection already went to the sink.
	if s.service.Join(ctx, payload.PIN, conn.id, conn.sink) {
		conn.pin = payload.PIN
	}
}

func (s *Server) handleText(ctx context.Context, conn *connection, data json.RawMessage) {
	if conn.pin == "" {
		return
	}
	var payload TextPayload
	if !s.decode(ctx, conn, data, &payload, "message content is required") {
		return
	}
	s.service.Post(ctx, conn.pin, conn.id, domain.KindText, payload.Content)
}

func (s *Server) handleImage(ctx context.Context, conn *connection, data json.RawMessage) {
	if conn.pin == "" {
		return
	}
	var payload ImagePayload
	if !s.decode(ctx, conn, data, &payload, "imageData must be a data URI") {
		return
	}
	if err := checkImage(payload.ImageData); err != nil {
		s.sendError(ctx, conn, err.Error())
		return
	}
	s.service.Post(ctx, conn.pin, conn.id, domain.KindImage, payload.ImageData)
}

func (s *Server) handleLeave(ctx context.Context, conn *connection) {
	if conn.pin == "" {
		return
	}
	s.service.Leave(ctx, conn.pin, conn.id)
	conn.pin = ""
}

// decode unmarshals and validates an inbound payload, surfacing a single
// error event to the requester when it is malformed.
func (s *Server) decode(ctx context.Context, conn *connection, data json.RawMessage, payload any, reason string) bool {
	if err := json.Unmarshal(data, payload); err != nil {
		s.sendError(ctx, conn, reason)
		return false
	}
	if err := s.validate.Struct(payload); err != nil {
		s.sendError(ctx, conn, reason)
		return false
	}
	return true
}

func (s *Server) sendError(ctx context.Context, conn *connection, message string) {
	_ = conn.sink.Consume(ctx, event.SessionError{Code: conn.pin, Message: message})
}

func (s *Server) writePump(ctx context.Context, conn *connection) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case e := <-conn.sink.Events():
			env, err := encode(e)
			if err != nil {
				s.log.Error("event encoding failed", "participant", conn.id, "error", err)
				continue
			}
			_ = conn.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.ws.WriteJSON(env); err != nil {
				s.log.Warn("write failed", "participant", conn.id, "error", err)
				return
			}
		case <-ticker.C:
			_ = conn.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// checkImage verifies the payload is a base64 data URI whose decoded bytes
// sniff as an image. The original data URI string is what gets relayed.
func checkImage(dataURI string) error {
	_, b64, found := strings.Cut(dataURI, ",")
	if !found {
		return errors.ErrInvalidDataURI
	}
	raw, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return errors.ErrInvalidDataURI
	}
	if !strings.HasPrefix(mimetype.Detect(raw).String(), "image/") {
		return errors.ErrNotAnImage
	}
	return nil
}
