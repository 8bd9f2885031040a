package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"sealchat/internal/apperror"
	"sealchat/internal/domain"
)

const (
	// maxRequestBody bounds any JSON request body. Message bodies are
	// further limited by Options.MaxMessageBytes.
	maxRequestBody = 1 << 20

	defaultPageSize = 100
	maxPageSize     = 500

	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = wsPongWait * 9 / 10
)

// Server exposes a Relay over HTTP under /api/v1.
type Server struct {
	relay    *Relay
	hub      *Hub
	metrics  *Metrics
	log      *zap.Logger
	upgrader websocket.Upgrader
}

func New(relay *Relay, hub *Hub, metrics *Metrics, log *zap.Logger) *Server {
	return &Server{
		relay:   relay,
		hub:     hub,
		metrics: metrics,
		log:     log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			// Clients are CLIs, not browsers; authentication is the token.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// Handler returns the routed, instrumented handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/v1/users/register", s.handleRegister)
	mux.HandleFunc("POST /api/v1/users/login", s.handleLogin)
	mux.HandleFunc("GET /api/v1/users/search", s.authed(s.handleFindUser))
	mux.HandleFunc("GET /api/v1/users/{id}/keys", s.authed(s.handlePublicKeys))

	mux.HandleFunc("POST /api/v1/chats", s.authed(s.handleOpenChat))
	mux.HandleFunc("GET /api/v1/chats", s.authed(s.handleListChats))
	mux.HandleFunc("GET /api/v1/chats/{id}", s.authed(s.handleChat))
	mux.HandleFunc("POST /api/v1/chats/{id}/messages", s.authed(s.handlePostMessage))
	mux.HandleFunc("GET /api/v1/chats/{id}/messages", s.authed(s.handleMessages))
	mux.HandleFunc("GET /api/v1/chats/{id}/ws", s.authed(s.handleSubscribe))
	mux.HandleFunc("DELETE /api/v1/messages/{id}", s.authed(s.handleDeleteMessage))

	mux.Handle("GET /metrics", s.metrics.Handler())
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	})

	return s.observe(limitBody(mux))
}

func limitBody(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Body != nil {
			r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req domain.RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, s.log, err)
		return
	}
	sess, err := s.relay.Register(r.Context(), req)
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, sess)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, s.log, err)
		return
	}
	sess, err := s.relay.Login(r.Context(), req)
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

func (s *Server) handleFindUser(w http.ResponseWriter, r *http.Request, _ domain.UserID) {
	u, err := s.relay.FindUser(r.Context(), r.URL.Query().Get("email"))
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) handlePublicKeys(w http.ResponseWriter, r *http.Request, _ domain.UserID) {
	keys, err := s.relay.PublicKeys(r.Context(), domain.UserID(r.PathValue("id")))
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, keys)
}

func (s *Server) handleOpenChat(w http.ResponseWriter, r *http.Request, me domain.UserID) {
	var req domain.OpenChatRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, s.log, err)
		return
	}
	c, err := s.relay.OpenChat(r.Context(), me, req.PeerID)
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) handleListChats(w http.ResponseWriter, r *http.Request, me domain.UserID) {
	chats, err := s.relay.ListChats(r.Context(), me)
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, chats)
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request, me domain.UserID) {
	c, err := s.relay.Member(r.Context(), me, domain.ChatID(r.PathValue("id")))
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) handlePostMessage(w http.ResponseWriter, r *http.Request, me domain.UserID) {
	var req domain.SendMessageRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, s.log, err)
		return
	}
	m, err := s.relay.PostMessage(r.Context(), me, domain.ChatID(r.PathValue("id")), req)
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, m)
}

func (s *Server) handleMessages(w http.ResponseWriter, r *http.Request, me domain.UserID) {
	q := r.URL.Query()
	var after int64
	if v := q.Get("after"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n < 0 {
			writeError(w, s.log, apperror.InvalidArg("after must be a non-negative integer"))
			return
		}
		after = n
	}
	limit := defaultPageSize
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, s.log, apperror.InvalidArg("limit must be a positive integer"))
			return
		}
		limit = min(n, maxPageSize)
	}

	msgs, err := s.relay.Messages(r.Context(), me, domain.ChatID(r.PathValue("id")), after, limit)
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, msgs)
}

func (s *Server) handleDeleteMessage(w http.ResponseWriter, r *http.Request, me domain.UserID) {
	if err := s.relay.DeleteMessage(r.Context(), me, domain.MessageID(r.PathValue("id"))); err != nil {
		writeError(w, s.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleSubscribe streams every message posted to the chat after the
// upgrade as a JSON text frame.
func (s *Server) handleSubscribe(w http.ResponseWriter, r *http.Request, me domain.UserID) {
	chat, err := s.relay.Member(r.Context(), me, domain.ChatID(r.PathValue("id")))
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	// Subscribe first so nothing posted after the handshake is missed.
	msgs, cancel := s.hub.Subscribe(chat.ID)
	defer cancel()
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already answered the client.
		s.log.Debug("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	// Reader: only control frames are expected; exit on close or error.
	done := make(chan struct{})
	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(wsPingPeriod)
	defer ping.Stop()
	for {
		select {
		case m, ok := <-msgs:
			if !ok {
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, ""), time.Now().Add(wsWriteWait))
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteJSON(m); err != nil {
				return
			}
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteWait)); err != nil {
				return
			}
		case <-done:
			return
		case <-r.Context().Done():
			return
		}
	}
}
