package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/artiako/landak-server/internal/board"
	"github.com/artiako/landak-server/internal/config"
	"github.com/artiako/landak-server/internal/game"
	"github.com/artiako/landak-server/internal/repository"
	"github.com/artiako/landak-server/internal/session"
)

// Envelope is the wire frame in both directions. Clients send an action
// (or control) type plus its payload; the server answers with STATE
// frames after each dispatch and ERROR frames on failures.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Control frame types, on top of the action names the engine decodes.
const (
	frameState     = "STATE"
	frameError     = "ERROR"
	frameSlots     = "SLOTS"
	ctrlUndo       = "UNDO"
	ctrlSaveGame   = "SAVE_GAME"
	ctrlLoadGame   = "LOAD_GAME"
	ctrlListSaves  = "LIST_SAVES"
	ctrlSaveReplay = "SAVE_REPLAY"
)

type slotPayload struct {
	Slot string `json:"slot"`
}

// Server is the websocket front of the game: it owns the session
// manager, the save-slot repository and the replay recorder, and serves
// one hub per session.
type Server struct {
	cfg      *config.Config
	logger   *zap.Logger
	board    *board.Board
	sessions *session.Manager
	games    *repository.GameRepository
	recorder *game.ReplayRecorder

	upgrader websocket.Upgrader
	httpSrv  *http.Server

	mu   sync.Mutex
	hubs map[string]*Hub
}

// New wires the server together.
func New(cfg *config.Config, logger *zap.Logger, b *board.Board, sessions *session.Manager, games *repository.GameRepository, recorder *game.ReplayRecorder) *Server {
	return &Server{
		cfg:      cfg,
		logger:   logger,
		board:    b,
		sessions: sessions,
		games:    games,
		recorder: recorder,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		hubs: make(map[string]*Hub),
	}
}

// Routes returns the HTTP handler for the server.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/ws", s.handleWS)
	return mux
}

// ListenAndServe blocks serving until Shutdown is called.
func (s *Server) ListenAndServe() error {
	s.httpSrv = &http.Server{
		Addr:              s.cfg.Server.Address,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	s.logger.Info("server listening", zap.String("address", s.cfg.Server.Address))
	err := s.httpSrv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown drains the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpSrv == nil {
		return nil
	}
	return s.httpSrv.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

// handleWS attaches a client to a session. With ?session=<id> it joins
// an existing game; without it a new session is created.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	sessID := r.URL.Query().Get("session")

	var sess *session.Session
	if sessID != "" {
		var ok bool
		sess, ok = s.sessions.Get(sessID)
		if !ok {
			http.Error(w, "session not found", http.StatusNotFound)
			return
		}
	} else {
		seed := s.cfg.Game.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		engine := game.NewEngine(s.board, s.logger, game.Tuning{
			Seed:            seed,
			StartingCash:    s.cfg.Game.StartingCash,
			GovernmentTerm:  s.cfg.Game.GovernmentTerm,
			AuctionOpenSecs: s.cfg.Game.AuctionOpenSecs,
			AuctionBidSecs:  s.cfg.Game.AuctionBidSecs,
		})
		sess = s.sessions.Create(engine, s.cfg.Game.HistoryDepth, s.cfg.Game.BotThinkDelay)
		if s.cfg.Replay.Enabled {
			s.recorder.StartRecording(sess.ID, seed)
		}
	}

	hub := s.hubFor(sess)

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	client := newClient(hub, conn, s.logger, func(msg []byte) {
		s.handleEnvelope(sess, hub, msg)
	})
	hub.Register(client)

	go client.writePump()
	go client.readPump()

	// greet the new client with the session id and current state
	client.send <- mustMarshal(Envelope{Type: "SESSION", Payload: mustRaw(map[string]string{"sessionId": sess.ID})})
	client.send <- stateFrame(sess.Snapshot())
}

// hubFor returns (or creates) the hub for a session, subscribing it to
// the session's snapshot stream on first use.
func (s *Server) hubFor(sess *session.Session) *Hub {
	s.mu.Lock()
	defer s.mu.Unlock()
	if hub, ok := s.hubs[sess.ID]; ok {
		return hub
	}
	hub := NewHub(s.logger)
	s.hubs[sess.ID] = hub
	sess.Subscribe(func(st *game.State) {
		hub.Broadcast(stateFrame(st))
	})
	return hub
}

// handleEnvelope processes one client frame: control frames directly,
// everything else through the action decoder and the session.
func (s *Server) handleEnvelope(sess *session.Session, hub *Hub, msg []byte) {
	var env Envelope
	if err := json.Unmarshal(msg, &env); err != nil {
		hub.Broadcast(errorFrame("malformed envelope"))
		return
	}

	switch env.Type {
	case ctrlUndo:
		sess.Undo()
		return
	case ctrlSaveGame:
		s.handleSave(sess, hub, env.Payload)
		return
	case ctrlLoadGame:
		s.handleLoad(sess, hub, env.Payload)
		return
	case ctrlListSaves:
		s.handleListSaves(hub)
		return
	case ctrlSaveReplay:
		if err := s.recorder.SaveReplay(sess.ID); err != nil {
			hub.Broadcast(errorFrame(err.Error()))
		}
		return
	}

	action, err := game.DecodeAction(env.Type, env.Payload)
	if err != nil {
		s.logger.Warn("rejected action", zap.String("type", env.Type), zap.Error(err))
		hub.Broadcast(errorFrame(err.Error()))
		return
	}

	result := sess.Dispatch(action)
	if s.recorder.IsRecording(sess.ID) {
		s.recorder.Record(sess.ID, action, result)
	}
}

func (s *Server) handleSave(sess *session.Session, hub *Hub, payload json.RawMessage) {
	var p slotPayload
	if err := json.Unmarshal(payload, &p); err != nil || p.Slot == "" {
		hub.Broadcast(errorFrame("save requires a slot name"))
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.Database.Timeout)
	defer cancel()
	if err := s.games.Save(ctx, p.Slot, sess.Snapshot()); err != nil {
		hub.Broadcast(errorFrame(err.Error()))
	}
}

func (s *Server) handleLoad(sess *session.Session, hub *Hub, payload json.RawMessage) {
	var p slotPayload
	if err := json.Unmarshal(payload, &p); err != nil || p.Slot == "" {
		hub.Broadcast(errorFrame("load requires a slot name"))
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.Database.Timeout)
	defer cancel()
	st, err := s.games.Load(ctx, p.Slot)
	if err != nil {
		hub.Broadcast(errorFrame(err.Error()))
		return
	}
	sess.Restore(st)
}

func (s *Server) handleListSaves(hub *Hub) {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.Database.Timeout)
	defer cancel()
	slots, err := s.games.List(ctx)
	if err != nil {
		hub.Broadcast(errorFrame(err.Error()))
		return
	}
	hub.Broadcast(mustMarshal(Envelope{Type: frameSlots, Payload: mustRaw(slots)}))
}

func stateFrame(st *game.State) []byte {
	return mustMarshal(Envelope{Type: frameState, Payload: mustRaw(st)})
}

func errorFrame(msg string) []byte {
	return mustMarshal(Envelope{Type: frameError, Payload: mustRaw(map[string]string{"error": msg})})
}

func mustRaw(v interface{}) json.RawMessage {
	data, err := json.Marshal(v)
	if err != nil {
		return json.RawMessage(`{}`)
	}
	return data
}

func mustMarshal(env Envelope) []byte {
	data, err := json.Marshal(env)
	if err != nil {
		return []byte(`{"type":"ERROR"}`)
	}
	return data
}
