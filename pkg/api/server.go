package api

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"railfeed/pkg/book"
	"railfeed/pkg/feed"
)

// Server exposes the reconstructed book and recent executions for
// inspection over REST and WebSocket. It only ever holds immutable copies
// published from the pipeline consumers; it never reads the live book or
// the aggregator, so it cannot race with state mutation.
type Server struct {
	router *mux.Router
	hub    *Hub
	log    *zap.SugaredLogger

	mu     sync.RWMutex
	book   BookSnapshot
	trades []TradeInfo
}

// NewServer creates an inspection server for one market.
func NewServer(market string, log *zap.SugaredLogger) *Server {
	s := &Server{
		router: mux.NewRouter(),
		hub:    NewHub(log),
		log:    log,
		book:   BookSnapshot{Market: market},
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/book", s.handleGetBook).Methods("GET")
	api.HandleFunc("/trades", s.handleGetTrades).Methods("GET")

	s.router.HandleFunc("/ws", s.handleWebSocket)
	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")
}

// Handler returns the server's HTTP handler with CORS applied.
func (s *Server) Handler() http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	})
	return c.Handler(s.router)
}

// Start starts the WebSocket hub and serves HTTP on addr.
func (s *Server) Start(addr string) error {
	go s.hub.Run()
	s.log.Infow("api_server_listening", "addr", addr)
	return http.ListenAndServe(addr, s.Handler())
}

// ==============================
// REST Handlers
// ==============================

func (s *Server) handleGetBook(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	snap := s.book
	s.mu.RUnlock()
	respondJSON(w, snap)
}

func (s *Server) handleGetTrades(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	trades := s.trades
	s.mu.RUnlock()
	if trades == nil {
		trades = []TradeInfo{}
	}
	respondJSON(w, trades)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, map[string]string{"status": "ok"})
}

// ==============================
// Publish methods (called from the pipeline consumers)
// ==============================

// PublishBook replaces the served book snapshot and broadcasts it to
// WebSocket clients. The level slices are copies owned by the caller.
func (s *Server) PublishBook(bids, offers []book.PriceLevel) {
	snap := BookSnapshot{
		Bids:      toAPILevels(bids),
		Offers:    toAPILevels(offers),
		Timestamp: time.Now().UnixMilli(),
	}

	s.mu.Lock()
	snap.Market = s.book.Market
	s.book = snap
	s.mu.Unlock()

	update := BookUpdate{Type: "book", BookSnapshot: snap}
	message, err := json.Marshal(update)
	if err != nil {
		s.log.Errorw("book_update_marshal_failed", "err", err)
		return
	}
	s.hub.Broadcast(message)
}

// PublishTrades replaces the served recent-execution list.
func (s *Server) PublishTrades(recent []feed.Execution) {
	trades := make([]TradeInfo, len(recent))
	for i, e := range recent {
		trades[i] = TradeInfo{
			MatchID:   e.MatchID.String(),
			Price:     e.Price.String(),
			Quantity:  e.Quantity.String(),
			Side:      e.Side.String(),
			Role:      e.Role.String(),
			UpdatedAt: e.UpdatedAt,
		}
	}

	s.mu.Lock()
	s.trades = trades
	s.mu.Unlock()
}

func toAPILevels(levels []book.PriceLevel) []PriceLevel {
	out := make([]PriceLevel, len(levels))
	for i, l := range levels {
		out[i] = PriceLevel{Price: l.Price.String(), Quantity: l.Quantity.String()}
	}
	return out
}

func respondJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}
