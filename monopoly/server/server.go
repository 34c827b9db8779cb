package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Kgreeven-max/monopoly/monopoly/database/models"
	"github.com/Kgreeven-max/monopoly/monopoly/database/repositories"
	"github.com/Kgreeven-max/monopoly/monopoly/economy/auction"
	"github.com/Kgreeven-max/monopoly/monopoly/economy/ledger"
	"github.com/gorilla/mux"
)

// Server exposes the auction engine and the surrounding game records over
// HTTP, plus the websocket push channel.
type Server struct {
	router      *mux.Router
	hub         *Hub
	auctions    *auction.Manager
	players     repositories.PlayerRepository
	properties  repositories.PropertyRepository
	settlements repositories.SettlementRepository
	fund        ledger.CommunityFund
}

func New(auctions *auction.Manager, hub *Hub, players repositories.PlayerRepository, properties repositories.PropertyRepository, settlements repositories.SettlementRepository, fund ledger.CommunityFund) *Server {
	s := &Server{
		router:      mux.NewRouter(),
		hub:         hub,
		auctions:    auctions,
		players:     players,
		properties:  properties,
		settlements: settlements,
		fund:        fund,
	}
	s.routes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() {
	s.router.Use(withCORS, withLogging)

	s.router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	s.router.HandleFunc("/ws", s.hub.HandleWS)

	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/auctions", s.handleStartAuction).Methods(http.MethodPost)
	api.HandleFunc("/auctions", s.handleListAuctions).Methods(http.MethodGet)
	api.HandleFunc("/auctions/{id}", s.handleGetAuction).Methods(http.MethodGet)
	api.HandleFunc("/auctions/{id}/bid", s.handlePlaceBid).Methods(http.MethodPost)
	api.HandleFunc("/auctions/{id}/pass", s.handlePassBid).Methods(http.MethodPost)
	api.HandleFunc("/auctions/{id}/cancel", s.handleCancelAuction).Methods(http.MethodPost)

	api.HandleFunc("/players", s.handleCreatePlayer).Methods(http.MethodPost)
	api.HandleFunc("/players/{id}", s.handleGetPlayer).Methods(http.MethodGet)
	api.HandleFunc("/players/{id}/credit", s.handleCreditPlayer).Methods(http.MethodPost)
	api.HandleFunc("/properties", s.handleCreateProperty).Methods(http.MethodPost)
	api.HandleFunc("/properties", s.handleListProperties).Methods(http.MethodGet)
	api.HandleFunc("/properties/{id}/lien", s.handleSetLien).Methods(http.MethodPost)
	api.HandleFunc("/settlements", s.handleListSettlements).Methods(http.MethodGet)
	api.HandleFunc("/settlements/{auction_id}", s.handleGetSettlement).Methods(http.MethodGet)
	api.HandleFunc("/fund", s.handleGetFund).Methods(http.MethodGet)
	api.HandleFunc("/fund", s.handleAddToFund).Methods(http.MethodPost)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type startAuctionRequest struct {
	PropertyID      string   `json:"property_id"`
	Kind            string   `json:"kind"`
	MinimumBid      int64    `json:"minimum_bid,omitempty"`
	EligibleBidders []string `json:"eligible_bidders,omitempty"`
}

func (s *Server) handleStartAuction(w http.ResponseWriter, r *http.Request) {
	var req startAuctionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.PropertyID == "" {
		writeError(w, http.StatusBadRequest, "property_id is required")
		return
	}

	kind := auction.Kind(req.Kind)
	if kind != auction.KindStandard && kind != auction.KindForeclosure {
		writeError(w, http.StatusBadRequest, "kind must be standard or foreclosure")
		return
	}

	bidders := req.EligibleBidders
	if len(bidders) == 0 {
		players, err := s.players.GetInGame(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		for _, player := range players {
			bidders = append(bidders, player.ID)
		}
	}

	snap, err := s.auctions.StartAuction(r.Context(), req.PropertyID, kind, bidders, req.MinimumBid)
	if err != nil {
		writeAuctionError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, snap)
}

func (s *Server) handleListAuctions(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.auctions.ListActive())
}

func (s *Server) handleGetAuction(w http.ResponseWriter, r *http.Request) {
	snap, err := s.auctions.GetAuction(mux.Vars(r)["id"])
	if err != nil {
		writeAuctionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

type bidRequest struct {
	PlayerID string `json:"player_id"`
	Amount   int64  `json:"amount"`
}

func (s *Server) handlePlaceBid(w http.ResponseWriter, r *http.Request) {
	var req bidRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	err := s.auctions.PlaceBid(r.Context(), mux.Vars(r)["id"], req.PlayerID, req.Amount)
	if err != nil {
		writeAuctionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"result": "accepted"})
}

type passRequest struct {
	PlayerID string `json:"player_id"`
}

func (s *Server) handlePassBid(w http.ResponseWriter, r *http.Request) {
	var req passRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	err := s.auctions.PassBid(r.Context(), mux.Vars(r)["id"], req.PlayerID)
	if err != nil {
		writeAuctionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"result": "accepted"})
}

type cancelRequest struct {
	Actor string `json:"actor"`
}

func (s *Server) handleCancelAuction(w http.ResponseWriter, r *http.Request) {
	var req cancelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	err := s.auctions.CancelAuction(r.Context(), mux.Vars(r)["id"], req.Actor)
	if err != nil {
		writeAuctionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"result": "cancelled"})
}

type createPlayerRequest struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Balance int64  `json:"balance"`
}

func (s *Server) handleCreatePlayer(w http.ResponseWriter, r *http.Request) {
	var req createPlayerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.ID == "" || req.Name == "" {
		writeError(w, http.StatusBadRequest, "id and name are required")
		return
	}

	player := &models.Player{ID: req.ID, Name: req.Name, Balance: req.Balance, InGame: true}
	if err := s.players.Create(r.Context(), player); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, player)
}

func (s *Server) handleGetPlayer(w http.ResponseWriter, r *http.Request) {
	player, err := s.players.GetByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, player)
}

type creditRequest struct {
	Amount int64 `json:"amount"`
}

// handleCreditPlayer adjusts a player's balance outside an auction, for
// game events like passing Go or collecting rent. Negative amounts debit.
func (s *Server) handleCreditPlayer(w http.ResponseWriter, r *http.Request) {
	var req creditRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Amount == 0 {
		writeError(w, http.StatusBadRequest, "amount must be non-zero")
		return
	}

	if err := s.players.Credit(r.Context(), mux.Vars(r)["id"], req.Amount); err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"result": "credited"})
}

type createPropertyRequest struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	ListPrice int64  `json:"list_price"`
	OwnerID   string `json:"owner_id,omitempty"`
	Lien      int64  `json:"lien,omitempty"`
}

func (s *Server) handleCreateProperty(w http.ResponseWriter, r *http.Request) {
	var req createPropertyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.ID == "" || req.Name == "" || req.ListPrice <= 0 {
		writeError(w, http.StatusBadRequest, "id, name and a positive list_price are required")
		return
	}

	property := &models.Property{
		ID:        req.ID,
		Name:      req.Name,
		ListPrice: req.ListPrice,
		OwnerID:   req.OwnerID,
		Lien:      req.Lien,
	}
	if err := s.properties.Create(r.Context(), property); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, property)
}

func (s *Server) handleListProperties(w http.ResponseWriter, r *http.Request) {
	properties, err := s.properties.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, properties)
}

type lienRequest struct {
	Lien int64 `json:"lien"`
}

// handleSetLien records a mortgage against a property, the precondition for
// a foreclosure auction.
func (s *Server) handleSetLien(w http.ResponseWriter, r *http.Request) {
	var req lienRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Lien < 0 {
		writeError(w, http.StatusBadRequest, "lien must not be negative")
		return
	}

	if err := s.properties.SetLien(r.Context(), mux.Vars(r)["id"], req.Lien); err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"result": "updated"})
}

func (s *Server) handleListSettlements(w http.ResponseWriter, r *http.Request) {
	records, err := s.settlements.ListRecent(r.Context(), 50)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (s *Server) handleGetSettlement(w http.ResponseWriter, r *http.Request) {
	record, err := s.settlements.GetByAuctionID(r.Context(), mux.Vars(r)["auction_id"])
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (s *Server) handleGetFund(w http.ResponseWriter, r *http.Request) {
	balance, err := s.fund.Balance(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"balance": balance})
}

type fundContributionRequest struct {
	Amount int64  `json:"amount"`
	Reason string `json:"reason"`
}

// handleAddToFund records a contribution from outside the auction flow,
// such as taxes or fines.
func (s *Server) handleAddToFund(w http.ResponseWriter, r *http.Request) {
	var req fundContributionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Amount <= 0 || req.Reason == "" {
		writeError(w, http.StatusBadRequest, "a positive amount and a reason are required")
		return
	}

	if err := s.fund.Add(r.Context(), req.Amount, req.Reason); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"result": "recorded"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeAuctionError maps engine errors onto HTTP statuses: validation
// rejections carry their reason, conflicts and unknown ids map to 409/404.
func writeAuctionError(w http.ResponseWriter, err error) {
	var validationErr *auction.ValidationError
	switch {
	case errors.As(err, &validationErr):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{
			"error":  "rejected",
			"reason": string(validationErr.Reason),
		})
	case errors.Is(err, auction.ErrConflict):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, auction.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
