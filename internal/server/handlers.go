package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/lox/videopoker/internal/game"
	"github.com/lox/videopoker/poker"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, "OK")
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.session.State())
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.session.History())
}

func (s *Server) handleDeal(w http.ResponseWriter, r *http.Request) {
	var req DealRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		s.writeBadRequest(w, "invalid body: "+err.Error())
		return
	}
	bet := req.Bet
	if bet == 0 {
		bet = s.session.State().Bet
	}
	s.act(w, func() error { return s.session.Deal(bet) })
}

func (s *Server) handleHold(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		s.writeBadRequest(w, "hold index must be a number")
		return
	}
	s.act(w, func() error { return s.session.ToggleHold(index) })
}

func (s *Server) handleDraw(w http.ResponseWriter, r *http.Request) {
	s.act(w, s.session.Draw)
}

func (s *Server) handleBet(w http.ResponseWriter, r *http.Request) {
	dir, err := game.ParseBetDirection(chi.URLParam(r, "direction"))
	if err != nil {
		s.writeBadRequest(w, err.Error())
		return
	}
	s.act(w, func() error {
		_, err := s.session.AdjustBet(dir)
		return err
	})
}

func (s *Server) handleGamble(w http.ResponseWriter, r *http.Request) {
	s.act(w, s.session.EnterGamble)
}

func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	color, err := poker.ParseColor(chi.URLParam(r, "color"))
	if err != nil {
		s.writeBadRequest(w, err.Error())
		return
	}
	s.notifyInput()
	card, correct, err := s.session.Guess(color)
	if err != nil {
		s.writeEngineError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, GuessResponse{
		Card:    card,
		Correct: correct,
		State:   s.session.State(),
	})
}

func (s *Server) handleCashOut(w http.ResponseWriter, r *http.Request) {
	s.act(w, s.session.CashOut)
}

func (s *Server) handleRestart(w http.ResponseWriter, r *http.Request) {
	s.act(w, s.session.Restart)
}

// act runs a player action and answers with the resulting state.
func (s *Server) act(w http.ResponseWriter, fn func() error) {
	s.notifyInput()
	if err := fn(); err != nil {
		s.writeEngineError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, s.session.State())
}

func (s *Server) notifyInput() {
	if s.demo != nil {
		s.demo.NotifyInput()
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("Failed to write response", "error", err)
	}
}

func (s *Server) writeEngineError(w http.ResponseWriter, err error) {
	status, code := classify(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("Request failed", "error", err)
	} else {
		s.logger.Debug("Action rejected", "code", code, "error", err)
	}
	s.writeJSON(w, status, ErrorResponse{Error: err.Error(), Code: code})
}

func (s *Server) writeBadRequest(w http.ResponseWriter, message string) {
	s.writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: message, Code: "bad_request"})
}
