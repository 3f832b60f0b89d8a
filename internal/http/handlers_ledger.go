package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"paytrack/internal/core"
)

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	snap, err := s.deps.Dashboard.Snapshot(r.Context(), s.userID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	txs := snap.Transactions
	if txs == nil {
		txs = []core.Transaction{}
	}
	writeJSON(w, http.StatusOK, txs)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var tx core.Transaction
	if err := decodeJSON(w, r, &tx); err != nil {
		writeError(w, r, err)
		return
	}
	tx.Note = sanitizeInput(tx.Note)
	saved, err := s.deps.Ledger.AddTransaction(r.Context(), s.userID(r), tx)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, saved)
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	var tx core.Transaction
	if err := decodeJSON(w, r, &tx); err != nil {
		writeError(w, r, err)
		return
	}
	tx.ID = chi.URLParam(r, "id")
	tx.Note = sanitizeInput(tx.Note)
	saved, err := s.deps.Ledger.UpdateTransaction(r.Context(), s.userID(r), tx)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.Ledger.DeleteTransaction(r.Context(), s.userID(r), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListRules(w http.ResponseWriter, r *http.Request) {
	snap, err := s.deps.Dashboard.Snapshot(r.Context(), s.userID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	rules := snap.Rules
	if rules == nil {
		rules = []core.RecurringRule{}
	}
	writeJSON(w, http.StatusOK, rules)
}

func (s *Server) handleCreateRule(w http.ResponseWriter, r *http.Request) {
	var rule core.RecurringRule
	if err := decodeJSON(w, r, &rule); err != nil {
		writeError(w, r, err)
		return
	}
	rule.ID = ""
	s.saveRule(w, r, rule, http.StatusCreated)
}

// handleUpdateRule replaces the rule with the path id, creating it when absent.
func (s *Server) handleUpdateRule(w http.ResponseWriter, r *http.Request) {
	var rule core.RecurringRule
	if err := decodeJSON(w, r, &rule); err != nil {
		writeError(w, r, err)
		return
	}
	rule.ID = chi.URLParam(r, "id")
	s.saveRule(w, r, rule, http.StatusOK)
}

func (s *Server) saveRule(w http.ResponseWriter, r *http.Request, rule core.RecurringRule, status int) {
	rule.Name = sanitizeInput(rule.Name)
	saved, err := s.deps.Ledger.SaveRule(r.Context(), s.userID(r), rule)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, status, saved)
}

func (s *Server) handleDeleteRule(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.Ledger.DeleteRule(r.Context(), s.userID(r), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	snap, err := s.deps.Dashboard.Snapshot(r.Context(), s.userID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snap.Settings)
}

func (s *Server) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var next core.Settings
	if err := decodeJSON(w, r, &next); err != nil {
		writeError(w, r, err)
		return
	}
	saved, err := s.deps.Ledger.UpdateSettings(r.Context(), s.userID(r), next)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

func (s *Server) handleGetIncome(w http.ResponseWriter, r *http.Request) {
	snap, err := s.deps.Dashboard.Snapshot(r.Context(), s.userID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	income := snap.Income
	if income == nil {
		income = core.IncomeByPeriod{}
	}
	writeJSON(w, http.StatusOK, income)
}

type incomeRequest struct {
	Amount core.Money `json:"amount"`
}

type incomeResponse struct {
	PeriodStart core.Date  `json:"periodStart"`
	Amount      core.Money `json:"amount"`
}

// handleSetIncome stores an override for the period containing the path
// date; the response carries the canonical period start it was keyed under.
func (s *Server) handleSetIncome(w http.ResponseWriter, r *http.Request) {
	date, err := core.ParseDate(chi.URLParam(r, "start"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req incomeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	start, err := s.deps.Ledger.SetIncome(r.Context(), s.userID(r), date, req.Amount)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, incomeResponse{PeriodStart: start, Amount: req.Amount})
}

type materializeRequest struct {
	Date core.Date `json:"date"`
}

type materializeResponse struct {
	Date      core.Date `json:"date"`
	Skipped   bool      `json:"skipped"`
	Emitted   int       `json:"emitted"`
	Failed    int       `json:"failed"`
	Persisted bool      `json:"persisted"`
}

// handleMaterialize runs the recurring pass for the caller now. The body is
// optional; an empty one means today.
func (s *Server) handleMaterialize(w http.ResponseWriter, r *http.Request) {
	var req materializeRequest
	if err := decodeOptionalJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.Date.IsEmpty() {
		req.Date = s.today()
	}
	sum, err := s.deps.Materializer.ProcessUser(r.Context(), s.userID(r), req.Date)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, materializeResponse{
		Date:      req.Date,
		Skipped:   sum.Skipped,
		Emitted:   sum.Emitted,
		Failed:    sum.Failed,
		Persisted: sum.Persisted,
	})
}
