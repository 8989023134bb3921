package http

import (
	"net/http"

	"gastos/internal/core"
	"gastos/internal/dto"
	"gastos/internal/log"
	"gastos/internal/services"
)

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	tx, ok := decodeTransaction(w, r)
	if !ok {
		return
	}
	res := s.deps.Transactions.Create(r.Context(), tx)
	FromResult(res, http.StatusCreated, s.transactionResponse).Write(w)
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	id, ok := PathID(r)
	if !ok {
		BadRequest(MsgInvalidID).Write(w)
		return
	}
	tx, ok := decodeTransaction(w, r)
	if !ok {
		return
	}
	res := s.deps.Transactions.Update(r.Context(), id, tx)
	FromResult(res, http.StatusOK, s.transactionResponse).Write(w)
}

func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	id, ok := PathID(r)
	if !ok {
		BadRequest(MsgInvalidID).Write(w)
		return
	}
	FromResult(s.deps.Transactions.GetByID(r.Context(), id), http.StatusOK, s.transactionResponse).Write(w)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, ok := PathID(r)
	if !ok {
		BadRequest(MsgInvalidID).Write(w)
		return
	}
	FromResult(s.deps.Transactions.Delete(r.Context(), id), http.StatusOK, identity[bool]).Write(w)
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	params := ParseListParams(query)
	f, errs := ParseTransactionFilter(query)
	if len(errs) > 0 {
		BadRequest(errs...).Write(w)
		return
	}
	res := s.deps.Transactions.List(r.Context(), params.Skip, params.Take, f)
	FromResult(res, http.StatusOK, func(p services.Page[services.TransactionDetail]) dto.PagedResult[dto.TransactionResponse] {
		return dto.Paged(p, s.transactionResponse)
	}).Write(w)
}

func (s *Server) handleTransactionTotals(w http.ResponseWriter, r *http.Request) {
	f, errs := ParseTransactionFilter(r.URL.Query())
	if len(errs) > 0 {
		BadRequest(errs...).Write(w)
		return
	}
	FromResult(s.deps.Transactions.Totals(r.Context(), f), http.StatusOK, dto.FromTotals).Write(w)
}

func decodeTransaction(w http.ResponseWriter, r *http.Request) (core.Transaction, bool) {
	var req dto.TransactionRequest
	if err := DecodeJSON(w, r, &req); err != nil {
		log.FromContext(r.Context()).DebugContext(r.Context(), "Invalid transaction body", log.FieldError, err.Error())
		BadRequest(MsgInvalidBody).Write(w)
		return core.Transaction{}, false
	}
	tx, errs := req.ToDomain()
	if len(errs) > 0 {
		BadRequest(errs...).Write(w)
		return core.Transaction{}, false
	}
	return tx, true
}

func (s *Server) transactionResponse(d services.TransactionDetail) dto.TransactionResponse {
	return dto.FromTransaction(d, s.now())
}
