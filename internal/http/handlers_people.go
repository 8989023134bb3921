package http

import (
	"net/http"

	"gastos/internal/core"
	"gastos/internal/dto"
	"gastos/internal/log"
	"gastos/internal/services"
)

func (s *Server) handleCreatePerson(w http.ResponseWriter, r *http.Request) {
	person, ok := s.decodePerson(w, r)
	if !ok {
		return
	}
	res := s.deps.People.Create(r.Context(), person)
	FromResult(res, http.StatusCreated, s.personResponse).Write(w)
}

func (s *Server) handleUpdatePerson(w http.ResponseWriter, r *http.Request) {
	id, ok := PathID(r)
	if !ok {
		BadRequest(MsgInvalidID).Write(w)
		return
	}
	person, ok := s.decodePerson(w, r)
	if !ok {
		return
	}
	res := s.deps.People.Update(r.Context(), id, person)
	FromResult(res, http.StatusOK, s.personResponse).Write(w)
}

func (s *Server) handleGetPerson(w http.ResponseWriter, r *http.Request) {
	id, ok := PathID(r)
	if !ok {
		BadRequest(MsgInvalidID).Write(w)
		return
	}
	FromResult(s.deps.People.GetByID(r.Context(), id), http.StatusOK, s.personResponse).Write(w)
}

func (s *Server) handleDeletePerson(w http.ResponseWriter, r *http.Request) {
	id, ok := PathID(r)
	if !ok {
		BadRequest(MsgInvalidID).Write(w)
		return
	}
	FromResult(s.deps.People.Delete(r.Context(), id), http.StatusOK, identity[bool]).Write(w)
}

// handleListPeople answers take=0 with every person ordered by name and any
// other take with a page of people carrying their totals.
func (s *Server) handleListPeople(w http.ResponseWriter, r *http.Request) {
	params := ParseListParams(r.URL.Query())
	if params.Unpaginated() {
		res := s.deps.People.List(r.Context(), params.Search)
		FromResult(res, http.StatusOK, func(people []core.Person) []dto.PersonResponse {
			return dto.List(people, s.personResponse)
		}).Write(w)
		return
	}

	res := s.deps.People.ListPaged(r.Context(), params.Skip, params.Take, params.Search)
	FromResult(res, http.StatusOK, func(p services.Page[services.PersonTotals]) dto.PagedResult[dto.PersonTotals] {
		return dto.Paged(p, dto.FromPersonTotals)
	}).Write(w)
}

func (s *Server) handlePeopleTotals(w http.ResponseWriter, r *http.Request) {
	params := ParseListParams(r.URL.Query())
	res := s.deps.People.ListWithTotals(r.Context(), params.Skip, params.Take, params.Search)
	FromResult(res, http.StatusOK, dto.FromPeopleTotals).Write(w)
}

func (s *Server) decodePerson(w http.ResponseWriter, r *http.Request) (core.Person, bool) {
	var req dto.PersonRequest
	if err := DecodeJSON(w, r, &req); err != nil {
		log.FromContext(r.Context()).DebugContext(r.Context(), "Invalid person body", log.FieldError, err.Error())
		BadRequest(MsgInvalidBody).Write(w)
		return core.Person{}, false
	}
	person, errs := req.ToDomain(s.now())
	if len(errs) > 0 {
		BadRequest(errs...).Write(w)
		return core.Person{}, false
	}
	return person, true
}

func (s *Server) personResponse(p core.Person) dto.PersonResponse {
	return dto.FromPerson(p, s.now())
}
