package http

import (
	"net/http"

	"gastos/internal/core"
	"gastos/internal/dto"
	"gastos/internal/log"
	"gastos/internal/services"
)

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	category, ok := decodeCategory(w, r)
	if !ok {
		return
	}
	FromResult(s.deps.Categories.Create(r.Context(), category), http.StatusCreated, dto.FromCategory).Write(w)
}

func (s *Server) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := PathID(r)
	if !ok {
		BadRequest(MsgInvalidID).Write(w)
		return
	}
	category, ok := decodeCategory(w, r)
	if !ok {
		return
	}
	FromResult(s.deps.Categories.Update(r.Context(), id, category), http.StatusOK, dto.FromCategory).Write(w)
}

func (s *Server) handleGetCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := PathID(r)
	if !ok {
		BadRequest(MsgInvalidID).Write(w)
		return
	}
	FromResult(s.deps.Categories.GetByID(r.Context(), id), http.StatusOK, dto.FromCategory).Write(w)
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := PathID(r)
	if !ok {
		BadRequest(MsgInvalidID).Write(w)
		return
	}
	FromResult(s.deps.Categories.Delete(r.Context(), id), http.StatusOK, identity[bool]).Write(w)
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	params := ParseListParams(query)
	q, errs := ParseCategoryQuery(query)
	if len(errs) > 0 {
		BadRequest(errs...).Write(w)
		return
	}

	if params.Unpaginated() {
		res := s.deps.Categories.List(r.Context(), q)
		FromResult(res, http.StatusOK, func(cs []core.Category) []dto.CategoryResponse {
			return dto.List(cs, dto.FromCategory)
		}).Write(w)
		return
	}

	res := s.deps.Categories.ListPaged(r.Context(), params.Skip, params.Take, q)
	FromResult(res, http.StatusOK, func(p services.Page[services.CategoryTotals]) dto.PagedResult[dto.CategoryTotals] {
		return dto.Paged(p, dto.FromCategoryTotals)
	}).Write(w)
}

func (s *Server) handleCategoriesTotals(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	params := ParseListParams(query)
	q, errs := ParseCategoryQuery(query)
	if len(errs) > 0 {
		BadRequest(errs...).Write(w)
		return
	}
	res := s.deps.Categories.ListWithTotals(r.Context(), params.Skip, params.Take, q)
	FromResult(res, http.StatusOK, dto.FromCategoriesTotals).Write(w)
}

func decodeCategory(w http.ResponseWriter, r *http.Request) (core.Category, bool) {
	var req dto.CategoryRequest
	if err := DecodeJSON(w, r, &req); err != nil {
		log.FromContext(r.Context()).DebugContext(r.Context(), "Invalid category body", log.FieldError, err.Error())
		BadRequest(MsgInvalidBody).Write(w)
		return core.Category{}, false
	}
	category, errs := req.ToDomain()
	if len(errs) > 0 {
		BadRequest(errs...).Write(w)
		return core.Category{}, false
	}
	return category, true
}
