package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"gastos/internal/core"
	"gastos/internal/services"
)

func TestJSONResponseBuilder(t *testing.T) {
	rec := httptest.NewRecorder()
	NewJSONResponse().
		Status(http.StatusCreated).
		Header("X-Custom", "value").
		Data(map[string]int{"id": 3}).
		Write(rec)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "value", rec.Header().Get("X-Custom"))
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"success":true,"errors":[],"data":{"id":3}}`, rec.Body.String())
}

func TestFailResponse(t *testing.T) {
	rec := httptest.NewRecorder()
	BadRequest("Nome é obrigatório.").Write(rec)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"success":false,"errors":["Nome é obrigatório."],"data":null}`, rec.Body.String())
}

func TestStatusForKind(t *testing.T) {
	assert.Equal(t, http.StatusOK, StatusForKind(core.KindNone))
	assert.Equal(t, http.StatusNotFound, StatusForKind(core.KindNotFound))
	assert.Equal(t, http.StatusBadRequest, StatusForKind(core.KindValidation))
	assert.Equal(t, http.StatusBadRequest, StatusForKind(core.KindUnexpected))
}

func TestFromResult(t *testing.T) {
	rec := httptest.NewRecorder()
	FromResult(services.Ok(2), http.StatusCreated, func(n int) int { return n * 10 }).Write(rec)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"success":true,"errors":[],"data":20}`, rec.Body.String())

	rec = httptest.NewRecorder()
	FromResult(services.Fail[int](core.KindNotFound, services.MsgCategoryNotFound), http.StatusOK, identity[int]).Write(rec)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"success":false,"errors":["Categoria não encontrada"],"data":null}`, rec.Body.String())
}
