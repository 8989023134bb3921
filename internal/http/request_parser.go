package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"gastos/internal/core"
	"gastos/internal/services"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// ListParams holds paging and search values from the query string.
type ListParams struct {
	Skip   int
	Take   int
	Search string
}

// Unpaginated reports the take=0 request for a flat list.
func (p ListParams) Unpaginated() bool {
	return p.Take == 0
}

// ParseListParams reads skip, take and searchTerm. Missing or malformed
// paging values fall back to the defaults; the service clamps the rest.
func ParseListParams(query url.Values) ListParams {
	params := ListParams{
		Skip:   core.DefaultSkip,
		Take:   core.DefaultTake,
		Search: sanitizeInput(query.Get("searchTerm")),
	}
	if v, ok := intParam(query, "skip"); ok {
		params.Skip = v
	}
	if v, ok := intParam(query, "take"); ok {
		params.Take = v
	}
	return params
}

func intParam(query url.Values, key string) (int, bool) {
	v := strings.TrimSpace(query.Get(key))
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

// ParseCategoryQuery reads searchTerm and the optional finalidade filter.
func ParseCategoryQuery(query url.Values) (services.CategoryQuery, []string) {
	q := services.CategoryQuery{Search: sanitizeInput(query.Get("searchTerm"))}

	v := strings.TrimSpace(query.Get("finalidade"))
	if v == "" {
		return q, nil
	}
	n, err := strconv.Atoi(v)
	purpose := core.CategoryPurpose(n)
	if err != nil || !purpose.Valid() {
		return q, []string{invalidParam("finalidade")}
	}
	q.Purpose = &purpose
	return q, nil
}

// ParseTransactionFilter reads dataInicio, dataFim, pessoaId, categoriaId
// and tipo. Every malformed value is reported.
func ParseTransactionFilter(query url.Values) (core.TransactionFilter, []string) {
	var (
		f    core.TransactionFilter
		errs []string
	)

	dateParam := func(key string) *core.Date {
		v := strings.TrimSpace(query.Get(key))
		if v == "" {
			return nil
		}
		d, err := core.ParseDate(v)
		if err != nil {
			errs = append(errs, invalidParam(key))
			return nil
		}
		return &d
	}
	idParam := func(key string) *int64 {
		v := strings.TrimSpace(query.Get(key))
		if v == "" {
			return nil
		}
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id <= 0 {
			errs = append(errs, invalidParam(key))
			return nil
		}
		return &id
	}

	f.From = dateParam("dataInicio")
	f.To = dateParam("dataFim")
	f.PersonID = idParam("pessoaId")
	f.CategoryID = idParam("categoriaId")

	if v := strings.TrimSpace(query.Get("tipo")); v != "" {
		n, err := strconv.Atoi(v)
		t := core.TransactionType(n)
		if err != nil || !t.Valid() {
			errs = append(errs, invalidParam("tipo"))
		} else {
			f.Type = &t
		}
	}
	return f, errs
}

func invalidParam(key string) string {
	return fmt.Sprintf("Parâmetro %s inválido.", key)
}

// PathID reads the {id} wildcard as a positive integer.
func PathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// DecodeJSON reads a single JSON value from the body into dst.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("decode body: %w", err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("decode body: trailing data")
	}
	return nil
}

// sanitizeInput drops control characters other than tab and newlines and
// trims whitespace.
func sanitizeInput(s string) string {
	return strings.TrimSpace(strings.Map(func(r rune) rune {
		if r < 32 && r != '\t' && r != '\n' && r != '\r' {
			return -1
		}
		return r
	}, s))
}
