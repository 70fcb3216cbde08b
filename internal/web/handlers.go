package web

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dmitrymomot/inputguard/pkg/audit"
	"github.com/dmitrymomot/inputguard/pkg/guard"
	"github.com/dmitrymomot/inputguard/pkg/logger"
	"github.com/dmitrymomot/inputguard/pkg/sanitizer"
	"github.com/dmitrymomot/inputguard/pkg/validator"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
	maxAuthorLength = 64
	maxCommentSize  = 5000
)

type handlers struct {
	log       *slog.Logger
	sanitizer *sanitizer.Sanitizer
	keywords  *sanitizer.KeywordValidator
	searcher  Searcher
	events    audit.Reader
}

// handle renders the Response returned by fn. Render failures are logged;
// the status line is already written at that point.
func (h *handlers) handle(fn func(r *http.Request) Response) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := fn(r).Render(w, r); err != nil {
			h.log.ErrorContext(r.Context(), "failed to render response", logger.Error(err))
		}
	}
}

type searchParams struct {
	Tag  string `query:"tag"`
	Page int    `query:"page"`
	Size int    `query:"size"`
}

// search validates the raw keyword and sort parameters before anything is
// sanitized: the query layer needs the value the client actually sent.
func (h *handlers) search(r *http.Request) Response {
	req := guard.FromRequest(r)
	keyword, sortField, dir := req.RawParam("q"), req.RawParam("sort"), req.RawParam("dir")

	if err := h.keywords.ValidateSearch(keyword, sortField, dir); err != nil {
		return JSONError(err)
	}

	var p searchParams
	if err := guard.BindQuery(r, &p); err != nil {
		return JSONError(err)
	}
	if p.Page == 0 {
		p.Page = 1
	}
	if p.Size == 0 {
		p.Size = defaultPageSize
	}
	if err := validator.Apply(
		validator.Range("page", p.Page, 1, 10000),
		validator.Range("size", p.Size, 1, maxPageSize),
		validator.MaxLen("tag", p.Tag, 32),
	); err != nil {
		return JSONError(err)
	}

	q := SearchQuery{
		Keyword: h.keywords.CleanSearchKeyword(keyword),
		Tag:     p.Tag,
		Sort:    sortField,
		Desc:    strings.EqualFold(dir, "desc"),
		Page:    p.Page,
		Size:    p.Size,
	}
	items, total, err := h.searcher.Search(r.Context(), q)
	if err != nil {
		h.log.ErrorContext(r.Context(), "search failed", logger.Error(err))
		return JSONError(errors.Join(ErrSearchFailed, err))
	}

	return JSON("ok", items, map[string]any{
		"keyword": q.Keyword,
		"page":    q.Page,
		"size":    q.Size,
		"total":   total,
	})
}

type commentForm struct {
	Author  string `form:"author"`
	Content string `form:"content"`
	Website string `form:"website"`
}

type commentPreview struct {
	Author  string   `json:"author"`
	Content string   `json:"content"`
	Website string   `json:"website,omitempty"`
	Flagged []string `json:"flagged,omitempty"`
}

// previewComment echoes the sanitized form and lists fields whose raw value
// looked like an injection attempt.
func (h *handlers) previewComment(r *http.Request) Response {
	var f commentForm
	if err := guard.BindForm(r, &f); err != nil {
		return JSONError(err)
	}
	if err := validator.Apply(
		validator.Required("author", f.Author),
		validator.MaxLen("author", f.Author, maxAuthorLength),
		validator.Required("content", f.Content),
		validator.MaxLen("content", f.Content, maxCommentSize),
	); err != nil {
		return JSONError(err)
	}

	req := guard.FromRequest(r)
	preview := commentPreview{Author: f.Author, Content: f.Content, Website: f.Website}
	for _, name := range []string{"author", "content", "website"} {
		raw := req.RawParam(name)
		if h.sanitizer.ContainsAttack(raw) || h.sanitizer.IsDangerous(raw) {
			preview.Flagged = append(preview.Flagged, name)
		}
	}
	return JSON("ok", preview, nil)
}

type eventsParams struct {
	Limit int `query:"limit"`
}

func (h *handlers) auditEvents(r *http.Request) Response {
	var p eventsParams
	if err := guard.BindQuery(r, &p); err != nil {
		return JSONError(err)
	}
	if p.Limit == 0 {
		p.Limit = 50
	}
	if err := validator.Apply(validator.Range("limit", p.Limit, 1, 500)); err != nil {
		return JSONError(err)
	}

	events, err := h.events.Recent(r.Context(), p.Limit)
	if err != nil {
		h.log.ErrorContext(r.Context(), "failed to read audit events", logger.Error(err))
		return JSONError(err)
	}
	return JSON("ok", events, map[string]any{"count": len(events)})
}
