package web

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"time"
)

// Post is a searchable record.
type Post struct {
	ID        int       `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Tag       string    `json:"tag"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	ViewCount int       `json:"viewCount"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// SearchQuery holds already validated search parameters.
type SearchQuery struct {
	Keyword string
	Tag     string
	Sort    string
	Desc    bool
	Page    int
	Size    int
}

// Searcher runs a search. Implementations receive input that has passed
// keyword and sort validation.
type Searcher interface {
	Search(ctx context.Context, q SearchQuery) (items []Post, total int, err error)
}

// MemorySearcher searches a fixed slice of posts.
type MemorySearcher struct {
	posts []Post
}

// NewMemorySearcher copies posts into a new searcher.
func NewMemorySearcher(posts []Post) *MemorySearcher {
	return &MemorySearcher{posts: slices.Clone(posts)}
}

func (m *MemorySearcher) Search(_ context.Context, q SearchQuery) ([]Post, int, error) {
	keyword := strings.ToLower(q.Keyword)

	matched := make([]Post, 0, len(m.posts))
	for _, p := range m.posts {
		if q.Tag != "" && !strings.EqualFold(p.Tag, q.Tag) {
			continue
		}
		if keyword != "" &&
			!strings.Contains(strings.ToLower(p.Title), keyword) &&
			!strings.Contains(strings.ToLower(p.Body), keyword) {
			continue
		}
		matched = append(matched, p)
	}

	slices.SortStableFunc(matched, func(a, b Post) int {
		c := comparePosts(a, b, q.Sort)
		if q.Desc {
			return -c
		}
		return c
	})

	total := len(matched)
	start := min((q.Page-1)*q.Size, total)
	end := min(start+q.Size, total)
	return matched[start:end], total, nil
}

func comparePosts(a, b Post, field string) int {
	switch field {
	case "title":
		return cmp.Compare(a.Title, b.Title)
	case "createdAt":
		return a.CreatedAt.Compare(b.CreatedAt)
	case "updatedAt":
		return a.UpdatedAt.Compare(b.UpdatedAt)
	case "viewCount":
		return cmp.Compare(a.ViewCount, b.ViewCount)
	case "username":
		return cmp.Compare(a.Username, b.Username)
	case "email":
		return cmp.Compare(a.Email, b.Email)
	default:
		return cmp.Compare(a.ID, b.ID)
	}
}

// DemoPosts returns the records served by the demo search endpoint.
func DemoPosts() []Post {
	base := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)
	day := 24 * time.Hour
	return []Post{
		{ID: 1, Title: "Getting started with Go", Body: "Modules, packages and the toolchain.", Tag: "go", Username: "ana", Email: "ana@example.com", ViewCount: 420, CreatedAt: base, UpdatedAt: base.Add(2 * day)},
		{ID: 2, Title: "Escaping HTML output", Body: "Why every template must escape user input.", Tag: "security", Username: "ben", Email: "ben@example.com", ViewCount: 310, CreatedAt: base.Add(day), UpdatedAt: base.Add(day)},
		{ID: 3, Title: "Parameterized queries", Body: "Bind arguments instead of building SQL strings.", Tag: "security", Username: "cho", Email: "cho@example.com", ViewCount: 560, CreatedAt: base.Add(3 * day), UpdatedAt: base.Add(5 * day)},
		{ID: 4, Title: "Context cancellation in Go", Body: "Propagate deadlines through every call.", Tag: "go", Username: "ana", Email: "ana@example.com", ViewCount: 150, CreatedAt: base.Add(4 * day), UpdatedAt: base.Add(4 * day)},
		{ID: 5, Title: "Content Security Policy basics", Body: "Limit where scripts may load from.", Tag: "security", Username: "dev", Email: "dev@example.com", ViewCount: 90, CreatedAt: base.Add(6 * day), UpdatedAt: base.Add(7 * day)},
	}
}
