package httpserver

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/phenrril/exactmatch/internal/domain"
)

const batteryNotFound = "Battery not found"

func (s *Server) handleBatteries(w http.ResponseWriter, r *http.Request) {
	page, err := s.catalog.List(r.Context(), parseBatteryQuery(r.URL.Query()))
	if err != nil {
		writeError(w, r, err, batteryNotFound)
		return
	}
	writeJSON(w, 200, paginate(r, page, s.viewsFor(r).batteryList))
}

func (s *Server) handleFeatured(w http.ResponseWriter, r *http.Request) {
	p, size := pagingParams(r.URL.Query())
	page, err := s.catalog.Featured(r.Context(), p, size)
	if err != nil {
		writeError(w, r, err, batteryNotFound)
		return
	}
	writeJSON(w, 200, paginate(r, page, s.viewsFor(r).batteryList))
}

func (s *Server) handlePopular(w http.ResponseWriter, r *http.Request) {
	p, size := pagingParams(r.URL.Query())
	page, err := s.catalog.Popular(r.Context(), p, size)
	if err != nil {
		writeError(w, r, err, batteryNotFound)
		return
	}
	writeJSON(w, 200, paginate(r, page, s.viewsFor(r).batteryList))
}

func (s *Server) handleBatteryDetail(w http.ResponseWriter, r *http.Request) {
	b, err := s.catalog.GetBySlug(r.Context(), r.PathValue("slug"))
	if err != nil {
		writeError(w, r, err, batteryNotFound)
		return
	}
	writeJSON(w, 200, s.viewsFor(r).batteryDetail(b))
}

func (s *Server) handleSpecifications(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(r, "id")
	if !ok {
		writeMessage(w, 404, "error", batteryNotFound)
		return
	}
	b, err := s.catalog.Specifications(r.Context(), id)
	if err != nil {
		writeError(w, r, err, batteryNotFound)
		return
	}
	writeJSON(w, 200, toSpecificationsView(b))
}

func (s *Server) handleBatteryReviews(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(r, "id")
	if !ok {
		writeMessage(w, 404, "error", batteryNotFound)
		return
	}
	list, err := s.reviews.List(r.Context(), id)
	if err != nil {
		writeError(w, r, err, batteryNotFound)
		return
	}
	out := make([]reviewView, 0, len(list))
	for i := range list {
		out = append(out, toReviewView(&list[i]))
	}
	writeJSON(w, 200, out)
}

func (s *Server) handleBrands(w http.ResponseWriter, r *http.Request) {
	list, err := s.catalog.ListBrands(r.Context())
	if err != nil {
		writeError(w, r, err, "Brand not found")
		return
	}
	v := s.viewsFor(r)
	out := make([]brandListView, 0, len(list))
	for i := range list {
		out = append(out, v.brandWithCount(&list[i]))
	}
	writeJSON(w, 200, out)
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	q := domain.CategoryListQuery{Kind: domain.CategoryKind(strings.TrimSpace(r.URL.Query().Get("type")))}
	if raw := strings.TrimSpace(r.URL.Query().Get("parent")); raw != "" {
		n, err := strconv.ParseUint(raw, 10, 0)
		if err != nil {
			writeJSON(w, 200, []categoryTreeView{})
			return
		}
		id := uint(n)
		q.ParentID = &id
	}
	list, err := s.catalog.CategoryTree(r.Context(), q)
	if err != nil {
		writeError(w, r, err, "Category not found")
		return
	}
	v := s.viewsFor(r)
	out := make([]categoryTreeView, 0, len(list))
	for i := range list {
		out = append(out, v.categoryTree(&list[i]))
	}
	writeJSON(w, 200, out)
}

func (s *Server) handleSuggestions(w http.ResponseWriter, r *http.Request) {
	list, err := s.catalog.Suggestions(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, r, err, batteryNotFound)
		return
	}
	writeJSON(w, 200, list)
}

func (s *Server) handleDashboardStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.catalog.DashboardStats(r.Context())
	if err != nil {
		writeError(w, r, err, "not found")
		return
	}
	writeJSON(w, 200, stats)
}
