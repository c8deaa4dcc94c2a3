package httpserver

import (
	"net/http"
	"strings"

	"golang.org/x/oauth2"

	"github.com/phenrril/exactmatch/internal/usecase"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v3/userinfo"

// Config carries the boundary settings that are not use cases.
type Config struct {
	// MediaBaseURL prefixes stored relative image paths; the request host
	// plus /media/ is used when empty.
	MediaBaseURL string
	// MediaRoot is served under /media/ when set.
	MediaRoot      string
	AllowedOrigins []string
	RateLimitRPM   int
	OAuth          *oauth2.Config
	UserInfoURL    string
}

type Server struct {
	mux      *http.ServeMux
	catalog  *usecase.CatalogUC
	reviews  *usecase.ReviewUC
	orders   *usecase.OrderUC
	wishlist *usecase.WishlistUC
	accounts *usecase.AccountUC
	oauthCfg *oauth2.Config

	mediaBase   string
	mediaRoot   string
	userInfoURL string
}

func New(cfg Config, c *usecase.CatalogUC, rv *usecase.ReviewUC, o *usecase.OrderUC, wl *usecase.WishlistUC, acc *usecase.AccountUC) http.Handler {
	s := &Server{
		mux:         http.NewServeMux(),
		catalog:     c,
		reviews:     rv,
		orders:      o,
		wishlist:    wl,
		accounts:    acc,
		oauthCfg:    cfg.OAuth,
		mediaBase:   strings.TrimRight(cfg.MediaBaseURL, "/"),
		mediaRoot:   cfg.MediaRoot,
		userInfoURL: cfg.UserInfoURL,
	}
	if s.userInfoURL == "" {
		s.userInfoURL = googleUserInfoURL
	}
	s.routes()
	return Chain(s.mux,
		Authenticate(acc.Authenticate),
		RateLimit(cfg.RateLimitRPM),
		SecurityAndStaticCache,
		Gzip,
		RequestID,
		Recovery,
		Logging,
		CORS(cfg.AllowedOrigins),
	)
}

// route registers an API path with and without its trailing slash.
func (s *Server) route(method, path string, h http.HandlerFunc) {
	p := strings.TrimSuffix(path, "/")
	s.mux.HandleFunc(method+" "+p+"/{$}", h)
	s.mux.HandleFunc(method+" "+p, h)
}

func (s *Server) routes() {
	if s.mediaRoot != "" {
		s.mux.Handle("GET /media/", http.StripPrefix("/media/", http.FileServer(http.Dir(s.mediaRoot))))
	}

	s.mux.HandleFunc("GET /{$}", s.handleHome)
	s.route("GET", "/api/", s.handleAPIRoot)

	// catalog
	s.route("GET", "/api/batteries/", s.handleBatteries)
	s.route("GET", "/api/batteries/featured/", s.handleFeatured)
	s.route("GET", "/api/batteries/popular/", s.handlePopular)
	s.route("GET", "/api/batteries/{slug}/", s.handleBatteryDetail)
	s.route("GET", "/api/batteries/{id}/specifications/", s.handleSpecifications)
	s.route("GET", "/api/batteries/{id}/reviews/", s.handleBatteryReviews)
	s.route("GET", "/api/brands/", s.handleBrands)
	s.route("GET", "/api/categories/", s.handleCategories)
	s.route("GET", "/api/search/suggestions/", s.handleSuggestions)
	s.route("GET", "/api/dashboard/stats/", s.handleDashboardStats)

	s.route("POST", "/api/reviews/create/", s.handleCreateReview)

	s.route("GET", "/api/orders/", s.handleOrders)
	s.route("POST", "/api/orders/create/", s.handleCreateOrder)
	s.route("GET", "/api/orders/{id}/", s.handleOrder)

	s.route("GET", "/api/wishlist/", s.handleWishlist)
	s.route("POST", "/api/wishlist/add/", s.handleWishlistAdd)
	s.route("DELETE", "/api/wishlist/remove/{battery_id}/", s.handleWishlistRemove)

	// accounts
	s.route("POST", "/api/auth/register/", s.handleRegister)
	s.route("POST", "/api/auth/token/", s.handleToken)
	s.route("GET", "/api/auth/me/", s.handleMe)
	s.mux.HandleFunc("GET /auth/google/login", s.handleGoogleLogin)
	s.mux.HandleFunc("GET /auth/google/callback", s.handleGoogleCallback)

	// admin
	s.route("POST", "/api/admin/brands/", s.adminCreateBrand)
	s.route("PUT", "/api/admin/brands/{id}/", s.adminUpdateBrand)
	s.route("DELETE", "/api/admin/brands/{id}/", s.adminDeleteBrand)
	s.route("POST", "/api/admin/categories/", s.adminCreateCategory)
	s.route("PUT", "/api/admin/categories/{id}/", s.adminUpdateCategory)
	s.route("POST", "/api/admin/batteries/", s.adminCreateBattery)
	s.route("PUT", "/api/admin/batteries/{id}/", s.adminUpdateBattery)
	s.route("DELETE", "/api/admin/batteries/{id}/", s.adminDeleteBattery)
	s.route("POST", "/api/admin/batteries/{id}/images/", s.adminAddImage)
	s.route("PUT", "/api/admin/batteries/{id}/images/{image_id}/primary/", s.adminSetPrimaryImage)
	s.route("DELETE", "/api/admin/batteries/{id}/images/{image_id}/", s.adminDeleteImage)
	s.mux.HandleFunc("GET /api/admin/batteries/export.xlsx", s.adminExportCatalog)
	s.route("POST", "/api/admin/batteries/import/", s.adminImportCatalog)
	s.route("PATCH", "/api/admin/orders/{id}/status/", s.adminUpdateOrderStatus)
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, 200, map[string]string{"status": "ok", "message": "Exact Match backend is live"})
}

func (s *Server) handleAPIRoot(w http.ResponseWriter, r *http.Request) {
	base := canonicalBase(r) + "/api/"
	writeJSON(w, 200, map[string]string{
		"batteries":          base + "batteries/",
		"featured":           base + "batteries/featured/",
		"popular":            base + "batteries/popular/",
		"brands":             base + "brands/",
		"categories":         base + "categories/",
		"orders":             base + "orders/",
		"wishlist":           base + "wishlist/",
		"search_suggestions": base + "search/suggestions/",
		"dashboard_stats":    base + "dashboard/stats/",
	})
}

func canonicalBase(r *http.Request) string {
	host := r.Header.Get("X-Forwarded-Host")
	if host == "" {
		host = r.Host
	}
	scheme := r.Header.Get("X-Forwarded-Proto")
	if scheme == "" {
		if r.TLS != nil {
			scheme = "https"
		} else {
			scheme = "http"
		}
	}
	return scheme + "://" + host
}
