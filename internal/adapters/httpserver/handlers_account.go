package httpserver

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"

	"github.com/phenrril/exactmatch/internal/domain"
	"github.com/phenrril/exactmatch/internal/usecase"
)

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username  string `json:"username"`
		Email     string `json:"email"`
		Password  string `json:"password"`
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	sess, err := s.accounts.Register(r.Context(), domain.RegisterInput{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		writeError(w, r, err, "User not found")
		return
	}
	writeJSON(w, 201, toSessionView(sess))
}

func (s *Server) handleToken(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	sess, err := s.accounts.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, r, err, "User not found")
		return
	}
	writeJSON(w, 200, toSessionView(sess))
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	u, err := s.accounts.Me(r.Context(), actorFrom(r))
	if err != nil {
		writeError(w, r, err, "User not found")
		return
	}
	writeJSON(w, 200, toUserView(u))
}

func (s *Server) handleGoogleLogin(w http.ResponseWriter, r *http.Request) {
	if s.oauthCfg == nil {
		writeMessage(w, 404, "error", "google sign-in is not configured")
		return
	}
	state := uuid.New().String()
	http.SetCookie(w, &http.Cookie{Name: "oauth_state", Value: state, Path: "/", MaxAge: 300, HttpOnly: true, Secure: r.TLS != nil, SameSite: http.SameSiteLaxMode})
	http.Redirect(w, r, s.oauthCfg.AuthCodeURL(state, oauth2.AccessTypeOnline), http.StatusFound)
}

func (s *Server) handleGoogleCallback(w http.ResponseWriter, r *http.Request) {
	if s.oauthCfg == nil {
		writeMessage(w, 404, "error", "google sign-in is not configured")
		return
	}
	q := r.URL.Query()
	c, _ := r.Cookie("oauth_state")
	if c == nil || c.Value == "" || c.Value != q.Get("state") {
		writeMessage(w, 400, "error", "invalid oauth state")
		return
	}
	http.SetCookie(w, &http.Cookie{Name: "oauth_state", Value: "", Path: "/", MaxAge: -1})

	tok, err := s.oauthCfg.Exchange(r.Context(), q.Get("code"))
	if err != nil {
		log.Error().Err(err).Msg("exchange oauth")
		writeMessage(w, 400, "error", "oauth exchange failed")
		return
	}
	resp, err := s.oauthCfg.Client(r.Context(), tok).Get(s.userInfoURL)
	if err != nil {
		log.Error().Err(err).Msg("userinfo")
		writeMessage(w, 502, "error", "could not read google profile")
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		log.Error().Int("status", resp.StatusCode).Msg("userinfo")
		writeMessage(w, 502, "error", "could not read google profile")
		return
	}
	var info struct {
		Email         string `json:"email"`
		EmailVerified bool   `json:"email_verified"`
		GivenName     string `json:"given_name"`
		FamilyName    string `json:"family_name"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxJSONBody)).Decode(&info); err != nil || info.Email == "" {
		writeMessage(w, 400, "error", "google profile has no email")
		return
	}
	if !info.EmailVerified {
		writeMessage(w, 400, "error", "google email is not verified")
		return
	}
	sess, err := s.accounts.GoogleLogin(r.Context(), usecase.GoogleProfile{
		Email:      info.Email,
		GivenName:  info.GivenName,
		FamilyName: info.FamilyName,
	})
	if err != nil {
		writeError(w, r, err, "User not found")
		return
	}
	writeJSON(w, 200, toSessionView(sess))
}
