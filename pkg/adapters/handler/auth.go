package handler

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/wadjakorntonsri/linkshelf/pkg/config"
	"github.com/wadjakorntonsri/linkshelf/pkg/ports"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

type AuthHandler struct {
	oauthConfig   *oauth2.Config
	accounts      ports.AccountService
	tokens        *Middleware
	userInfoURL   string
	frontendURL   string
	allowedEmails []string
	isProduction  bool
}

type GoogleUser struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
}

func NewAuthHandler(cfg *config.Config, accounts ports.AccountService, tokens *Middleware) *AuthHandler {
	return &AuthHandler{
		oauthConfig: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURL,
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		},
		accounts:      accounts,
		tokens:        tokens,
		userInfoURL:   googleUserInfoURL,
		frontendURL:   cfg.FrontendURL,
		allowedEmails: cfg.AllowedEmails,
		isProduction:  cfg.IsProduction(),
	}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	state, err := h.generateStateOauthCookie(w)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	http.Redirect(w, r, h.oauthConfig.AuthCodeURL(state), http.StatusTemporaryRedirect)
}

// Callback finishes the Google login: the account is provisioned (with its
// default categories) and a session cookie carrying the user id is set.
func (h *AuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	oauthState, err := r.Cookie("oauthstate")
	if err != nil {
		logger.Warn().Err(err).Msg("callback: missing oauthstate cookie")
		http.Redirect(w, r, "/", http.StatusTemporaryRedirect)
		return
	}
	if r.FormValue("state") != oauthState.Value {
		logger.Warn().Msg("callback: oauth state mismatch")
		writeError(w, http.StatusBadRequest, "INVALID_STATE", "Invalid OAuth state", nil)
		return
	}

	token, err := h.oauthConfig.Exchange(ctx, r.FormValue("code"))
	if err != nil {
		logger.Error().Err(err).Msg("callback: code exchange failed")
		writeError(w, http.StatusBadGateway, "OAUTH_FAILED", "Code exchange failed", nil)
		return
	}

	googleUser, err := h.fetchUserInfo(r, token)
	if err != nil {
		logger.Error().Err(err).Msg("callback: failed getting user info")
		writeError(w, http.StatusBadGateway, "OAUTH_FAILED", "Failed getting user info", nil)
		return
	}

	if !h.emailAllowed(googleUser.Email) {
		logger.Warn().Str("email", googleUser.Email).Msg("callback: email not in allowlist")
		writeError(w, http.StatusForbidden, "FORBIDDEN", "Access denied: your email is not in the allowlist", nil)
		return
	}

	user, err := h.accounts.ProvisionUser(ctx, googleUser.Email, googleUser.Name)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	tokenString, expiresAt, err := h.tokens.IssueToken(user.ID, time.Now())
	if err != nil {
		writeServiceError(w, r, fmt.Errorf("sign session token: %w", err))
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     authCookieName,
		Value:    tokenString,
		Expires:  expiresAt,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.isProduction,
		SameSite: http.SameSiteLaxMode,
	})

	logger.Info().Int64("user_id", user.ID).Msg("login successful")
	http.Redirect(w, r, h.frontendURL, http.StatusTemporaryRedirect)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     authCookieName,
		Value:    "",
		Expires:  time.Now().Add(-1 * time.Hour),
		MaxAge:   -1,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.isProduction,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, strings.TrimSuffix(h.frontendURL, "/")+"/login", http.StatusTemporaryRedirect)
}

func (h *AuthHandler) fetchUserInfo(r *http.Request, token *oauth2.Token) (*GoogleUser, error) {
	client := h.oauthConfig.Client(r.Context(), token)
	response, err := client.Get(h.userInfoURL)
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo status %d", response.StatusCode)
	}

	var googleUser GoogleUser
	if err := json.NewDecoder(response.Body).Decode(&googleUser); err != nil {
		return nil, fmt.Errorf("decode user info: %w", err)
	}
	if googleUser.Email == "" {
		return nil, fmt.Errorf("user info has no email")
	}
	return &googleUser, nil
}

// emailAllowed is true for everyone when no allowlist is configured.
func (h *AuthHandler) emailAllowed(email string) bool {
	if len(h.allowedEmails) == 0 {
		return true
	}
	for _, allowed := range h.allowedEmails {
		if strings.EqualFold(allowed, email) {
			return true
		}
	}
	return false
}

func (h *AuthHandler) generateStateOauthCookie(w http.ResponseWriter) (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	state := base64.URLEncoding.EncodeToString(b)
	http.SetCookie(w, &http.Cookie{
		Name:     "oauthstate",
		Value:    state,
		Expires:  time.Now().Add(20 * time.Minute),
		Path:     "/",
		HttpOnly: true,
		Secure:   h.isProduction,
		SameSite: http.SameSiteLaxMode,
	})
	return state, nil
}
