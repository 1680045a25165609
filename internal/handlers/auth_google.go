package handlers

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/Windi-Fikriyansyah/devhire_be/internal/models"
	"github.com/Windi-Fikriyansyah/devhire_be/internal/services/accounts"
	"github.com/Windi-Fikriyansyah/devhire_be/internal/utils"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

type GoogleOAuthHandler struct {
	Accounts        *accounts.Service
	JWTSecret       string
	Expires         int
	GoogleClientID  string
	GoogleSecret    string
	GoogleRedirect  string
	FrontendBaseURL string

	// overridable in tests
	Endpoint    oauth2.Endpoint
	UserInfoURL string
}

func (h *GoogleOAuthHandler) Enabled() bool {
	return h.GoogleClientID != ""
}

func (h *GoogleOAuthHandler) oauthCfg() *oauth2.Config {
	endpoint := h.Endpoint
	if endpoint.AuthURL == "" {
		endpoint = google.Endpoint
	}
	return &oauth2.Config{
		ClientID:     h.GoogleClientID,
		ClientSecret: h.GoogleSecret,
		RedirectURL:  h.GoogleRedirect,
		Endpoint:     endpoint,
		Scopes:       []string{"openid", "email", "profile"},
	}
}

func randomState(n int) string {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}

func shortCookie(name, value string, maxAge int) *fiber.Cookie {
	return &fiber.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HTTPOnly: true,
		SameSite: "Lax",
		MaxAge:   maxAge,
	}
}

// GoogleStart begins sign-in. ?role= picks the role for a first-time account.
func (h *GoogleOAuthHandler) GoogleStart(c *fiber.Ctx) error {
	if !h.Enabled() {
		return fiber.ErrNotFound
	}

	role := strings.ToLower(c.Query("role", string(models.RoleDeveloper)))
	if !models.Role(role).Valid() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Role must be client or developer",
		})
	}

	st := randomState(32)
	c.Cookie(shortCookie("oauth_state", st, 10*60))
	c.Cookie(shortCookie("oauth_role", role, 10*60))

	return c.Redirect(h.oauthCfg().AuthCodeURL(st), http.StatusTemporaryRedirect)
}

type googleUserInfo struct {
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
}

func (h *GoogleOAuthHandler) GoogleCallback(c *fiber.Ctx) error {
	if !h.Enabled() {
		return fiber.ErrNotFound
	}

	code := c.Query("code")
	state := c.Query("state")
	if code == "" || state == "" {
		return c.Status(fiber.StatusBadRequest).SendString("Missing code/state")
	}
	if st := c.Cookies("oauth_state"); st == "" || st != state {
		return c.Status(fiber.StatusBadRequest).SendString("Invalid state")
	}

	cfg := h.oauthCfg()
	tok, err := cfg.Exchange(c.UserContext(), code)
	if err != nil {
		slog.Warn("google code exchange failed", "err", err)
		return c.Status(fiber.StatusBadRequest).SendString("Failed to exchange code")
	}

	infoURL := h.UserInfoURL
	if infoURL == "" {
		infoURL = googleUserInfoURL
	}
	resp, err := cfg.Client(c.UserContext(), tok).Get(infoURL)
	if err != nil {
		return c.Status(fiber.StatusBadGateway).SendString("Failed to fetch userinfo")
	}
	defer resp.Body.Close()

	var gu googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&gu); err != nil {
		return c.Status(fiber.StatusBadGateway).SendString("Failed to decode userinfo")
	}
	if strings.TrimSpace(gu.Email) == "" || !gu.VerifiedEmail {
		return c.Status(fiber.StatusBadRequest).SendString("Google account has no verified email")
	}

	u, err := h.Accounts.FindOrCreateByEmail(c.UserContext(), gu.Email, gu.Name, models.Role(c.Cookies("oauth_role")))
	if err != nil {
		return fail(c, err)
	}

	jwtToken, err := utils.SignJWT(h.JWTSecret, u.ID.String(), string(u.Role), h.Expires)
	if err != nil {
		return fail(c, err)
	}

	c.Cookie(shortCookie("oauth_state", "", -1))
	c.Cookie(shortCookie("oauth_role", "", -1))

	// the token travels in the fragment so it never reaches server logs
	redirectURL := strings.TrimRight(h.FrontendBaseURL, "/") + "/oauth/callback#token=" + url.QueryEscape(jwtToken)
	return c.Redirect(redirectURL, http.StatusTemporaryRedirect)
}
