package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/tharsan/event-booking-api/internal/config"
	"github.com/tharsan/event-booking-api/internal/middleware"
	"github.com/tharsan/event-booking-api/internal/model"
	"github.com/tharsan/event-booking-api/internal/repository"
	"github.com/tharsan/event-booking-api/internal/utils"
)

const dbTimeout = 5 * time.Second

// AuthHandler bundles dependencies for registration, login and the federated
// login endpoint.
type AuthHandler struct {
	Users      UserStore
	Google     GoogleVerifier
	Secret     string
	TokenTTL   time.Duration
	BcryptCost int

	cookieSecure   bool
	cookieSameSite http.SameSite
}

func NewAuthHandler(users UserStore, google GoogleVerifier, cfg config.Config) *AuthHandler {
	return &AuthHandler{
		Users:          users,
		Google:         google,
		Secret:         cfg.JWTSecret,
		TokenTTL:       time.Duration(cfg.TokenTTLHours) * time.Hour,
		BcryptCost:     cfg.BcryptCost,
		cookieSecure:   cfg.CookieSecure,
		cookieSameSite: parseSameSite(cfg.CookieSameSite),
	}
}

func parseSameSite(s string) http.SameSite {
	switch strings.ToLower(s) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}

// ----- DTOs -----

type registerReq struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}
type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
type googleLoginReq struct {
	Token string `json:"token"`
}

type userPart struct {
	ID       uint64 `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

func part(u model.User) userPart {
	return userPart{ID: u.ID, Username: u.Username, Email: u.Email, Role: u.Role}
}

// setAuthCookie attaches a signed token to the response as an HTTP-only
// cookie under the given name.
func (h *AuthHandler) setAuthCookie(c echo.Context, name, token string, exp time.Time) {
	c.SetCookie(&http.Cookie{
		Name:     name,
		Value:    token,
		Path:     "/",
		Expires:  exp,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: h.cookieSameSite,
	})
}

// clearCookie expires the named cookie on the client.
func (h *AuthHandler) clearCookie(c echo.Context, name string) {
	c.SetCookie(&http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: h.cookieSameSite,
	})
}

// Register creates a user with a locally hashed password.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Username == "" || req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username, email and password are required"})
	}
	role := model.RoleUser
	if strings.EqualFold(req.Role, model.RoleAdmin) {
		role = model.RoleAdmin
	}

	hash, err := utils.HashPassword(req.Password, h.BcryptCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	u, err := h.Users.Create(ctx, req.Username, req.Email, hash, role)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrUsernameExists):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "name already exists"})
		case errors.Is(err, repository.ErrEmailExists):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "email already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
	}
	return c.JSON(http.StatusCreated, u)
}

// Login verifies a username/password pair and sets the user-scope cookie.
// Unknown users and wrong passwords are indistinguishable to the caller.
func (h *AuthHandler) Login(c echo.Context) error {
	u, ok, err := h.authenticate(c)
	if err != nil {
		return err
	}
	if !ok {
		return nil // response already written
	}
	token, exp, err := utils.IssueToken(h.Secret,
		utils.Identity{UserID: u.ID, Username: u.Username, Role: u.Role}, h.TokenTTL)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue token failed"})
	}
	h.setAuthCookie(c, middleware.UserCookie, token, exp)
	return c.JSON(http.StatusOK, echo.Map{"user": part(u), "token": token})
}

// AdminLogin is Login with a role check: only users whose stored role is
// admin receive an admin-scope credential.
func (h *AuthHandler) AdminLogin(c echo.Context) error {
	u, ok, err := h.authenticate(c)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	if u.Role != model.RoleAdmin {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not an admin"})
	}
	token, exp, err := utils.IssueToken(h.Secret,
		utils.Identity{UserID: u.ID, Username: u.Username, Role: u.Role}, h.TokenTTL)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue token failed"})
	}
	h.setAuthCookie(c, middleware.AdminCookie, token, exp)
	return c.JSON(http.StatusOK, echo.Map{"admin": part(u), "token": token})
}

// authenticate binds the login body and checks the password. When ok is
// false the 4xx response has already been written.
func (h *AuthHandler) authenticate(c echo.Context) (model.User, bool, error) {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return model.User{}, false, c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Username == "" || req.Password == "" {
		return model.User{}, false, c.JSON(http.StatusBadRequest, echo.Map{"error": "username and password are required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	u, err := h.Users.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return model.User{}, false, c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		}
		return model.User{}, false, c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	// Federated accounts have no local password and cannot log in here.
	if u.PasswordHash == nil || !utils.VerifyPassword(*u.PasswordHash, req.Password) {
		return model.User{}, false, c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}
	return u, true, nil
}

// Profile returns the authenticated caller's username.
func (h *AuthHandler) Profile(c echo.Context) error {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authenticated"})
	}
	return c.JSON(http.StatusOK, echo.Map{"username": id.Username})
}

// Logout expires the user-scope cookie. Tokens are stateless, so nothing is
// revoked server-side; the client simply stops carrying the credential.
func (h *AuthHandler) Logout(c echo.Context) error {
	h.clearCookie(c, middleware.UserCookie)
	return c.JSON(http.StatusOK, echo.Map{"message": "logout success"})
}

// GoogleLogin verifies a Google ID token, provisions an account on first
// sight and issues a normal user-scope credential with the standard TTL.
func (h *AuthHandler) GoogleLogin(c echo.Context) error {
	var req googleLoginReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Token) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "token is required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	profile, err := h.Google.Verify(ctx, req.Token)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "google authentication failed"})
	}

	u, err := h.Users.GetByEmail(ctx, profile.Email)
	if errors.Is(err, repository.ErrUserNotFound) {
		var picture *string
		if profile.Picture != "" {
			picture = &profile.Picture
		}
		u, err = h.Users.CreateFederated(ctx, profile.Name, profile.Email, picture)
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "google login failed"})
	}

	token, exp, err := utils.IssueToken(h.Secret,
		utils.Identity{UserID: u.ID, Username: u.Username, Role: u.Role}, h.TokenTTL)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue token failed"})
	}
	h.setAuthCookie(c, middleware.UserCookie, token, exp)
	return c.JSON(http.StatusOK, echo.Map{"user": part(u), "token": token})
}
