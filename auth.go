package main

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// sessionCookie is the HttpOnly cookie holding the signed session token.
const sessionCookie = "session"

// sessionTTL bounds how long a login stays valid.
const sessionTTL = 7 * 24 * time.Hour

// sessionClaims is the JWT payload for a logged-in user.
type sessionClaims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// dummyHash is a pre-computed bcrypt hash used when a login username isn't found.
// Running bcrypt against it (instead of returning early) keeps response time
// constant, preventing timing-based username enumeration.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("dummy"), bcrypt.DefaultCost)

/* ─── Session tokens ─────────────────────────────────────────────────── */

// newSessionToken signs a session JWT for u.
func (h *Handler) newSessionToken(u user) (string, error) {
	claims := sessionClaims{
		UserID:   u.ID,
		Username: u.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(sessionTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(h.jwtSecret)
}

// parseSessionToken validates a session JWT and returns its claims.
func (h *Handler) parseSessionToken(tokenStr string) (*sessionClaims, error) {
	claims := &sessionClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return h.jwtSecret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrTokenMalformed
	}
	return claims, nil
}

// setSession signs a token for u and stores it in the session cookie.
func (h *Handler) setSession(c *gin.Context, u user) error {
	token, err := h.newSessionToken(u)
	if err != nil {
		return err
	}
	c.SetCookie(sessionCookie, token, int(sessionTTL.Seconds()), "/", "", false, true)
	return nil
}

// clearSession expires the session cookie.
func clearSession(c *gin.Context) {
	c.SetCookie(sessionCookie, "", -1, "/", "", false, true)
}

// requireLogin redirects to /login unless the request carries a valid session
// cookie. On success it sets user_id and username on the context.
func (h *Handler) requireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, err := c.Cookie(sessionCookie)
		if err != nil {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		claims, err := h.parseSessionToken(tokenStr)
		if err != nil {
			clearSession(c)
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		c.Set("user_id", claims.UserID)
		c.Set("username", claims.Username)
		c.Next()
	}
}

/* ─── Handlers ───────────────────────────────────────────────────────── */

// welcome renders the landing page. GET / (public).
func (h *Handler) welcome(c *gin.Context) {
	loggedIn := false
	if tokenStr, err := c.Cookie(sessionCookie); err == nil {
		if _, err := h.parseSessionToken(tokenStr); err == nil {
			loggedIn = true
		}
	}
	c.HTML(http.StatusOK, "welcome.html", gin.H{"LoggedIn": loggedIn})
}

// showSignup renders the registration form. GET /signup.
func (h *Handler) showSignup(c *gin.Context) {
	c.HTML(http.StatusOK, "signup.html", gin.H{"Username": ""})
}

// signup creates an account and redirects to the login page.
// POST /signup. A taken username re-renders the form with an error.
func (h *Handler) signup(c *gin.Context) {
	username := strings.TrimSpace(c.PostForm("username"))
	password := c.PostForm("password")

	if username == "" || password == "" {
		c.HTML(http.StatusBadRequest, "signup.html", gin.H{
			"Error":    "username and password are required",
			"Username": username,
		})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		pageError(c, http.StatusInternalServerError, "could not create account")
		return
	}

	u := user{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: string(hash),
	}
	if err := h.users.createUser(c.Request.Context(), &u); err != nil {
		if errors.Is(err, errDuplicate) {
			c.HTML(http.StatusConflict, "signup.html", gin.H{
				"Error":    "Username already exists",
				"Username": username,
			})
			return
		}
		pageError(c, http.StatusInternalServerError, "could not create account")
		return
	}

	c.Redirect(http.StatusFound, "/login?created=1")
}

// showLogin renders the login form. GET /login. Shows an account-created
// notice after a signup redirect.
func (h *Handler) showLogin(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", gin.H{
		"Created":  c.Query("created") != "",
		"Username": "",
	})
}

// login verifies credentials, sets the session cookie, and redirects to the
// calculator. POST /login. Failure re-renders the form — no redirect.
func (h *Handler) login(c *gin.Context) {
	username := strings.TrimSpace(c.PostForm("username"))
	password := c.PostForm("password")

	u, lookupErr := h.users.getUserByUsername(c.Request.Context(), username)

	// Always run bcrypt to keep response time constant regardless of whether
	// the username was found — prevents timing-based username enumeration.
	hashToCheck := string(dummyHash)
	if lookupErr == nil {
		hashToCheck = u.PasswordHash
	}
	compareErr := bcrypt.CompareHashAndPassword([]byte(hashToCheck), []byte(password))

	if lookupErr != nil || compareErr != nil {
		c.HTML(http.StatusUnauthorized, "login.html", gin.H{
			"Error":    "Invalid credentials",
			"Username": username,
		})
		return
	}

	if err := h.setSession(c, u); err != nil {
		pageError(c, http.StatusInternalServerError, "could not establish session")
		return
	}
	c.Redirect(http.StatusFound, "/bmi")
}

// logout clears the session and redirects to the landing page. GET /logout.
func (h *Handler) logout(c *gin.Context) {
	clearSession(c)
	c.Redirect(http.StatusFound, "/")
}
