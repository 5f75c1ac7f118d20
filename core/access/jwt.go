package access

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/gorilla/mux"

	"github.com/relabs-tech/jobly/core/apperr"
	"github.com/relabs-tech/jobly/core/logger"
)

// CookieName is the cookie checked for a token when there is no Authorization header
const CookieName = "Jobly-JWT"

// Claims are the claims of a jobly session token
type Claims struct {
	Username string `json:"username"`
	IsAdmin  bool   `json:"isAdmin"`
	jwt.RegisteredClaims
}

// Tokens issues and verifies HS256 session tokens
type Tokens struct {
	secret []byte
	// TTL is the lifetime of issued tokens, tokens do not expire if zero
	TTL time.Duration
	now func() time.Time
}

// NewTokens returns a token issuer for the given secret key
func NewTokens(secretKey string) *Tokens {
	if len(secretKey) == 0 {
		panic("missing secret key")
	}
	return &Tokens{secret: []byte(secretKey), now: time.Now}
}

// Create returns a signed token for the given authorization
func (t *Tokens) Create(auth Authorization) (string, error) {
	now := t.now()
	claims := Claims{
		Username: auth.Username,
		IsAdmin:  auth.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  auth.Username,
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if t.TTL > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(t.TTL))
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

// Parse verifies tokenString and returns its authorization
func (t *Tokens) Parse(tokenString string) (*Authorization, error) {
	claims := Claims{}
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid || len(claims.Username) == 0 {
		return nil, errors.New("invalid token")
	}
	return &Authorization{Username: claims.Username, IsAdmin: claims.IsAdmin}, nil
}

// tokenFromRequest returns the bearer token or the token cookie of r
func tokenFromRequest(r *http.Request) string {
	bearer := r.Header.Get("Authorization")
	if len(bearer) > 0 && bearer != "null" {
		if len(bearer) >= 8 && strings.ToLower(bearer[:7]) == "bearer " {
			return bearer[7:]
		}
		return bearer
	}
	if cookie, _ := r.Cookie(CookieName); cookie != nil {
		return cookie.Value
	}
	return ""
}

// NewJwtMiddelware returns a middleware handler to validate
// JWT bearer token.
//
// Requests without token pass through without authorization; the route decides
// whether it needs one. A token that does not verify is answered with
// http.StatusUnauthorized right away.
func NewJwtMiddelware(tokens *Tokens) mux.MiddlewareFunc {
	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if AuthorizationFromContext(r.Context()) != nil { // already authorized?
				h.ServeHTTP(w, r)
				return
			}

			tokenString := tokenFromRequest(r)
			if len(tokenString) == 0 {
				h.ServeHTTP(w, r) // no token no auth, moving on
				return
			}

			auth, err := tokens.Parse(tokenString)
			if err != nil {
				logger.FromContext(r.Context()).WithError(err).Debugln("rejected token")
				apperr.Write(w, r, apperr.Unauthorized("invalid token"))
				return
			}

			ctx, _ := logger.ContextWithLoggerIdentity(r.Context(), auth.Username)
			ctx = ContextWithAuthorization(ctx, auth)
			h.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
