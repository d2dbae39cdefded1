package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type contextKey string

const SessionIDKey contextKey = "session_id"

const SessionCookieName = "docsum_session"

// Sessions hands every browser a signed cookie carrying its session id.
// A missing, tampered or expired cookie gets a brand new session.
type Sessions struct {
	Secret []byte
	TTL    time.Duration
	Secure bool
}

func NewSessions(secret string, ttl time.Duration, secure bool) *Sessions {
	return &Sessions{Secret: []byte(secret), TTL: ttl, Secure: secure}
}

type sessionClaims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// IssueToken signs a session token valid for TTL.
func (s *Sessions) IssueToken(sessionID string) (string, error) {
	now := time.Now()
	claims := sessionClaims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.TTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.Secret)
}

// ParseToken returns the session id and issue time of a valid token.
func (s *Sessions) ParseToken(tokenStr string) (string, time.Time, error) {
	claims := &sessionClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.Secret, nil
	})
	if err != nil {
		return "", time.Time{}, err
	}
	if !token.Valid {
		return "", time.Time{}, jwt.ErrTokenInvalidClaims
	}

	if _, err := uuid.Parse(claims.SessionID); err != nil {
		return "", time.Time{}, jwt.ErrTokenInvalidClaims
	}

	var issued time.Time
	if claims.IssuedAt != nil {
		issued = claims.IssuedAt.Time
	}
	return claims.SessionID, issued, nil
}

// Middleware attaches the session id to the request context, issuing a cookie
// when the browser has none. Cookies past half their lifetime are refreshed.
func (s *Sessions) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var sessionID string
		refresh := true

		if c, err := r.Cookie(SessionCookieName); err == nil {
			if id, issued, err := s.ParseToken(c.Value); err == nil {
				sessionID = id
				refresh = time.Since(issued) > s.TTL/2
			}
		}
		if sessionID == "" {
			sessionID = uuid.New().String()
		}

		if refresh {
			token, err := s.IssueToken(sessionID)
			if err != nil {
				writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to start session", r)
				return
			}
			http.SetCookie(w, &http.Cookie{
				Name:     SessionCookieName,
				Value:    token,
				Path:     "/",
				MaxAge:   int(s.TTL.Seconds()),
				HttpOnly: true,
				Secure:   s.Secure,
				SameSite: http.SameSiteLaxMode,
			})
		}

		ctx := context.WithValue(r.Context(), SessionIDKey, sessionID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetSessionID extracts the session id from request context
func GetSessionID(ctx context.Context) string {
	id, _ := ctx.Value(SessionIDKey).(string)
	return id
}
