package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureSession(t *testing.T, s *Sessions, req *http.Request) (string, *httptest.ResponseRecorder) {
	t.Helper()

	var seen string
	h := s.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetSessionID(r.Context())
	}))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return seen, rr
}

func sessionCookie(rr *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rr.Result().Cookies() {
		if c.Name == SessionCookieName {
			return c
		}
	}
	return nil
}

func TestSessions_IssuesCookieForNewVisitor(t *testing.T) {
	s := NewSessions("secret", time.Hour, false)

	id, rr := captureSession(t, s, httptest.NewRequest(http.MethodGet, "/", nil))

	_, err := uuid.Parse(id)
	require.NoError(t, err)

	c := sessionCookie(rr)
	require.NotNil(t, c)
	assert.True(t, c.HttpOnly)

	parsed, _, err := s.ParseToken(c.Value)
	require.NoError(t, err)
	assert.Equal(t, id, parsed)
}

func TestSessions_ReusesValidCookie(t *testing.T) {
	s := NewSessions("secret", time.Hour, false)
	token, err := s.IssueToken("0b6f1d5e-5d8f-4b59-9a53-6f6d0c7c2a11")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})
	id, rr := captureSession(t, s, req)

	assert.Equal(t, "0b6f1d5e-5d8f-4b59-9a53-6f6d0c7c2a11", id)
	assert.Nil(t, sessionCookie(rr), "fresh cookie is not reissued")
}

func TestSessions_RejectsForeignSignature(t *testing.T) {
	other := NewSessions("other-secret", time.Hour, false)
	token, err := other.IssueToken("0b6f1d5e-5d8f-4b59-9a53-6f6d0c7c2a11")
	require.NoError(t, err)

	s := NewSessions("secret", time.Hour, false)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})
	id, rr := captureSession(t, s, req)

	assert.NotEqual(t, "0b6f1d5e-5d8f-4b59-9a53-6f6d0c7c2a11", id)
	assert.NotNil(t, sessionCookie(rr))
}

func TestSessions_ExpiredToken(t *testing.T) {
	s := NewSessions("secret", time.Hour, false)

	claims := sessionClaims{
		SessionID: uuid.New().String(),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.Secret)
	require.NoError(t, err)

	_, _, err = s.ParseToken(token)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestSessions_RefreshesOldCookie(t *testing.T) {
	s := NewSessions("secret", time.Hour, false)
	id := uuid.New().String()

	claims := sessionClaims{
		SessionID: id,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-45 * time.Minute)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(15 * time.Minute)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.Secret)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})
	seen, rr := captureSession(t, s, req)

	assert.Equal(t, id, seen)
	assert.NotNil(t, sessionCookie(rr))
}
