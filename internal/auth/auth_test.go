package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractBearer(t *testing.T) {
	cases := []struct {
		header string
		want   string
		err    error
	}{
		{"", "", ErrMissingToken},
		{"Bearer abc", "abc", nil},
		{"bearer abc", "abc", nil},
		{"Basic abc", "", ErrMalformedHeader},
		{"Bearer ", "", ErrMalformedHeader},
		{"abc", "", ErrMalformedHeader},
	}
	for _, tc := range cases {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		if tc.header != "" {
			r.Header.Set("Authorization", tc.header)
		}
		got, err := ExtractBearer(r)
		assert.Equal(t, tc.want, got, tc.header)
		assert.ErrorIs(t, err, tc.err, tc.header)
	}
}

func TestJWTAuthenticator(t *testing.T) {
	ctx := context.Background()
	a := NewJWTAuthenticator("secret")

	tok, err := IssueToken("secret", "user-42", time.Hour)
	require.NoError(t, err)
	id, err := a.Authenticate(ctx, tok)
	require.NoError(t, err)
	assert.Equal(t, "user-42", id.UserID)
	assert.Equal(t, "jwt", id.Method)

	wrong, err := IssueToken("other", "user-42", time.Hour)
	require.NoError(t, err)
	_, err = a.Authenticate(ctx, wrong)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired, err := IssueToken("secret", "user-42", -time.Minute)
	require.NoError(t, err)
	_, err = a.Authenticate(ctx, expired)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTAuthenticator_RejectsNoneAndMissingSubject(t *testing.T) {
	a := NewJWTAuthenticator("secret")

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "u", "exp": time.Now().Add(time.Hour).Unix()}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = a.Authenticate(context.Background(), none)
	assert.ErrorIs(t, err, ErrInvalidToken)

	nosub, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()}).
		SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = a.Authenticate(context.Background(), nosub)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestNew_Chain(t *testing.T) {
	ctx := context.Background()

	prod := New("secret", false)
	_, err := prod.Authenticate(ctx, LocalDevAPIKey)
	assert.ErrorIs(t, err, ErrInvalidToken)

	dev := New("secret", true)
	id, err := dev.Authenticate(ctx, LocalDevAPIKey)
	require.NoError(t, err)
	assert.Equal(t, LocalDevUserID, id.UserID)

	tok, _ := IssueToken("secret", "u1", time.Hour)
	id, err = dev.Authenticate(ctx, tok)
	require.NoError(t, err)
	assert.Equal(t, "u1", id.UserID)
}

func TestIssueToken_Validates(t *testing.T) {
	_, err := IssueToken("", "u", time.Hour)
	assert.Error(t, err)
	_, err = IssueToken("s", "", time.Hour)
	assert.Error(t, err)
}

func TestMiddleware(t *testing.T) {
	var seen string
	h := Middleware(New("", true))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = UserID(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	r := httptest.NewRequest(http.MethodGet, "/api/campaigns", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	r.Header.Set("Authorization", "Bearer nope")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, r)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	r.Header.Set("Authorization", "Bearer "+LocalDevAPIKey)
	w = httptest.NewRecorder()
	h.ServeHTTP(w, r)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, LocalDevUserID, seen)

	pre := httptest.NewRequest(http.MethodOptions, "/api/campaigns", nil)
	w = httptest.NewRecorder()
	h.ServeHTTP(w, pre)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestFromContext_Empty(t *testing.T) {
	_, ok := FromContext(context.Background())
	assert.False(t, ok)
	assert.Equal(t, "", UserID(context.Background()))
}

func TestUnverifiedSubject(t *testing.T) {
	tok, err := IssueToken("s", "u7", time.Hour)
	require.NoError(t, err)
	sub, err := UnverifiedSubject(tok)
	require.NoError(t, err)
	assert.Equal(t, "u7", sub)

	sub, err = UnverifiedSubject(LocalDevAPIKey)
	require.NoError(t, err)
	assert.Equal(t, LocalDevUserID, sub)

	_, err = UnverifiedSubject("garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
