package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssuer_RoundTrip(t *testing.T) {
	i := NewIssuer("secret", time.Hour)

	owner, token, err := i.NewSession()
	require.NoError(t, err)
	require.NotEmpty(t, owner)

	got, err := i.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, owner, got)
}

func TestIssuer_Rejects(t *testing.T) {
	i := NewIssuer("secret", time.Hour)

	token, err := i.Issue("alice")
	require.NoError(t, err)

	_, err = NewIssuer("other", time.Hour).Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	i.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = i.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{Subject: "alice"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewIssuer("secret", 0).Parse(none)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func ownerEcho() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		owner, _ := OwnerFrom(r.Context())
		w.Write([]byte(owner))
	})
}

func TestMiddleware(t *testing.T) {
	issuer := NewIssuer("secret", time.Hour)
	token, err := issuer.Issue("alice")
	require.NoError(t, err)

	type testCase struct {
		name       string
		issuer     *Issuer
		headers    map[string]string
		wantStatus int
		wantOwner  string
	}

	tests := []testCase{
		{name: "Bearer", issuer: issuer, headers: map[string]string{"Authorization": "Bearer " + token}, wantStatus: http.StatusOK, wantOwner: "alice"},
		{name: "MissingToken", issuer: issuer, wantStatus: http.StatusUnauthorized},
		{name: "BadToken", issuer: issuer, headers: map[string]string{"Authorization": "Bearer nope"}, wantStatus: http.StatusUnauthorized},
		{name: "SessionHeader", headers: map[string]string{SessionHeader: "bob"}, wantStatus: http.StatusOK, wantOwner: "bob"},
		{name: "LocalDefault", wantStatus: http.StatusOK, wantOwner: LocalOwner},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}

			rec := httptest.NewRecorder()
			Middleware(tt.issuer)(ownerEcho()).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)

			if tt.wantOwner != "" {
				assert.Equal(t, tt.wantOwner, rec.Body.String())
			}
		})
	}
}
