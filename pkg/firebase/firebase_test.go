package firebase

import (
	"context"
	"errors"
	"testing"

	"firebase.google.com/go/v4/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubClient struct {
	token *auth.Token
	err   error
}

func (s stubClient) VerifyIDToken(context.Context, string) (*auth.Token, error) {
	return s.token, s.err
}

func TestIdentityFromToken(t *testing.T) {
	tests := []struct {
		name         string
		claims       map[string]interface{}
		wantVerified bool
	}{
		{"verified", map[string]interface{}{"email": "a@x.com", "name": "A", "email_verified": true}, true},
		{"unverified", map[string]interface{}{"email": "a@x.com", "email_verified": false}, false},
		{"claim missing", map[string]interface{}{"email": "a@x.com"}, false},
		{"claim not a bool", map[string]interface{}{"email": "a@x.com", "email_verified": "true"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id := IdentityFromToken(&auth.Token{UID: "uid-1", Claims: tt.claims})
			assert.Equal(t, "uid-1", id.UID)
			assert.Equal(t, "a@x.com", id.Email)
			assert.Equal(t, tt.wantVerified, id.EmailVerified)
		})
	}
}

func TestVerifyIdentity(t *testing.T) {
	app := &App{verifier: stubClient{token: &auth.Token{
		UID:    "uid-1",
		Claims: map[string]interface{}{"email": "a@x.com", "name": "Alice", "email_verified": true},
	}}}
	id, err := app.VerifyIdentity(context.Background(), "token")
	require.NoError(t, err)
	assert.Equal(t, "Alice", id.Name)
	assert.True(t, id.EmailVerified)

	app = &App{verifier: stubClient{err: errors.New("expired")}}
	_, err = app.VerifyIdentity(context.Background(), "token")
	assert.EqualError(t, err, "expired")
}

func TestInitFirebase_DisabledWithoutCredentials(t *testing.T) {
	app, err := InitFirebase(context.Background(), "")
	assert.NoError(t, err)
	assert.Nil(t, app)

	_, err = InitFirebase(context.Background(), "/does/not/exist.json")
	assert.Error(t, err)
}
