package jwt_test

import (
	"testing"
	"time"

	"github.com/reciteclub/backend/pkg/jwt"
	"github.com/stretchr/testify/require"
)

func TestJWT(t *testing.T) {
	engine := jwt.NewEngine[string]("secret", time.Minute)
	token, err := engine.Generate("sub", "abc")
	require.NoError(t, err)

	verifier := jwt.NewVerifier[string]("secret")
	msg, err := verifier.Verify(token)
	require.NoError(t, err)
	require.Equal(t, msg, "abc")
}

func TestJWTExpiration(t *testing.T) {
	engine := jwt.NewEngine[string]("secret", -time.Minute)
	token, err := engine.Generate("sub", "abc")
	require.NoError(t, err)

	verifier := jwt.NewVerifier[string]("secret")
	_, err = verifier.Verify(token)
	require.Error(t, err)
}

func TestJWTWrongSecret(t *testing.T) {
	engine := jwt.NewEngine[string]("secret", time.Minute)
	token, err := engine.Generate("sub", "abc")
	require.NoError(t, err)

	verifier := jwt.NewVerifier[string]("another-secret")
	_, err = verifier.Verify(token)
	require.Error(t, err)
}
