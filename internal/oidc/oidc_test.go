package oidc

import (
	"context"
	"encoding/base64"
	"fmt"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestIssuer(t *testing.T) {
	require.Equal(t, "http://kc:8080/realms/devcamper", Issuer("http://kc:8080/", "devcamper"))
	require.Equal(t, "http://kc:8080/realms/devcamper", Issuer("http://kc:8080/realms/devcamper", ""))
}

// unsigned builds a compact token with an RS256 header and a junk signature.
func unsigned(payload string) string {
	enc := base64.RawURLEncoding
	return enc.EncodeToString([]byte(`{"alg":"RS256","typ":"JWT"}`)) + "." + enc.EncodeToString([]byte(payload)) + ".c2ln"
}

func TestInsecureVerifierReadsClaims(t *testing.T) {
	tok, err := NewInsecureVerifier().Verify(context.Background(), unsigned(`{"sub":"kc-1","realm_access":{"roles":["publisher"]}}`))
	require.NoError(t, err)

	var claims map[string]interface{}
	require.NoError(t, tok.Claims(&claims))
	require.Equal(t, "kc-1", claims["sub"])
	require.Equal(t, map[string]interface{}{"roles": []interface{}{"publisher"}}, claims["realm_access"])
}

func TestInsecureVerifierRejects(t *testing.T) {
	v := NewInsecureVerifier()
	past := time.Now().Add(-time.Hour).Unix()

	for name, raw := range map[string]string{
		"garbage":    "garbage",
		"no subject": unsigned(`{"name":"nobody"}`),
		"bad json":   unsigned(`{"sub":`),
		"expired":    unsigned(fmt.Sprintf(`{"sub":"kc-1","exp":%d}`, past)),
	} {
		_, err := v.Verify(context.Background(), raw)
		require.Error(t, err, name)
	}

	_, err := v.Verify(context.Background(), unsigned(fmt.Sprintf(`{"sub":"kc-1","exp":%d}`, past)))
	require.ErrorIs(t, err, jwt.ErrTokenExpired)
}
