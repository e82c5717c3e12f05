package authz

import (
	"testing"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vyrodovalexey/avrouter/internal/dispatch"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func signedToken(t *testing.T, secret string, mutate func(b *jwt.Builder)) string {
	t.Helper()

	builder := jwt.NewBuilder().
		Issuer("avrouter-test").
		IssuedAt(time.Now()).
		Expiration(time.Now().Add(time.Hour))
	if mutate != nil {
		mutate(builder)
	}

	token, err := builder.Build()
	require.NoError(t, err)

	signed, err := jwt.Sign(token, jwt.WithKey(jwa.HS256, []byte(secret)))
	require.NoError(t, err)
	return string(signed)
}

func bearerRequest(token string) *dispatch.Request {
	req := dispatch.NewRequest(dispatch.MethodGet, "/admin")
	if token != "" {
		req.SetHeader("Authorization", "Bearer "+token)
	}
	return req
}

func TestNewJWTAuthorizerConfig(t *testing.T) {
	t.Parallel()

	_, err := NewJWTAuthorizer(JWTConfig{})
	assert.Error(t, err)

	_, err = NewJWTAuthorizer(JWTConfig{Secret: "s", PublicKeyFile: "k.pem"})
	assert.Error(t, err)

	_, err = NewJWTAuthorizer(JWTConfig{PublicKeyFile: "/does/not/exist.pem"})
	assert.Error(t, err)

	authorizer, err := NewJWTAuthorizer(JWTConfig{Secret: testSecret})
	require.NoError(t, err)
	assert.NotNil(t, authorizer)
}

func TestJWTAuthorizer(t *testing.T) {
	t.Parallel()

	authorizer, err := NewJWTAuthorizer(JWTConfig{Secret: testSecret})
	require.NoError(t, err)

	token := signedToken(t, testSecret, func(b *jwt.Builder) {
		b.Claim("roles", []string{"admin", "viewer"})
	})

	assert.True(t, authorizer.Authorize(bearerRequest(token), "admin"))
	assert.True(t, authorizer.Authorize(bearerRequest(token), "viewer"))
	assert.False(t, authorizer.Authorize(bearerRequest(token), "owner"))
}

func TestJWTAuthorizerSingleStringClaim(t *testing.T) {
	t.Parallel()

	authorizer, err := NewJWTAuthorizer(JWTConfig{Secret: testSecret})
	require.NoError(t, err)

	token := signedToken(t, testSecret, func(b *jwt.Builder) {
		b.Claim("roles", "admin")
	})

	assert.True(t, authorizer.Authorize(bearerRequest(token), "admin"))
}

func TestJWTAuthorizerRejections(t *testing.T) {
	t.Parallel()

	authorizer, err := NewJWTAuthorizer(JWTConfig{Secret: testSecret})
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "missing token", token: ""},
		{name: "garbage token", token: "not-a-jwt"},
		{
			name: "wrong key",
			token: signedToken(t, "another-secret-another-secret-xx", func(b *jwt.Builder) {
				b.Claim("roles", []string{"admin"})
			}),
		},
		{
			name: "expired",
			token: signedToken(t, testSecret, func(b *jwt.Builder) {
				b.Claim("roles", []string{"admin"})
				b.Expiration(time.Now().Add(-time.Hour))
			}),
		},
		{
			name:  "no roles claim",
			token: signedToken(t, testSecret, nil),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.False(t, authorizer.Authorize(bearerRequest(tt.token), "admin"))
		})
	}
}

func TestJWTAuthorizerIssuerCheck(t *testing.T) {
	t.Parallel()

	authorizer, err := NewJWTAuthorizer(JWTConfig{Secret: testSecret, Issuer: "expected-issuer"})
	require.NoError(t, err)

	wrongIssuer := signedToken(t, testSecret, func(b *jwt.Builder) {
		b.Claim("roles", []string{"admin"})
	})
	assert.False(t, authorizer.Authorize(bearerRequest(wrongIssuer), "admin"))

	rightIssuer := signedToken(t, testSecret, func(b *jwt.Builder) {
		b.Issuer("expected-issuer")
		b.Claim("roles", []string{"admin"})
	})
	assert.True(t, authorizer.Authorize(bearerRequest(rightIssuer), "admin"))
}

func TestJWTAuthorizerCustomRolesClaim(t *testing.T) {
	t.Parallel()

	authorizer, err := NewJWTAuthorizer(JWTConfig{Secret: testSecret, RolesClaim: "groups"})
	require.NoError(t, err)

	token := signedToken(t, testSecret, func(b *jwt.Builder) {
		b.Claim("groups", []string{"ops"})
		b.Claim("roles", []string{"admin"})
	})

	assert.True(t, authorizer.Authorize(bearerRequest(token), "ops"))
	assert.False(t, authorizer.Authorize(bearerRequest(token), "admin"))
}
