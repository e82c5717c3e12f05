package authz

import (
	"fmt"
	"os"
	"strings"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwk"
	"github.com/lestrrat-go/jwx/v2/jwt"

	"github.com/vyrodovalexey/avrouter/internal/dispatch"
	"github.com/vyrodovalexey/avrouter/internal/observability"
)

const (
	// DefaultRolesClaim is the token claim holding the granted roles.
	DefaultRolesClaim = "roles"

	bearerPrefix = "Bearer "
)

// JWTConfig configures the JWT authorizer. Exactly one of Secret and
// PublicKeyFile must be set.
type JWTConfig struct {
	// Secret enables HS256 verification with a shared secret.
	Secret string `yaml:"secret" json:"secret"`

	// PublicKeyFile enables RS256 verification with a PEM-encoded
	// public key.
	PublicKeyFile string `yaml:"publicKeyFile" json:"publicKeyFile"`

	// RolesClaim is the claim holding the role list. Defaults to
	// "roles".
	RolesClaim string `yaml:"rolesClaim" json:"rolesClaim"`

	// Issuer, when set, must match the token's iss claim.
	Issuer string `yaml:"issuer" json:"issuer"`
}

// JWTAuthorizer verifies a Bearer token and checks the required role
// against the token's role claim.
type JWTAuthorizer struct {
	alg        jwa.SignatureAlgorithm
	key        interface{}
	rolesClaim string
	issuer     string
	logger     observability.Logger
}

// JWTOption is a functional option for the JWT authorizer.
type JWTOption func(*JWTAuthorizer)

// WithJWTLogger sets the logger.
func WithJWTLogger(logger observability.Logger) JWTOption {
	return func(a *JWTAuthorizer) {
		a.logger = logger
	}
}

// NewJWTAuthorizer creates an authorizer from the given config.
func NewJWTAuthorizer(cfg JWTConfig, opts ...JWTOption) (*JWTAuthorizer, error) {
	a := &JWTAuthorizer{
		rolesClaim: cfg.RolesClaim,
		issuer:     cfg.Issuer,
		logger:     observability.NopLogger(),
	}
	if a.rolesClaim == "" {
		a.rolesClaim = DefaultRolesClaim
	}

	switch {
	case cfg.Secret != "" && cfg.PublicKeyFile != "":
		return nil, fmt.Errorf("jwt: secret and publicKeyFile are mutually exclusive")
	case cfg.Secret != "":
		a.alg = jwa.HS256
		a.key = []byte(cfg.Secret)
	case cfg.PublicKeyFile != "":
		data, err := os.ReadFile(cfg.PublicKeyFile)
		if err != nil {
			return nil, fmt.Errorf("jwt: reading public key: %w", err)
		}
		key, err := jwk.ParseKey(data, jwk.WithPEM(true))
		if err != nil {
			return nil, fmt.Errorf("jwt: parsing public key: %w", err)
		}
		a.alg = jwa.RS256
		a.key = key
	default:
		return nil, fmt.Errorf("jwt: no key source configured")
	}

	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Authorize implements dispatch.Authorizer.
func (a *JWTAuthorizer) Authorize(req *dispatch.Request, requiredRole string) bool {
	raw := req.Header("Authorization")
	if !strings.HasPrefix(raw, bearerPrefix) {
		a.logger.Debug("no bearer token on request")
		return false
	}

	parseOpts := []jwt.ParseOption{
		jwt.WithKey(a.alg, a.key),
		jwt.WithValidate(true),
	}
	if a.issuer != "" {
		parseOpts = append(parseOpts, jwt.WithIssuer(a.issuer))
	}

	token, err := jwt.Parse([]byte(strings.TrimPrefix(raw, bearerPrefix)), parseOpts...)
	if err != nil {
		a.logger.Debug("token rejected", observability.Error(err))
		return false
	}

	for _, role := range tokenRoles(token, a.rolesClaim) {
		if role == requiredRole {
			return true
		}
	}

	a.logger.Debug("token lacks role",
		observability.String("role", requiredRole),
		observability.String("claim", a.rolesClaim),
	)
	return false
}

// tokenRoles reads the role list claim, tolerating both string-slice
// and single-string claim values.
func tokenRoles(token jwt.Token, claim string) []string {
	value, ok := token.Get(claim)
	if !ok {
		return nil
	}

	switch v := value.(type) {
	case []interface{}:
		roles := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				roles = append(roles, s)
			}
		}
		return roles
	case []string:
		return v
	case string:
		return []string{v}
	default:
		return nil
	}
}
