package middlewares

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dmitrymomot/strata/internal"
)

// JWTClaimsKey is the State key the parsed claims are stored under.
const JWTClaimsKey = "jwt_claims"

// JWTConfig configures the JWT middleware.
type JWTConfig struct {
	Extractor    internal.Extractor
	Issuer       string
	Methods      []string
	extractorSet bool
}

// JWTOption configures JWTConfig.
type JWTOption func(*JWTConfig)

// WithJWTExtractor sets a custom token extractor chain.
func WithJWTExtractor(ext internal.Extractor) JWTOption {
	return func(cfg *JWTConfig) {
		cfg.Extractor = ext
		cfg.extractorSet = true
	}
}

// WithJWTIssuer requires the "iss" claim to match issuer.
func WithJWTIssuer(issuer string) JWTOption {
	return func(cfg *JWTConfig) {
		cfg.Issuer = issuer
	}
}

// WithJWTMethods restricts the accepted signing algorithms. Defaults to HS256.
func WithJWTMethods(methods ...string) JWTOption {
	return func(cfg *JWTConfig) {
		cfg.Methods = methods
	}
}

// JWT returns middleware that authenticates the request with an HMAC-signed
// bearer token. The parsed claims are stored in c.State() under JWTClaimsKey.
// A missing or invalid token short-circuits the chain with 401.
//
// C is the claims type, e.g. jwt.RegisteredClaims or a struct embedding it:
//
//	type Claims struct {
//	    jwt.RegisteredClaims
//	    Role string `json:"role"`
//	}
//
//	app.Use(middlewares.JWT[Claims]([]byte(secret)))
func JWT[C any, PC interface {
	*C
	jwt.Claims
}](secret []byte, opts ...JWTOption) internal.Middleware {
	cfg := &JWTConfig{
		Methods: []string{jwt.SigningMethodHS256.Alg()},
	}
	for _, opt := range opts {
		opt(cfg)
	}

	if !cfg.extractorSet {
		cfg.Extractor = internal.NewExtractor(internal.FromBearerToken())
	}

	parserOpts := []jwt.ParserOption{jwt.WithValidMethods(cfg.Methods)}
	if cfg.Issuer != "" {
		parserOpts = append(parserOpts, jwt.WithIssuer(cfg.Issuer))
	}
	parser := jwt.NewParser(parserOpts...)

	keyFunc := func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	}

	return func(c internal.Context, next internal.Next) error {
		raw, ok := cfg.Extractor.Extract(c)
		if !ok {
			return internal.ErrUnauthorized("missing authentication token", bearerChallenge())
		}

		claims := PC(new(C))
		if _, err := parser.ParseWithClaims(raw, claims, keyFunc); err != nil {
			msg := "invalid token"
			if errors.Is(err, jwt.ErrTokenExpired) {
				msg = "token expired"
			}
			return internal.ErrUnauthorized(msg, bearerChallenge(), internal.WithError(err))
		}

		c.State()[JWTClaimsKey] = claims
		return next()
	}
}

// GetJWTClaims returns the claims stored by JWT, or nil when the middleware
// did not run or C does not match.
func GetJWTClaims[C any](c internal.Context) *C {
	return internal.StateValue[*C](c, JWTClaimsKey)
}

func bearerChallenge() internal.HTTPErrorOption {
	return internal.WithHeader("WWW-Authenticate", "Bearer")
}
