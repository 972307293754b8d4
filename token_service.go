package authsvc

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// Default token lifetimes, used when the config leaves them unset.
const (
	DefaultAccessTokenTTL  = 30 * time.Minute
	DefaultRefreshTokenTTL = 7 * 24 * time.Hour
)

// TokenService mints and validates the signed, self-contained tokens the
// service issues. Minting and validation are pure functions of their inputs
// plus current time; the signing key and method are read-only after startup.
type TokenService struct {
	signingKey    []byte
	signingMethod jwt.SigningMethod
	issuer        string
	accessTTL     time.Duration
	refreshTTL    time.Duration
	logger        Logger
	now           func() time.Time
}

var _ TokenValidator = (*TokenService)(nil)
var _ TokenMinter = (*TokenService)(nil)

// NewTokenService creates a TokenService from process-wide config. It fails
// fast on a missing signing key or an unknown signing method so that
// misconfiguration surfaces at startup, not as a per-request auth failure.
func NewTokenService(cfg Config) (*TokenService, error) {
	if cfg == nil {
		return nil, errors.New("token service requires a config", errors.CategoryBadInput)
	}

	key := cfg.GetSigningKey()
	if key == "" {
		return nil, errors.New("auth signing key is not configured", errors.CategoryBadInput).
			WithTextCode("MISSING_SIGNING_KEY")
	}

	methodName := cfg.GetSigningMethod()
	if methodName == "" {
		methodName = "HS256"
	}

	method := jwt.GetSigningMethod(methodName)
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, errors.New("unsupported auth signing method", errors.CategoryBadInput).
			WithTextCode("INVALID_SIGNING_METHOD").
			WithMetadata(map[string]any{"method": methodName})
	}

	accessTTL := cfg.GetAccessTokenTTL()
	if accessTTL <= 0 {
		accessTTL = DefaultAccessTokenTTL
	}

	refreshTTL := cfg.GetRefreshTokenTTL()
	if refreshTTL <= 0 {
		refreshTTL = DefaultRefreshTokenTTL
	}

	return &TokenService{
		signingKey:    []byte(key),
		signingMethod: method,
		issuer:        cfg.GetIssuer(),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		logger:        defLogger{},
		now:           time.Now,
	}, nil
}

func (ts *TokenService) WithLogger(logger Logger) *TokenService {
	if logger != nil {
		ts.logger = logger
	}
	return ts
}

// WithClock injects a custom clock (useful for tests).
func (ts *TokenService) WithClock(clock func() time.Time) *TokenService {
	if clock != nil {
		ts.now = clock
	}
	return ts
}

// TTL returns the configured lifetime for the given token type.
func (ts *TokenService) TTL(tokenType TokenType) time.Duration {
	if tokenType == TokenTypeRefresh {
		return ts.refreshTTL
	}
	return ts.accessTTL
}

// Mint signs a claim set for the user: sub carries the user id, role the
// enum role, typ the token type, exp now+TTL. Tokens are immutable once
// minted; they are never updated, only reissued.
func (ts *TokenService) Mint(user *User, tokenType TokenType) (string, error) {
	if user == nil {
		return "", errors.New("cannot mint a token without a user", errors.CategoryBadInput)
	}

	if !tokenType.IsValid() {
		return "", errors.New("unknown token type", errors.CategoryBadInput).
			WithMetadata(map[string]any{"type": string(tokenType)})
	}

	now := ts.now()
	claims := &JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    ts.issuer,
			Subject:   user.SubjectID(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ts.TTL(tokenType))),
			ID:        uuid.NewString(),
		},
		UserRole:  user.Role,
		TokenKind: tokenType,
	}

	return ts.SignClaims(claims)
}

// SignClaims signs arbitrary claims with the configured key and method.
func (ts *TokenService) SignClaims(claims *JWTClaims) (string, error) {
	if claims == nil {
		return "", errors.New("claims must not be nil", errors.CategoryInternal)
	}

	token := jwt.NewWithClaims(ts.signingMethod, claims)

	signed, err := token.SignedString(ts.signingKey)
	if err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to sign JWT")
	}

	return signed, nil
}

// Validate parses the token, verifying signature, structure, and expiry.
// Failures map onto the service error taxonomy: a valid signature with a
// past or absent exp is ErrTokenExpired, a bad signature is ErrInvalidToken,
// anything else structural is ErrTokenMalformed.
func (ts *TokenService) Validate(tokenString string) (*JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != ts.signingMethod.Alg() {
			ts.logger.Error("token validate rejected signing method", "alg", t.Header["alg"])
			return nil, ErrInvalidToken
		}
		return ts.signingKey, nil
	},
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(ts.now),
	)

	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired),
			errors.Is(err, jwt.ErrTokenRequiredClaimMissing):
			return nil, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrInvalidToken
		default:
			return nil, ErrTokenMalformed
		}
	}

	claims, ok := token.Claims.(*JWTClaims)
	if !ok || !token.Valid {
		ts.logger.Error("token validate could not decode claims")
		return nil, ErrTokenMalformed
	}

	return claims, nil
}
