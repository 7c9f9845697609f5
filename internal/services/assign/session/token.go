// Package session verifies signed session tokens and resolves the acting
// principal for dispatched messages.
package session

import (
	"crypto/ed25519"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/Bram-Hub/assign/internal/platform/errors"
	"github.com/Bram-Hub/assign/internal/services/assign/domain/perm"
)

// Environment variable names for session token verification.
const (
	EnvSessionIssuer    = "ARIS_ASSIGN_SESSION_ISSUER"
	EnvSessionAudience  = "ARIS_ASSIGN_SESSION_AUDIENCE"
	EnvSessionPublicKey = "ARIS_ASSIGN_SESSION_PUBLIC_KEY"
)

// tokenEnv holds raw env values before post-parse validation.
type tokenEnv struct {
	Issuer    string `env:"ARIS_ASSIGN_SESSION_ISSUER"`
	Audience  string `env:"ARIS_ASSIGN_SESSION_AUDIENCE"`
	PublicKey string `env:"ARIS_ASSIGN_SESSION_PUBLIC_KEY"`
}

// Config defines how session tokens are verified.
type Config struct {
	Issuer   string
	Audience string
	Key      ed25519.PublicKey
	Now      func() time.Time
}

// tokenClaims is the internal claims type used for JWT parsing.
type tokenClaims struct {
	jwt.RegisteredClaims
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// LoadConfigFromEnv reads session token verification configuration.
func LoadConfigFromEnv(now func() time.Time) (Config, error) {
	var raw tokenEnv
	if err := env.Parse(&raw); err != nil {
		return Config{}, fmt.Errorf("parse session env: %w", err)
	}
	issuer := strings.TrimSpace(raw.Issuer)
	audience := strings.TrimSpace(raw.Audience)
	publicKey := strings.TrimSpace(raw.PublicKey)
	if issuer == "" {
		return Config{}, fmt.Errorf("ARIS_ASSIGN_SESSION_ISSUER is required")
	}
	if audience == "" {
		return Config{}, fmt.Errorf("ARIS_ASSIGN_SESSION_AUDIENCE is required")
	}
	if publicKey == "" {
		return Config{}, fmt.Errorf("ARIS_ASSIGN_SESSION_PUBLIC_KEY is required")
	}
	keyBytes, err := decodeBase64(publicKey)
	if err != nil {
		return Config{}, fmt.Errorf("decode session public key: %w", err)
	}
	if len(keyBytes) != ed25519.PublicKeySize {
		return Config{}, fmt.Errorf("session public key must be %d bytes", ed25519.PublicKeySize)
	}
	if now == nil {
		now = time.Now
	}
	return Config{
		Issuer:   issuer,
		Audience: audience,
		Key:      ed25519.PublicKey(keyBytes),
		Now:      now,
	}, nil
}

// VerifyToken verifies a session token and resolves its principal.
func VerifyToken(token string, cfg Config) (perm.Principal, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return perm.Principal{}, apperrors.New(apperrors.CodeSessionTokenInvalid, "session token is required")
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Issuer == "" || cfg.Audience == "" || len(cfg.Key) != ed25519.PublicKeySize {
		return perm.Principal{}, errors.New("session verifier is not configured")
	}

	var parsed tokenClaims
	_, err := jwt.ParseWithClaims(token, &parsed, func(t *jwt.Token) (any, error) {
		return cfg.Key, nil
	},
		jwt.WithValidMethods([]string{"EdDSA"}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil {
		return perm.Principal{}, mapJWTError(err)
	}

	if parsed.Issuer == "" || parsed.Issuer != cfg.Issuer {
		return perm.Principal{}, apperrors.WithMetadata(
			apperrors.CodeSessionTokenInvalid,
			"session token issuer mismatch",
			map[string]string{"Field": "issuer"},
		)
	}
	if !audienceContains(parsed.Audience, cfg.Audience) {
		return perm.Principal{}, apperrors.WithMetadata(
			apperrors.CodeSessionTokenInvalid,
			"session token audience mismatch",
			map[string]string{"Field": "audience"},
		)
	}
	if parsed.ExpiresAt == nil {
		return perm.Principal{}, apperrors.New(apperrors.CodeSessionTokenInvalid, "session token exp is required")
	}

	now := cfg.Now().UTC()
	if !parsed.ExpiresAt.Time.UTC().After(now) {
		return perm.Principal{}, apperrors.New(apperrors.CodeSessionTokenExpired, "session token is expired")
	}
	if parsed.NotBefore != nil && now.Before(parsed.NotBefore.Time.UTC()) {
		return perm.Principal{}, apperrors.New(apperrors.CodeSessionTokenInvalid, "session token not active yet")
	}

	if parsed.UserID <= 0 {
		return perm.Principal{}, apperrors.New(apperrors.CodeSessionTokenInvalid, "session token user_id is required")
	}
	username := strings.TrimSpace(parsed.Username)
	if username == "" {
		return perm.Principal{}, apperrors.New(apperrors.CodeSessionTokenInvalid, "session token username is required")
	}
	role := perm.Role(strings.TrimSpace(parsed.Role))
	if !perm.ValidRole(role) {
		return perm.Principal{}, apperrors.WithMetadata(
			apperrors.CodeSessionTokenInvalid,
			"session token role is invalid",
			map[string]string{"Field": "role"},
		)
	}

	return perm.Principal{
		ID:       parsed.UserID,
		Username: username,
		Role:     role,
	}, nil
}

// mapJWTError translates jwt library errors to application errors.
func mapJWTError(err error) error {
	if errors.Is(err, jwt.ErrTokenSignatureInvalid) || errors.Is(err, jwt.ErrEd25519Verification) {
		return apperrors.New(apperrors.CodeSessionTokenInvalid, "session token signature is invalid")
	}
	if errors.Is(err, jwt.ErrTokenUnverifiable) {
		return apperrors.New(apperrors.CodeSessionTokenInvalid, "session token alg is invalid")
	}
	return apperrors.New(apperrors.CodeSessionTokenInvalid, "session token is invalid")
}

// audienceContains reports whether the audience list contains the given value.
func audienceContains(aud jwt.ClaimStrings, value string) bool {
	for _, item := range aud {
		if item == value {
			return true
		}
	}
	return false
}

func decodeBase64(value string) ([]byte, error) {
	if value == "" {
		return nil, errors.New("empty base64 value")
	}
	decoded, err := base64.RawStdEncoding.DecodeString(value)
	if err == nil {
		return decoded, nil
	}
	return base64.StdEncoding.DecodeString(value)
}
