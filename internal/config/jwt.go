package config

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrNoJWT means no signing key is configured and players cannot log in.
var ErrNoJWT = errors.New("no JWT keys configured")

const tokenLifetime = time.Hour * 24 * 30

type JWT struct {
	publicKey     *rsa.PublicKey
	privateKey    *rsa.PrivateKey
	signingMethod jwt.SigningMethod
	tokenLifetime time.Duration
}

// loadPEM reads key from the environment, either inline or from the file
// named by key_FILE.
func loadPEM(key string) ([]byte, error) {
	if pem, ok := os.LookupEnv(key); ok {
		return []byte(pem), nil
	}
	path, ok := os.LookupEnv(key + "_FILE")
	if !ok {
		return nil, fmt.Errorf("no %s or %s_FILE env variable set", key, key)
	}
	pem, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read %s: %w", path, err)
	}
	return pem, nil
}

func NewJWT() (*JWT, error) {
	_, inline := os.LookupEnv("JWT_PRIVATE_KEY")
	_, file := os.LookupEnv("JWT_PRIVATE_KEY_FILE")
	if !inline && !file {
		return nil, ErrNoJWT
	}

	privatePEM, err := loadPEM("JWT_PRIVATE_KEY")
	if err != nil {
		return nil, err
	}
	privateKey, err := jwt.ParseRSAPrivateKeyFromPEM(privatePEM)
	if err != nil {
		return nil, fmt.Errorf("unable to parse JWT private key: %w", err)
	}

	publicPEM, err := loadPEM("JWT_PUBLIC_KEY")
	if err != nil {
		return nil, err
	}
	publicKey, err := jwt.ParseRSAPublicKeyFromPEM(publicPEM)
	if err != nil {
		return nil, fmt.Errorf("unable to parse JWT public key: %w", err)
	}

	return NewJWTFromKey(privateKey, publicKey), nil
}

func NewJWTFromKey(privateKey *rsa.PrivateKey, publicKey *rsa.PublicKey) *JWT {
	return &JWT{
		privateKey:    privateKey,
		publicKey:     publicKey,
		signingMethod: jwt.SigningMethodRS256,
		tokenLifetime: tokenLifetime,
	}
}

func (j *JWT) Sign(claims *PlayerClaims) (string, error) {
	now := time.Now()
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(j.tokenLifetime))
	return jwt.NewWithClaims(j.signingMethod, claims).SignedString(j.privateKey)
}

func (j *JWT) ParseWithClaims(tokenString string, claims jwt.Claims) (*jwt.Token, error) {
	return jwt.ParseWithClaims(
		tokenString,
		claims,
		func(t *jwt.Token) (interface{}, error) {
			return j.publicKey, nil
		},
		jwt.WithValidMethods([]string{j.signingMethod.Alg()}),
	)
}
