package auth

import (
	"errors"
	"strconv"
	"time"

	"plume/config"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// AccessClaims is the payload of a short-lived access token. Refresh
// tokens carry only registered claims with the user id in the subject.
type AccessClaims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

func signHS256(claims jwt.Claims, secret string) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

func registered(issuer string, expiry time.Duration) jwt.RegisteredClaims {
	now := time.Now()
	return jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
		IssuedAt:  jwt.NewNumericDate(now),
		Issuer:    issuer,
	}
}

func GenerateAccessToken(cfg *config.JWTConfig, userID uint, email, role string) (string, error) {
	return signHS256(AccessClaims{
		UserID:           userID,
		Email:            email,
		Role:             role,
		RegisteredClaims: registered(cfg.Issuer, cfg.AccessExpiry),
	}, cfg.AccessSecret)
}

func GenerateRefreshToken(cfg *config.JWTConfig, userID uint) (string, error) {
	claims := registered(cfg.Issuer, cfg.RefreshExpiry)
	claims.Subject = strconv.FormatUint(uint64(userID), 10)
	return signHS256(claims, cfg.RefreshSecret)
}

func ParseAccessToken(cfg *config.JWTConfig, tokenString string) (*AccessClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AccessClaims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte(cfg.AccessSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*AccessClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
