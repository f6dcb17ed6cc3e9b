package utils

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/dgrijalva/jwt-go"
)

type JwtCustomClaim struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Refresh  bool   `json:"refresh,omitempty"`
	jwt.StandardClaims
}

var jwtSecret = []byte(getJwtSecret())

func getJwtSecret() string {
	secret := os.Getenv("API_SECRET")
	if secret == "" {
		return "Scorecard-Secret"
	}
	return secret
}

func accessTokenLifespan() time.Duration {
	if v, err := strconv.Atoi(os.Getenv("TOKEN_MINUTE_LIFESPAN")); err == nil && v > 0 {
		return time.Duration(v) * time.Minute
	}
	return 30 * time.Minute
}

func refreshTokenLifespan() time.Duration {
	if v, err := strconv.Atoi(os.Getenv("REFRESH_TOKEN_DAY_LIFESPAN")); err == nil && v > 0 {
		return time.Duration(v) * 24 * time.Hour
	}
	return 7 * 24 * time.Hour
}

func JwtGenerate(userID int, username string) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, &JwtCustomClaim{
		ID:       userID,
		Username: username,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(accessTokenLifespan()).Unix(),
			IssuedAt:  time.Now().Unix(),
		},
	})

	return t.SignedString(jwtSecret)
}

func JwtGenerateRefresh(userID int, username string) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, &JwtCustomClaim{
		ID:       userID,
		Username: username,
		Refresh:  true,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(refreshTokenLifespan()).Unix(),
			IssuedAt:  time.Now().Unix(),
		},
	})

	return t.SignedString(jwtSecret)
}

func JwtValidate(token string) (*jwt.Token, error) {
	return jwt.ParseWithClaims(token, &JwtCustomClaim{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("there's a problem with the signing method")
		}
		return jwtSecret, nil
	})
}

// JwtValidateRefresh validates a refresh token and returns its claims.
// Access tokens are rejected here so they cannot be replayed for renewal.
func JwtValidateRefresh(token string) (*JwtCustomClaim, error) {
	parsed, err := JwtValidate(token)
	if err != nil || !parsed.Valid {
		return nil, errors.New("invalid refresh token")
	}
	claims, ok := parsed.Claims.(*JwtCustomClaim)
	if !ok || !claims.Refresh {
		return nil, errors.New("invalid refresh token")
	}
	return claims, nil
}
