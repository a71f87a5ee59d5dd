// Package jwt issues and verifies the access tokens that carry a caller's
// principal id. The engine never authenticates principals itself; tokens
// exist so HTTP callers cannot claim an arbitrary identity per request.
package jwt

import (
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/wyhaines/boards/internal/domain"
	internal_errors "github.com/wyhaines/boards/internal/errors"
	"github.com/wyhaines/boards/internal/logger"
)

type JwtService interface {
	NewToken(user domain.UserId) (string, error)
	DecodeToken(jwtStr string) (domain.UserId, error)
}

type Jwt struct {
	secretKey string
	ttl       time.Duration
}

func New(secretKey string, ttl time.Duration) *Jwt {
	return &Jwt{secretKey, ttl}
}

func (j *Jwt) NewToken(user domain.UserId) (string, error) {
	claims := jwt.MapClaims{
		"sub": user,
		"exp": time.Now().Add(j.ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(j.secretKey))
	if err != nil {
		logger.Log.Error("token signing failed", "error", err)
		return "", fmt.Errorf("can't create token")
	}
	return tokenString, nil
}

func (j *Jwt) DecodeToken(jwtStr string) (domain.UserId, error) {
	token, err := jwt.Parse(jwtStr, func(token *jwt.Token) (interface{}, error) {
		// Verify signing algorithm
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, &internal_errors.ErrorWithStatusCode{Message: fmt.Sprintf("Unexpected signing method: %v", token.Header["alg"]), StatusCode: http.StatusUnauthorized}
		}
		return []byte(j.secretKey), nil
	})
	if err != nil {
		logger.Log.Debug("token parse failed", "error", err)
		return "", &internal_errors.ErrorWithStatusCode{Message: "Invalid token signature", StatusCode: http.StatusUnauthorized}
	}
	if !token.Valid {
		return "", &internal_errors.ErrorWithStatusCode{Message: "Invalid access token", StatusCode: http.StatusUnauthorized}
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", &internal_errors.ErrorWithStatusCode{Message: "Invalid token claims", StatusCode: http.StatusUnauthorized}
	}
	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", &internal_errors.ErrorWithStatusCode{Message: "Token missing subject", StatusCode: http.StatusUnauthorized}
	}
	return domain.UserId(sub), nil
}
