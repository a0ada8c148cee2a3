package pkg

import (
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims carries the identity the gateway mints for shop staff: the
// acting user plus the shop the session is scoped to. Internal services
// authenticate with a shared header instead and never carry these claims.
type TokenClaims struct {
	UserID int64
	ShopID *int64
}

func ParseJwtToken(tokenString string, secretKey string) (TokenClaims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secretKey), nil
	})
	if err != nil {
		return TokenClaims{}, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return TokenClaims{}, fmt.Errorf("invalid token claims")
	}

	var tokenClaims TokenClaims
	if uid, ok := claims["uid"].(float64); ok {
		tokenClaims.UserID = int64(uid)
	}
	if sid, ok := claims["sid"].(float64); ok {
		shopID := int64(sid)
		tokenClaims.ShopID = &shopID
	}
	return tokenClaims, nil
}

func GetTokenFromHeaders(header string) (string, error) {
	token := strings.TrimPrefix(header, "Bearer ")
	if token == "" || token == header {
		return "", fmt.Errorf("missing bearer token")
	}
	return token, nil
}
