package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/inkle/inkle-api/internal/models"
	"github.com/inkle/inkle-api/internal/services"
)

const principalKey = "principal"

type JWTConfig struct {
	Secret string
}

type Claims struct {
	UserID string `json:"uid"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// GenerateToken issues an HS256 access token carrying the user's id and role.
func GenerateToken(user *models.User, secret string, expire time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: user.ID.String(),
		Role:   string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expire)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func ParseToken(tokenString, secret string) (services.Principal, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return services.Principal{}, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return services.Principal{}, errors.New("invalid token")
	}

	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		return services.Principal{}, fmt.Errorf("invalid subject: %w", err)
	}
	role := models.Role(claims.Role)
	if !role.Valid() {
		return services.Principal{}, fmt.Errorf("invalid role %q", claims.Role)
	}

	return services.Principal{ID: id, Role: role}, nil
}

// NewJWTAuth rejects requests without a valid bearer token and stores the
// resulting principal on the context.
func NewJWTAuth(config *JWTConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}

		principal, err := ParseToken(strings.TrimPrefix(header, "Bearer "), config.Secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(principalKey, principal)
		c.Next()
	}
}

func GetPrincipal(c *gin.Context) (services.Principal, bool) {
	value, ok := c.Get(principalKey)
	if !ok {
		return services.Principal{}, false
	}
	principal, ok := value.(services.Principal)
	return principal, ok
}
