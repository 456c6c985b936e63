package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"factorindex/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
)

const adminRole = "admin"

type adminClaims struct {
	Subject string
	Role    string
}

// parseAdminJWT accepts HS256 tokens signed with secret. Expiry is checked by
// the parser when the token carries an exp claim.
func parseAdminJWT(jwtStr string, secret string) (*adminClaims, error) {
	token, err := jwt.Parse(jwtStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("failed to parse claims")
	}

	out := &adminClaims{}
	out.Subject, _ = claims["sub"].(string)
	out.Role, _ = claims["role"].(string)
	return out, nil
}

func adminMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			returnErrorJsonCode(errors.New("admin routes are disabled"), c, http.StatusForbidden)
			return
		}

		header := c.GetHeader("Authorization")
		tokenStr, found := strings.CutPrefix(header, "Bearer ")
		if !found || tokenStr == "" {
			returnErrorJsonCode(errors.New("missing bearer token"), c, http.StatusUnauthorized)
			return
		}

		claims, err := parseAdminJWT(tokenStr, secret)
		if err != nil {
			returnErrorJsonCode(err, c, http.StatusUnauthorized)
			return
		}
		if claims.Role != adminRole {
			returnErrorJsonCode(fmt.Errorf("role %q may not access admin routes", claims.Role), c, http.StatusForbidden)
			return
		}

		log := logger.FromContext(c.Request.Context()).With("subject", claims.Subject)
		c.Request = c.Request.WithContext(logger.WithContext(c.Request.Context(), log))
		c.Next()
	}
}
