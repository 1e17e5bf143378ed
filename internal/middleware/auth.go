package middleware

import (
	"net/http"
	"strings"

	"tallerpro/internal/apierror"
	"tallerpro/internal/scope"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	ClaimsKey = "claims"
)

// JWTClaims are the custom claims embedded in every access token.
type JWTClaims struct {
	UserID   string  `json:"user_id"`
	Nombre   string  `json:"nombre"`
	Rol      string  `json:"rol"`
	TallerID *string `json:"taller_id,omitempty"`
	RedID    *string `json:"red_id,omitempty"`
	// Tipo is "access" or "refresh"; only access tokens open protected routes
	Tipo string `json:"typ"`
	jwt.RegisteredClaims
}

// JWTAuth validates the Bearer token on every protected route.
func JWTAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("Autenticacion requerida"))
			return
		}

		tokenStr := strings.TrimPrefix(header, "Bearer ")
		claims := &JWTClaims{}
		token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("Token invalido o expirado"))
			return
		}
		if claims.Tipo == "refresh" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("Token invalido o expirado"))
			return
		}
		if _, err := uuid.Parse(claims.UserID); err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("Token mal formado"))
			return
		}

		c.Set(ClaimsKey, claims)
		c.Next()
	}
}

// RequireRole rejects requests whose JWT role is not in the allowed list.
func RequireRole(roles ...scope.Rol) gin.HandlerFunc {
	allowed := make(map[scope.Rol]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(c *gin.Context) {
		rol, _ := scope.ParseRol(GetClaims(c).Rol)
		if !allowed[rol] {
			c.AbortWithStatusJSON(http.StatusForbidden, apierror.New("Permisos insuficientes"))
			return
		}
		c.Next()
	}
}

// GetClaims is a helper to retrieve typed claims from the Gin context.
func GetClaims(c *gin.Context) *JWTClaims {
	claims, _ := c.MustGet(ClaimsKey).(*JWTClaims)
	return claims
}

// AuthContext turns the token claims into the explicit value services take.
// Ids that do not parse are treated as absent, which closes the scope.
func AuthContext(c *gin.Context) scope.AuthContext {
	claims := GetClaims(c)
	rol, _ := scope.ParseRol(claims.Rol)
	uid, _ := uuid.Parse(claims.UserID)
	return scope.AuthContext{
		UserID:   uid,
		Rol:      rol,
		TallerID: parseID(claims.TallerID),
		RedID:    parseID(claims.RedID),
	}
}

func parseID(s *string) *uuid.UUID {
	if s == nil || *s == "" {
		return nil
	}
	id, err := uuid.Parse(*s)
	if err != nil {
		return nil
	}
	return &id
}
