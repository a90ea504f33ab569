package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"cafeteria_back_end/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// Claves del contexto gin donde ParseAuth deja la identidad.
const (
	CtxUserID = "user_id"
	CtxNombre = "nombre"
	CtxCorreo = "correo"
	CtxRol    = "rol"
)

// ParseAuth adjunta la identidad al contexto si llega un Bearer token válido.
// Un token ausente o inválido se ignora: las rutas públicas siguen públicas y
// son los guards posteriores quienes exigen autenticación.
func ParseAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.Next()
			return
		}

		token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("método de firma inesperado: %v", token.Header["alg"])
			}
			return utils.JWTSecret(), nil
		})
		if err != nil || !token.Valid {
			c.Next()
			return
		}

		// La expiración la valida jwt.Parse: un token vencido ya falló arriba
		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.Next()
			return
		}

		if id, ok := claims["id"].(string); ok && id != "" {
			c.Set(CtxUserID, id)
			c.Set(CtxNombre, claims["nombre"])
			c.Set(CtxCorreo, claims["correo"])
			c.Set(CtxRol, claims["rol"])
		}

		c.Next()
	}
}

// AuthRequired corta la petición si ParseAuth no dejó identidad.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(CtxUserID) == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "No autorizado"})
			c.Abort()
			return
		}
		c.Next()
	}
}
