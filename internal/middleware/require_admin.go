package middleware

import (
	"net/http"

	"cafeteria_back_end/internal/models"

	"github.com/gin-gonic/gin"
)

// RequireAdmin verifica que la identidad tenga el rol "admin".
func RequireAdmin(c *gin.Context) {
	rol, exists := c.Get(CtxRol)
	if !exists || rol != models.RolAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "Acceso reservado a administradores"})
		c.Abort()
		return
	}
	c.Next()
}
