package auth

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"cafeteria_back_end/internal/middleware"
	"cafeteria_back_end/internal/models"
	"cafeteria_back_end/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
)

type Handler struct {
	Store Store
}

func NewHandler(store Store) *Handler {
	return &Handler{Store: store}
}

// Register crea una cuenta local y devuelve el token de sesión.
func (h *Handler) Register(c *gin.Context) {
	var input struct {
		Nombre   string `json:"nombre"`
		Correo   string `json:"correo"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "JSON inválido"})
		return
	}

	input.Nombre = strings.TrimSpace(input.Nombre)
	input.Correo = strings.TrimSpace(strings.ToLower(input.Correo))
	if input.Nombre == "" || input.Correo == "" || input.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Faltan campos"})
		return
	}

	ctx := c.Request.Context()

	// ¿Correo ya registrado?
	if _, err := h.Store.BuscarPorCorreo(ctx, input.Correo); err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Correo ya registrado"})
		return
	} else if !errors.Is(err, ErrUsuarioNoEncontrado) {
		log.Println("❌ Error verificando correo:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al registrar"})
		return
	}

	passwordHash, err := utils.HashPassword(input.Password)
	if err != nil {
		log.Println("❌ Error hasheando contraseña:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al registrar"})
		return
	}

	user := models.Usuario{
		ID:           gocql.TimeUUID(),
		Nombre:       input.Nombre,
		Correo:       input.Correo,
		PasswordHash: passwordHash,
		Rol:          models.RolUsuario,
		CreatedAt:    time.Now(),
	}

	if err := h.Store.Insertar(ctx, user); err != nil {
		log.Println("❌ Error creando usuario:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al registrar"})
		return
	}

	token, err := utils.GenerarJWT(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al registrar"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"token": token,
		"user": gin.H{
			"id":     user.ID.String(),
			"nombre": user.Nombre,
			"correo": user.Correo,
			"rol":    user.Rol,
		},
	})
}

// Login verifica las credenciales y devuelve un token de 7 días.
func (h *Handler) Login(c *gin.Context) {
	var input struct {
		Correo   string `json:"correo"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "JSON inválido"})
		return
	}
	input.Correo = strings.TrimSpace(strings.ToLower(input.Correo))

	user, err := h.Store.BuscarPorCorreo(c.Request.Context(), input.Correo)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Credenciales inválidas"})
		return
	}

	ok, err := utils.VerifyPassword(input.Password, user.PasswordHash)
	if err != nil || !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Credenciales inválidas"})
		return
	}

	token, err := utils.GenerarJWT(*user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al iniciar sesión"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user": gin.H{
			"id":     user.ID.String(),
			"nombre": user.Nombre,
			"correo": user.Correo,
			"rol":    user.Rol,
		},
	})
}

// Me devuelve la identidad de la sesión actual.
func (h *Handler) Me(c *gin.Context) {
	userID := c.GetString(middleware.CtxUserID)

	id, err := gocql.ParseUUID(userID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "No autorizado"})
		return
	}

	user, err := h.Store.BuscarPorID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Usuario no encontrado"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":     user.ID.String(),
		"nombre": user.Nombre,
		"correo": user.Correo,
		"rol":    user.Rol,
	})
}
