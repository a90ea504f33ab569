package utils

import (
	"os"
	"time"

	"cafeteria_back_end/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

// TokenValidez es la ventana de validez del token. Los tokens son stateless:
// no hay revocación, solo expiración.
const TokenValidez = 7 * 24 * time.Hour

func JWTSecret() []byte {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "super_secret"
	}
	return []byte(secret)
}

// GenerarJWT firma un token HS256 con la identidad del usuario.
func GenerarJWT(u models.Usuario) (string, error) {
	claims := jwt.MapClaims{
		"id":     u.ID.String(),
		"nombre": u.Nombre,
		"correo": u.Correo,
		"rol":    u.Rol,
		"exp":    time.Now().Add(TokenValidez).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(JWTSecret())
}
