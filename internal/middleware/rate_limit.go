package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"cafeteria_back_end/internal/database"

	"github.com/gin-gonic/gin"
)

const (
	LoginMaxIntentos    = 5
	RegistroMaxIntentos = 3

	LoginCooldown    = 15 * time.Minute
	RegistroCooldown = 30 * time.Minute
)

// LoginRateLimit limita los intentos de login por correo. Los intentos se
// cuentan solo cuando el login falla; un login correcto limpia el contador.
func LoginRateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if database.Redis == nil {
			c.Next()
			return
		}

		// Leer el body sin consumirlo
		bodyBytes, _ := io.ReadAll(c.Request.Body)

		var input struct {
			Correo string `json:"correo"`
		}
		if err := json.Unmarshal(bodyBytes, &input); err != nil || input.Correo == "" {
			c.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))
			c.Next()
			return
		}

		c.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))

		ctx := context.Background()
		key := "login_intentos:" + input.Correo
		cooldownKey := "login_cooldown:" + input.Correo

		if database.Redis.Exists(ctx, cooldownKey).Val() > 0 {
			ttl := database.Redis.TTL(ctx, cooldownKey).Val()
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       fmt.Sprintf("Demasiados intentos fallidos. Reintenta en %d minutos", int(ttl.Minutes())),
				"retry_after": int(ttl.Seconds()),
			})
			c.Abort()
			return
		}

		attempts, _ := database.Redis.Get(ctx, key).Int()
		if attempts >= LoginMaxIntentos {
			database.Redis.Set(ctx, cooldownKey, "1", LoginCooldown)
			database.Redis.Del(ctx, key)

			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       fmt.Sprintf("Demasiados intentos fallidos. Bloqueado por %d minutos", int(LoginCooldown.Minutes())),
				"retry_after": int(LoginCooldown.Seconds()),
			})
			c.Abort()
			return
		}

		c.Next()

		switch c.Writer.Status() {
		case http.StatusUnauthorized:
			database.Redis.Incr(ctx, key)
			database.Redis.Expire(ctx, key, LoginCooldown)
		case http.StatusOK:
			database.Redis.Del(ctx, key)
		}
	}
}

// RegistroRateLimit limita los registros por IP de origen.
func RegistroRateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if database.Redis == nil {
			c.Next()
			return
		}

		ctx := context.Background()
		key := "registro_intentos:" + c.ClientIP()

		attempts, _ := database.Redis.Get(ctx, key).Int()
		if attempts >= RegistroMaxIntentos {
			ttl := database.Redis.TTL(ctx, key).Val()
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       "Demasiados registros desde esta dirección. Intenta más tarde",
				"retry_after": int(ttl.Seconds()),
			})
			c.Abort()
			return
		}

		c.Next()

		if c.Writer.Status() == http.StatusCreated {
			database.Redis.Incr(ctx, key)
			database.Redis.Expire(ctx, key, RegistroCooldown)
		}
	}
}
