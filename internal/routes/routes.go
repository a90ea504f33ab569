package routes

import (
	"net/http"

	"cafeteria_back_end/internal/handlers/auth"
	"cafeteria_back_end/internal/handlers/product"
	"cafeteria_back_end/internal/handlers/reservation"
	"cafeteria_back_end/internal/middleware"
	"cafeteria_back_end/internal/reservations"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes registra todas las rutas del servicio.
func RegisterRoutes(r *gin.Engine, svc *reservations.Service) {
	h := reservation.NewHandler(svc)
	authH := auth.NewHandler(auth.NewScyllaStore())

	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Servidor de Cafetería TECSUP funcionando ✅")
	})
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Autenticación
	r.POST("/auth/register", middleware.RegistroRateLimit(), authH.Register)
	r.POST("/auth/login", middleware.LoginRateLimit(), authH.Login)
	r.GET("/auth/me", middleware.AuthRequired(), authH.Me)

	// Catálogo
	r.GET("/productos", product.ListarProductos)
	r.GET("/productos/buscar", product.BuscarProductos)
	r.POST("/producto", product.CrearProducto)
	r.PUT("/producto/:id", product.ActualizarProducto)
	r.DELETE("/producto/:id", middleware.AuthRequired(), middleware.RequireAdmin, product.EliminarProducto)
	r.POST("/producto/:id/imagen", middleware.AuthRequired(), middleware.RequireAdmin, product.SubirImagen)

	// Reservas
	r.POST("/reservar", h.Crear)
	r.GET("/reservas", h.Listar)
	r.PUT("/reserva/:id/estado", h.CambiarEstado)
	r.DELETE("/reserva/:id", middleware.AuthRequired(), middleware.RequireAdmin, h.Eliminar)
	r.GET("/reserva/codigo/:codigo", h.BuscarPorCodigo)
	r.PUT("/reserva/codigo/:codigo/entregado", h.EntregarPorCodigo)
	r.GET("/reserva/codigo/:codigo/qr", h.QRPorCodigo)

	// Tablero en vivo
	r.GET("/ws/reservas", reservation.ReservasWebSocket)
}
