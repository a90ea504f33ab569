package reservation

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"cafeteria_back_end/internal/database"
	"cafeteria_back_end/internal/middleware"
	"cafeteria_back_end/internal/models"
	"cafeteria_back_end/internal/reservations"
	"cafeteria_back_end/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
)

// CanalEventos es el canal Redis pubsub donde se publican altas y cambios de
// estado, consumido por el tablero websocket del panel de administración.
const CanalEventos = "reservas:eventos"

type Handler struct {
	Svc *reservations.Service
}

func NewHandler(svc *reservations.Service) *Handler {
	return &Handler{Svc: svc}
}

// Crear registra una reserva nueva. El total siempre se recalcula en el
// servidor; si hay sesión, el nombre del token manda sobre el del cuerpo.
func (h *Handler) Crear(c *gin.Context) {
	var req reservations.NuevaReserva
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "JSON inválido"})
		return
	}

	ident := identidadDesdeContexto(c)

	reserva, err := h.Svc.Crear(c.Request.Context(), req, ident)
	if err != nil {
		switch {
		case errors.Is(err, reservations.ErrCarritoVacio), errors.Is(err, reservations.ErrProductosInvalidos):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			log.Println("❌ Error guardando reserva:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al guardar la reserva"})
		}
		return
	}

	publicarEvento("creada", reserva)

	// Comprobante por correo para clientes con sesión, mejor esfuerzo
	if ident != nil && ident.Correo != "" {
		go func(correo string, r models.Reserva) {
			png, err := utils.PNGQRReserva(r, 256)
			if err != nil {
				png = nil
			}
			if err := utils.SendReservaConfirmada(correo, r, png); err != nil {
				log.Println("⚠️ No se pudo enviar el comprobante:", err)
			}
		}(ident.Correo, *reserva)
	}

	c.JSON(http.StatusCreated, reserva)
}

// Listar devuelve las reservas, con filtro opcional ?estado=Pendiente.
func (h *Handler) Listar(c *gin.Context) {
	reservas, err := h.Svc.Listar(c.Request.Context(), c.Query("estado"))
	if err != nil {
		log.Println("❌ Error listando reservas:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al obtener las reservas"})
		return
	}
	if reservas == nil {
		reservas = []models.Reserva{}
	}
	c.JSON(http.StatusOK, reservas)
}

// CambiarEstado aplica una transición de estado sobre la reserva indicada.
func (h *Handler) CambiarEstado(c *gin.Context) {
	id, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID de reserva inválido"})
		return
	}

	var body struct {
		Estado string `json:"estado"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "JSON inválido"})
		return
	}

	reserva, err := h.Svc.SetEstado(c.Request.Context(), reservations.PorID(id), models.Estado(body.Estado))
	if err != nil {
		switch {
		case errors.Is(err, reservations.ErrEstadoInvalido):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, reservations.ErrReservaNoEncontrada):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, reservations.ErrEstadoFinal):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			log.Println("❌ Error actualizando estado:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al actualizar el estado"})
		}
		return
	}

	publicarEvento("estado", reserva)
	c.JSON(http.StatusOK, reserva)
}

// BuscarPorCodigo resuelve el código leído por el escáner QR.
func (h *Handler) BuscarPorCodigo(c *gin.Context) {
	reserva, err := h.Svc.BuscarPorCodigo(c.Request.Context(), c.Param("codigo"))
	if err != nil {
		if errors.Is(err, reservations.ErrReservaNoEncontrada) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No existe reserva con ese código"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al buscar la reserva"})
		return
	}
	c.JSON(http.StatusOK, reserva)
}

// EntregarPorCodigo es el atajo del escáner: marca Entregado sin condiciones.
func (h *Handler) EntregarPorCodigo(c *gin.Context) {
	reserva, err := h.Svc.EntregarPorCodigo(c.Request.Context(), c.Param("codigo"))
	if err != nil {
		if errors.Is(err, reservations.ErrReservaNoEncontrada) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Reserva no encontrada"})
			return
		}
		log.Println("❌ Error marcando entrega:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al actualizar el estado"})
		return
	}

	publicarEvento("estado", reserva)
	c.JSON(http.StatusOK, gin.H{"mensaje": "Pedido marcado como ENTREGADO", "reserva": reserva})
}

// Eliminar borra una reserva.
func (h *Handler) Eliminar(c *gin.Context) {
	id, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID de reserva inválido"})
		return
	}

	if err := h.Svc.Eliminar(c.Request.Context(), id); err != nil {
		if errors.Is(err, reservations.ErrReservaNoEncontrada) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Reserva no encontrada"})
			return
		}
		log.Println("❌ Error eliminando reserva:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al eliminar la reserva"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Reserva eliminada"})
}

// QRPorCodigo reconstruye el QR de una reserva persistida como PNG. El texto
// es determinista, así que el QR regenerado es idéntico al del cliente.
func (h *Handler) QRPorCodigo(c *gin.Context) {
	reserva, err := h.Svc.BuscarPorCodigo(c.Request.Context(), c.Param("codigo"))
	if err != nil {
		if errors.Is(err, reservations.ErrReservaNoEncontrada) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No existe reserva con ese código"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al buscar la reserva"})
		return
	}

	png, err := utils.PNGQRReserva(*reserva, 256)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error generando el QR"})
		return
	}

	c.Data(http.StatusOK, "image/png", png)
}

func identidadDesdeContexto(c *gin.Context) *reservations.Identidad {
	userID := c.GetString(middleware.CtxUserID)
	if userID == "" {
		return nil
	}
	return &reservations.Identidad{
		ID:     userID,
		Nombre: c.GetString(middleware.CtxNombre),
		Correo: c.GetString(middleware.CtxCorreo),
		Rol:    c.GetString(middleware.CtxRol),
	}
}

func publicarEvento(tipo string, r *models.Reserva) {
	if database.Redis == nil {
		return
	}
	payload, err := json.Marshal(gin.H{"type": tipo, "reserva": r})
	if err != nil {
		return
	}
	if err := database.Redis.Publish(context.Background(), CanalEventos, payload).Err(); err != nil {
		log.Println("⚠️ No se pudo publicar el evento de reserva:", err)
	}
}
