package reservation

import (
	"context"
	"log"
	"net/http"
	"time"

	"cafeteria_back_end/internal/database"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// Todas las orígenes permitidos (ajustar en producción)
		return true
	},
}

// ReservasWebSocket alimenta el tablero en vivo del panel de administración:
// reenvía por el socket cada alta y cambio de estado publicado en Redis.
func ReservasWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("❌ Error en upgrade WebSocket: %v", err)
		return
	}
	defer conn.Close()

	ctx := context.Background()

	pubsub := database.Redis.Subscribe(ctx, CanalEventos)
	defer pubsub.Close()

	ch := pubsub.Channel()

	conn.WriteJSON(map[string]interface{}{
		"type":    "connected",
		"message": "Tablero de reservas en vivo activado",
	})

	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return
			}
			// El payload ya es JSON: se reenvía tal cual
			if err := conn.WriteMessage(websocket.TextMessage, []byte(msg.Payload)); err != nil {
				log.Printf("❌ Error enviando por WebSocket: %v", err)
				return
			}
		case <-time.After(30 * time.Second):
			// Ping para mantener viva la conexión
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
