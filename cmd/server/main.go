package main

import (
	"context"
	"log"
	"os"
	"time"

	"cafeteria_back_end/internal/config"
	"cafeteria_back_end/internal/database"
	"cafeteria_back_end/internal/middleware"
	"cafeteria_back_end/internal/reservations"
	"cafeteria_back_end/internal/routes"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	config.Load()

	database.ConnectDatabases()

	// ✅ Inicializar prepared statements para mejorar el rendimiento
	database.InitPreparedStatements()

	// ✅ Pre-calentar el cache Redis
	warmupRedisCache()

	svc := reservations.NewService(reservations.NewScyllaStore())
	svc.ProtegerEstadosFinales = os.Getenv("RESERVAS_PROTEGER_FINALES") == "true"
	if svc.ProtegerEstadosFinales {
		log.Println("✅ Protección de estados finales activada")
	}

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Authorization"},
		MaxAge:          12 * time.Hour,
	}))
	r.Use(middleware.ParseAuth())

	routes.RegisterRoutes(r, svc)

	port := os.Getenv("PORT")
	if port == "" {
		port = "5000"
	}
	log.Println("🚀 Servidor de Cafetería escuchando en el puerto", port)
	r.Run(":" + port)
}

// warmupRedisCache establece la conexión Redis antes del primer pedido
func warmupRedisCache() {
	if database.Redis == nil {
		return
	}
	ctx := context.Background()
	if err := database.Redis.Ping(ctx).Err(); err == nil {
		log.Println("✅ Cache Redis pre-calentado")
	}
}
