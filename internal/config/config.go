package config

import (
	"log"

	"github.com/joho/godotenv"
)

// Load carga las variables de entorno desde .env si existe.
func Load() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ No se encontró archivo .env, usando variables del entorno")
		return
	}
	log.Println("✅ Variables de entorno cargadas desde .env")
}
