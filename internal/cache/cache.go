package cache

import (
	"context"
	"encoding/json"
	"time"

	"cafeteria_back_end/internal/database"
	"cafeteria_back_end/internal/models"
)

const (
	ProductosCacheKey = "productos:todos"
	ProductosCacheTTL = time.Hour
)

// ObtenerProductosCache devuelve el catálogo cacheado en Redis, si existe.
func ObtenerProductosCache(ctx context.Context) ([]models.Producto, bool) {
	if database.Redis == nil {
		return nil, false
	}
	val, err := database.Redis.Get(ctx, ProductosCacheKey).Result()
	if err != nil || val == "" {
		return nil, false
	}
	var productos []models.Producto
	if err := json.Unmarshal([]byte(val), &productos); err != nil {
		return nil, false
	}
	return productos, true
}

func GuardarProductosCache(ctx context.Context, productos []models.Producto) {
	if database.Redis == nil {
		return
	}
	if data, err := json.Marshal(productos); err == nil {
		database.Redis.Set(ctx, ProductosCacheKey, data, ProductosCacheTTL)
	}
}

// InvalidarProductosCache se llama tras cualquier mutación del catálogo.
func InvalidarProductosCache(ctx context.Context) {
	if database.Redis == nil {
		return
	}
	database.Redis.Del(ctx, ProductosCacheKey)
}
