package product

import (
	"context"
	"errors"
	"log"
	"net/http"
	"sort"
	"strings"
	"time"

	"cafeteria_back_end/internal/cache"
	"cafeteria_back_end/internal/database"
	"cafeteria_back_end/internal/models"
	"cafeteria_back_end/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
)

// ListarProductos devuelve el catálogo completo, ordenado por nombre.
func ListarProductos(c *gin.Context) {
	ctx := context.Background()

	if productos, ok := cache.ObtenerProductosCache(ctx); ok {
		c.JSON(http.StatusOK, productos)
		return
	}

	productos, err := cargarProductos(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al obtener los productos"})
		return
	}

	cache.GuardarProductosCache(ctx, productos)
	c.JSON(http.StatusOK, productos)
}

// CrearProducto da de alta un producto. El precio acepta coma o punto decimal.
func CrearProducto(c *gin.Context) {
	var input struct {
		Nombre      string                `json:"nombre"`
		Descripcion string                `json:"descripcion"`
		Precio      models.PrecioFlexible `json:"precio"`
		Categoria   string                `json:"categoria"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "JSON inválido"})
		return
	}

	input.Nombre = strings.TrimSpace(input.Nombre)
	input.Descripcion = strings.TrimSpace(input.Descripcion)
	input.Categoria = strings.TrimSpace(input.Categoria)
	if input.Nombre == "" || input.Descripcion == "" || input.Categoria == "" || !input.Precio.Valido() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Datos de producto inválidos"})
		return
	}

	session, err := database.GetProductosSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al crear producto"})
		return
	}

	now := time.Now()
	p := models.Producto{
		ID:          gocql.TimeUUID(),
		Nombre:      input.Nombre,
		Descripcion: input.Descripcion,
		Precio:      float64(input.Precio),
		Categoria:   input.Categoria,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := session.Query(`INSERT INTO productos (producto_id, nombre, descripcion, precio, categoria, image_url, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Nombre, p.Descripcion, p.Precio, p.Categoria, p.ImageURL, p.CreatedAt, p.UpdatedAt).Exec(); err != nil {
		log.Println("❌ Error creando producto:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al crear producto"})
		return
	}

	cache.InvalidarProductosCache(context.Background())
	go services.IndexarProducto(p)

	c.JSON(http.StatusCreated, p)
}

// ActualizarProducto aplica una actualización parcial.
func ActualizarProducto(c *gin.Context) {
	id, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID de producto inválido"})
		return
	}

	var input struct {
		Nombre      *string                `json:"nombre"`
		Descripcion *string                `json:"descripcion"`
		Precio      *models.PrecioFlexible `json:"precio"`
		Categoria   *string                `json:"categoria"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "JSON inválido"})
		return
	}

	session, err := database.GetProductosSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al actualizar el producto"})
		return
	}

	p, err := buscarProducto(session, id)
	if err != nil {
		responderErrorProducto(c, err, "Error al actualizar el producto")
		return
	}

	if input.Nombre != nil {
		p.Nombre = strings.TrimSpace(*input.Nombre)
	}
	if input.Descripcion != nil {
		p.Descripcion = strings.TrimSpace(*input.Descripcion)
	}
	if input.Categoria != nil {
		p.Categoria = strings.TrimSpace(*input.Categoria)
	}
	if input.Precio != nil {
		if !input.Precio.Valido() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Datos de producto inválidos"})
			return
		}
		p.Precio = float64(*input.Precio)
	}
	if p.Nombre == "" || p.Descripcion == "" || p.Categoria == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Datos de producto inválidos"})
		return
	}
	p.UpdatedAt = time.Now()

	if err := session.Query(`UPDATE productos SET nombre = ?, descripcion = ?, precio = ?, categoria = ?, updated_at = ?
		WHERE producto_id = ?`,
		p.Nombre, p.Descripcion, p.Precio, p.Categoria, p.UpdatedAt, p.ID).Exec(); err != nil {
		log.Println("❌ Error actualizando producto:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al actualizar el producto"})
		return
	}

	cache.InvalidarProductosCache(context.Background())
	go services.IndexarProducto(*p)

	c.JSON(http.StatusOK, p)
}

// EliminarProducto borra un producto del catálogo y de los índices.
func EliminarProducto(c *gin.Context) {
	id, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID de producto inválido"})
		return
	}

	session, err := database.GetProductosSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al eliminar el producto"})
		return
	}

	if _, err := buscarProducto(session, id); err != nil {
		responderErrorProducto(c, err, "Error al eliminar el producto")
		return
	}

	if err := session.Query(`DELETE FROM productos WHERE producto_id = ?`, id).Exec(); err != nil {
		log.Println("❌ Error eliminando producto:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al eliminar el producto"})
		return
	}

	cache.InvalidarProductosCache(context.Background())
	go services.EliminarProductoIndex(id.String())

	c.JSON(http.StatusOK, gin.H{"message": "Producto eliminado"})
}

// BuscarProductos busca en Elasticsearch con respaldo de escaneo en Scylla.
func BuscarProductos(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Falta el parámetro 'q'"})
		return
	}

	// 1️⃣ Elasticsearch primero
	results, err := services.BuscarProductos(query)
	if err == nil && len(results) > 0 {
		c.JSON(http.StatusOK, results)
		return
	}

	// 2️⃣ Respaldo: escaneo en ScyllaDB con filtro en memoria
	productos, err := cargarProductos(context.Background())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error en la búsqueda"})
		return
	}

	var filtrados []models.Producto
	for _, p := range productos {
		if contieneSinCase(p.Nombre, query) || contieneSinCase(p.Descripcion, query) || contieneSinCase(p.Categoria, query) {
			filtrados = append(filtrados, p)
		}
	}

	c.JSON(http.StatusOK, filtrados)
}

// SubirImagen sube la foto del producto a MinIO y guarda su URL.
func SubirImagen(c *gin.Context) {
	id, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID de producto inválido"})
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Archivo faltante"})
		return
	}
	defer file.Close()

	session, err := database.GetProductosSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al subir la imagen"})
		return
	}

	if _, err := buscarProducto(session, id); err != nil {
		responderErrorProducto(c, err, "Error al subir la imagen")
		return
	}

	ctx := context.Background()
	imageURL, err := services.SubirImagenProducto(ctx, file, header)
	if err != nil {
		log.Println("❌ Error subiendo a MinIO:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al subir la imagen"})
		return
	}

	if err := session.Query(`UPDATE productos SET image_url = ?, updated_at = ? WHERE producto_id = ?`,
		imageURL, time.Now(), id).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al subir la imagen"})
		return
	}

	cache.InvalidarProductosCache(ctx)

	c.JSON(http.StatusOK, gin.H{"image_url": imageURL})
}

func cargarProductos(ctx context.Context) ([]models.Producto, error) {
	session, err := database.GetProductosSession()
	if err != nil {
		return nil, err
	}

	iter := session.Query(`SELECT producto_id, nombre, descripcion, precio, categoria, image_url, created_at, updated_at
		FROM productos`).WithContext(ctx).Iter()

	var productos []models.Producto
	var p models.Producto

	for iter.Scan(&p.ID, &p.Nombre, &p.Descripcion, &p.Precio, &p.Categoria, &p.ImageURL, &p.CreatedAt, &p.UpdatedAt) {
		productos = append(productos, p)
		p = models.Producto{}
	}

	if err := iter.Close(); err != nil {
		return nil, err
	}

	sort.Slice(productos, func(i, j int) bool { return productos[i].Nombre < productos[j].Nombre })
	return productos, nil
}

func buscarProducto(session *gocql.Session, id gocql.UUID) (*models.Producto, error) {
	p := models.Producto{ID: id}
	if err := session.Query(`SELECT nombre, descripcion, precio, categoria, image_url, created_at, updated_at
		FROM productos WHERE producto_id = ?`, id).
		Scan(&p.Nombre, &p.Descripcion, &p.Precio, &p.Categoria, &p.ImageURL, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

// responderErrorProducto distingue un producto ausente de un fallo de Scylla:
// solo ErrNotFound es un 404, cualquier otro error se loguea como 500.
func responderErrorProducto(c *gin.Context, err error, mensaje string) {
	if errors.Is(err, gocql.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Producto no encontrado"})
		return
	}
	log.Println("❌ Error consultando producto:", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": mensaje})
}

func contieneSinCase(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
