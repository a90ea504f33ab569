package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"cafeteria_back_end/internal/database"
	"cafeteria_back_end/internal/models"

	"github.com/elastic/go-elasticsearch/v8/esapi"
)

const productosIndex = "productos"

//
// --- INDEXACIÓN EN ELASTICSEARCH ---
//

// IndexarProducto indexa un producto del catálogo en Elasticsearch.
func IndexarProducto(p models.Producto) {
	if database.Elastic == nil {
		log.Println("⚠️ Elastic no inicializado, no se puede indexar:", p.Nombre)
		return
	}

	data, _ := json.Marshal(p)
	req := esapi.IndexRequest{
		Index:      productosIndex,
		DocumentID: p.ID.String(),
		Body:       bytes.NewReader(data),
		Refresh:    "true",
	}

	res, err := req.Do(context.Background(), database.Elastic)
	if err != nil {
		log.Println("❌ Error enviando a Elastic:", err)
		return
	}
	defer res.Body.Close()

	if res.IsError() {
		log.Printf("⚠️ Elastic devolvió un error para %s: %s", p.Nombre, res.String())
	} else {
		log.Printf("✅ Producto indexado en Elasticsearch: %s", p.Nombre)
	}
}

// EliminarProductoIndex quita un producto del índice tras su borrado.
func EliminarProductoIndex(id string) {
	if database.Elastic == nil {
		return
	}

	req := esapi.DeleteRequest{
		Index:      productosIndex,
		DocumentID: id,
		Refresh:    "true",
	}

	res, err := req.Do(context.Background(), database.Elastic)
	if err != nil {
		log.Println("❌ Error eliminando del índice:", err)
		return
	}
	defer res.Body.Close()
}

//
// --- BÚSQUEDA EN ELASTICSEARCH ---
//

// BuscarProductos busca productos por nombre, descripción o categoría.
func BuscarProductos(query string) ([]map[string]interface{}, error) {
	if database.Elastic == nil {
		return nil, errors.New("cliente Elasticsearch no inicializado")
	}

	var buf bytes.Buffer
	q := map[string]interface{}{
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  query,
				"fields": []string{"nombre", "descripcion", "categoria"},
			},
		},
	}

	if err := json.NewEncoder(&buf).Encode(q); err != nil {
		return nil, fmt.Errorf("error codificando la consulta: %v", err)
	}

	req := esapi.SearchRequest{
		Index: []string{productosIndex},
		Body:  &buf,
	}
	res, err := req.Do(context.Background(), database.Elastic)
	if err != nil {
		return nil, fmt.Errorf("error en la petición a Elastic: %v", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		var e map[string]interface{}
		json.NewDecoder(res.Body).Decode(&e)
		log.Printf("❌ Error de Elasticsearch: %+v", e)
		return nil, errors.New("índice no encontrado o vacío")
	}

	var r map[string]interface{}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, fmt.Errorf("error decodificando JSON: %v", err)
	}

	hitsData, ok := r["hits"].(map[string]interface{})
	if !ok {
		return nil, errors.New("respuesta de Elastic inválida (sin hits)")
	}

	hitsArray, ok := hitsData["hits"].([]interface{})
	if !ok {
		return nil, errors.New("sin resultados")
	}

	results := make([]map[string]interface{}, 0, len(hitsArray))
	for _, hit := range hitsArray {
		hitMap, _ := hit.(map[string]interface{})
		if source, ok := hitMap["_source"].(map[string]interface{}); ok {
			results = append(results, source)
		}
	}

	return results, nil
}
