package models

import (
	"time"

	"github.com/gocql/gocql"
)

type Producto struct {
	ID          gocql.UUID `json:"id" db:"producto_id"`
	Nombre      string     `json:"nombre" db:"nombre"`
	Descripcion string     `json:"descripcion" db:"descripcion"`
	Precio      float64    `json:"precio" db:"precio"`
	Categoria   string     `json:"categoria" db:"categoria"`
	ImageURL    string     `json:"image_url,omitempty" db:"image_url"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}
