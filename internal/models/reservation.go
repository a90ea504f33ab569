package models

import (
	"time"

	"github.com/gocql/gocql"
)

// Estado es la posición de una reserva dentro de su ciclo de vida.
type Estado string

const (
	EstadoPendiente  Estado = "Pendiente"
	EstadoPreparando Estado = "Preparando"
	EstadoListo      Estado = "Listo"
	EstadoEntregado  Estado = "Entregado"
	EstadoCancelado  Estado = "Cancelado"
)

// Estados lista los literales reconocidos, en el orden del ciclo de vida.
var Estados = []Estado{EstadoPendiente, EstadoPreparando, EstadoListo, EstadoEntregado, EstadoCancelado}

func (e Estado) EsValido() bool {
	switch e {
	case EstadoPendiente, EstadoPreparando, EstadoListo, EstadoEntregado, EstadoCancelado:
		return true
	}
	return false
}

// EsFinal indica si el estado es terminal: no hay transición definida de salida.
func (e Estado) EsFinal() bool {
	return e == EstadoEntregado || e == EstadoCancelado
}

// LineaReserva es la copia nombre+precio de un producto al momento de reservar.
// Cambios posteriores de precio en el catálogo no afectan reservas pasadas.
type LineaReserva struct {
	Nombre string  `json:"nombre"`
	Precio float64 `json:"precio"`
}

type Reserva struct {
	ID        gocql.UUID     `json:"id"`
	Usuario   string         `json:"usuario"`
	Productos []LineaReserva `json:"productos"`
	Codigo    string         `json:"codigo,omitempty"`
	Hora      time.Time      `json:"hora"`
	Total     float64        `json:"total"`
	Estado    Estado         `json:"estado"`
}
