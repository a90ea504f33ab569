package models

// ItemCarrito vive solo en la sesión del cliente hasta que se envía la reserva.
type ItemCarrito struct {
	Nombre string  `json:"nombre"`
	Precio float64 `json:"precio"`
}
