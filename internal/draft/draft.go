package draft

import (
	"context"
	"errors"

	"cafeteria_back_end/internal/models"
	"cafeteria_back_end/internal/utils"
)

// ErrSinBorrador se devuelve al confirmar sin un borrador abierto.
var ErrSinBorrador = errors.New("No hay una reserva en curso")

// ErrCarritoVacio se devuelve al iniciar una reserva con el carrito vacío.
var ErrCarritoVacio = errors.New("Debes enviar al menos un producto")

// Confirmador envía el borrador al servidor y devuelve la reserva canónica.
type Confirmador interface {
	Confirmar(ctx context.Context, nombre, codigo string, items []models.ItemCarrito) (*models.Reserva, error)
}

// Intencion es una orden emitida por la capa de presentación.
type Intencion interface{ intencion() }

type AgregarItem struct{ Item models.ItemCarrito }
type IniciarReserva struct{}
type ConfirmarReserva struct{ Nombre string }
type CancelarReserva struct{}
type Tick struct{}

func (AgregarItem) intencion()      {}
func (IniciarReserva) intencion()   {}
func (ConfirmarReserva) intencion() {}
func (CancelarReserva) intencion()  {}
func (Tick) intencion()             {}

// Evento es un cambio de estado que la vista debe reflejar.
type Evento interface{ evento() }

type CarritoActualizado struct {
	Items []models.ItemCarrito
	Total float64
}

type ReservaIniciada struct {
	Codigo   string
	Restante int
	Pantalla string
}

type TickRestante struct {
	Restante int
	Pantalla string
	EnAviso  bool
}

// ReservaExpirada indica que la cuenta llegó a cero: el carrito se vació
// y el borrador se cerró. Nunca toca el servidor, el pedido no existía aún.
type ReservaExpirada struct{}

type ReservaConfirmada struct {
	Reserva *models.Reserva
	Codigo  string
}

type ReservaCancelada struct{}

type ErrorReserva struct{ Err error }

func (CarritoActualizado) evento() {}
func (ReservaIniciada) evento()    {}
func (TickRestante) evento()       {}
func (ReservaExpirada) evento()    {}
func (ReservaConfirmada) evento()  {}
func (ReservaCancelada) evento()   {}
func (ErrorReserva) evento()       {}

// Controlador es el dueño del estado del borrador: carrito, temporizador y
// diálogo de confirmación. Todo el flujo pasa por Despachar, así que la
// vista nunca toca el estado directamente.
type Controlador struct {
	confirmador Confirmador

	carrito []models.ItemCarrito
	timer   Temporizador
	abierta bool
	codigo  string
}

func NewControlador(confirmador Confirmador) *Controlador {
	return &Controlador{confirmador: confirmador}
}

func (ctl *Controlador) Carrito() []models.ItemCarrito { return ctl.carrito }
func (ctl *Controlador) Abierta() bool                 { return ctl.abierta }
func (ctl *Controlador) Codigo() string                { return ctl.codigo }

// Total suma los precios del carrito.
func (ctl *Controlador) Total() float64 {
	var total float64
	for _, item := range ctl.carrito {
		total += item.Precio
	}
	return total
}

// Despachar procesa una intención y devuelve los eventos resultantes.
func (ctl *Controlador) Despachar(ctx context.Context, in Intencion) []Evento {
	switch in := in.(type) {
	case AgregarItem:
		ctl.carrito = append(ctl.carrito, in.Item)
		return []Evento{CarritoActualizado{Items: ctl.carrito, Total: ctl.Total()}}

	case IniciarReserva:
		if len(ctl.carrito) == 0 {
			return []Evento{ErrorReserva{Err: ErrCarritoVacio}}
		}
		if ctl.timer.Iniciar() {
			// El código viaja dentro del QR antes de enviar el pedido,
			// por eso se genera aquí y no en el servidor
			ctl.codigo = utils.GenerarCodigoRecogida()
		}
		ctl.abierta = true
		return []Evento{ReservaIniciada{
			Codigo:   ctl.codigo,
			Restante: ctl.timer.Restante(),
			Pantalla: ctl.timer.Pantalla(),
		}}

	case Tick:
		if !ctl.abierta {
			return nil
		}
		restante, expirado := ctl.timer.Tick()
		if expirado {
			ctl.carrito = nil
			ctl.abierta = false
			ctl.codigo = ""
			return []Evento{ReservaExpirada{}}
		}
		if !ctl.timer.Activo() {
			return nil
		}
		return []Evento{TickRestante{
			Restante: restante,
			Pantalla: Formato(restante),
			EnAviso:  ctl.timer.EnAviso(),
		}}

	case ConfirmarReserva:
		if !ctl.abierta {
			return []Evento{ErrorReserva{Err: ErrSinBorrador}}
		}
		reserva, err := ctl.confirmador.Confirmar(ctx, in.Nombre, ctl.codigo, ctl.carrito)
		if err != nil {
			// El carrito y la cuenta siguen vivos para reintentar
			return []Evento{ErrorReserva{Err: err}}
		}
		codigo := ctl.codigo
		ctl.timer.Detener()
		ctl.carrito = nil
		ctl.abierta = false
		ctl.codigo = ""
		return []Evento{ReservaConfirmada{Reserva: reserva, Codigo: codigo}}

	case CancelarReserva:
		// Cancelar cierra el diálogo pero conserva el carrito
		ctl.timer.Detener()
		ctl.abierta = false
		ctl.codigo = ""
		return []Evento{ReservaCancelada{}}
	}

	return nil
}
