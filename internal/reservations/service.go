// Package reservations contiene la lógica de negocio de las reservas: la
// validación/normalización del carrito enviado por el cliente y la máquina de
// estados del ciclo de vida del pedido. No conoce HTTP ni la base de datos
// concreta: persiste a través de la interfaz Store.
package reservations

import (
	"context"
	"errors"
	"strings"
	"time"

	"cafeteria_back_end/internal/models"

	"github.com/gocql/gocql"
)

var (
	ErrCarritoVacio        = errors.New("Debes enviar al menos un producto")
	ErrProductosInvalidos  = errors.New("Productos inválidos (nombre/precio)")
	ErrEstadoInvalido      = errors.New("Estado inválido")
	ErrReservaNoEncontrada = errors.New("Reserva no encontrada")
	ErrEstadoFinal         = errors.New("La reserva ya está en un estado final")
)

// NombreAnonimo se usa cuando ni el token ni el cuerpo traen nombre de cliente.
const NombreAnonimo = "Anon"

// Identidad es lo que el proveedor de sesión aporta al validador de reservas.
type Identidad struct {
	ID     string
	Nombre string
	Correo string
	Rol    string
}

// ItemReserva es una línea del carrito tal como llega del cliente. El precio
// acepta número o cadena con punto o coma decimal.
type ItemReserva struct {
	Nombre string                `json:"nombre"`
	Precio models.PrecioFlexible `json:"precio"`
}

// NuevaReserva es el cuerpo de creación. El campo Total del cliente, si
// llegara, se ignora: el total siempre se recalcula en el servidor.
type NuevaReserva struct {
	Usuario   string        `json:"usuario"`
	Codigo    string        `json:"codigo"`
	Productos []ItemReserva `json:"productos"`
}

// Ref identifica una reserva por su id interno o por su código de recogida.
type Ref struct {
	id     *gocql.UUID
	codigo string
}

func PorID(id gocql.UUID) Ref     { return Ref{id: &id} }
func PorCodigo(codigo string) Ref { return Ref{codigo: codigo} }

type Service struct {
	store Store

	// ProtegerEstadosFinales hace que SetEstado rechace sacar una reserva de
	// Entregado/Cancelado en vez de sobrescribir sin condiciones. Apagado por
	// defecto: el personal corrige estados a mano.
	ProtegerEstadosFinales bool
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// Crear valida y normaliza el carrito, recalcula el total en el servidor y
// persiste la reserva con estado inicial Pendiente. La operación es atómica:
// cualquier línea inválida rechaza el envío completo y no se escribe nada.
func (s *Service) Crear(ctx context.Context, req NuevaReserva, ident *Identidad) (*models.Reserva, error) {
	if len(req.Productos) == 0 {
		return nil, ErrCarritoVacio
	}

	lineas := make([]models.LineaReserva, 0, len(req.Productos))
	total := 0.0
	for _, p := range req.Productos {
		nombre := strings.TrimSpace(p.Nombre)
		if nombre == "" || !p.Precio.Valido() {
			return nil, ErrProductosInvalidos
		}
		precio := float64(p.Precio)
		lineas = append(lineas, models.LineaReserva{Nombre: nombre, Precio: precio})
		total += precio
	}

	// Prioridad del nombre: identidad autenticada > cuerpo > anónimo
	usuario := ""
	if ident != nil {
		usuario = strings.TrimSpace(ident.Nombre)
	}
	if usuario == "" {
		usuario = strings.TrimSpace(req.Usuario)
	}
	if usuario == "" {
		usuario = NombreAnonimo
	}

	// El código se guarda tal cual llega: lo generó el cliente y ya viaja
	// dentro del QR, cualquier normalización rompería la búsqueda posterior
	reserva := &models.Reserva{
		ID:        gocql.TimeUUID(),
		Usuario:   usuario,
		Productos: lineas,
		Codigo:    req.Codigo,
		Hora:      time.Now(),
		Total:     total,
		Estado:    models.EstadoPendiente,
	}

	if err := s.store.Insertar(ctx, reserva); err != nil {
		return nil, err
	}
	return reserva, nil
}

// Listar devuelve las reservas ordenadas por hora descendente, filtradas por
// estado si se indica uno.
func (s *Service) Listar(ctx context.Context, estado string) ([]models.Reserva, error) {
	return s.store.Listar(ctx, models.Estado(estado))
}

// SetEstado valida el literal, busca la reserva por la referencia dada y
// reemplaza únicamente el campo estado. Devuelve el registro actualizado.
func (s *Service) SetEstado(ctx context.Context, ref Ref, estado models.Estado) (*models.Reserva, error) {
	if !estado.EsValido() {
		return nil, ErrEstadoInvalido
	}

	reserva, err := s.buscar(ctx, ref)
	if err != nil {
		return nil, err
	}

	if s.ProtegerEstadosFinales && reserva.Estado.EsFinal() && estado != reserva.Estado {
		return nil, ErrEstadoFinal
	}

	if err := s.store.ActualizarEstado(ctx, reserva, estado); err != nil {
		return nil, err
	}
	reserva.Estado = estado
	return reserva, nil
}

// BuscarPorCodigo es la consulta del puesto de escaneo QR.
func (s *Service) BuscarPorCodigo(ctx context.Context, codigo string) (*models.Reserva, error) {
	return s.store.BuscarPorCodigo(ctx, codigo)
}

// EntregarPorCodigo marca la reserva como Entregado sin condiciones: es el
// atajo del escáner al momento de la recogida.
func (s *Service) EntregarPorCodigo(ctx context.Context, codigo string) (*models.Reserva, error) {
	reserva, err := s.store.BuscarPorCodigo(ctx, codigo)
	if err != nil {
		return nil, err
	}
	if err := s.store.ActualizarEstado(ctx, reserva, models.EstadoEntregado); err != nil {
		return nil, err
	}
	reserva.Estado = models.EstadoEntregado
	return reserva, nil
}

func (s *Service) Eliminar(ctx context.Context, id gocql.UUID) error {
	return s.store.Eliminar(ctx, id)
}

func (s *Service) buscar(ctx context.Context, ref Ref) (*models.Reserva, error) {
	if ref.id != nil {
		return s.store.BuscarPorID(ctx, *ref.id)
	}
	return s.store.BuscarPorCodigo(ctx, ref.codigo)
}
