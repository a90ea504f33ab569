package reservations

import (
	"context"
	"sort"
	"sync"

	"cafeteria_back_end/internal/models"

	"github.com/gocql/gocql"
)

// Store es la persistencia de reservas. Las implementaciones devuelven
// ErrReservaNoEncontrada cuando la referencia no existe.
type Store interface {
	Insertar(ctx context.Context, r *models.Reserva) error
	Listar(ctx context.Context, estado models.Estado) ([]models.Reserva, error)
	BuscarPorID(ctx context.Context, id gocql.UUID) (*models.Reserva, error)
	BuscarPorCodigo(ctx context.Context, codigo string) (*models.Reserva, error)
	ActualizarEstado(ctx context.Context, r *models.Reserva, estado models.Estado) error
	Eliminar(ctx context.Context, id gocql.UUID) error
}

// MemoryStore guarda reservas en memoria. Se usa en tests y como referencia
// del contrato de Store.
type MemoryStore struct {
	mu        sync.RWMutex
	reservas  map[gocql.UUID]models.Reserva
	porCodigo map[string]gocql.UUID
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		reservas:  make(map[gocql.UUID]models.Reserva),
		porCodigo: make(map[string]gocql.UUID),
	}
}

func (m *MemoryStore) Insertar(_ context.Context, r *models.Reserva) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reservas[r.ID] = *r
	if r.Codigo != "" {
		m.porCodigo[r.Codigo] = r.ID
	}
	return nil
}

func (m *MemoryStore) Listar(_ context.Context, estado models.Estado) ([]models.Reserva, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.Reserva, 0, len(m.reservas))
	for _, r := range m.reservas {
		if estado != "" && r.Estado != estado {
			continue
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Hora.After(out[j].Hora) })
	return out, nil
}

func (m *MemoryStore) BuscarPorID(_ context.Context, id gocql.UUID) (*models.Reserva, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.reservas[id]
	if !ok {
		return nil, ErrReservaNoEncontrada
	}
	return &r, nil
}

func (m *MemoryStore) BuscarPorCodigo(_ context.Context, codigo string) (*models.Reserva, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.porCodigo[codigo]
	if !ok {
		return nil, ErrReservaNoEncontrada
	}
	r := m.reservas[id]
	return &r, nil
}

func (m *MemoryStore) ActualizarEstado(_ context.Context, r *models.Reserva, estado models.Estado) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	actual, ok := m.reservas[r.ID]
	if !ok {
		return ErrReservaNoEncontrada
	}
	actual.Estado = estado
	m.reservas[r.ID] = actual
	return nil
}

func (m *MemoryStore) Eliminar(_ context.Context, id gocql.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.reservas[id]
	if !ok {
		return ErrReservaNoEncontrada
	}
	delete(m.reservas, id)
	if r.Codigo != "" {
		delete(m.porCodigo, r.Codigo)
	}
	return nil
}

// Cantidad devuelve el número de reservas guardadas. Solo para tests.
func (m *MemoryStore) Cantidad() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.reservas)
}
