package reservations

import (
	"context"
	"encoding/json"
	"sort"

	"cafeteria_back_end/internal/database"
	"cafeteria_back_end/internal/models"

	"github.com/gocql/gocql"
)

// ScyllaStore persiste reservas en el keyspace de reservas. Igual que la tabla
// usuarios_por_correo, mantiene una tabla secundaria reservas_por_codigo para
// resolver el código de recogida sin escanear. Las líneas del pedido se
// guardan como columna JSON: son inmutables después de la creación.
type ScyllaStore struct{}

func NewScyllaStore() *ScyllaStore { return &ScyllaStore{} }

func (s *ScyllaStore) Insertar(ctx context.Context, r *models.Reserva) error {
	session, err := database.GetReservasSession()
	if err != nil {
		return err
	}

	productosJSON, err := json.Marshal(r.Productos)
	if err != nil {
		return err
	}

	if err := session.Query(`INSERT INTO reservas (reserva_id, usuario, productos, codigo, hora, total, estado)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Usuario, string(productosJSON), r.Codigo, r.Hora, r.Total, string(r.Estado)).
		WithContext(ctx).Exec(); err != nil {
		return err
	}

	if r.Codigo != "" {
		if err := session.Query(`INSERT INTO reservas_por_codigo (codigo, reserva_id) VALUES (?, ?)`,
			r.Codigo, r.ID).WithContext(ctx).Exec(); err != nil {
			return err
		}
	}

	return nil
}

func (s *ScyllaStore) Listar(ctx context.Context, estado models.Estado) ([]models.Reserva, error) {
	session, err := database.GetReservasSession()
	if err != nil {
		return nil, err
	}

	var iter *gocql.Iter
	if estado != "" {
		// Filtro por estado sin índice secundario; el volumen de una cafetería lo permite
		iter = session.Query(`SELECT reserva_id, usuario, productos, codigo, hora, total, estado
			FROM reservas WHERE estado = ? ALLOW FILTERING`, string(estado)).WithContext(ctx).Iter()
	} else {
		iter = session.Query(`SELECT reserva_id, usuario, productos, codigo, hora, total, estado
			FROM reservas`).WithContext(ctx).Iter()
	}

	reservas, err := scanReservas(iter)
	if err != nil {
		return nil, err
	}

	sort.Slice(reservas, func(i, j int) bool { return reservas[i].Hora.After(reservas[j].Hora) })
	return reservas, nil
}

func (s *ScyllaStore) BuscarPorID(ctx context.Context, id gocql.UUID) (*models.Reserva, error) {
	session, err := database.GetReservasSession()
	if err != nil {
		return nil, err
	}

	r, err := scanReserva(session.Query(`SELECT reserva_id, usuario, productos, codigo, hora, total, estado
		FROM reservas WHERE reserva_id = ?`, id).WithContext(ctx))
	if err == gocql.ErrNotFound {
		return nil, ErrReservaNoEncontrada
	}
	return r, err
}

func (s *ScyllaStore) BuscarPorCodigo(ctx context.Context, codigo string) (*models.Reserva, error) {
	session, err := database.GetReservasSession()
	if err != nil {
		return nil, err
	}

	var id gocql.UUID
	if err := session.Query(`SELECT reserva_id FROM reservas_por_codigo WHERE codigo = ?`, codigo).
		WithContext(ctx).Scan(&id); err != nil {
		if err == gocql.ErrNotFound {
			return nil, ErrReservaNoEncontrada
		}
		return nil, err
	}

	return s.BuscarPorID(ctx, id)
}

func (s *ScyllaStore) ActualizarEstado(ctx context.Context, r *models.Reserva, estado models.Estado) error {
	session, err := database.GetReservasSession()
	if err != nil {
		return err
	}

	return session.Query(`UPDATE reservas SET estado = ? WHERE reserva_id = ?`,
		string(estado), r.ID).WithContext(ctx).Exec()
}

func (s *ScyllaStore) Eliminar(ctx context.Context, id gocql.UUID) error {
	session, err := database.GetReservasSession()
	if err != nil {
		return err
	}

	// Se lee primero para saber si existe y para limpiar la tabla de códigos
	r, err := s.BuscarPorID(ctx, id)
	if err != nil {
		return err
	}

	if err := session.Query(`DELETE FROM reservas WHERE reserva_id = ?`, id).WithContext(ctx).Exec(); err != nil {
		return err
	}
	if r.Codigo != "" {
		if err := session.Query(`DELETE FROM reservas_por_codigo WHERE codigo = ?`, r.Codigo).
			WithContext(ctx).Exec(); err != nil {
			return err
		}
	}
	return nil
}

func scanReserva(q *gocql.Query) (*models.Reserva, error) {
	var r models.Reserva
	var productosJSON, estado string

	if err := q.Scan(&r.ID, &r.Usuario, &productosJSON, &r.Codigo, &r.Hora, &r.Total, &estado); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(productosJSON), &r.Productos); err != nil {
		return nil, err
	}
	r.Estado = models.Estado(estado)
	return &r, nil
}

func scanReservas(iter *gocql.Iter) ([]models.Reserva, error) {
	var reservas []models.Reserva
	var r models.Reserva
	var productosJSON, estado string

	for iter.Scan(&r.ID, &r.Usuario, &productosJSON, &r.Codigo, &r.Hora, &r.Total, &estado) {
		if err := json.Unmarshal([]byte(productosJSON), &r.Productos); err == nil {
			r.Estado = models.Estado(estado)
			reservas = append(reservas, r)
		}
		r = models.Reserva{}
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}
	return reservas, nil
}
