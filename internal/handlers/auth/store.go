package auth

import (
	"context"
	"errors"
	"sync"

	"cafeteria_back_end/internal/database"
	"cafeteria_back_end/internal/models"

	"github.com/gocql/gocql"
)

// ErrUsuarioNoEncontrado lo devuelven las implementaciones de Store cuando no
// existe el usuario buscado.
var ErrUsuarioNoEncontrado = errors.New("Usuario no encontrado")

// Store es la persistencia de usuarios.
type Store interface {
	Insertar(ctx context.Context, u models.Usuario) error
	BuscarPorCorreo(ctx context.Context, correo string) (*models.Usuario, error)
	BuscarPorID(ctx context.Context, id gocql.UUID) (*models.Usuario, error)
}

// ScyllaStore persiste usuarios en el keyspace de usuarios, con la tabla
// secundaria usuarios_por_correo para resolver el login. Usa los prepared
// statements cuando están inicializados.
type ScyllaStore struct{}

func NewScyllaStore() *ScyllaStore { return &ScyllaStore{} }

func (s *ScyllaStore) Insertar(ctx context.Context, u models.Usuario) error {
	if q := database.GetPreparedInsertUsuario(); q != nil {
		if err := q.Bind(u.ID, u.Correo, u.PasswordHash, u.Nombre, u.Rol, u.CreatedAt).Exec(); err != nil {
			return err
		}
		return database.GetPreparedInsertUsuarioPorCorreo().Bind(u.Correo, u.ID).Exec()
	}

	session, err := database.GetUsuariosSession()
	if err != nil {
		return err
	}
	if err := session.Query(`INSERT INTO usuarios (user_id, correo, password_hash, nombre, rol, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		u.ID, u.Correo, u.PasswordHash, u.Nombre, u.Rol, u.CreatedAt).WithContext(ctx).Exec(); err != nil {
		return err
	}
	return session.Query(`INSERT INTO usuarios_por_correo (correo, user_id) VALUES (?, ?)`,
		u.Correo, u.ID).WithContext(ctx).Exec()
}

func (s *ScyllaStore) BuscarPorCorreo(ctx context.Context, correo string) (*models.Usuario, error) {
	var id gocql.UUID

	if q := database.GetPreparedGetUserIDByCorreo(); q != nil {
		if err := q.Bind(correo).Scan(&id); err != nil {
			if err == gocql.ErrNotFound {
				return nil, ErrUsuarioNoEncontrado
			}
			return nil, err
		}
	} else {
		session, err := database.GetUsuariosSession()
		if err != nil {
			return nil, err
		}
		if err := session.Query("SELECT user_id FROM usuarios_por_correo WHERE correo = ?", correo).
			WithContext(ctx).Scan(&id); err != nil {
			if err == gocql.ErrNotFound {
				return nil, ErrUsuarioNoEncontrado
			}
			return nil, err
		}
	}

	return s.BuscarPorID(ctx, id)
}

func (s *ScyllaStore) BuscarPorID(ctx context.Context, id gocql.UUID) (*models.Usuario, error) {
	u := models.Usuario{ID: id}

	if q := database.GetPreparedGetUsuarioByID(); q != nil {
		if err := q.Bind(id).Scan(&u.Correo, &u.PasswordHash, &u.Nombre, &u.Rol, &u.CreatedAt); err != nil {
			if err == gocql.ErrNotFound {
				return nil, ErrUsuarioNoEncontrado
			}
			return nil, err
		}
		return &u, nil
	}

	session, err := database.GetUsuariosSession()
	if err != nil {
		return nil, err
	}
	if err := session.Query(`SELECT correo, password_hash, nombre, rol, created_at
		FROM usuarios WHERE user_id = ?`, id).
		WithContext(ctx).Scan(&u.Correo, &u.PasswordHash, &u.Nombre, &u.Rol, &u.CreatedAt); err != nil {
		if err == gocql.ErrNotFound {
			return nil, ErrUsuarioNoEncontrado
		}
		return nil, err
	}
	return &u, nil
}

// MemoryStore guarda usuarios en memoria. Se usa en tests y como referencia
// del contrato de Store.
type MemoryStore struct {
	mu        sync.RWMutex
	usuarios  map[gocql.UUID]models.Usuario
	porCorreo map[string]gocql.UUID
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		usuarios:  make(map[gocql.UUID]models.Usuario),
		porCorreo: make(map[string]gocql.UUID),
	}
}

func (m *MemoryStore) Insertar(_ context.Context, u models.Usuario) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.usuarios[u.ID] = u
	m.porCorreo[u.Correo] = u.ID
	return nil
}

func (m *MemoryStore) BuscarPorCorreo(_ context.Context, correo string) (*models.Usuario, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.porCorreo[correo]
	if !ok {
		return nil, ErrUsuarioNoEncontrado
	}
	u := m.usuarios[id]
	return &u, nil
}

func (m *MemoryStore) BuscarPorID(_ context.Context, id gocql.UUID) (*models.Usuario, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.usuarios[id]
	if !ok {
		return nil, ErrUsuarioNoEncontrado
	}
	return &u, nil
}

// Cantidad devuelve el número de usuarios guardados. Solo para tests.
func (m *MemoryStore) Cantidad() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.usuarios)
}
