package models

import (
	"time"

	"github.com/gocql/gocql"
)

const (
	RolUsuario = "usuario"
	RolAdmin   = "admin"
)

type Usuario struct {
	ID           gocql.UUID `json:"id"`
	Nombre       string     `json:"nombre"`
	Correo       string     `json:"correo"`
	PasswordHash string     `json:"-"`
	Rol          string     `json:"rol"`
	CreatedAt    time.Time  `json:"created_at"`
}
