package database

import (
	"log"
	"sync"

	"github.com/gocql/gocql"
)

var (
	// Prepared statements para los caminos calientes de autenticación
	stmtGetUserIDByCorreo      *gocql.Query
	stmtGetUsuarioByID         *gocql.Query
	stmtInsertUsuario          *gocql.Query
	stmtInsertUsuarioPorCorreo *gocql.Query

	preparedOnce sync.Once
)

func InitPreparedStatements() {
	preparedOnce.Do(func() {
		session, err := GetUsuariosSession()
		if err != nil {
			log.Printf("⚠️ No se pudieron inicializar los prepared statements: %v", err)
			return
		}

		stmtGetUserIDByCorreo = session.Query("SELECT user_id FROM usuarios_por_correo WHERE correo = ?")

		stmtGetUsuarioByID = session.Query(`SELECT correo, password_hash, nombre, rol, created_at
			FROM usuarios WHERE user_id = ?`)

		stmtInsertUsuario = session.Query(`INSERT INTO usuarios (user_id, correo, password_hash, nombre, rol, created_at)
			VALUES (?, ?, ?, ?, ?, ?)`)

		stmtInsertUsuarioPorCorreo = session.Query("INSERT INTO usuarios_por_correo (correo, user_id) VALUES (?, ?)")

		log.Println("✅ Prepared statements inicializados")
	})
}

func GetPreparedGetUserIDByCorreo() *gocql.Query {
	return stmtGetUserIDByCorreo
}

func GetPreparedGetUsuarioByID() *gocql.Query {
	return stmtGetUsuarioByID
}

func GetPreparedInsertUsuario() *gocql.Query {
	return stmtInsertUsuario
}

func GetPreparedInsertUsuarioPorCorreo() *gocql.Query {
	return stmtInsertUsuarioPorCorreo
}
