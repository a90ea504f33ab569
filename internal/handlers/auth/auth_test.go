package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"cafeteria_back_end/internal/middleware"

	"github.com/gin-gonic/gin"
)

func setupRouter(store Store) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(store)

	r := gin.New()
	r.Use(middleware.ParseAuth())
	r.POST("/auth/register", h.Register)
	r.POST("/auth/login", h.Login)
	r.GET("/auth/me", middleware.AuthRequired(), h.Me)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRegisterDuplicadoNoEscribeSegundoUsuario(t *testing.T) {
	store := NewMemoryStore()
	r := setupRouter(store)

	body := `{"nombre":"María","correo":"maria@tecsup.edu.pe","password":"secreta123"}`

	w := doJSON(t, r, http.MethodPost, "/auth/register", body, "")
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, quiero 201: %s", w.Code, w.Body.String())
	}

	// Mismo correo otra vez, con otro nombre y mayúsculas
	w = doJSON(t, r, http.MethodPost, "/auth/register",
		`{"nombre":"Otra","correo":"MARIA@tecsup.edu.pe","password":"distinta"}`, "")
	if w.Code != http.StatusConflict {
		t.Fatalf("status = %d, quiero 409: %s", w.Code, w.Body.String())
	}

	var resp map[string]string
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp["error"] != "Correo ya registrado" {
		t.Errorf("error = %q, quiero %q", resp["error"], "Correo ya registrado")
	}
	if store.Cantidad() != 1 {
		t.Errorf("usuarios guardados = %d, quiero 1", store.Cantidad())
	}
}

func TestRegisterFaltanCampos(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"sin nombre", `{"correo":"a@b.pe","password":"x"}`},
		{"sin correo", `{"nombre":"Ana","password":"x"}`},
		{"sin contraseña", `{"nombre":"Ana","correo":"a@b.pe"}`},
		{"nombre en blanco", `{"nombre":"   ","correo":"a@b.pe","password":"x"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewMemoryStore()
			r := setupRouter(store)

			w := doJSON(t, r, http.MethodPost, "/auth/register", tt.body, "")
			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, quiero 400", w.Code)
			}
			var resp map[string]string
			json.Unmarshal(w.Body.Bytes(), &resp)
			if resp["error"] != "Faltan campos" {
				t.Errorf("error = %q, quiero %q", resp["error"], "Faltan campos")
			}
			if store.Cantidad() != 0 {
				t.Errorf("se creó un usuario pese al error")
			}
		})
	}
}

func TestLogin(t *testing.T) {
	store := NewMemoryStore()
	r := setupRouter(store)

	doJSON(t, r, http.MethodPost, "/auth/register",
		`{"nombre":"María","correo":"maria@tecsup.edu.pe","password":"secreta123"}`, "")

	w := doJSON(t, r, http.MethodPost, "/auth/login",
		`{"correo":"maria@tecsup.edu.pe","password":"secreta123"}`, "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, quiero 200: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Token string `json:"token"`
		User  struct {
			Nombre string `json:"nombre"`
			Rol    string `json:"rol"`
		} `json:"user"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("respuesta inválida: %v", err)
	}
	if resp.Token == "" {
		t.Error("login sin token")
	}
	if resp.User.Nombre != "María" || resp.User.Rol != "usuario" {
		t.Errorf("user = %+v", resp.User)
	}

	// Contraseña incorrecta y correo inexistente devuelven lo mismo
	for _, body := range []string{
		`{"correo":"maria@tecsup.edu.pe","password":"mala"}`,
		`{"correo":"nadie@tecsup.edu.pe","password":"secreta123"}`,
	} {
		w := doJSON(t, r, http.MethodPost, "/auth/login", body, "")
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, quiero 401", w.Code)
		}
		var errResp map[string]string
		json.Unmarshal(w.Body.Bytes(), &errResp)
		if errResp["error"] != "Credenciales inválidas" {
			t.Errorf("error = %q, quiero %q", errResp["error"], "Credenciales inválidas")
		}
	}
}

func TestMeConToken(t *testing.T) {
	store := NewMemoryStore()
	r := setupRouter(store)

	w := doJSON(t, r, http.MethodPost, "/auth/register",
		`{"nombre":"María","correo":"maria@tecsup.edu.pe","password":"secreta123"}`, "")
	var registro struct {
		Token string `json:"token"`
	}
	json.Unmarshal(w.Body.Bytes(), &registro)

	w = doJSON(t, r, http.MethodGet, "/auth/me", "", registro.Token)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, quiero 200: %s", w.Code, w.Body.String())
	}
	var me map[string]string
	json.Unmarshal(w.Body.Bytes(), &me)
	if me["correo"] != "maria@tecsup.edu.pe" || me["nombre"] != "María" {
		t.Errorf("me = %+v", me)
	}

	// Sin token no hay identidad
	w = doJSON(t, r, http.MethodGet, "/auth/me", "", "")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status sin token = %d, quiero 401", w.Code)
	}
}
