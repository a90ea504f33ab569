package reservation

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"cafeteria_back_end/internal/models"
	"cafeteria_back_end/internal/reservations"

	"github.com/gin-gonic/gin"
)

func setupRouter(svc *reservations.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(svc)

	r := gin.New()
	r.POST("/reservar", h.Crear)
	r.GET("/reservas", h.Listar)
	r.PUT("/reserva/:id/estado", h.CambiarEstado)
	r.GET("/reserva/codigo/:codigo", h.BuscarPorCodigo)
	r.PUT("/reserva/codigo/:codigo/entregado", h.EntregarPorCodigo)
	r.GET("/reserva/codigo/:codigo/qr", h.QRPorCodigo)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCrearReservaHTTP(t *testing.T) {
	svc := reservations.NewService(reservations.NewMemoryStore())
	r := setupRouter(svc)

	w := doJSON(t, r, http.MethodPost, "/reservar",
		`{"codigo":"T123456","productos":[{"nombre":"Café","precio":"5,50"},{"nombre":"Pan","precio":3}]}`)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, quiero 201: %s", w.Code, w.Body.String())
	}

	var reserva models.Reserva
	if err := json.Unmarshal(w.Body.Bytes(), &reserva); err != nil {
		t.Fatalf("respuesta no es una reserva: %v", err)
	}
	if reserva.Usuario != "Anon" || reserva.Total != 8.5 || reserva.Estado != models.EstadoPendiente {
		t.Errorf("reserva = %+v, quiero Anon/8.5/Pendiente", reserva)
	}
	if reserva.Codigo != "T123456" {
		t.Errorf("codigo = %q, quiero T123456", reserva.Codigo)
	}
}

func TestCrearReservaErroresDeValidacion(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"carrito vacío", `{"productos":[]}`, "Debes enviar al menos un producto"},
		{"sin productos", `{}`, "Debes enviar al menos un producto"},
		{"precio inválido", `{"productos":[{"nombre":"Café","precio":"abc"}]}`, "Productos inválidos (nombre/precio)"},
		{"nombre vacío", `{"productos":[{"nombre":"  ","precio":5}]}`, "Productos inválidos (nombre/precio)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := reservations.NewMemoryStore()
			r := setupRouter(reservations.NewService(store))

			w := doJSON(t, r, http.MethodPost, "/reservar", tt.body)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, quiero 400", w.Code)
			}

			var resp map[string]string
			json.Unmarshal(w.Body.Bytes(), &resp)
			if resp["error"] != tt.wantErr {
				t.Errorf("error = %q, quiero %q", resp["error"], tt.wantErr)
			}
			if store.Cantidad() != 0 {
				t.Errorf("se creó una reserva pese al error")
			}
		})
	}
}

func crearPorHTTP(t *testing.T, r *gin.Engine, codigo string) models.Reserva {
	t.Helper()
	body := `{"productos":[{"nombre":"Café","precio":5}]`
	if codigo != "" {
		body += `,"codigo":"` + codigo + `"`
	}
	body += `}`

	w := doJSON(t, r, http.MethodPost, "/reservar", body)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d creando la reserva: %s", w.Code, w.Body.String())
	}
	var reserva models.Reserva
	if err := json.Unmarshal(w.Body.Bytes(), &reserva); err != nil {
		t.Fatalf("respuesta no es una reserva: %v", err)
	}
	return reserva
}

func TestListarConFiltroDeEstado(t *testing.T) {
	svc := reservations.NewService(reservations.NewMemoryStore())
	r := setupRouter(svc)

	primera := crearPorHTTP(t, r, "")
	crearPorHTTP(t, r, "")

	if _, err := svc.SetEstado(context.Background(), reservations.PorID(primera.ID), models.EstadoListo); err != nil {
		t.Fatalf("SetEstado: %v", err)
	}

	w := doJSON(t, r, http.MethodGet, "/reservas?estado=Listo", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, quiero 200", w.Code)
	}

	var lista []models.Reserva
	if err := json.Unmarshal(w.Body.Bytes(), &lista); err != nil {
		t.Fatalf("respuesta no es una lista: %v", err)
	}
	if len(lista) != 1 || lista[0].Estado != models.EstadoListo {
		t.Errorf("lista = %+v, quiero una sola reserva en Listo", lista)
	}

	// Sin filtro devuelve ambas
	w = doJSON(t, r, http.MethodGet, "/reservas", "")
	json.Unmarshal(w.Body.Bytes(), &lista)
	if len(lista) != 2 {
		t.Errorf("sin filtro = %d reservas, quiero 2", len(lista))
	}
}

func TestCambiarEstadoHTTP(t *testing.T) {
	r := setupRouter(reservations.NewService(reservations.NewMemoryStore()))
	reserva := crearPorHTTP(t, r, "")

	w := doJSON(t, r, http.MethodPut, "/reserva/"+reserva.ID.String()+"/estado", `{"estado":"Preparando"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, quiero 200: %s", w.Code, w.Body.String())
	}

	var actualizada models.Reserva
	json.Unmarshal(w.Body.Bytes(), &actualizada)
	if actualizada.Estado != models.EstadoPreparando {
		t.Errorf("estado = %q, quiero Preparando", actualizada.Estado)
	}
}

func TestCambiarEstadoErrores(t *testing.T) {
	r := setupRouter(reservations.NewService(reservations.NewMemoryStore()))
	reserva := crearPorHTTP(t, r, "")

	tests := []struct {
		name     string
		path     string
		body     string
		wantCode int
	}{
		{"id malformado", "/reserva/no-es-uuid/estado", `{"estado":"Listo"}`, http.StatusBadRequest},
		{"literal desconocido", "/reserva/" + reserva.ID.String() + "/estado", `{"estado":"Volando"}`, http.StatusBadRequest},
		{"no existe", "/reserva/00000000-0000-1000-8000-000000000000/estado", `{"estado":"Listo"}`, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, r, http.MethodPut, tt.path, tt.body)
			if w.Code != tt.wantCode {
				t.Errorf("status = %d, quiero %d: %s", w.Code, tt.wantCode, w.Body.String())
			}
		})
	}
}

func TestBuscarYEntregarPorCodigo(t *testing.T) {
	r := setupRouter(reservations.NewService(reservations.NewMemoryStore()))
	crearPorHTTP(t, r, "T777777")

	w := doJSON(t, r, http.MethodGet, "/reserva/codigo/T777777", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, quiero 200", w.Code)
	}

	w = doJSON(t, r, http.MethodGet, "/reserva/codigo/T000000", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, quiero 404", w.Code)
	}
	var resp map[string]string
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp["error"] != "No existe reserva con ese código" {
		t.Errorf("error = %q", resp["error"])
	}

	w = doJSON(t, r, http.MethodPut, "/reserva/codigo/T777777/entregado", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, quiero 200: %s", w.Code, w.Body.String())
	}
	var entrega struct {
		Mensaje string         `json:"mensaje"`
		Reserva models.Reserva `json:"reserva"`
	}
	json.Unmarshal(w.Body.Bytes(), &entrega)
	if entrega.Mensaje != "Pedido marcado como ENTREGADO" {
		t.Errorf("mensaje = %q", entrega.Mensaje)
	}
	if entrega.Reserva.Estado != models.EstadoEntregado {
		t.Errorf("estado = %q, quiero Entregado", entrega.Reserva.Estado)
	}
}

func TestQRPorCodigoHTTP(t *testing.T) {
	r := setupRouter(reservations.NewService(reservations.NewMemoryStore()))
	crearPorHTTP(t, r, "T555555")

	w := doJSON(t, r, http.MethodGet, "/reserva/codigo/T555555/qr", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, quiero 200", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("Content-Type = %q, quiero image/png", ct)
	}
	// Cabecera PNG
	if body := w.Body.Bytes(); len(body) < 8 || string(body[1:4]) != "PNG" {
		t.Error("el cuerpo no es un PNG")
	}
}
