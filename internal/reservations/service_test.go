package reservations

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"cafeteria_back_end/internal/models"

	"github.com/gocql/gocql"
)

func decodeNueva(t *testing.T, body string) NuevaReserva {
	t.Helper()
	var req NuevaReserva
	if err := json.Unmarshal([]byte(body), &req); err != nil {
		t.Fatalf("cuerpo inválido en el test: %v", err)
	}
	return req
}

func TestCrearCalculaTotalYNormaliza(t *testing.T) {
	store := NewMemoryStore()
	svc := NewService(store)

	req := decodeNueva(t, `{"productos":[{"nombre":"Café","precio":"5,50"},{"nombre":"Pan","precio":3}]}`)

	r, err := svc.Crear(context.Background(), req, nil)
	if err != nil {
		t.Fatalf("Crear: %v", err)
	}

	if r.Usuario != "Anon" {
		t.Errorf("usuario = %q, quiero %q", r.Usuario, "Anon")
	}
	if r.Total != 8.50 {
		t.Errorf("total = %v, quiero 8.50", r.Total)
	}
	if r.Estado != models.EstadoPendiente {
		t.Errorf("estado = %q, quiero %q", r.Estado, models.EstadoPendiente)
	}
	if len(r.Productos) != 2 || r.Productos[0].Nombre != "Café" || r.Productos[1].Nombre != "Pan" {
		t.Errorf("productos en orden inesperado: %+v", r.Productos)
	}
	if store.Cantidad() != 1 {
		t.Errorf("reservas guardadas = %d, quiero 1", store.Cantidad())
	}
}

func TestCrearComaYPuntoEquivalen(t *testing.T) {
	svc := NewService(NewMemoryStore())

	conComa := decodeNueva(t, `{"productos":[{"nombre":"Jugo","precio":"12,50"}]}`)
	conPunto := decodeNueva(t, `{"productos":[{"nombre":"Jugo","precio":"12.50"}]}`)

	r1, err := svc.Crear(context.Background(), conComa, nil)
	if err != nil {
		t.Fatalf("Crear con coma: %v", err)
	}
	r2, err := svc.Crear(context.Background(), conPunto, nil)
	if err != nil {
		t.Fatalf("Crear con punto: %v", err)
	}
	if r1.Total != 12.50 || r2.Total != 12.50 {
		t.Errorf("totales = %v y %v, quiero 12.50 en ambos", r1.Total, r2.Total)
	}
}

func TestCrearCarritoVacio(t *testing.T) {
	store := NewMemoryStore()
	svc := NewService(store)

	_, err := svc.Crear(context.Background(), NuevaReserva{}, nil)
	if !errors.Is(err, ErrCarritoVacio) {
		t.Fatalf("err = %v, quiero ErrCarritoVacio", err)
	}
	if store.Cantidad() != 0 {
		t.Errorf("se guardó una reserva con carrito vacío")
	}
}

func TestCrearRechazaItemsInvalidosAtomicamente(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"nombre vacío", `{"productos":[{"nombre":"Café","precio":5},{"nombre":"   ","precio":3}]}`},
		{"precio no numérico", `{"productos":[{"nombre":"Café","precio":"abc"}]}`},
		{"precio negativo", `{"productos":[{"nombre":"Café","precio":-1}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewMemoryStore()
			svc := NewService(store)

			_, err := svc.Crear(context.Background(), decodeNueva(t, tt.body), nil)
			if !errors.Is(err, ErrProductosInvalidos) {
				t.Fatalf("err = %v, quiero ErrProductosInvalidos", err)
			}
			if store.Cantidad() != 0 {
				t.Errorf("reservas guardadas = %d, quiero 0", store.Cantidad())
			}
		})
	}
}

func TestCrearPrioridadDelNombre(t *testing.T) {
	tests := []struct {
		name   string
		cuerpo string
		ident  *Identidad
		want   string
	}{
		{"identidad manda", "Del Cuerpo", &Identidad{Nombre: "María"}, "María"},
		{"cuerpo si no hay sesión", "Del Cuerpo", nil, "Del Cuerpo"},
		{"anónimo como último recurso", "", nil, "Anon"},
		{"identidad sin nombre cae al cuerpo", "Del Cuerpo", &Identidad{Nombre: "  "}, "Del Cuerpo"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(NewMemoryStore())
			req := NuevaReserva{
				Usuario:   tt.cuerpo,
				Productos: []ItemReserva{{Nombre: "Café", Precio: 5}},
			}
			r, err := svc.Crear(context.Background(), req, tt.ident)
			if err != nil {
				t.Fatalf("Crear: %v", err)
			}
			if r.Usuario != tt.want {
				t.Errorf("usuario = %q, quiero %q", r.Usuario, tt.want)
			}
		})
	}
}

func TestCrearGuardaCodigoVerbatim(t *testing.T) {
	svc := NewService(NewMemoryStore())

	// Sin recorte ni normalización: el código debe coincidir byte a byte
	// con lo que el cliente codificó en su QR
	for _, codigo := range []string{"T123456", " T123456 ", "t999999"} {
		req := NuevaReserva{
			Codigo:    codigo,
			Productos: []ItemReserva{{Nombre: "Café", Precio: 5}},
		}
		r, err := svc.Crear(context.Background(), req, nil)
		if err != nil {
			t.Fatalf("Crear: %v", err)
		}
		if r.Codigo != codigo {
			t.Errorf("codigo = %q, quiero %q", r.Codigo, codigo)
		}
		if _, err := svc.BuscarPorCodigo(context.Background(), codigo); err != nil {
			t.Errorf("el código %q no resuelve tras crear: %v", codigo, err)
		}
	}
}

func crearReserva(t *testing.T, svc *Service, codigo string) *models.Reserva {
	t.Helper()
	r, err := svc.Crear(context.Background(), NuevaReserva{
		Codigo:    codigo,
		Productos: []ItemReserva{{Nombre: "Café", Precio: 5}},
	}, nil)
	if err != nil {
		t.Fatalf("Crear: %v", err)
	}
	return r
}

func TestSetEstado(t *testing.T) {
	svc := NewService(NewMemoryStore())
	r := crearReserva(t, svc, "")

	actualizada, err := svc.SetEstado(context.Background(), PorID(r.ID), models.EstadoListo)
	if err != nil {
		t.Fatalf("SetEstado: %v", err)
	}
	if actualizada.Estado != models.EstadoListo {
		t.Errorf("estado = %q, quiero %q", actualizada.Estado, models.EstadoListo)
	}
}

func TestSetEstadoLiteralInvalido(t *testing.T) {
	svc := NewService(NewMemoryStore())
	r := crearReserva(t, svc, "")

	if _, err := svc.SetEstado(context.Background(), PorID(r.ID), "Volando"); !errors.Is(err, ErrEstadoInvalido) {
		t.Fatalf("err = %v, quiero ErrEstadoInvalido", err)
	}

	// El estado previo queda intacto
	guardada, err := svc.store.BuscarPorID(context.Background(), r.ID)
	if err != nil {
		t.Fatalf("BuscarPorID: %v", err)
	}
	if guardada.Estado != models.EstadoPendiente {
		t.Errorf("estado = %q, quiero %q", guardada.Estado, models.EstadoPendiente)
	}
}

func TestSetEstadoNoEncontrada(t *testing.T) {
	svc := NewService(NewMemoryStore())

	if _, err := svc.SetEstado(context.Background(), PorID(gocql.TimeUUID()), models.EstadoListo); !errors.Is(err, ErrReservaNoEncontrada) {
		t.Errorf("por id: err = %v, quiero ErrReservaNoEncontrada", err)
	}
	if _, err := svc.SetEstado(context.Background(), PorCodigo("T000000"), models.EstadoListo); !errors.Is(err, ErrReservaNoEncontrada) {
		t.Errorf("por código: err = %v, quiero ErrReservaNoEncontrada", err)
	}
}

func TestSetEstadoPorCodigo(t *testing.T) {
	svc := NewService(NewMemoryStore())
	crearReserva(t, svc, "T777777")

	actualizada, err := svc.SetEstado(context.Background(), PorCodigo("T777777"), models.EstadoPreparando)
	if err != nil {
		t.Fatalf("SetEstado: %v", err)
	}
	if actualizada.Estado != models.EstadoPreparando {
		t.Errorf("estado = %q, quiero %q", actualizada.Estado, models.EstadoPreparando)
	}
}

func TestEntregarPorCodigo(t *testing.T) {
	svc := NewService(NewMemoryStore())
	crearReserva(t, svc, "T424242")

	r, err := svc.EntregarPorCodigo(context.Background(), "T424242")
	if err != nil {
		t.Fatalf("EntregarPorCodigo: %v", err)
	}
	if r.Estado != models.EstadoEntregado {
		t.Errorf("estado = %q, quiero %q", r.Estado, models.EstadoEntregado)
	}

	if _, err := svc.EntregarPorCodigo(context.Background(), "T999999"); !errors.Is(err, ErrReservaNoEncontrada) {
		t.Errorf("err = %v, quiero ErrReservaNoEncontrada", err)
	}
}

func TestProteccionEstadosFinales(t *testing.T) {
	ctx := context.Background()

	t.Run("apagada permite reabrir", func(t *testing.T) {
		svc := NewService(NewMemoryStore())
		r := crearReserva(t, svc, "")
		if _, err := svc.SetEstado(ctx, PorID(r.ID), models.EstadoEntregado); err != nil {
			t.Fatalf("SetEstado: %v", err)
		}

		actualizada, err := svc.SetEstado(ctx, PorID(r.ID), models.EstadoPendiente)
		if err != nil {
			t.Fatalf("SetEstado sobre estado final: %v", err)
		}
		if actualizada.Estado != models.EstadoPendiente {
			t.Errorf("estado = %q, quiero %q", actualizada.Estado, models.EstadoPendiente)
		}
	})

	t.Run("activada rechaza reabrir", func(t *testing.T) {
		svc := NewService(NewMemoryStore())
		svc.ProtegerEstadosFinales = true
		r := crearReserva(t, svc, "")
		if _, err := svc.SetEstado(ctx, PorID(r.ID), models.EstadoCancelado); err != nil {
			t.Fatalf("SetEstado: %v", err)
		}

		if _, err := svc.SetEstado(ctx, PorID(r.ID), models.EstadoPendiente); !errors.Is(err, ErrEstadoFinal) {
			t.Fatalf("err = %v, quiero ErrEstadoFinal", err)
		}
	})
}

func TestEliminar(t *testing.T) {
	store := NewMemoryStore()
	svc := NewService(store)
	r := crearReserva(t, svc, "T313131")

	if err := svc.Eliminar(context.Background(), r.ID); err != nil {
		t.Fatalf("Eliminar: %v", err)
	}
	if store.Cantidad() != 0 {
		t.Errorf("reservas guardadas = %d, quiero 0", store.Cantidad())
	}
	if _, err := svc.BuscarPorCodigo(context.Background(), "T313131"); !errors.Is(err, ErrReservaNoEncontrada) {
		t.Errorf("el código sigue resolviendo tras eliminar")
	}

	if err := svc.Eliminar(context.Background(), r.ID); !errors.Is(err, ErrReservaNoEncontrada) {
		t.Errorf("err = %v, quiero ErrReservaNoEncontrada", err)
	}
}
