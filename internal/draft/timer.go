package draft

import "fmt"

const (
	// DuracionEspera es el tiempo en segundos que el cliente puede mantener
	// abierto el diálogo de confirmación antes de perder el carrito.
	DuracionEspera = 90

	// UmbralAviso marca cuándo la cuenta regresiva pasa a estado de aviso.
	UmbralAviso = 20
)

// Temporizador es la cuenta regresiva del borrador de reserva. Un solo
// temporizador por sesión; el avance lo controla quien llama con Tick,
// no hay goroutines internas.
type Temporizador struct {
	restante int
	activo   bool
}

// Iniciar arranca la cuenta en DuracionEspera. Si ya hay una cuenta activa
// no hace nada y devuelve false.
func (t *Temporizador) Iniciar() bool {
	if t.activo {
		return false
	}
	t.restante = DuracionEspera
	t.activo = true
	return true
}

// Detener apaga la cuenta. Detener un temporizador ya detenido es seguro.
func (t *Temporizador) Detener() {
	t.activo = false
}

func (t *Temporizador) Activo() bool  { return t.activo }
func (t *Temporizador) Restante() int { return t.restante }

// EnAviso indica si quedan UmbralAviso segundos o menos.
func (t *Temporizador) EnAviso() bool {
	return t.activo && t.restante <= UmbralAviso
}

// Tick descuenta un segundo. Devuelve el tiempo restante y si la cuenta
// llegó a cero en este tick; al expirar el temporizador se apaga solo,
// así que la expiración se reporta exactamente una vez.
func (t *Temporizador) Tick() (restante int, expirado bool) {
	if !t.activo {
		return 0, false
	}
	t.restante--
	if t.restante <= 0 {
		t.restante = 0
		t.activo = false
		return 0, true
	}
	return t.restante, false
}

// Pantalla devuelve el tiempo restante en formato mm:ss.
func (t *Temporizador) Pantalla() string {
	return Formato(t.restante)
}

// Formato convierte segundos a mm:ss.
func Formato(segundos int) string {
	if segundos < 0 {
		segundos = 0
	}
	return fmt.Sprintf("%02d:%02d", segundos/60, segundos%60)
}
