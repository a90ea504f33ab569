package utils

import (
	"encoding/base64"
	"fmt"
	"math/rand/v2"
	"strings"

	"cafeteria_back_end/internal/models"

	"github.com/skip2/go-qrcode"
)

// GenerarCodigoRecogida produce el código corto que enlaza el QR físico con la
// reserva: una letra fija más seis dígitos aleatorios. Se genera en el cliente
// antes del envío para que el QR y el registro del servidor coincidan.
func GenerarCodigoRecogida() string {
	return fmt.Sprintf("T%06d", rand.IntN(900000)+100000)
}

// TextoQRReserva construye el texto plano que se codifica en el QR del pedido.
// Es determinista byte a byte: el mismo pedido siempre produce el mismo texto,
// así el historial puede regenerar un QR idéntico al original.
func TextoQRReserva(usuario string, items []models.LineaReserva, total float64, codigo string) string {
	var b strings.Builder
	b.WriteString("Pedido TECSUP\n")
	fmt.Fprintf(&b, "Cliente: %s\n\nProductos:\n", usuario)
	for _, it := range items {
		fmt.Fprintf(&b, "- %s S/%.2f\n", it.Nombre, it.Precio)
	}
	fmt.Fprintf(&b, "\nTotal: S/%.2f\nCódigo:%s", total, codigo)
	return b.String()
}

// TextoQRDeReserva regenera el texto del QR desde una reserva persistida.
func TextoQRDeReserva(r models.Reserva) string {
	return TextoQRReserva(r.Usuario, r.Productos, r.Total, r.Codigo)
}

// PNGQRReserva codifica el texto de la reserva como imagen PNG escaneable.
func PNGQRReserva(r models.Reserva, size int) ([]byte, error) {
	return qrcode.Encode(TextoQRDeReserva(r), qrcode.Medium, size)
}

// QRBase64 devuelve el PNG del QR listo para incrustar en un <img src="...">.
func QRBase64(texto string) (string, error) {
	png, err := qrcode.Encode(texto, qrcode.Medium, 256)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
