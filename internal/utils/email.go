package utils

import (
	"bytes"
	"fmt"
	"log"
	"os"

	"cafeteria_back_end/internal/models"

	"github.com/wneessen/go-mail"
)

// SendReservaConfirmada envía el comprobante de la reserva con el QR adjunto.
// Mejor esfuerzo: si el SMTP no está configurado se omite sin error.
func SendReservaConfirmada(to string, r models.Reserva, qrPNG []byte) error {
	host := os.Getenv("SMTP_HOST")
	if host == "" {
		log.Println("⚠️ SMTP_HOST no configurado, se omite el correo de confirmación")
		return nil
	}

	from := os.Getenv("MAIL_FROM")
	if from == "" {
		from = "noreply@cafeteria.tecsup.edu.pe"
	}

	msg := mail.NewMsg()
	if err := msg.From(from); err != nil {
		return err
	}
	if err := msg.To(to); err != nil {
		return err
	}
	msg.Subject(fmt.Sprintf("Reserva confirmada: código %s", r.Codigo))
	msg.SetBodyString(mail.TypeTextHTML, GenerarHTMLReserva(r))

	if qrPNG != nil {
		msg.AttachReader("Reserva_QR.png", bytes.NewReader(qrPNG))
	}

	client, err := mail.NewClient(host,
		mail.WithPort(587),
		mail.WithSMTPAuth(mail.SMTPAuthLogin),
		mail.WithUsername(os.Getenv("SMTP_USERNAME")),
		mail.WithPassword(os.Getenv("SMTP_PASSWORD")),
		mail.WithTLSPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return err
	}

	log.Println("📤 Enviando confirmación de reserva a", to)
	return client.DialAndSend(msg)
}

// GenerarHTMLReserva genera el HTML del comprobante de reserva.
func GenerarHTMLReserva(r models.Reserva) string {
	itemsHTML := ""
	for _, item := range r.Productos {
		itemsHTML += fmt.Sprintf(`
			<tr>
				<td>%s</td>
				<td>S/ %.2f</td>
			</tr>`, item.Nombre, item.Precio)
	}

	qrHTML := ""
	if dataURI, err := QRBase64(TextoQRDeReserva(r)); err == nil {
		qrHTML = fmt.Sprintf(`<p><img src="%s" alt="Código QR" width="200"></p>`, dataURI)
	}

	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
<body style="font-family: sans-serif;">
	<h2>☕ Reserva confirmada</h2>
	<p>Hola %s, tu pedido quedó registrado. Muestra el QR adjunto al recoger.</p>
	<table border="1" cellpadding="6" cellspacing="0">
		<tr><th>Producto</th><th>Precio</th></tr>
		%s
		<tr><td><strong>Total</strong></td><td><strong>S/ %.2f</strong></td></tr>
	</table>
	<p>Código de recogida: <strong>%s</strong></p>
	%s
	<p>Estado: %s</p>
</body>
</html>`, r.Usuario, itemsHTML, r.Total, r.Codigo, qrHTML, r.Estado)
}
