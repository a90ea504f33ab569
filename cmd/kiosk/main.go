package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"cafeteria_back_end/internal/draft"
	"cafeteria_back_end/internal/models"
	"cafeteria_back_end/internal/utils"

	qrcode "github.com/skip2/go-qrcode"
)

// Kiosco de línea de comandos: arma el carrito contra el catálogo publicado,
// abre el borrador con su cuenta regresiva y confirma el pedido con QR.

type apiClient struct {
	base  string
	token string
	http  *http.Client
}

func (a *apiClient) productos(ctx context.Context) ([]models.Producto, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.base+"/productos", nil)
	if err != nil {
		return nil, err
	}

	resp, err := a.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catálogo no disponible (HTTP %d)", resp.StatusCode)
	}

	var productos []models.Producto
	if err := json.NewDecoder(resp.Body).Decode(&productos); err != nil {
		return nil, err
	}
	return productos, nil
}

// Confirmar envía el borrador como pedido definitivo.
func (a *apiClient) Confirmar(ctx context.Context, nombre, codigo string, items []models.ItemCarrito) (*models.Reserva, error) {
	body := map[string]interface{}{
		"usuario":   nombre,
		"codigo":    codigo,
		"productos": items,
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.base+"/reservar", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if a.token != "" {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}

	resp, err := a.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		var apiErr struct {
			Error string `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Error != "" {
			return nil, fmt.Errorf("%s", apiErr.Error)
		}
		return nil, fmt.Errorf("error del servidor (HTTP %d)", resp.StatusCode)
	}

	var reserva models.Reserva
	if err := json.NewDecoder(resp.Body).Decode(&reserva); err != nil {
		return nil, err
	}
	return &reserva, nil
}

func main() {
	api := flag.String("api", "http://localhost:5000", "URL base del servidor")
	token := flag.String("token", "", "token JWT de la sesión (opcional)")
	flag.Parse()

	client := &apiClient{
		base:  strings.TrimRight(*api, "/"),
		token: *token,
		http:  &http.Client{Timeout: 10 * time.Second},
	}

	ctx := context.Background()

	catalogo, err := client.productos(ctx)
	if err != nil {
		log.Fatal("❌ No se pudo cargar el catálogo: ", err)
	}

	fmt.Println("☕ Cafetería TECSUP")
	for i, p := range catalogo {
		fmt.Printf("  [%d] %s S/%.2f\n", i+1, p.Nombre, p.Precio)
	}
	fmt.Println("Comandos: add <n>, reservar, confirmar [nombre], cancelar, salir")

	ctl := draft.NewControlador(client)

	lineas := make(chan string)
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lineas <- scanner.Text()
		}
		close(lineas)
	}()

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	// Bucle cooperativo único: cada intención y cada tick pasan por el
	// mismo despachador, nunca hay dos mutaciones del borrador a la vez
	for {
		select {
		case <-ticker.C:
			render(ctl.Despachar(ctx, draft.Tick{}))

		case linea, ok := <-lineas:
			if !ok {
				return
			}
			campos := strings.Fields(linea)
			if len(campos) == 0 {
				continue
			}

			switch campos[0] {
			case "add":
				if len(campos) < 2 {
					fmt.Println("Uso: add <n>")
					continue
				}
				n, err := strconv.Atoi(campos[1])
				if err != nil || n < 1 || n > len(catalogo) {
					fmt.Println("Producto fuera del catálogo")
					continue
				}
				p := catalogo[n-1]
				render(ctl.Despachar(ctx, draft.AgregarItem{
					Item: models.ItemCarrito{Nombre: p.Nombre, Precio: p.Precio},
				}))

			case "reservar":
				render(ctl.Despachar(ctx, draft.IniciarReserva{}))

			case "confirmar":
				nombre := strings.TrimSpace(strings.Join(campos[1:], " "))
				render(ctl.Despachar(ctx, draft.ConfirmarReserva{Nombre: nombre}))

			case "cancelar":
				render(ctl.Despachar(ctx, draft.CancelarReserva{}))

			case "salir":
				return

			default:
				fmt.Println("Comando desconocido:", campos[0])
			}
		}
	}
}

func render(eventos []draft.Evento) {
	for _, ev := range eventos {
		switch ev := ev.(type) {
		case draft.CarritoActualizado:
			fmt.Printf("🛒 %d producto(s), total S/%.2f\n", len(ev.Items), ev.Total)

		case draft.ReservaIniciada:
			fmt.Printf("⏳ Reserva en curso, código %s. Confirma antes de %s\n", ev.Codigo, ev.Pantalla)

		case draft.TickRestante:
			if ev.EnAviso {
				fmt.Printf("⚠️ Quedan %s para confirmar\n", ev.Pantalla)
			}

		case draft.ReservaExpirada:
			fmt.Println("❌ El tiempo expiró, el carrito se vació")

		case draft.ReservaConfirmada:
			fmt.Printf("✅ Pedido registrado. Código de recogida: %s\n", ev.Codigo)
			guardarQR(*ev.Reserva)

		case draft.ReservaCancelada:
			fmt.Println("Reserva cancelada, el carrito sigue disponible")

		case draft.ErrorReserva:
			fmt.Println("❌", ev.Err)
		}
	}
}

func guardarQR(r models.Reserva) {
	texto := utils.TextoQRDeReserva(r)
	if err := qrcode.WriteFile(texto, qrcode.Medium, 256, "Reserva_QR.png"); err != nil {
		log.Println("⚠️ No se pudo guardar el QR:", err)
		return
	}
	fmt.Println("📎 QR guardado en Reserva_QR.png")
}
