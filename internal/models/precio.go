package models

import (
	"math"
	"strconv"
	"strings"
)

// PrecioFlexible acepta en JSON tanto números (3, 5.5) como cadenas con punto
// o coma decimal ("5.50", "5,50"). Un valor imposible de interpretar no rompe
// el decodificado: queda marcado como NaN y lo rechaza la validación de negocio.
type PrecioFlexible float64

func (p *PrecioFlexible) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		*p = PrecioFlexible(math.NaN())
		return nil
	}
	*p = PrecioFlexible(v)
	return nil
}

func (p PrecioFlexible) MarshalJSON() ([]byte, error) {
	if !p.Valido() {
		return []byte("0"), nil
	}
	return []byte(strconv.FormatFloat(float64(p), 'f', -1, 64)), nil
}

// Valido indica si el precio es un número finito y no negativo.
func (p PrecioFlexible) Valido() bool {
	f := float64(p)
	return !math.IsNaN(f) && !math.IsInf(f, 0) && f >= 0
}
