package mapview

import (
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const missing = "n/d"

var ptBR = message.NewPrinter(language.BrazilianPortuguese)

// FormatBRL renders a monetary value as Brazilian reais, e.g. "R$ 2.500,00".
func FormatBRL(v *float64) string {
	if v == nil {
		return missing
	}
	return ptBR.Sprintf("R$ %.2f", *v)
}

func formatArea(v *float64) string {
	if v == nil {
		return missing
	}
	return ptBR.Sprintf("%v m²", *v)
}

func formatInt(v *int) string {
	if v == nil {
		return missing
	}
	return strconv.Itoa(*v)
}
