package normalizar

import (
	"regexp"
	"strings"
	"time"
)

// FormatoDataBR é o formato de exibição usado em todo o resultado.
const FormatoDataBR = "02/01/2006"

var formatosData = []string{
	FormatoDataBR,
	"02/01/06",
	"2006-01-02",
	"02-01-2006",
}

var reDataEmbutida = regexp.MustCompile(`(\d{2}/\d{2}/\d{4})`)

// TryParseData tenta os formatos de data comuns na ordem e, se nenhum
// casar, procura um trecho DD/MM/YYYY embutido na string (ex.:
// "03/11/2025 07:11"). Ausência de data é um resultado válido, não erro.
func TryParseData(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, formato := range formatosData {
		if t, err := time.Parse(formato, s); err == nil {
			return t, true
		}
	}
	if m := reDataEmbutida.FindString(s); m != "" {
		if t, err := time.Parse(FormatoDataBR, m); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
