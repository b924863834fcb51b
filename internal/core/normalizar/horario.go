package normalizar

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	reHoraSolta      = regexp.MustCompile(`^\d{1,2}$`)
	reHoraCompacta   = regexp.MustCompile(`^\d{3,4}$`)
	reHoraMinuto     = regexp.MustCompile(`^\d{1,2}:\d{1,2}$`)
	reHoraComSegundo = regexp.MustCompile(`^\d{2}:\d{2}:\d{2}$`)

	separadoresHora = strings.NewReplacer(".", ":", "h", ":")
)

// NormalizarHora converte formas livres de horário (7h58, 758, 07.58, 7,
// 07:58:00) para HH:MM. Formas irreconhecíveis ou fora de faixa devolvem
// vazio, que significa "horário desconhecido", nunca erro.
func NormalizarHora(h string) string {
	s := strings.ToLower(strings.TrimSpace(h))
	s = strings.ReplaceAll(s, " ", "")
	if s == "" {
		return ""
	}
	s = separadoresHora.Replace(s)

	var hora, minuto int
	switch {
	case reHoraSolta.MatchString(s):
		hora, _ = strconv.Atoi(s)
	case reHoraCompacta.MatchString(s):
		hora, _ = strconv.Atoi(s[:len(s)-2])
		minuto, _ = strconv.Atoi(s[len(s)-2:])
	case reHoraMinuto.MatchString(s):
		partes := strings.SplitN(s, ":", 2)
		hora, _ = strconv.Atoi(partes[0])
		minuto, _ = strconv.Atoi(partes[1])
	case reHoraComSegundo.MatchString(s):
		hora, _ = strconv.Atoi(s[:2])
		minuto, _ = strconv.Atoi(s[3:5])
	default:
		return ""
	}

	if hora > 23 || minuto > 59 {
		return ""
	}
	return fmt.Sprintf("%02d:%02d", hora, minuto)
}
