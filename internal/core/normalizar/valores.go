// Package normalizar converte valores, horários, datas e nomes vindos de
// extratos e planilhas para as formas canônicas usadas pela conferência.
package normalizar

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	reMilharPontoDecimalVirgula = regexp.MustCompile(`^\d{1,3}(\.\d{3})+,\d+$`)
	reDecimalVirgula            = regexp.MustCompile(`^\d+,\d+$`)
	reDecimalPonto              = regexp.MustCompile(`^\d+\.\d+$`)
	reInteiroAgrupadoPonto      = regexp.MustCompile(`^\d{1,3}(\.\d{3})+$`)
	reInteiro                   = regexp.MustCompile(`^\d+$`)
	reNaoNumerico               = regexp.MustCompile(`[^\d.,\-]`)
	reNaoNumericoEstrito        = regexp.MustCompile(`[^\d.\-]`)
)

// Round2 arredonda para 2 casas decimais.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// ParseValor aceita um valor nativo ou textual e devolve o decimal
// canônico com 2 casas. Entradas irreconhecíveis degradam para 0.0.
func ParseValor(v any) float64 {
	switch n := v.(type) {
	case nil:
		return 0.0
	case float64:
		return Round2(n)
	case float32:
		return Round2(float64(n))
	case int:
		return Round2(float64(n))
	case int64:
		return Round2(float64(n))
	case string:
		return ParseValorTexto(n)
	default:
		return 0.0
	}
}

// ParseValorTexto resolve a ambiguidade de separadores (1.234 pode ser
// milhar ou decimal conforme a convenção) testando os formatos do mais
// restritivo ao mais permissivo; o primeiro que casar vence.
func ParseValorTexto(v string) float64 {
	s := strings.TrimSpace(v)
	switch strings.ToLower(s) {
	case "", "nan", "none", "-":
		return 0.0
	}
	s = strings.ReplaceAll(s, "R$", "")
	s = strings.ReplaceAll(s, "r$", "")
	s = strings.ReplaceAll(s, " ", "")

	switch {
	case reMilharPontoDecimalVirgula.MatchString(s):
		// 1.234,56
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	case reDecimalVirgula.MatchString(s):
		// 12,5
		s = strings.Replace(s, ",", ".", 1)
	case reDecimalPonto.MatchString(s):
		// 12.5
	case reInteiroAgrupadoPonto.MatchString(s):
		// 1.234 agrupado
		s = strings.ReplaceAll(s, ".", "")
	case reInteiro.MatchString(s):
		// 1234
	default:
		s = parseValorPermissivo(s)
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0.0
	}
	return Round2(f)
}

// parseValorPermissivo é o último recurso: descarta tudo que não é
// dígito/separador e decide pelo conjunto de separadores presentes.
func parseValorPermissivo(s string) string {
	limpo := reNaoNumerico.ReplaceAllString(s, "")
	temPonto := strings.Contains(limpo, ".")
	temVirgula := strings.Contains(limpo, ",")
	switch {
	case temPonto && temVirgula:
		limpo = strings.ReplaceAll(limpo, ".", "")
		limpo = strings.ReplaceAll(limpo, ",", ".")
	case temVirgula:
		limpo = strings.ReplaceAll(limpo, ",", ".")
	case temPonto:
		// já decimal
	default:
		limpo = reNaoNumericoEstrito.ReplaceAllString(limpo, "")
	}
	if limpo == "" {
		return "0"
	}
	return limpo
}
