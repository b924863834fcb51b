package normalizar

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/texttheater/golang-levenshtein/levenshtein"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	reEspacos   = regexp.MustCompile(`\s+`)
	tituloCaser = cases.Title(language.BrazilianPortuguese)
)

// RemoverAcentos descarta as marcas diacríticas (José -> Jose).
func RemoverAcentos(s string) string {
	t := transform.Chain(norm.NFD, transform.RemoveFunc(func(r rune) bool {
		return unicode.Is(unicode.Mn, r)
	}))
	resultado, _, _ := transform.String(t, s)
	return resultado
}

// NormalizarNome é a forma de comparação de nomes: sem acentos,
// minúscula e sem espaços nas bordas.
func NormalizarNome(s string) string {
	return strings.ToLower(strings.TrimSpace(RemoverAcentos(s)))
}

// Titulizar colapsa espaços internos e aplica caixa de título.
func Titulizar(s string) string {
	return tituloCaser.String(reEspacos.ReplaceAllString(strings.TrimSpace(s), " "))
}

// Similaridade devolve a razão de subsequência comum mais longa entre os
// nomes normalizados: 2·LCS/(len(a)+len(b)), em [0,1]. Com os custos
// padrão (inserção/remoção 1, substituição 2) a distância de edição
// equivale a len(a)+len(b)-2·LCS, então a razão já sai nessa forma.
func Similaridade(a, b string) float64 {
	na := NormalizarNome(a)
	nb := NormalizarNome(b)
	if na == "" || nb == "" {
		return 0.0
	}
	return levenshtein.RatioForStrings([]rune(na), []rune(nb), levenshtein.DefaultOptions)
}
