// Package extrato recupera lançamentos PIX recebidos do texto decodificado
// de extratos bancários. Somente os layouts do Banco do Brasil e do C6 Bank
// são modelados; formatos desconhecidos são rejeitados, não adivinhados.
package extrato

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"conferidor-service/internal/domain"
)

var reEspacos = regexp.MustCompile(`\s+`)

// DetectarBanco procura os marcadores que identificam o banco emissor.
func DetectarBanco(texto string) (domain.Banco, bool) {
	upper := strings.ToUpper(reEspacos.ReplaceAllString(texto, " "))
	switch {
	case strings.Contains(upper, "C6"):
		return domain.BancoC6, true
	case strings.Contains(upper, "BANCO DO BRASIL"),
		strings.Contains(upper, "EXTRATO DE CONTA"),
		strings.Contains(upper, "BB S.A"):
		return domain.BancoBB, true
	}
	return "", false
}

// ProcessarTexto roteia o texto para o extrator do banco identificado e
// carimba a origem em cada lançamento emitido.
func ProcessarTexto(texto string) ([]domain.Lancamento, domain.Banco, error) {
	banco, ok := DetectarBanco(texto)
	if !ok {
		return nil, "", domain.ErrBancoNaoReconhecido
	}

	var (
		dados []domain.Lancamento
		err   error
	)
	switch banco {
	case domain.BancoC6:
		dados = ExtrairC6(texto)
	case domain.BancoBB:
		dados, err = ExtrairBB(texto)
	}
	if err != nil {
		return nil, banco, err
	}
	if len(dados) == 0 {
		return nil, banco, domain.ErrNenhumLancamentoPix
	}
	return dados, banco, nil
}

// parseValorExtrato converte um valor no padrão brasileiro (1.234,56).
func parseValorExtrato(txt string) (float64, bool) {
	s := strings.ReplaceAll(txt, ".", "")
	s = strings.Replace(s, ",", ".", 1)
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// prefixoSeguro corta em n bytes sem partir uma runa no meio.
func prefixoSeguro(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

// sufixoSeguro devolve os últimos n bytes sem partir uma runa no meio.
func sufixoSeguro(s string, n int) string {
	if len(s) <= n {
		return s
	}
	inicio := len(s) - n
	for inicio < len(s) && !utf8.RuneStart(s[inicio]) {
		inicio++
	}
	return s[inicio:]
}
