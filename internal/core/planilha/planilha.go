// Package planilha extrai os depósitos esperados da planilha de controle
// do operador. As seções são delimitadas por linhas de cabeçalho
// "AGENTE: <nome>"; cada linha de dados herda o agente vigente.
package planilha

import (
	"regexp"
	"strings"

	"conferidor-service/internal/core/normalizar"
	"conferidor-service/internal/domain"
)

// Posições fixas do layout da planilha: nome, hora e valor.
const (
	colunaNome  = 0
	colunaHora  = 1
	colunaValor = 4
)

var (
	reAgente       = regexp.MustCompile(`(?i)AGENTE[:/]\s*([A-Za-zÀ-ÿ0-9\s]+)`)
	reDigitos      = regexp.MustCompile(`\d+`)
	reLinhaRotulos = regexp.MustCompile(`(?i)TOTAL|NOME`)
)

// ExtrairLinhas percorre as abas na ordem recebida, mantendo o agente
// corrente estabelecido pelos cabeçalhos de seção, e emite um candidato
// por linha de dados. Linhas antes do primeiro cabeçalho de agente, sem
// nome ou de rótulo/totalização são descartadas.
func ExtrairLinhas(abas [][][]string) ([]domain.LinhaPlanilha, error) {
	var linhas []domain.LinhaPlanilha

	agenteAtual := ""
	for _, aba := range abas {
		for _, celulas := range aba {
			texto := juntarCelulas(celulas)

			if strings.Contains(strings.ToUpper(texto), "AGENTE") {
				if m := reAgente.FindStringSubmatch(texto); m != nil {
					nome := reDigitos.ReplaceAllString(m[1], "")
					agenteAtual = strings.ToUpper(strings.TrimSpace(nome))
				}
				continue
			}
			if agenteAtual == "" {
				continue
			}

			nome := celula(celulas, colunaNome)
			if nome == "" || reLinhaRotulos.MatchString(nome) {
				continue
			}

			linhas = append(linhas, domain.LinhaPlanilha{
				Agente: agenteAtual,
				Nome:   normalizar.Titulizar(nome),
				Hora:   normalizar.NormalizarHora(celula(celulas, colunaHora)),
				Valor:  normalizar.ParseValorTexto(celula(celulas, colunaValor)),
			})
		}
	}

	if len(linhas) == 0 {
		return nil, domain.ErrPlanilhaSemDados
	}
	return linhas, nil
}

func celula(celulas []string, idx int) string {
	if idx >= len(celulas) {
		return ""
	}
	return strings.TrimSpace(celulas[idx])
}

func juntarCelulas(celulas []string) string {
	var partes []string
	for _, c := range celulas {
		c = strings.TrimSpace(c)
		if c != "" {
			partes = append(partes, c)
		}
	}
	return strings.Join(partes, " ")
}
