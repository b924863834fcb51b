package extrato

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"

	"conferidor-service/internal/core/normalizar"
	"conferidor-service/internal/domain"
)

var (
	rePixC6 = regexp.MustCompile(`(?i)(\d{2}/\d{2})(/\d{4})?.{0,30}?` +
		`Pix\s+recebid[oa](?:\s+c6)?\s+(?:de\s+)?` +
		`([A-Za-zÀ-ÿ0-9.\-,\s]+?)\s+` +
		`R\$?\s*([\d.,]+)` +
		`(?:\s+às\s+(\d{2}:\d{2}))?`)

	rePixC6Linha  = regexp.MustCompile(`(?i)(\d{2}/\d{2})(/\d{4})?.{0,30}?Pix\s+recebid[oa].*?R\$?\s*([\d.,]+)`)
	reNomeC6Linha = regexp.MustCompile(`(?i)Pix\s+recebid[oa].*?de\s+(.*?)\s+R\$`)
)

// ExtrairC6 recupera os PIX recebidos do layout compacto do C6 Bank.
// O padrão estruturado cobre o extrato normal; quando ele não rende nada,
// uma varredura linha a linha mais permissiva tenta salvar o que der,
// marcando como "(sem nome)" os registros sem pagador identificável.
func ExtrairC6(texto string) []domain.Lancamento {
	ano := time.Now().Year()
	plano := reEspacos.ReplaceAllString(texto, " ")

	var dados []domain.Lancamento
	for _, m := range rePixC6.FindAllStringSubmatch(plano, -1) {
		valor, ok := parseValorExtrato(m[4])
		if !ok || valor <= 0 {
			continue
		}
		nome := normalizar.Titulizar(m[3])
		hora := m[5]
		if repetidoC6(dados, nome, valor, hora) {
			continue
		}
		dados = append(dados, domain.Lancamento{
			Data:  montarDataC6(m[1], m[2], ano),
			Hora:  hora,
			Nome:  nome,
			Valor: valor,
			Banco: domain.BancoC6,
		})
	}

	if len(dados) == 0 {
		for _, linha := range strings.Split(texto, "\n") {
			m := rePixC6Linha.FindStringSubmatch(linha)
			if m == nil {
				continue
			}
			valor, ok := parseValorExtrato(m[3])
			if !ok || valor <= 0 {
				continue
			}
			nome := "(sem nome)"
			if mn := reNomeC6Linha.FindStringSubmatch(linha); mn != nil {
				nome = normalizar.Titulizar(mn[1])
			}
			dados = append(dados, domain.Lancamento{
				Data:  montarDataC6(m[1], m[2], ano),
				Nome:  nome,
				Valor: valor,
				Banco: domain.BancoC6,
			})
		}
	}

	return dados
}

func montarDataC6(curta, anoTxt string, anoAtual int) string {
	if anoTxt != "" {
		return curta + anoTxt
	}
	return fmt.Sprintf("%s/%d", curta, anoAtual)
}

// repetidoC6 descarta o candidato quando já existe registro com o mesmo
// nome, valor a menos de 0,01 e a mesma hora.
func repetidoC6(dados []domain.Lancamento, nome string, valor float64, hora string) bool {
	for _, d := range dados {
		if d.Nome == nome && math.Abs(d.Valor-valor) < 0.01 && d.Hora == hora {
			return true
		}
	}
	return false
}
