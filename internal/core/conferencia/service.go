// Package conferencia cruza os depósitos registrados na planilha com os
// lançamentos PIX recuperados dos extratos e classifica cada lado em
// conferido, pendente ou sobra.
package conferencia

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"conferidor-service/internal/core/normalizar"
	"conferidor-service/internal/domain"
)

// Limiares da conferência. São fixos do negócio, não configuráveis por
// requisição, e sempre reportados em meta.criterios.
const (
	ToleranciaValor        = 0.01
	SimilaridadeMinima     = 0.55
	ToleranciaHoraSegundos = 600
)

// FormatoDataISO é o formato aceito no parâmetro de filtro de data.
const FormatoDataISO = "2006-01-02"

// Service executa a conferência de caixa.
type Service interface {
	ConferirCaixa(linhas []domain.LinhaPlanilha, lancamentos []domain.Lancamento, dataFiltro string) (*domain.ResultadoConferencia, error)
}

type service struct{}

// NewService cria o serviço de conferência.
func NewService() Service {
	return &service{}
}

// candidato é o estado de um lançamento do extrato durante o pareamento.
type candidato struct {
	idx       int
	sim       float64
	horaOk    bool
	horaDelta float64
}

// ConferirCaixa percorre as linhas da planilha na ordem em que foram
// lidas e, para cada uma, consome o melhor lançamento ainda livre do
// extrato. Cada lançamento é consumido no máximo uma vez; linhas sem
// par viram pendência anotada com o nome mais parecido do extrato.
func (s *service) ConferirCaixa(linhas []domain.LinhaPlanilha, lancamentos []domain.Lancamento, dataFiltro string) (*domain.ResultadoConferencia, error) {
	meta := domain.Meta{
		FiltroAplicadoNo: "PDF",
		Criterios: domain.Criterios{
			ToleranciaValor:        ToleranciaValor,
			SimilaridadeMinima:     SimilaridadeMinima,
			ToleranciaHoraSegundos: ToleranciaHoraSegundos,
		},
	}

	if dataFiltro != "" {
		alvo, err := time.Parse(FormatoDataISO, dataFiltro)
		if err != nil {
			// o parâmetro também é aceito em qualquer forma que o
			// parser de datas resolva (03/11/2025, 03-11-2025, ...)
			parseada, ok := normalizar.TryParseData(dataFiltro)
			if !ok {
				return nil, fmt.Errorf("data de filtro inválida %q", dataFiltro)
			}
			alvo = parseada
		}
		lancamentos = filtrarPorData(lancamentos, alvo)
		meta.DataFiltrada = alvo.Format(FormatoDataISO)
	}

	usados := make([]bool, len(lancamentos))
	resultado := &domain.ResultadoConferencia{
		Conferidos:      []domain.Conferido{},
		FaltandoNoPdf:   []domain.PendenciaPlanilha{},
		FaltandoNoExcel: []domain.SobraExtrato{},
		Meta:            meta,
	}

	for _, linha := range linhas {
		melhor := escolherCandidato(linha, lancamentos, usados)
		if melhor != nil {
			lanc := lancamentos[melhor.idx]
			usados[melhor.idx] = true
			resultado.Conferidos = append(resultado.Conferidos, domain.Conferido{
				Agente:       linha.Agente,
				NomeExcel:    linha.Nome,
				NomePdf:      lanc.Nome,
				ValorExcel:   normalizar.Round2(linha.Valor),
				ValorPdf:     normalizar.Round2(lanc.Valor),
				HoraExcel:    linha.Hora,
				HoraPdf:      lanc.Hora,
				DataPdf:      formatarDataPdf(lanc.Data),
				Similaridade: melhor.sim,
				Banco:        lanc.Banco,
			})
			continue
		}

		motivo, banco := anotarPendencia(linha, lancamentos)
		resultado.FaltandoNoPdf = append(resultado.FaltandoNoPdf, domain.PendenciaPlanilha{
			LinhaPlanilha: domain.LinhaPlanilha{
				Agente: linha.Agente,
				Nome:   linha.Nome,
				Hora:   linha.Hora,
				Valor:  normalizar.Round2(linha.Valor),
			},
			Motivo:        motivo,
			BancoPossivel: banco,
		})
	}

	for i, lanc := range lancamentos {
		if usados[i] {
			continue
		}
		resultado.FaltandoNoExcel = append(resultado.FaltandoNoExcel, domain.SobraExtrato{
			Nome:  lanc.Nome,
			Hora:  normalizar.NormalizarHora(lanc.Hora),
			Valor: normalizar.Round2(lanc.Valor),
			Data:  formatarDataPdf(lanc.Data),
			Banco: lanc.Banco,
		})
	}

	return resultado, nil
}

// escolherCandidato restringe o extrato aos lançamentos livres com valor
// dentro da tolerância, ordena por (hora compatível, similaridade,
// proximidade de hora) e aceita somente o primeiro colocado, e somente se
// ele satisfizer o critério de nome. Nil significa linha sem par.
func escolherCandidato(linha domain.LinhaPlanilha, lancamentos []domain.Lancamento, usados []bool) *candidato {
	var candidatos []candidato
	for i, lanc := range lancamentos {
		if usados[i] || math.Abs(lanc.Valor-linha.Valor) >= ToleranciaValor {
			continue
		}
		horaOk, delta := compararHoras(linha.Hora, lanc.Hora)
		candidatos = append(candidatos, candidato{
			idx:       i,
			sim:       normalizar.Similaridade(linha.Nome, lanc.Nome),
			horaOk:    horaOk,
			horaDelta: delta,
		})
	}
	if len(candidatos) == 0 {
		return nil
	}

	sort.SliceStable(candidatos, func(i, j int) bool {
		a, b := candidatos[i], candidatos[j]
		if a.horaOk != b.horaOk {
			return a.horaOk
		}
		if a.sim != b.sim {
			return a.sim > b.sim
		}
		return a.horaDelta < b.horaDelta
	})

	melhor := candidatos[0]
	if melhor.sim >= SimilaridadeMinima || nomesAninhados(linha.Nome, lancamentos[melhor.idx].Nome) {
		return &melhor
	}
	return nil
}

// compararHoras mede a distância em segundos entre as horas normalizadas.
// Hora ausente em qualquer lado não desclassifica o candidato: a
// comparação é considerada satisfeita com distância máxima, de modo que
// candidatos com hora conhecida e próxima sempre vençam o desempate.
func compararHoras(horaExcel, horaPdf string) (bool, float64) {
	const deltaDesconhecido = 999999

	he, errE := time.Parse("15:04", normalizar.NormalizarHora(horaExcel))
	hp, errP := time.Parse("15:04", normalizar.NormalizarHora(horaPdf))
	if errE != nil || errP != nil {
		return true, deltaDesconhecido
	}
	delta := math.Abs(he.Sub(hp).Seconds())
	return delta <= ToleranciaHoraSegundos, delta
}

// nomesAninhados aceita o par quando um nome normalizado é prefixo do
// outro, cobrindo abreviações que derrubam a similaridade (ex.: "Maria
// S." contra "Maria Souza Lima").
func nomesAninhados(a, b string) bool {
	na := normalizar.NormalizarNome(a)
	nb := normalizar.NormalizarNome(b)
	if na == "" || nb == "" {
		return false
	}
	return strings.HasPrefix(na, nb) || strings.HasPrefix(nb, na)
}

// anotarPendencia varre o extrato inteiro, inclusive lançamentos já
// consumidos, atrás do nome mais parecido para explicar por que a linha
// ficou sem par.
func anotarPendencia(linha domain.LinhaPlanilha, lancamentos []domain.Lancamento) (string, domain.Banco) {
	melhorSim := 0.0
	melhorIdx := -1
	for i, lanc := range lancamentos {
		if sim := normalizar.Similaridade(linha.Nome, lanc.Nome); sim > melhorSim {
			melhorSim = sim
			melhorIdx = i
		}
	}
	if melhorIdx < 0 {
		return "Nenhum lançamento parecido encontrado no extrato.", ""
	}

	lanc := lancamentos[melhorIdx]
	diferenca := math.Abs(lanc.Valor - linha.Valor)
	rotulo := "diferente"
	switch {
	case diferenca < ToleranciaValor:
		rotulo = "igual"
	case diferenca < 0.20:
		rotulo = "próximo"
	}
	motivo := fmt.Sprintf("Nome semelhante encontrado: '%s' (sim=%.2f), valor %s (R$%.2f).",
		lanc.Nome, melhorSim, rotulo, normalizar.Round2(lanc.Valor))
	return motivo, lanc.Banco
}

// filtrarPorData mantém apenas os lançamentos do dia alvo. O campo de
// data é a fonte primária; se ele não resolver, os demais campos textuais
// são vasculhados por uma data embutida. Lançamentos sem data resolvível
// em lugar nenhum são excluídos quando o filtro está ativo.
func filtrarPorData(lancamentos []domain.Lancamento, alvo time.Time) []domain.Lancamento {
	var filtrados []domain.Lancamento
	for _, lanc := range lancamentos {
		if dataDoLancamento(lanc, alvo) {
			filtrados = append(filtrados, lanc)
		}
	}
	return filtrados
}

func dataDoLancamento(lanc domain.Lancamento, alvo time.Time) bool {
	if data, ok := normalizar.TryParseData(lanc.Data); ok {
		return mesmoDia(data, alvo)
	}
	for _, campo := range []string{lanc.Hora, lanc.Nome} {
		if data, ok := normalizar.TryParseData(campo); ok {
			return mesmoDia(data, alvo)
		}
	}
	return false
}

func mesmoDia(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

func formatarDataPdf(data string) string {
	if t, ok := normalizar.TryParseData(data); ok {
		return t.Format(normalizar.FormatoDataBR)
	}
	return ""
}
