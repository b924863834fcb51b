// internal/domain/models.go
package domain

import "errors"

// Banco identifica a origem de um lançamento de extrato.
type Banco string

// Bancos com layout de extrato suportado.
const (
	BancoBB Banco = "BB"
	BancoC6 Banco = "C6"
)

// Resultados recuperáveis que o chamador precisa distinguir entre si.
var (
	ErrBancoNaoReconhecido = errors.New("banco não reconhecido no extrato")
	ErrSenhaNecessaria     = errors.New("o PDF está protegido por senha; informe a senha para continuar")
	ErrNenhumLancamentoPix = errors.New("nenhum lançamento PIX identificado no extrato")
	ErrPlanilhaSemDados    = errors.New("nenhum dado válido encontrado na planilha")
	ErrLeituraPDF          = errors.New("falha ao processar PDF")
)

// Lancamento é um PIX recebido recuperado do texto de um extrato bancário.
type Lancamento struct {
	Data  string  `json:"data"` // DD/MM/YYYY
	Hora  string  `json:"hora"` // HH:MM ou vazio
	Nome  string  `json:"nome"`
	Valor float64 `json:"valor"`
	Banco Banco   `json:"banco"`
}

// LinhaPlanilha é um depósito esperado registrado pelo operador,
// associado ao agente vigente na seção da planilha.
type LinhaPlanilha struct {
	Agente string  `json:"agente"`
	Nome   string  `json:"nome"`
	Hora   string  `json:"hora"`
	Valor  float64 `json:"valor"`
}

// Conferido é um par confirmado planilha ↔ extrato.
type Conferido struct {
	Agente       string  `json:"agente"`
	NomeExcel    string  `json:"nome_excel"`
	NomePdf      string  `json:"nome_pdf"`
	ValorExcel   float64 `json:"valor_excel"`
	ValorPdf     float64 `json:"valor_pdf"`
	HoraExcel    string  `json:"hora_excel"`
	HoraPdf      string  `json:"hora_pdf"`
	DataPdf      string  `json:"data_pdf"` // DD/MM/YYYY, vazio se irresolvível
	Similaridade float64 `json:"similaridade"`
	Banco        Banco   `json:"banco"`
}

// PendenciaPlanilha é uma linha da planilha sem lançamento correspondente
// no extrato, anotada com o candidato mais parecido quando existir.
type PendenciaPlanilha struct {
	LinhaPlanilha
	Motivo        string `json:"motivo"`
	BancoPossivel Banco  `json:"banco_possivel"`
}

// SobraExtrato é um lançamento do extrato que nenhuma linha da planilha
// reivindicou.
type SobraExtrato struct {
	Nome  string  `json:"nome"`
	Hora  string  `json:"hora"`
	Valor float64 `json:"valor"`
	Data  string  `json:"data"`
	Banco Banco   `json:"banco"`
}

// Criterios são os limiares fixos aplicados pela conferência.
type Criterios struct {
	ToleranciaValor        float64 `json:"tolerancia_valor"`
	SimilaridadeMinima     float64 `json:"similaridade_minima"`
	ToleranciaHoraSegundos int     `json:"tolerancia_hora_segundos"`
}

// Meta descreve os parâmetros efetivamente aplicados na conferência e os
// avisos de arquivos ignorados (nenhuma falha parcial é silenciosa).
type Meta struct {
	DataFiltrada     string    `json:"data_filtrada,omitempty"` // YYYY-MM-DD
	FiltroAplicadoNo string    `json:"filtro_aplicado_no"`
	Criterios        Criterios `json:"criterios"`
	Avisos           []string  `json:"avisos,omitempty"`
}

// ResultadoConferencia é a resposta completa de uma conferência de caixa.
type ResultadoConferencia struct {
	Banco           string              `json:"banco"`
	Conferidos      []Conferido         `json:"conferidos"`
	FaltandoNoPdf   []PendenciaPlanilha `json:"faltando_no_pdf"`
	FaltandoNoExcel []SobraExtrato      `json:"faltando_no_excel"`
	Meta            Meta                `json:"meta"`
}
