package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"sort"
	"strings"

	"conferidor-service/internal/api/responses"
	"conferidor-service/internal/arquivos"
	"conferidor-service/internal/core/conferencia"
	"conferidor-service/internal/core/extrato"
	"conferidor-service/internal/core/planilha"
	"conferidor-service/internal/domain"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ConferenciaHandler lida com as requisições da API de conferência de caixa.
type ConferenciaHandler struct {
	service conferencia.Service
}

// NewConferenciaHandler cria um novo handler de conferência.
func NewConferenciaHandler(service conferencia.Service) *ConferenciaHandler {
	return &ConferenciaHandler{
		service: service,
	}
}

// HandleConferirCaixa recebe os extratos em PDF e as planilhas de controle,
// extrai os dois lados e devolve o resultado da conferência. Arquivos
// individualmente ilegíveis não derrubam a requisição: viram avisos no
// resultado, desde que reste pelo menos um extrato e uma planilha válidos.
func (h *ConferenciaHandler) HandleConferirCaixa(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		responses.Error(c, http.StatusBadRequest, "Requisição multipart inválida", err.Error())
		return
	}

	pdfs := form.File["pdfs"]
	excels := form.File["excels"]
	if len(pdfs) == 0 {
		responses.Error(c, http.StatusBadRequest, "Nenhum extrato PDF enviado (campo 'pdfs')")
		return
	}
	if len(excels) == 0 {
		responses.Error(c, http.StatusBadRequest, "Nenhuma planilha enviada (campo 'excels')")
		return
	}

	senha := c.PostForm("senha")
	dataFiltro := c.PostForm("data")

	var avisos []string

	lancamentos, bancos, avisosPdf, err := h.extrairLancamentos(pdfs, senha)
	if err != nil {
		if errors.Is(err, domain.ErrSenhaNecessaria) {
			responses.Error(c, http.StatusUnprocessableEntity, domain.ErrSenhaNecessaria.Error())
			return
		}
		responses.Error(c, http.StatusUnprocessableEntity, err.Error())
		return
	}
	avisos = append(avisos, avisosPdf...)

	linhas, avisosExcel, err := h.extrairLinhasPlanilha(excels)
	if err != nil {
		responses.Error(c, http.StatusUnprocessableEntity, err.Error())
		return
	}
	avisos = append(avisos, avisosExcel...)

	resultado, err := h.service.ConferirCaixa(linhas, lancamentos, dataFiltro)
	if err != nil {
		responses.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	resultado.Banco = juntarBancos(bancos)
	resultado.Meta.Avisos = avisos

	responses.Success(c, resultado, "Conferência concluída")
}

// extrairTextoPDF é a indireção para o colaborador de decodificação.
var extrairTextoPDF = arquivos.ExtrairTextoPDF

// extrairLancamentos processa cada PDF enviado e acumula os lançamentos
// de todos os extratos. Erros por arquivo viram avisos e os irmãos
// seguem em frente, inclusive para documento protegido; só a ausência
// total de lançamentos é fatal, e nesse caso a senha pendente tem
// precedência para o chamador poder pedir a senha de novo.
func (h *ConferenciaHandler) extrairLancamentos(pdfs []*multipart.FileHeader, senha string) ([]domain.Lancamento, map[domain.Banco]bool, []string, error) {
	var lancamentos []domain.Lancamento
	var avisos []string
	bancos := make(map[domain.Banco]bool)
	senhaPendente := false

	for _, header := range pdfs {
		conteudo, err := lerMultipart(header)
		if err != nil {
			avisos = append(avisos, fmt.Sprintf("%s: não foi possível ler o arquivo", header.Filename))
			continue
		}

		texto, err := extrairTextoPDF(conteudo, senha)
		if err != nil {
			if errors.Is(err, domain.ErrSenhaNecessaria) {
				senhaPendente = true
			}
			responses.Logger().Warn("extrato ignorado",
				zap.String("arquivo", header.Filename), zap.Error(err))
			avisos = append(avisos, fmt.Sprintf("%s: %v", header.Filename, err))
			continue
		}

		dados, banco, err := extrato.ProcessarTexto(texto)
		if err != nil {
			responses.Logger().Warn("extrato ignorado",
				zap.String("arquivo", header.Filename), zap.Error(err))
			avisos = append(avisos, fmt.Sprintf("%s: %v", header.Filename, err))
			continue
		}

		bancos[banco] = true
		lancamentos = append(lancamentos, dados...)
	}

	if len(lancamentos) == 0 {
		if senhaPendente {
			return nil, nil, nil, domain.ErrSenhaNecessaria
		}
		return nil, nil, nil, domain.ErrNenhumLancamentoPix
	}
	return lancamentos, bancos, avisos, nil
}

// extrairLinhasPlanilha carrega cada planilha enviada e concatena as
// linhas na ordem dos arquivos.
func (h *ConferenciaHandler) extrairLinhasPlanilha(excels []*multipart.FileHeader) ([]domain.LinhaPlanilha, []string, error) {
	var linhas []domain.LinhaPlanilha
	var avisos []string

	for _, header := range excels {
		conteudo, err := lerMultipart(header)
		if err != nil {
			avisos = append(avisos, fmt.Sprintf("%s: não foi possível ler o arquivo", header.Filename))
			continue
		}

		abas, err := arquivos.CarregarAbasPlanilha(conteudo)
		if err != nil {
			responses.Logger().Warn("planilha ignorada",
				zap.String("arquivo", header.Filename), zap.Error(err))
			avisos = append(avisos, fmt.Sprintf("%s: %v", header.Filename, err))
			continue
		}

		extraidas, err := planilha.ExtrairLinhas(abas)
		if err != nil {
			avisos = append(avisos, fmt.Sprintf("%s: %v", header.Filename, err))
			continue
		}
		linhas = append(linhas, extraidas...)
	}

	if len(linhas) == 0 {
		return nil, nil, domain.ErrPlanilhaSemDados
	}
	return linhas, avisos, nil
}

func lerMultipart(header *multipart.FileHeader) ([]byte, error) {
	arquivo, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer arquivo.Close()
	return io.ReadAll(arquivo)
}

func juntarBancos(bancos map[domain.Banco]bool) string {
	nomes := make([]string, 0, len(bancos))
	for banco := range bancos {
		nomes = append(nomes, string(banco))
	}
	sort.Strings(nomes)
	return strings.Join(nomes, " + ")
}
