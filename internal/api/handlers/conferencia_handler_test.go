package handlers

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"conferidor-service/internal/api/responses"
	"conferidor-service/internal/core/conferencia"
	"conferidor-service/internal/domain"
)

func novoRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	responses.InitLogger()

	handler := NewConferenciaHandler(conferencia.NewService())
	router := gin.New()
	router.POST("/api/v1/conferencia/caixa", handler.HandleConferirCaixa)
	return router
}

type arquivoForm struct {
	campo    string
	nome     string
	conteudo []byte
}

func requisicaoMultipart(t *testing.T, arquivosForm []arquivoForm) *http.Request {
	t.Helper()

	var corpo bytes.Buffer
	escritor := multipart.NewWriter(&corpo)
	for _, a := range arquivosForm {
		parte, err := escritor.CreateFormFile(a.campo, a.nome)
		require.NoError(t, err)
		_, err = parte.Write(a.conteudo)
		require.NoError(t, err)
	}
	require.NoError(t, escritor.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/conferencia/caixa", &corpo)
	req.Header.Set("Content-Type", escritor.FormDataContentType())
	return req
}

func planilhaMaria(t *testing.T) []byte {
	t.Helper()

	f := excelize.NewFile()
	require.NoError(t, f.SetCellValue("Sheet1", "A1", "AGENTE: NORTE"))
	require.NoError(t, f.SetCellValue("Sheet1", "A2", "Maria Silva"))
	require.NoError(t, f.SetCellValue("Sheet1", "B2", "07:04"))
	require.NoError(t, f.SetCellValue("Sheet1", "E2", "1.234,56"))

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

// substituirExtracaoPDF troca o colaborador de decodificação pelo stub
// informado e o restaura ao fim do teste.
func substituirExtracaoPDF(t *testing.T, stub func([]byte, string) (string, error)) {
	t.Helper()

	original := extrairTextoPDF
	extrairTextoPDF = stub
	t.Cleanup(func() { extrairTextoPDF = original })
}

func TestHandleConferirCaixaSemMultipart(t *testing.T) {
	router := novoRouter()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/conferencia/caixa", bytes.NewBufferString("{}"))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestHandleConferirCaixaSemPdfs(t *testing.T) {
	router := novoRouter()

	req := requisicaoMultipart(t, []arquivoForm{
		{campo: "excels", nome: "controle.xlsx", conteudo: []byte("qualquer")},
	})
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Contains(t, resp.Body.String(), "pdfs")
}

func TestHandleConferirCaixaSemPlanilhas(t *testing.T) {
	router := novoRouter()

	req := requisicaoMultipart(t, []arquivoForm{
		{campo: "pdfs", nome: "extrato.pdf", conteudo: []byte("qualquer")},
	})
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Contains(t, resp.Body.String(), "excels")
}

func TestHandleConferirCaixaPdfIlegivel(t *testing.T) {
	router := novoRouter()

	// bytes que não são PDF: nenhum lançamento sobrevive, a requisição
	// inteira é rejeitada como não processável
	req := requisicaoMultipart(t, []arquivoForm{
		{campo: "pdfs", nome: "extrato.pdf", conteudo: []byte("isto não é um PDF")},
		{campo: "excels", nome: "controle.xlsx", conteudo: planilhaMaria(t)},
	})
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	assert.Contains(t, resp.Body.String(), domain.ErrNenhumLancamentoPix.Error())
}

func TestHandleConferirCaixaPdfProtegidoNaoDerrubaIrmaos(t *testing.T) {
	router := novoRouter()

	substituirExtracaoPDF(t, func(conteudo []byte, senha string) (string, error) {
		if string(conteudo) == "protegido" {
			return "", domain.ErrSenhaNecessaria
		}
		return "Extrato de Conta Corrente Valor " +
			"Pix - Recebido 03/11/2025 07:11 12345678 MARIA DA SILVA 1.234,56 (+)", nil
	})

	req := requisicaoMultipart(t, []arquivoForm{
		{campo: "pdfs", nome: "bloqueado.pdf", conteudo: []byte("protegido")},
		{campo: "pdfs", nome: "extrato.pdf", conteudo: []byte("aberto")},
		{campo: "excels", nome: "controle.xlsx", conteudo: planilhaMaria(t)},
	})
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// o documento protegido vira aviso e o extrato aberto é conferido
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "Maria Da Silva")
	assert.Contains(t, resp.Body.String(), "bloqueado.pdf")
	assert.Contains(t, resp.Body.String(), domain.ErrSenhaNecessaria.Error())
}

func TestHandleConferirCaixaTodosPdfsProtegidos(t *testing.T) {
	router := novoRouter()

	substituirExtracaoPDF(t, func(conteudo []byte, senha string) (string, error) {
		return "", domain.ErrSenhaNecessaria
	})

	req := requisicaoMultipart(t, []arquivoForm{
		{campo: "pdfs", nome: "bloqueado.pdf", conteudo: []byte("protegido")},
		{campo: "excels", nome: "controle.xlsx", conteudo: planilhaMaria(t)},
	})
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// sem nenhum lançamento, a senha pendente vira o erro da chamada
	// para o cliente poder pedir a senha ao usuário
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	assert.Contains(t, resp.Body.String(), domain.ErrSenhaNecessaria.Error())
}

func TestJuntarBancos(t *testing.T) {
	assert.Equal(t, "BB + C6", juntarBancos(map[domain.Banco]bool{
		domain.BancoC6: true,
		domain.BancoBB: true,
	}))
	assert.Equal(t, "C6", juntarBancos(map[domain.Banco]bool{domain.BancoC6: true}))
	assert.Empty(t, juntarBancos(nil))
}
