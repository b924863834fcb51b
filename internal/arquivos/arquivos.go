// Package arquivos decodifica os arquivos enviados pelo operador: o texto
// dos extratos em PDF e as grades de células das planilhas.
package arquivos

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/dslipak/pdf"
	"github.com/shakinm/xlsReader/xls"
	"github.com/xuri/excelize/v2"

	"conferidor-service/internal/domain"
)

// ExtrairTextoPDF devolve o texto de todas as páginas do PDF, separadas
// por marcadores de página que os extratores usam para detectar registros
// partidos. A senha é tentada uma única vez quando o documento é
// protegido; senha vazia em documento protegido vira ErrSenhaNecessaria.
func ExtrairTextoPDF(conteudo []byte, senha string) (string, error) {
	tentouSenha := false
	leitor, err := pdf.NewReaderEncrypted(bytes.NewReader(conteudo), int64(len(conteudo)), func() string {
		if tentouSenha || senha == "" {
			return ""
		}
		tentouSenha = true
		return senha
	})
	if err != nil {
		if errors.Is(err, pdf.ErrInvalidPassword) {
			return "", domain.ErrSenhaNecessaria
		}
		return "", fmt.Errorf("%w: %v", domain.ErrLeituraPDF, err)
	}

	var b strings.Builder
	for i := 1; i <= leitor.NumPage(); i++ {
		pagina := leitor.Page(i)
		if pagina.V.IsNull() {
			continue
		}
		texto, err := pagina.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("%w: página %d: %v", domain.ErrLeituraPDF, i, err)
		}
		b.WriteString(texto)
		fmt.Fprintf(&b, "\n----- Página %d -----\n", i)
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("%w: documento sem texto extraível", domain.ErrLeituraPDF)
	}
	return b.String(), nil
}

// CarregarAbasPlanilha lê todas as abas de um workbook como grades de
// células. Primeiro tenta xlsx; se o conteúdo não abrir, cai para o
// formato binário .xls legado.
func CarregarAbasPlanilha(conteudo []byte) ([][][]string, error) {
	if abas, err := carregarXlsx(conteudo); err == nil {
		return abas, nil
	}
	return carregarXls(conteudo)
}

func carregarXlsx(conteudo []byte) ([][][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(conteudo))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var abas [][][]string
	for _, nome := range f.GetSheetList() {
		linhas, err := f.GetRows(nome)
		if err != nil {
			continue
		}
		abas = append(abas, linhas)
	}
	if len(abas) == 0 {
		return nil, fmt.Errorf("workbook sem abas legíveis")
	}
	return abas, nil
}

func carregarXls(conteudo []byte) ([][][]string, error) {
	workbook, err := xls.OpenReader(bytes.NewReader(conteudo))
	if err != nil {
		return nil, fmt.Errorf("formato de planilha não suportado: %w", err)
	}

	var abas [][][]string
	for _, aba := range workbook.GetSheets() {
		var linhas [][]string
		for _, row := range aba.GetRows() {
			var celulas []string
			for _, cell := range row.GetCols() {
				celulas = append(celulas, cell.GetString())
			}
			linhas = append(linhas, celulas)
		}
		abas = append(abas, linhas)
	}
	if len(abas) == 0 {
		return nil, fmt.Errorf("o arquivo .xls não contém planilhas")
	}
	return abas, nil
}
