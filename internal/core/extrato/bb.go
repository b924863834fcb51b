package extrato

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"conferidor-service/internal/core/normalizar"
	"conferidor-service/internal/domain"
)

var (
	reCabecalhoBB = regexp.MustCompile(`(?i)Extrato de Conta Corrente.*?Valor`)
	reMarcaPagina = regexp.MustCompile(`----- Página \d+ -----`)
	reSaida       = regexp.MustCompile(`\(-\)`)
	rePixEnviado  = regexp.MustCompile(`(?i)Pix\s*-\s*Enviado`)

	rePixMarcador = regexp.MustCompile(`(?i)Pix\s*-\s*Recebido`)

	// valor imediatamente após o marcador é a assinatura de um registro
	// truncado: no layout íntegro vêm antes data, hora, id e nome.
	rePixOrfao = regexp.MustCompile(`(?i)Pix\s*-\s*Recebido\s+([\d.,]+)\s*\(\+\)`)

	reRuidoJanelaBB = regexp.MustCompile(`(?i)Extrato de Conta Corrente|Cliente\s+[A-ZÀ-ÿ\s]+|Ag[êe]ncia:\s*\d+-\d+\s*Conta:\s*\d+-\d+|Lançamentos|Dia\s+Lote\s+Documento\s+Histórico\s+Valor`)

	reContinuacao      = regexp.MustCompile(`(\d{2}/\d{2})\s+(\d{2}:\d{2})\s+[0-9]{6,}\s+([A-Za-zÀ-ÿ\s]{3,}?)\s+\d{1,3}`)
	reContinuacaoBloco = regexp.MustCompile(`(?i)(\d{2}/\d{2})\s+(\d{2}:\d{2})\s+[0-9]{6,}\s+([A-ZÀ-ÿ\s]{3,})\s+\d+`)

	rePixPrincipal = regexp.MustCompile(`(?i)Pix\s*-\s*Recebido.*?` +
		`(?:(\d{2}/\d{2}/\d{4})|(\d{2}/\d{2}))?\s*` + // data completa ou parcial
		`(\d{2}:\d{2})\s+` + // hora
		`(?:[0-9]{5,}\s+)?` + // id da transação (opcional)
		`([A-ZÀ-ÿ0-9\s.]{3,}?)\s+` + // nome (pode conter números)
		`([\d.]+,\d{2})\s*\(\+\)`) // valor com marcador de entrada

	reDataCurta    = regexp.MustCompile(`(\d{2}/\d{2})(/\d{4})?`)
	reRotuloNome   = regexp.MustCompile(`(?i)\b(Agência|Conta|Saldo|Pix)\b.*`)
	reSoCnpj       = regexp.MustCompile(`^[0-9.\s]{7,}$`)
	reNomeTruncado = regexp.MustCompile(`.{3,}\s+[A-Za-zÀ-Úà-ú]{1,2}$`)
	reRegistroCnpj = regexp.MustCompile(`(?i)(\d{2}/\d{2})\s+(\d{2}:\d{2})\s+[0-9]{6,}\s+(\d{2}\.?\d{3}\.?\d{3}/?\d{4}-?\d{2}|\d{11,14})\s+([\d.,]+)\s*\(\+\)`)
	reNaoDigito    = regexp.MustCompile(`\D`)
)

// ExtrairBB recupera todos os PIX recebidos do texto de um extrato do
// Banco do Brasil, consertando registros partidos na quebra de página e
// reconstruindo lançamentos identificados somente pelo CNPJ.
func ExtrairBB(texto string) ([]domain.Lancamento, error) {
	// datas parciais (DD/MM) assumem o ano corrente do processamento
	ano := time.Now().Year()

	texto = reEspacos.ReplaceAllString(texto, " ")
	texto = reCabecalhoBB.ReplaceAllString(texto, " ")
	texto = reMarcaPagina.ReplaceAllString(texto, " ")
	texto = reEspacos.ReplaceAllString(texto, " ")
	texto = reSaida.ReplaceAllString(texto, "")
	texto = rePixEnviado.ReplaceAllString(texto, "")

	texto = repararQuebrasDePagina(texto, ano)

	blocos, inicios := dividirBlocos(texto)
	blocos = repararBlocosAdjacentes(blocos, ano)

	var dados []domain.Lancamento

	// a última data resolvida atravessa os blocos: um bloco sem data
	// herda a do anterior, e só é descartado se nenhuma existir ainda.
	ultimaData := ""
	for i, bloco := range blocos {
		m := rePixPrincipal.FindStringSubmatch(bloco)
		if m == nil {
			continue
		}
		dataCompleta, dataParcial, hora, nomeBruto, valorTxt := m[1], m[2], m[3], m[4], m[5]

		switch {
		case dataCompleta != "":
			ultimaData = dataCompleta
		case dataParcial != "":
			ultimaData = fmt.Sprintf("%s/%d", dataParcial, ano)
		default:
			if m2 := reDataCurta.FindStringSubmatch(bloco); m2 != nil {
				ultimaData = fmt.Sprintf("%s/%d", m2[1], ano)
			}
		}
		if ultimaData == "" {
			// última chance: até 100 caracteres antes do bloco
			antes := sufixoSeguro(texto[:inicios[i]], 100)
			if m3 := reDataCurta.FindStringSubmatch(antes); m3 != nil {
				ultimaData = fmt.Sprintf("%s/%d", m3[1], ano)
			}
		}
		if ultimaData == "" {
			continue
		}

		nome := limparNomeBB(nomeBruto)
		if nome == "" {
			continue
		}
		valor, ok := parseValorExtrato(valorTxt)
		if !ok || valor <= 0 {
			continue
		}

		dados = append(dados, domain.Lancamento{
			Data:  ultimaData,
			Hora:  hora,
			Nome:  nome,
			Valor: valor,
			Banco: domain.BancoBB,
		})
	}

	// passe complementar: registros cujo campo de nome é só um CNPJ
	for _, m := range reRegistroCnpj.FindAllStringSubmatch(texto, -1) {
		valor, ok := parseValorExtrato(m[4])
		if !ok || valor <= 0 {
			continue
		}
		dados = append(dados, domain.Lancamento{
			Data:  fmt.Sprintf("%s/%d", m[1], ano),
			Hora:  m[2],
			Nome:  "Cliente CNPJ " + reNaoDigito.ReplaceAllString(m[3], ""),
			Valor: valor,
			Banco: domain.BancoBB,
		})
	}

	dados = deduplicar(dados)
	sort.SliceStable(dados, func(i, j int) bool { return dados[i].Hora < dados[j].Hora })

	if len(dados) == 0 {
		return nil, domain.ErrNenhumLancamentoPix
	}
	return dados, nil
}

// repararQuebrasDePagina localiza marcadores órfãos (valor sem nome na
// sequência), procura a continuação do registro em até 800 caracteres à
// frente descontando o cabeçalho repetido de página e, ao encontrá-la,
// emenda um registro íntegro no lugar do fragmento.
func repararQuebrasDePagina(texto string, ano int) string {
	type remendo struct {
		inicio, fim int
		registro    string
	}
	var remendos []remendo

	for _, pos := range rePixOrfao.FindAllStringSubmatchIndex(texto, -1) {
		fim := pos[1]
		if nomeLogoDepois(texto, fim) {
			continue
		}
		valorTxt := texto[pos[2]:pos[3]]
		janela := reRuidoJanelaBB.ReplaceAllString(prefixoSeguro(texto[fim:], 800), " ")
		m := reContinuacao.FindStringSubmatch(janela)
		if m == nil {
			continue
		}
		nome := normalizar.Titulizar(m[3])
		remendos = append(remendos, remendo{
			inicio:   pos[0],
			fim:      fim,
			registro: fmt.Sprintf("Pix - Recebido %s/%d %s %s %s (+)", m[1], ano, m[2], nome, valorTxt),
		})
	}
	if len(remendos) == 0 {
		return texto
	}

	var b strings.Builder
	ultimoFim := 0
	for _, r := range remendos {
		b.WriteString(texto[ultimoFim:r.inicio])
		b.WriteString(r.registro)
		ultimoFim = r.fim
	}
	b.WriteString(texto[ultimoFim:])
	return b.String()
}

// nomeLogoDepois indica que o marcador órfão na verdade já é seguido por
// um nome, ou seja, não há o que consertar.
func nomeLogoDepois(texto string, pos int) bool {
	resto := strings.TrimLeft(texto[pos:], " ")
	if resto == "" {
		return false
	}
	r := []rune(resto)[0]
	return (r >= 'A' && r <= 'Z') || (r >= 'À' && r <= 'ÿ')
}

// dividirBlocos corta o texto em blocos iniciados em cada marcador de PIX
// recebido, preservando o deslocamento de cada bloco no texto original.
func dividirBlocos(texto string) ([]string, []int) {
	marcas := rePixMarcador.FindAllStringIndex(texto, -1)
	if len(marcas) == 0 {
		return []string{texto}, []int{0}
	}

	var blocos []string
	var inicios []int
	if marcas[0][0] > 0 {
		blocos = append(blocos, texto[:marcas[0][0]])
		inicios = append(inicios, 0)
	}
	for i, m := range marcas {
		fim := len(texto)
		if i+1 < len(marcas) {
			fim = marcas[i+1][0]
		}
		blocos = append(blocos, texto[m[0]:fim])
		inicios = append(inicios, m[0])
	}
	return blocos, inicios
}

// repararBlocosAdjacentes cobre a truncagem exatamente na fronteira entre
// blocos, que o reparo global não enxerga: o nome é emprestado dos
// primeiros 150 caracteres do bloco seguinte.
func repararBlocosAdjacentes(blocos []string, ano int) []string {
	for i := 0; i+1 < len(blocos); i++ {
		mVal := rePixOrfao.FindStringSubmatch(blocos[i])
		if mVal == nil {
			continue
		}
		m := reContinuacaoBloco.FindStringSubmatch(prefixoSeguro(blocos[i+1], 150))
		if m == nil {
			continue
		}
		nome := normalizar.Titulizar(m[3])
		blocos[i] = fmt.Sprintf("Pix - Recebido %s/%d %s %s %s (+)", m[1], ano, m[2], nome, mVal[1])
	}
	return blocos
}

// limparNomeBB normaliza o nome capturado e trata os dois desvios comuns
// do layout: campo de nome ocupado por um CNPJ e nome cortado no fim.
func limparNomeBB(bruto string) string {
	nome := normalizar.Titulizar(bruto)
	nome = strings.TrimSpace(reRotuloNome.ReplaceAllString(nome, ""))
	if nome == "" {
		return ""
	}
	if reSoCnpj.MatchString(nome) {
		return "Cliente CNPJ " + reNaoDigito.ReplaceAllString(nome, "")
	}
	if reNomeTruncado.MatchString(nome) {
		nome += " (incompleto)"
	}
	return nome
}

// deduplicar remove repetições pela chave composta (hora, valor, nome),
// mantendo a primeira ocorrência na ordem de emissão.
func deduplicar(dados []domain.Lancamento) []domain.Lancamento {
	vistos := make(map[string]bool, len(dados))
	unicos := make([]domain.Lancamento, 0, len(dados))
	for _, d := range dados {
		chave := fmt.Sprintf("%s|%.2f|%s", d.Hora, normalizar.Round2(d.Valor), d.Nome)
		if vistos[chave] {
			continue
		}
		vistos[chave] = true
		unicos = append(unicos, d)
	}
	return unicos
}
