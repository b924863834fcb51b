package extrato

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"conferidor-service/internal/domain"
)

func anoCorrente() int {
	return time.Now().Year()
}

func TestExtrairBBRegistrosNormais(t *testing.T) {
	texto := "Extrato de Conta Corrente Dia Lote Documento Histórico Valor " +
		"Pix - Recebido 03/11/2025 07:11 12345678 MARIA DA SILVA 1.234,56 (+) " +
		"Pix - Recebido 03/11 08:02 87654321 JOAO PEREIRA 200,00 (+)"

	dados, err := ExtrairBB(texto)
	require.NoError(t, err)
	require.Len(t, dados, 2)

	assert.Equal(t, "Maria Da Silva", dados[0].Nome)
	assert.Equal(t, "03/11/2025", dados[0].Data)
	assert.Equal(t, "07:11", dados[0].Hora)
	assert.InDelta(t, 1234.56, dados[0].Valor, 0.001)
	assert.Equal(t, domain.BancoBB, dados[0].Banco)

	// data parcial assume o ano corrente
	assert.Equal(t, "Joao Pereira", dados[1].Nome)
	assert.Equal(t, fmt.Sprintf("03/11/%d", anoCorrente()), dados[1].Data)
	assert.Equal(t, "08:02", dados[1].Hora)
	assert.InDelta(t, 200.00, dados[1].Valor, 0.001)
}

func TestExtrairBBReparaQuebraDePagina(t *testing.T) {
	// o fragmento órfão (valor sem nome) continua depois do ruído de
	// cabeçalho repetido; o reparo deve emendar um registro íntegro
	texto := "Pix - Recebido 300,00 (+) 987 Lançamentos " +
		"03/11 09:15 1234567 CARLOS EDUARDO 1"

	dados, err := ExtrairBB(texto)
	require.NoError(t, err)
	require.Len(t, dados, 1)

	assert.Equal(t, "Carlos Eduardo", dados[0].Nome)
	assert.Equal(t, "09:15", dados[0].Hora)
	assert.InDelta(t, 300.00, dados[0].Valor, 0.001)
	assert.Equal(t, fmt.Sprintf("03/11/%d", anoCorrente()), dados[0].Data)
}

func TestExtrairBBReparaFronteiraDeBlocos(t *testing.T) {
	// o fragmento órfão é imediatamente seguido pelo marcador do próximo
	// bloco, então o nome é emprestado do começo do bloco vizinho
	texto := "Pix - Recebido 450,00 (+) " +
		"Pix - Recebido 03/11 11:20 7654321 RESTO 22"

	dados, err := ExtrairBB(texto)
	require.NoError(t, err)
	require.Len(t, dados, 1)

	assert.Equal(t, "Resto", dados[0].Nome)
	assert.Equal(t, "11:20", dados[0].Hora)
	assert.InDelta(t, 450.00, dados[0].Valor, 0.001)
}

func TestExtrairBBRegistroCnpj(t *testing.T) {
	texto := "Pix - Recebido 03/11 10:00 123456 12.345.678/0001-90 500,00 (+)"

	dados, err := ExtrairBB(texto)
	require.NoError(t, err)
	require.Len(t, dados, 1)

	assert.Equal(t, "Cliente CNPJ 12345678000190", dados[0].Nome)
	assert.Equal(t, "10:00", dados[0].Hora)
	assert.InDelta(t, 500.00, dados[0].Valor, 0.001)
}

func TestExtrairBBRegistroCnpjValorZerado(t *testing.T) {
	// valor nulo não vira lançamento nem pelo passe complementar de CNPJ
	texto := "Pix - Recebido 03/11 10:00 123456 12345678000190 0,00 (+)"

	_, err := ExtrairBB(texto)
	assert.ErrorIs(t, err, domain.ErrNenhumLancamentoPix)
}

func TestExtrairBBDeduplicaEOrdenaPorHora(t *testing.T) {
	texto := "Pix - Recebido 03/11/2025 09:30 12345678 ANA COSTA 50,00 (+) " +
		"Pix - Recebido 03/11/2025 07:11 12345678 MARIA DA SILVA 1.234,56 (+) " +
		"Pix - Recebido 03/11/2025 07:11 12345678 MARIA DA SILVA 1.234,56 (+)"

	dados, err := ExtrairBB(texto)
	require.NoError(t, err)
	require.Len(t, dados, 2)

	assert.Equal(t, "07:11", dados[0].Hora)
	assert.Equal(t, "Maria Da Silva", dados[0].Nome)
	assert.Equal(t, "09:30", dados[1].Hora)
	assert.Equal(t, "Ana Costa", dados[1].Nome)
}

func TestExtrairBBIgnoraPixEnviado(t *testing.T) {
	texto := "Pix - Enviado 03/11/2025 07:11 12345678 FORNECEDOR LTDA 80,00 (-)"

	_, err := ExtrairBB(texto)
	assert.ErrorIs(t, err, domain.ErrNenhumLancamentoPix)
}

func TestExtrairBBSemLancamentos(t *testing.T) {
	_, err := ExtrairBB("Extrato de Conta Corrente sem movimentação Valor")
	assert.ErrorIs(t, err, domain.ErrNenhumLancamentoPix)
}
