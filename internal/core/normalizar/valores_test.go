package normalizar

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseValorTexto(t *testing.T) {
	tests := []struct {
		entrada  string
		esperado float64
	}{
		{"1.234,56", 1234.56},
		{"1234,56", 1234.56},
		{"12,5", 12.5},
		{"12.5", 12.5},
		{"1.234", 1234},
		{"1.234.567", 1234567},
		{"1234", 1234},
		{"R$ 99,90", 99.9},
		{"r$1.000,00", 1000},
		{"valor: 12,50", 12.5},
		{"", 0},
		{"nan", 0},
		{"None", 0},
		{"-", 0},
		{"abc", 0},
	}

	for _, tc := range tests {
		t.Run(tc.entrada, func(t *testing.T) {
			assert.InDelta(t, tc.esperado, ParseValorTexto(tc.entrada), 0.001)
		})
	}
}

func TestParseValorNativos(t *testing.T) {
	assert.InDelta(t, 1234.56, ParseValor(1234.5601), 0.001)
	assert.InDelta(t, 10.0, ParseValor(10), 0.001)
	assert.InDelta(t, 7.0, ParseValor(int64(7)), 0.001)
	assert.Zero(t, ParseValor(nil))
	assert.InDelta(t, 1234.56, ParseValor("1.234,56"), 0.001)
}

// a forma canônica precisa ser estável quando reprocessada
func TestParseValorIdempotente(t *testing.T) {
	primeira := ParseValorTexto("1.234,56")
	segunda := ParseValor(primeira)
	assert.Equal(t, primeira, segunda)
}

func TestRound2(t *testing.T) {
	assert.InDelta(t, 1.23, Round2(1.234), 0.0001)
	assert.InDelta(t, 1.24, Round2(1.236), 0.0001)
	assert.InDelta(t, -1.23, Round2(-1.234), 0.0001)
}
