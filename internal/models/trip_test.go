package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRawItemDecodesMixedPrices(t *testing.T) {
	payload := `[
		{"titulo": "Bonito", "preco": 3290, "url_origem": "https://x/pacote/bonito"},
		{"titulo": "Gramado", "preco": "R$ 1.899,00", "disponivel": false},
		{"titulo": "Sem preço", "preco": null},
		{"titulo": "Estranho", "preco": true}
	]`

	var items []RawItem
	require.NoError(t, json.Unmarshal([]byte(payload), &items))
	require.Len(t, items, 4)

	require.NotNil(t, items[0].Preco.Number)
	assert.Equal(t, 3290.0, *items[0].Preco.Number)
	assert.Equal(t, "R$ 1.899,00", items[1].Preco.Text)
	require.NotNil(t, items[1].Disponivel)
	assert.False(t, *items[1].Disponivel)
	assert.True(t, items[2].Preco.IsZero())
	assert.True(t, items[3].Preco.IsZero())
}

func TestTripParcelasSerializesNull(t *testing.T) {
	data, err := json.Marshal(Trip{ID: "abc", Titulo: "Viagem"})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"parcelas":null`)

	six := "6x de R$ 316,50"
	data, err = json.Marshal(Trip{ID: "abc", Parcelas: &six})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"parcelas":"6x de R$ 316,50"`)
}

func TestRawItemOmitsEmptyPrice(t *testing.T) {
	data, err := json.Marshal(RawItem{Titulo: "x"})
	require.NoError(t, err)
	assert.NotContains(t, string(data), "preco")

	data, err = json.Marshal(RawItem{Titulo: "x", Preco: Num(159.9)})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"preco":159.9`)
}

func TestRawItemEnglishKeys(t *testing.T) {
	payload := `[
		{"id": "jeri-1", "title": "Jericoacoara", "price": "R$ 2.890,00", "availability": true, "duration_days": 1, "source_url": "https://x/pacote/jeri"},
		{"titulo": "Bonito", "title": "Ignored", "preco": 3290, "price": 10, "availability": "Últimas vagas"},
		{"title": "Gramado", "id": {"nested": true}, "duration_days": "3 noites"}
	]`

	var items []RawItem
	require.NoError(t, json.Unmarshal([]byte(payload), &items))
	require.Len(t, items, 3)

	jeri := items[0]
	assert.Equal(t, "Jericoacoara", jeri.Titulo)
	assert.Equal(t, "jeri-1", jeri.RawID)
	assert.Equal(t, "https://x/pacote/jeri", jeri.URLOrigem)
	assert.Equal(t, "R$ 2.890,00", jeri.Preco.Text)
	assert.Equal(t, "1 dia", jeri.Duracao)
	require.NotNil(t, jeri.Disponivel)
	assert.True(t, *jeri.Disponivel)

	bonito := items[1]
	assert.Equal(t, "Bonito", bonito.Titulo, "Portuguese keys take precedence")
	require.NotNil(t, bonito.Preco.Number)
	assert.Equal(t, 3290.0, *bonito.Preco.Number)
	assert.Equal(t, "Últimas vagas", bonito.Disponibilidade)
	assert.Nil(t, bonito.Disponivel)

	gramado := items[2]
	assert.Empty(t, gramado.RawID, "non-scalar ids are ignored")
	assert.Equal(t, "3 noites", gramado.Duracao)
}
