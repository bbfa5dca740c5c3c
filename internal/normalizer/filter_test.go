package normalizer

import (
	"testing"

	"fluxitech/mimatour-api/internal/models"

	"github.com/stretchr/testify/assert"
)

func sampleTrips() []models.Trip {
	return []models.Trip{
		{ID: "1", Titulo: "Capitólio - Cânions", Destino: "Capitólio, MG", Preco: 890, DataSaida: "30 de mar", Categoria: "Pacote"},
		{ID: "2", Titulo: "Serra Gaúcha", Destino: "Gramado, RS", Preco: 1899, DataSaida: "01 de mar", DataRetorno: "04 de mar", Categoria: "Pacote"},
		{ID: "3", Titulo: "Bonito", Destino: "Bonito, MS", Descricao: "Flutuação e grutas", Preco: 3290, Categoria: "Bate e volta"},
	}
}

func ids(trips []models.Trip) []string {
	out := make([]string, 0, len(trips))
	for _, t := range trips {
		out = append(out, t.ID)
	}
	return out
}

func TestApplyFiltersPriceRange(t *testing.T) {
	lo, hi := 1000.0, 2000.0
	got := ApplyFilters(sampleTrips(), models.Filters{PrecoMin: &lo, PrecoMax: &hi})
	assert.Equal(t, []string{"2"}, ids(got))

	exact := 890.0
	got = ApplyFilters(sampleTrips(), models.Filters{PrecoMax: &exact})
	assert.Equal(t, []string{"1"}, ids(got), "bounds are inclusive")
}

func TestApplyFiltersText(t *testing.T) {
	trips := sampleTrips()

	assert.Equal(t, []string{"2"}, ids(ApplyFilters(trips, models.Filters{Destino: "GRAMADO"})))
	assert.Equal(t, []string{"2"}, ids(ApplyFilters(trips, models.Filters{Destino: "serra"})), "destino also matches the title")
	assert.Equal(t, []string{"1", "2"}, ids(ApplyFilters(trips, models.Filters{Data: "de mar"})))
	assert.Equal(t, []string{"2"}, ids(ApplyFilters(trips, models.Filters{Data: "04 de mar"})), "return date is searched too")
	assert.Equal(t, []string{"3"}, ids(ApplyFilters(trips, models.Filters{Categoria: "bate"})))
	assert.Len(t, ApplyFilters(trips, models.Filters{}), 3)

	// Filters compose as AND
	lo := 1000.0
	assert.Empty(t, ApplyFilters(trips, models.Filters{Destino: "capitólio", PrecoMin: &lo}))
}

func TestSearch(t *testing.T) {
	trips := sampleTrips()

	assert.Equal(t, []string{"1"}, ids(Search(trips, "CAPITÓLIO")))
	assert.Equal(t, []string{"3"}, ids(Search(trips, "grutas")), "description is searched")
	assert.Equal(t, []string{"2"}, ids(Search(trips, " rs ")))
	assert.Empty(t, Search(trips, "  "))
	assert.NotNil(t, Search(trips, "nada"))
}
