package normalizer

import (
	"strings"

	"fluxitech/mimatour-api/internal/models"

	"golang.org/x/text/cases"
)

// fold lowercases s for caseless matching. Casers keep state, so each call
// gets its own.
func fold(s string) string {
	return cases.Fold().String(s)
}

func containsFold(s, sub string) bool {
	return strings.Contains(fold(s), sub)
}

// ApplyFilters keeps the trips matching every filter that is set. Text
// filters are case-insensitive substring matches; the price range is
// inclusive. The input slice is not modified.
func ApplyFilters(trips []models.Trip, f models.Filters) []models.Trip {
	destino := fold(strings.TrimSpace(f.Destino))
	data := strings.TrimSpace(f.Data)
	categoria := fold(strings.TrimSpace(f.Categoria))

	result := make([]models.Trip, 0, len(trips))
	for _, t := range trips {
		if destino != "" && !containsFold(t.Destino, destino) && !containsFold(t.Titulo, destino) {
			continue
		}
		if data != "" && !strings.Contains(t.DataSaida, data) && !strings.Contains(t.DataRetorno, data) {
			continue
		}
		if f.PrecoMin != nil && t.Preco < *f.PrecoMin {
			continue
		}
		if f.PrecoMax != nil && t.Preco > *f.PrecoMax {
			continue
		}
		if categoria != "" && !containsFold(t.Categoria, categoria) {
			continue
		}
		result = append(result, t)
	}
	return result
}

// Search returns the trips whose title, destination or description contains
// term, ignoring case. A blank term matches nothing.
func Search(trips []models.Trip, term string) []models.Trip {
	q := fold(strings.TrimSpace(term))
	result := make([]models.Trip, 0)
	if q == "" {
		return result
	}
	for _, t := range trips {
		if containsFold(t.Titulo, q) || containsFold(t.Destino, q) || containsFold(t.Descricao, q) {
			result = append(result, t)
		}
	}
	return result
}
