// Package normalizer turns raw listing records into canonical trips.
package normalizer

import (
	"crypto/sha256"
	"encoding/hex"
	"math"
	"strconv"
	"strings"

	"fluxitech/mimatour-api/helpers"
	"fluxitech/mimatour-api/internal/crawler"
	"fluxitech/mimatour-api/internal/models"
)

// Field defaults applied when a raw value is missing or blank
const (
	DefaultTitulo          = "Viagem"
	DefaultDisponibilidade = "Consultar"
	DefaultCategoria       = "Pacote"
)

// GenerateTripID derives a stable 16 character hex id from seed
func GenerateTripID(seed string) string {
	sum := sha256.Sum256([]byte(seed))
	return hex.EncodeToString(sum[:])[:16]
}

// NormalizeTrip maps one raw record at position index onto a Trip. The
// second result is false when the record carries neither a title nor any
// identifying seed and must be dropped.
func NormalizeTrip(raw models.RawItem, index int) (models.Trip, bool) {
	seed := strings.TrimSpace(raw.URLOrigem)
	if seed == "" {
		seed = strings.TrimSpace(raw.RawID)
	}
	if seed == "" && strings.TrimSpace(raw.Titulo) == "" {
		return models.Trip{}, false
	}
	if seed == "" {
		seed = "item-" + strconv.Itoa(index)
	}

	trip := models.Trip{
		ID:              GenerateTripID(seed),
		Titulo:          safeString(raw.Titulo, DefaultTitulo),
		Destino:         safeString(raw.Destino, ""),
		Descricao:       safeString(raw.Descricao, ""),
		DataSaida:       safeString(raw.DataSaida, ""),
		DataRetorno:     safeString(raw.DataRetorno, ""),
		Duracao:         safeString(raw.Duracao, ""),
		Preco:           safeNumber(raw.Preco),
		Parcelas:        safeOptional(raw.Parcelas),
		Disponibilidade: availability(raw),
		Categoria:       safeString(raw.Categoria, DefaultCategoria),
		ImagemURL:       imageURL(raw.ImagemURL),
		URLOrigem:       seed,
	}
	return trip, true
}

// NormalizeTrips normalizes raws in order, dropping invalid records
func NormalizeTrips(raws []models.RawItem) []models.Trip {
	trips := make([]models.Trip, 0, len(raws))
	for i, raw := range raws {
		if trip, ok := NormalizeTrip(raw, i); ok {
			trips = append(trips, trip)
		}
	}
	return trips
}

func safeString(value, fallback string) string {
	if s := strings.TrimSpace(value); s != "" {
		return s
	}
	return fallback
}

func safeOptional(value *string) *string {
	if value == nil {
		return nil
	}
	s := strings.TrimSpace(*value)
	if s == "" {
		return nil
	}
	return &s
}

// safeNumber keeps finite numbers and reads text with the currency parser.
// Negative, NaN and unparseable values all become 0.
func safeNumber(p models.PriceValue) float64 {
	if p.Number != nil {
		n := *p.Number
		if math.IsNaN(n) || math.IsInf(n, 0) || n < 0 {
			return 0
		}
		return n
	}
	return crawler.ParsePrice(p.Text)
}

func availability(raw models.RawItem) string {
	if s := strings.TrimSpace(raw.Disponibilidade); s != "" {
		return s
	}
	if raw.Disponivel != nil {
		if *raw.Disponivel {
			return "Disponível"
		}
		return "Esgotado"
	}
	return DefaultDisponibilidade
}

func imageURL(u string) string {
	u = strings.TrimSpace(u)
	if !helpers.IsAbsoluteURL(u) {
		return ""
	}
	return u
}
