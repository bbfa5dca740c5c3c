package models

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Trip is the canonical travel package served by the API
type Trip struct {
	ID              string  `json:"id"`
	Titulo          string  `json:"titulo"`
	Destino         string  `json:"destino"`
	Descricao       string  `json:"descricao"`
	DataSaida       string  `json:"data_saida"`
	DataRetorno     string  `json:"data_retorno"`
	Duracao         string  `json:"duracao"`
	Preco           float64 `json:"preco"`
	Parcelas        *string `json:"parcelas"`
	Disponibilidade string  `json:"disponibilidade"`
	Categoria       string  `json:"categoria"`
	ImagemURL       string  `json:"imagem_url"`
	URLOrigem       string  `json:"url_origem"`
}

// RawItem is an unvalidated record as it came out of a page or an
// alternate source. Every field may be empty.
type RawItem struct {
	Titulo          string     `json:"titulo,omitempty"`
	Destino         string     `json:"destino,omitempty"`
	Descricao       string     `json:"descricao,omitempty"`
	DataSaida       string     `json:"data_saida,omitempty"`
	DataRetorno     string     `json:"data_retorno,omitempty"`
	Duracao         string     `json:"duracao,omitempty"`
	Preco           PriceValue `json:"preco,omitzero"`
	Parcelas        *string    `json:"parcelas,omitempty"`
	Disponibilidade string     `json:"disponibilidade,omitempty"`
	Disponivel      *bool      `json:"disponivel,omitempty"`
	Categoria       string     `json:"categoria,omitempty"`
	ImagemURL       string     `json:"imagem_url,omitempty"`
	URLOrigem       string     `json:"url_origem,omitempty"`
	RawID           string     `json:"rawId,omitempty"`
}

type rawItemFields RawItem

// englishRawItem is the shape emitted by the scraper's English-keyed API
type englishRawItem struct {
	ID            json.RawMessage `json:"id"`
	Title         string          `json:"title"`
	Destination   string          `json:"destination"`
	Description   string          `json:"description"`
	DepartureDate string          `json:"departure_date"`
	ReturnDate    string          `json:"return_date"`
	DurationDays  json.RawMessage `json:"duration_days"`
	Price         PriceValue      `json:"price"`
	Availability  json.RawMessage `json:"availability"`
	Category      string          `json:"category"`
	ImageURL      string          `json:"image_url"`
	SourceURL     string          `json:"source_url"`
}

// UnmarshalJSON reads the Portuguese keys and fills whatever they leave
// empty from the English ones (title, price, source_url, ...).
func (r *RawItem) UnmarshalJSON(data []byte) error {
	var pt rawItemFields
	if err := json.Unmarshal(data, &pt); err != nil {
		return err
	}
	var en englishRawItem
	if err := json.Unmarshal(data, &en); err != nil {
		return err
	}

	*r = RawItem(pt)
	fill(&r.Titulo, en.Title)
	fill(&r.Destino, en.Destination)
	fill(&r.Descricao, en.Description)
	fill(&r.DataSaida, en.DepartureDate)
	fill(&r.DataRetorno, en.ReturnDate)
	fill(&r.Duracao, durationText(en.DurationDays))
	fill(&r.Categoria, en.Category)
	fill(&r.ImagemURL, en.ImageURL)
	fill(&r.URLOrigem, en.SourceURL)
	fill(&r.RawID, scalarText(en.ID))
	if r.Preco.IsZero() {
		r.Preco = en.Price
	}

	switch v := decodeScalar(en.Availability).(type) {
	case bool:
		if r.Disponivel == nil {
			r.Disponivel = &v
		}
	case string:
		fill(&r.Disponibilidade, v)
	}
	return nil
}

func fill(dst *string, v string) {
	if strings.TrimSpace(*dst) == "" && v != "" {
		*dst = v
	}
}

// decodeScalar returns a bool, string or float64, or nil for anything else
func decodeScalar(raw json.RawMessage) any {
	if len(raw) == 0 {
		return nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil
	}
	switch v.(type) {
	case bool, string, float64:
		return v
	}
	return nil
}

func scalarText(raw json.RawMessage) string {
	switch v := decodeScalar(raw).(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return ""
}

// durationText turns duration_days (a number or text) into "N dias"
func durationText(raw json.RawMessage) string {
	switch v := decodeScalar(raw).(type) {
	case string:
		return v
	case float64:
		days := int(v)
		if days <= 0 {
			return ""
		}
		if days == 1 {
			return "1 dia"
		}
		return strconv.Itoa(days) + " dias"
	}
	return ""
}

// PriceValue holds a price that arrived either as a JSON number or as text
// such as "R$ 1.599,00". Exactly one of the two forms is set.
type PriceValue struct {
	Number *float64
	Text   string
}

// Num builds a numeric PriceValue
func Num(v float64) PriceValue {
	return PriceValue{Number: &v}
}

// Text builds a textual PriceValue
func Text(s string) PriceValue {
	return PriceValue{Text: s}
}

// IsZero reports whether no price was supplied
func (p PriceValue) IsZero() bool {
	return p.Number == nil && strings.TrimSpace(p.Text) == ""
}

// MarshalJSON writes numbers as numbers and text as strings
func (p PriceValue) MarshalJSON() ([]byte, error) {
	if p.Number != nil && !math.IsNaN(*p.Number) && !math.IsInf(*p.Number, 0) {
		return []byte(strconv.FormatFloat(*p.Number, 'f', -1, 64)), nil
	}
	if p.Text != "" {
		return json.Marshal(p.Text)
	}
	return []byte("null"), nil
}

// UnmarshalJSON accepts a number, a string or null
func (p *PriceValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*p = PriceValue{}
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	if data[0] == '"' {
		return json.Unmarshal(data, &p.Text)
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		// Booleans, objects and the like carry no price
		return nil
	}
	p.Number = &f
	return nil
}

// Filters narrows a trip listing. Empty strings and nil bounds are ignored.
type Filters struct {
	Destino   string
	Data      string
	PrecoMin  *float64
	PrecoMax  *float64
	Categoria string
}
