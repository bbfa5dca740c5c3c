package crawler

import (
	"io"
	"strings"
	"unicode/utf8"

	"fluxitech/mimatour-api/helpers"
	"fluxitech/mimatour-api/internal/models"
	apperrors "fluxitech/mimatour-api/pkg/errors"

	"github.com/PuerkitoBio/goquery"
)

// Selectors contains CSS selectors for the listing page
type Selectors struct {
	Card             string
	Title            string
	Link             string
	Price            string
	PriceFallback    string
	DateBlock        string
	Image            string
	Badge            string
	DescriptionSpans string
	Category         string
	CategoryMarker   string
	SeeAll           string
	FallbackLinks    string
}

// DefaultSelectors matches the package cards of the agency's booking site
var DefaultSelectors = Selectors{
	Card:             ".package-item",
	Title:            ".nome_pacote h4",
	Link:             `a[href*="/pacote/"]`,
	Price:            ".class_valor",
	PriceFallback:    ".border-top.mt-3.pt-4 h4, .border-top.mt-2.pt-4 h4",
	DateBlock:        ".pacote-date",
	Image:            "img.img-fluid.principal, img.principal",
	Badge:            ".blog-date small",
	DescriptionSpans: `.pacote-date.mt-1.pt-1 span[style*="vertical-align: sub"]`,
	Category:         "small",
	CategoryMarker:   "i.fa-map-marker",
	SeeAll:           `a[href*="categories_data"]`,
	FallbackLinks:    `a[href*="pacote"], a[href*="viagem"], a[href*="trip"], a[href*="detalhe"]`,
}

// Labels that follow the return date inside a date block
var returnDateTerminators = []string{"Com ", "Seguro", "Taxa", "kit", "Passeio"}

// Extractor turns a rendered listing page into raw items
type Extractor struct {
	Selectors Selectors
}

// NewExtractor creates an extractor with the default selectors. A non-empty
// seeAll overrides the "ver todos" link selector.
func NewExtractor(seeAll string) *Extractor {
	s := DefaultSelectors
	if seeAll != "" {
		s.SeeAll = seeAll
	}
	return &Extractor{Selectors: s}
}

// createDocument creates a goquery document from a reader
func createDocument(reader io.Reader) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(reader)
	if err != nil {
		return nil, apperrors.NewParsing("html", "failed to parse HTML", err)
	}
	return doc, nil
}

// Parse reads an HTML document and extracts its items. The document is
// returned too so callers can look for the "ver todos" link.
func (e *Extractor) Parse(r io.Reader, baseURL string) ([]models.RawItem, *goquery.Document, error) {
	doc, err := createDocument(r)
	if err != nil {
		return nil, nil, err
	}
	return e.Extract(doc, baseURL), doc, nil
}

// ParseString is Parse for an HTML string
func (e *Extractor) ParseString(html, baseURL string) ([]models.RawItem, *goquery.Document, error) {
	return e.Parse(strings.NewReader(html), baseURL)
}

// Extract returns the items of doc in document order, deduplicated by
// source URL (or by title when the card has no link). Pages without any
// listing card fall back to scanning package-like anchors.
func (e *Extractor) Extract(doc *goquery.Document, baseURL string) []models.RawItem {
	cards := doc.Find(e.Selectors.Card)
	if cards.Length() == 0 {
		return e.extractFromAnchors(doc, baseURL)
	}

	var items []models.RawItem
	seen := make(map[string]struct{})

	cards.Each(func(_ int, card *goquery.Selection) {
		item, ok := e.extractCard(card, baseURL)
		if !ok {
			return
		}
		key := item.URLOrigem
		if key == "" {
			key = "title:" + item.Titulo
		}
		if _, dup := seen[key]; dup {
			return
		}
		seen[key] = struct{}{}
		items = append(items, item)
	})

	return items
}

// SeeAllURL returns the absolute "ver todos" link of doc, or "" if absent
func (e *Extractor) SeeAllURL(doc *goquery.Document, baseURL string) string {
	href, _ := doc.Find(e.Selectors.SeeAll).First().Attr("href")
	return helpers.ResolveURL(baseURL, href)
}

func (e *Extractor) extractCard(card *goquery.Selection, baseURL string) (models.RawItem, bool) {
	href, _ := card.Find(e.Selectors.Link).First().Attr("href")
	link := helpers.ResolveURL(baseURL, href)
	title := helpers.CollapseSpaces(card.Find(e.Selectors.Title).First().Text())
	if link == "" && title == "" {
		return models.RawItem{}, false
	}

	item := models.RawItem{
		Titulo:    title,
		Destino:   ExtractDestination(title),
		URLOrigem: link,
		RawID:     link,
		ImagemURL: e.imageURL(card, baseURL),
		Categoria: e.category(card),
		Descricao: e.description(card),
	}
	if item.RawID == "" {
		item.RawID = title
	}

	badge := strings.ToUpper(card.Find(e.Selectors.Badge).First().Text())
	available := !strings.Contains(badge, "ESGOTADO")
	item.Disponivel = &available

	if price := e.priceText(card); price != "" {
		item.Preco = models.Text(price)
	}

	item.DataSaida, item.DataRetorno = e.dates(card)
	if days, ok := DurationDays(item.DataSaida, item.DataRetorno); ok {
		item.Duracao = FormatDuration(days)
	}

	return item, true
}

func (e *Extractor) priceText(card *goquery.Selection) string {
	text := strings.TrimSpace(card.Find(e.Selectors.Price).First().Text())
	if text == "" {
		text = helpers.CollapseSpaces(card.Find(e.Selectors.PriceFallback).First().Text())
	}
	return text
}

func (e *Extractor) imageURL(card *goquery.Selection, baseURL string) string {
	img := card.Find(e.Selectors.Image).First()
	if img.Length() == 0 {
		img = card.Find("img").First()
	}
	src, _ := img.Attr("src")
	if strings.TrimSpace(src) == "" {
		src, _ = img.Attr("data-src")
	}
	return helpers.ResolveURL(baseURL, src)
}

func (e *Extractor) category(card *goquery.Selection) string {
	return helpers.CollapseSpaces(card.Find(e.Selectors.Category).Has(e.Selectors.CategoryMarker).First().Text())
}

// dates reads the first date block mentioning both "Saída" and "Volta"
func (e *Extractor) dates(card *goquery.Selection) (departure, ret string) {
	card.Find(e.Selectors.DateBlock).EachWithBreak(func(_ int, block *goquery.Selection) bool {
		text := block.Text()
		if !strings.Contains(text, "Saída") || !strings.Contains(text, "Volta") {
			return true
		}
		departure, ret = splitDateBlock(text)
		return false
	})
	return departure, ret
}

// splitDateBlock takes "Saída 07 de fev > sáb Volta 08 de fev > dom Seguro
// incluso" apart into its departure and return fragments.
func splitDateBlock(text string) (departure, ret string) {
	if i := strings.Index(text, "Saída"); i >= 0 {
		rest := text[i+len("Saída"):]
		if j := strings.Index(rest, "Volta"); j >= 0 {
			rest = rest[:j]
		}
		departure = helpers.CollapseSpaces(rest)
	}

	if i := strings.Index(text, "Volta"); i >= 0 {
		rest := strings.TrimLeft(text[i+len("Volta"):], " \t\r\n")
		if j := strings.IndexByte(rest, '\n'); j >= 0 {
			rest = rest[:j]
		}
		for _, label := range returnDateTerminators {
			if j := strings.Index(rest, label); j >= 0 {
				rest = rest[:j]
			}
		}
		ret = helpers.CollapseSpaces(rest)
	}
	return departure, ret
}

func (e *Extractor) description(card *goquery.Selection) string {
	var parts []string
	card.Find(e.Selectors.DescriptionSpans).Each(func(_ int, span *goquery.Selection) {
		text := helpers.CollapseSpaces(span.Text())
		if text != "" && !strings.Contains(text, "Saída") && !strings.Contains(text, "Volta") {
			parts = append(parts, text)
		}
	})
	return strings.Join(parts, "; ")
}

// extractFromAnchors synthesizes minimal items from package-like links
func (e *Extractor) extractFromAnchors(doc *goquery.Document, baseURL string) []models.RawItem {
	var items []models.RawItem
	seen := make(map[string]struct{})

	doc.Find(e.Selectors.FallbackLinks).Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" {
			return
		}
		if _, dup := seen[href]; dup {
			return
		}
		seen[href] = struct{}{}

		img := a.Find("img").First()
		title := helpers.CollapseSpaces(a.Text())
		if title == "" {
			title = strings.TrimSpace(img.AttrOr("alt", ""))
		}
		if title == "" {
			title = "Viagem"
		}
		if utf8.RuneCountInString(title) < 2 {
			return
		}

		link := helpers.ResolveURL(baseURL, href)
		items = append(items, models.RawItem{
			Titulo:          title,
			Disponibilidade: "Consultar",
			Categoria:       "Pacote",
			ImagemURL:       helpers.ResolveURL(baseURL, img.AttrOr("src", "")),
			URLOrigem:       link,
			RawID:           link,
		})
	})

	return items
}
