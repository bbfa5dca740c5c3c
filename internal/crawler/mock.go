package crawler

import (
	"context"

	"fluxitech/mimatour-api/config"
	"fluxitech/mimatour-api/internal/models"
)

// MockStrategy serves the built-in dataset when mock mode is on
type MockStrategy struct {
	Enabled bool
}

func (s *MockStrategy) Name() string { return "mock" }

func (s *MockStrategy) Collect(ctx context.Context) ([]models.RawItem, error) {
	if !s.Enabled {
		return nil, notApplicable("mock mode disabled")
	}
	return MockTrips(), nil
}

// MockTrips returns a fresh copy of the offline dataset
func MockTrips() []models.RawItem {
	out := make([]models.RawItem, len(mockTrips))
	copy(out, mockTrips)
	return out
}

func ptr[T any](v T) *T { return &v }

const mockBaseURL = config.DefaultBaseURL

var mockTrips = []models.RawItem{
	{
		Titulo: "Serra Gaúcha - Gramado e Canela", Destino: "Gramado, RS",
		Descricao: "Roteiro 4 dias com parques, vinícolas e chocolate.",
		DataSaida: "2025-03-01", DataRetorno: "2025-03-04", Duracao: "4 dias",
		Preco: models.Num(1899), Parcelas: ptr("6x de R$ 316,50"), Disponibilidade: "Vagas limitadas",
		Categoria: "Pacote", ImagemURL: mockBaseURL + "/img/serra-gaucha.jpg",
		URLOrigem: mockBaseURL + "/pacote/serra-gaucha-gramado",
	},
	{
		Titulo: "Bonito - Mato Grosso do Sul", Destino: "Bonito, MS",
		Descricao: "Flutuação, cachoeiras e grutas.",
		DataSaida: "2025-04-10", DataRetorno: "2025-04-15", Duracao: "6 dias",
		Preco: models.Num(3290), Parcelas: ptr("10x de R$ 329,00"), Disponibilidade: "Consultar",
		Categoria: "Pacote", ImagemURL: mockBaseURL + "/img/bonito.jpg",
		URLOrigem: mockBaseURL + "/pacote/bonito-ms",
	},
	{
		Titulo: "Fernando de Noronha", Destino: "Fernando de Noronha, PE",
		Descricao: "Praias e mergulho. Incluso passeios.",
		DataSaida: "2025-06-01", DataRetorno: "2025-06-05", Duracao: "5 dias",
		Preco: models.Num(4590), Disponibilidade: "Consultar",
		Categoria: "Pacote", ImagemURL: mockBaseURL + "/img/noronha.jpg",
		URLOrigem: mockBaseURL + "/pacote/fernando-de-noronha",
	},
	{
		Titulo: "Ilhabela - Feriado", Destino: "Ilhabela, SP",
		Descricao: "Praias, trilhas e passeio de escuna.",
		DataSaida: "2025-02-15", DataRetorno: "2025-02-18", Duracao: "4 dias",
		Preco: models.Num(1290), Disponivel: ptr(true), Categoria: "Pacote",
		URLOrigem: mockBaseURL + "/pacote/ilhabela",
	},
	{
		Titulo: "Capitólio - Cânions", Destino: "Capitólio, MG",
		Descricao: "Lago de Furnas, cachoeiras e cânions.",
		DataSaida: "2025-03-14", DataRetorno: "2025-03-16", Duracao: "3 dias",
		Preco: models.Num(890), Disponivel: ptr(true), Categoria: "Pacote",
		URLOrigem: mockBaseURL + "/pacote/capitolio",
	},
	{
		Titulo: "Foz do Iguaçu - Tríplice Fronteira", Destino: "Foz do Iguaçu, PR",
		Descricao: "Cataratas, Itaipu, Paraguai e Argentina.",
		DataSaida: "2025-05-20", DataRetorno: "2025-05-24", Duracao: "5 dias",
		Preco: models.Num(2190), Disponivel: ptr(true), Categoria: "Pacote",
		URLOrigem: mockBaseURL + "/pacote/foz",
	},
	{
		Titulo: "Copacabana - Carnaval", Destino: "Rio de Janeiro, RJ",
		Descricao: "Feriado de Carnaval na orla de Copacabana.",
		DataSaida: "2025-02-15", DataRetorno: "2025-02-18", Duracao: "4 dias",
		Preco: models.Num(1590), Disponivel: ptr(true), Categoria: "Pacote",
		URLOrigem: mockBaseURL + "/pacote/copacabana",
	},
	{
		Titulo: "Guarujá - Praias", Destino: "Guarujá, SP",
		Descricao: "Praias, aquário e passeios.",
		DataSaida: "2025-02-08", DataRetorno: "2025-02-10", Duracao: "3 dias",
		Preco: models.Num(690), Disponivel: ptr(true), Categoria: "Pacote",
		URLOrigem: mockBaseURL + "/pacote/guaruja",
	},
	{
		Titulo: "Festa da Uva - Jundiaí", Destino: "Jundiaí, SP",
		Descricao: "Festa da Uva 2026, 8 de fevereiro.",
		DataSaida: "2026-02-08", DataRetorno: "2026-02-08", Duracao: "1 dia",
		Preco: models.Num(159), Disponivel: ptr(true), Categoria: "Bate e volta",
		URLOrigem: mockBaseURL + "/pacote/festa-uva",
	},
	{
		Titulo: "Campos do Jordão - Inverno", Destino: "Campos do Jordão, SP",
		Descricao: "Clima europeu, chocolate e fondue.",
		DataSaida: "2025-07-10", DataRetorno: "2025-07-12", Duracao: "3 dias",
		Preco: models.Num(1190), Disponivel: ptr(true), Categoria: "Pacote",
		URLOrigem: mockBaseURL + "/pacote/campos-jordao",
	},
	{
		Titulo: "Caldas Novas - Águas Quentes", Destino: "Caldas Novas, GO",
		Descricao: "Parques aquáticos e águas termais.",
		DataSaida: "2025-04-18", DataRetorno: "2025-04-21", Duracao: "4 dias",
		Preco: models.Num(1490), Disponivel: ptr(true), Categoria: "Pacote",
		URLOrigem: mockBaseURL + "/pacote/caldas-novas",
	},
	{
		Titulo: "Beto Carrero World", Destino: "Penha, SC",
		Descricao: "Parque temático + praia.",
		DataSaida: "2025-01-15", DataRetorno: "2025-01-17", Duracao: "3 dias",
		Preco: models.Num(990), Disponivel: ptr(false), Categoria: "Pacote",
		URLOrigem: mockBaseURL + "/pacote/beto-carrero",
	},
	{
		Titulo: "Maragogi - Galés", Destino: "Maragogi, AL",
		Descricao: "Piscinas naturais e praias de Alagoas.",
		DataSaida: "2025-08-05", DataRetorno: "2025-08-09", Duracao: "5 dias",
		Preco: models.Num(2490), Disponivel: ptr(true), Categoria: "Pacote",
		URLOrigem: mockBaseURL + "/pacote/maragogi",
	},
	{
		Titulo: "Ouro Preto - Histórico", Destino: "Ouro Preto, MG",
		Descricao: "Cidade histórica, igrejas e Minas Gerais.",
		DataSaida: "2025-06-12", DataRetorno: "2025-06-14", Duracao: "3 dias",
		Preco: models.Num(790), Disponivel: ptr(true), Categoria: "Pacote",
		URLOrigem: mockBaseURL + "/pacote/ouro-preto",
	},
	{
		Titulo: "Jericoacoara - Ceará", Destino: "Jericoacoara, CE",
		Descricao: "Dunas, lagoa e pôr do sol.",
		DataSaida: "2025-09-20", DataRetorno: "2025-09-25", Duracao: "6 dias",
		Preco: models.Num(3190), Disponivel: ptr(true), Categoria: "Pacote",
		URLOrigem: mockBaseURL + "/pacote/jericoacoara",
	},
}
