// Command seed loads the demo catalogue (categorias, clientes, produtos and a
// few historical vendas). IDs are derived from a fixed namespace so running it
// twice is a no-op.
package main

import (
	"fmt"
	"os"
	"time"

	"simplesales/internal/config"
	"simplesales/internal/infra"
	"simplesales/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var seedNamespace = uuid.MustParse("6f1c9a52-3d1e-4b8a-9f0e-5b7d2c4a8e10")

func seedID(kind string, n int) uuid.UUID {
	return uuid.NewSHA1(seedNamespace, []byte(fmt.Sprintf("%s:%d", kind, n)))
}

type produtoSeed struct {
	n         int
	categoria int
	nome      string
	descricao string
	preco     string
	estoque   int
	ativo     bool
}

type itemSeed struct {
	produto    int
	quantidade int
	preco      string
}

type vendaSeed struct {
	n       int
	cliente int
	data    time.Time
	status  model.StatusVenda
	itens   []itemSeed
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL, infra.DatabaseOptions{MaxOpenConns: 2, MaxIdleConns: 1})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	if err := db.Transaction(seed); err != nil {
		log.Error().Err(err).Msg("seed failed")
		os.Exit(1)
	}
	log.Info().Msg("seed completed")
}

func seed(tx *gorm.DB) error {
	onConflict := clause.OnConflict{DoNothing: true}

	categorias := []model.Categoria{
		{ID: seedID("categoria", 1), Nome: "Eletrônicos", Descricao: "Smartphones, tablets, notebooks e acessórios tecnológicos"},
		{ID: seedID("categoria", 2), Nome: "Vestuário", Descricao: "Roupas, calçados e acessórios de moda"},
		{ID: seedID("categoria", 3), Nome: "Livros e Mídia", Descricao: "Livros, e-books, filmes e materiais educativos"},
		{ID: seedID("categoria", 4), Nome: "Casa e Decoração", Descricao: "Móveis, decoração e utensílios domésticos"},
		{ID: seedID("categoria", 5), Nome: "Esportes e Fitness", Descricao: "Equipamentos esportivos e suplementos"},
		{ID: seedID("categoria", 6), Nome: "Beleza e Cuidados", Descricao: "Cosméticos, perfumes e produtos de higiene"},
		{ID: seedID("categoria", 7), Nome: "Alimentação", Descricao: "Alimentos, bebidas e produtos gourmet"},
		{ID: seedID("categoria", 8), Nome: "Automotivo", Descricao: "Peças, acessórios e ferramentas automotivas"},
	}
	if err := tx.Clauses(onConflict).Create(&categorias).Error; err != nil {
		return fmt.Errorf("categorias: %w", err)
	}

	clientes := []model.Cliente{
		{ID: seedID("cliente", 1), Nome: "Ana Carolina Silva", Email: "ana.carolina@gmail.com", Telefone: "(11) 98765-4321", Endereco: "Rua das Flores, 234 - Vila Madalena, São Paulo - SP"},
		{ID: seedID("cliente", 2), Nome: "Carlos Eduardo Santos", Email: "carlos.eduardo@hotmail.com", Telefone: "(21) 97654-3210", Endereco: "Avenida Atlântica, 1500 - Copacabana, Rio de Janeiro - RJ"},
		{ID: seedID("cliente", 3), Nome: "Maria José Oliveira", Email: "mariajose@outlook.com", Telefone: "(31) 99876-5432", Endereco: "Rua da Liberdade, 789 - Centro, Belo Horizonte - MG"},
		{ID: seedID("cliente", 4), Nome: "João Pedro Rodrigues", Email: "joaopedro@yahoo.com.br", Telefone: "(47) 98123-4567", Endereco: "Rua XV de Novembro, 456 - Centro, Blumenau - SC"},
		{ID: seedID("cliente", 5), Nome: "Fernanda Costa Lima", Email: "fernanda.lima@gmail.com", Telefone: "(85) 97456-1234", Endereco: "Avenida Beira Mar, 2100 - Meireles, Fortaleza - CE"},
		{ID: seedID("cliente", 6), Nome: "Ricardo Almeida Pereira", Email: "ricardo.almeida@uol.com.br", Telefone: "(61) 99345-6789", Endereco: "SQN 308, Bloco A - Asa Norte, Brasília - DF"},
		{ID: seedID("cliente", 7), Nome: "Juliana Ferreira Martins", Email: "juliana.ferreira@terra.com.br", Telefone: "(51) 98567-2341", Endereco: "Rua da Praia, 1200 - Centro Histórico, Porto Alegre - RS"},
		{ID: seedID("cliente", 8), Nome: "Gabriel Henrique Souza", Email: "gabriel.souza@gmail.com", Telefone: "(62) 97234-5678", Endereco: "Avenida T-4, 890 - Setor Bueno, Goiânia - GO"},
	}
	if err := tx.Clauses(onConflict).Create(&clientes).Error; err != nil {
		return fmt.Errorf("clientes: %w", err)
	}

	produtoSeeds := []produtoSeed{
		{1, 1, "iPhone 15 128GB", "Smartphone Apple iPhone 15 com 128GB de armazenamento, câmera de 48MP e chip A16 Bionic", "7499.99", 25, true},
		{2, 1, "Samsung Galaxy S24 256GB", "Smartphone Samsung Galaxy S24 com 256GB, tela Dynamic AMOLED e câmera tripla de 50MP", "4999.99", 40, true},
		{3, 1, "Notebook Dell Inspiron 15", "Notebook Dell Inspiron 15.6\", Intel Core i5, 8GB RAM, SSD 256GB, Windows 11", "2899.99", 15, true},
		{4, 1, "iPad Air 5ª Geração", "Tablet Apple iPad Air com chip M1, tela Liquid Retina de 10.9\", 64GB Wi-Fi", "4199.99", 20, true},
		{5, 2, "Camiseta Nike Dri-FIT", "Camiseta esportiva Nike Dri-FIT, tecido respirável, disponível em várias cores", "129.99", 150, true},
		{6, 2, "Jeans Levi's 501 Original", "Calça jeans Levi's 501 Original Fit, 100% algodão, corte clássico", "349.99", 80, true},
		{7, 2, "Tênis Adidas Ultraboost 22", "Tênis de corrida Adidas Ultraboost 22, tecnologia BOOST, máximo conforto", "899.99", 60, true},
		{8, 3, "Clean Code - Robert C. Martin", "Livro sobre práticas de programação limpa e desenvolvimento de software profissional", "89.99", 45, true},
		{9, 3, "O Programador Pragmático", "Guia essencial para desenvolvimento de software, de David Thomas e Andrew Hunt", "75.99", 30, true},
		{10, 4, "Cadeira de Escritório Ergonômica", "Cadeira ergonômica para escritório, regulagem de altura, apoio lombar, suporte para braços", "1299.99", 12, true},
		{11, 4, "Mesa de Centro Madeira Maciça", "Mesa de centro em madeira maciça, design moderno, 120x60cm", "899.99", 8, true},
		{12, 5, "Halteres Ajustáveis 20kg", "Par de halteres ajustáveis de 5 a 20kg cada, ideais para treino em casa", "459.99", 25, true},
		{13, 5, "Whey Protein Isolado 1kg", "Suplemento Whey Protein Isolado, sabor chocolate, 1kg, alta pureza", "189.99", 100, true},
		{14, 6, "Perfume Natura Humor", "Perfume feminino Natura Humor, fragrância floral frutal, 75ml", "159.99", 70, true},
		{15, 6, "Shampoo L'Oréal Elseve", "Shampoo L'Oréal Elseve reparação total 5, 400ml", "24.99", 200, true},
		{16, 7, "Café Especial Pilão Gourmet", "Café torrado e moído especial, torra média, embalagem 500g", "32.99", 120, true},
		{17, 7, "Açaí Premium Congelado 1kg", "Polpa de açaí premium congelada, sem açúcar, embalagem 1kg", "28.99", 80, true},
		{18, 8, "Óleo Motor Castrol GTX 5W30", "Óleo lubrificante para motor Castrol GTX 5W-30, embalagem 4 litros", "89.99", 50, true},
		{19, 8, "Pneu Michelin Primacy 4", "Pneu para carro de passeio Michelin Primacy 4, medida 205/55 R16", "679.99", 30, true},
		{20, 1, "Smartphone Xiaomi Mi 11 Lite", "Smartphone Xiaomi Mi 11 Lite 5G, 128GB, câmera tripla 64MP - DESCONTINUADO", "1899.99", 5, false},
	}
	produtos := make([]model.Produto, 0, len(produtoSeeds))
	var inativos []uuid.UUID
	for _, p := range produtoSeeds {
		id := seedID("produto", p.n)
		produtos = append(produtos, model.Produto{
			ID:           id,
			Nome:         p.nome,
			Descricao:    p.descricao,
			Preco:        decimal.RequireFromString(p.preco),
			EstoqueAtual: p.estoque,
			Ativo:        true,
			CategoriaID:  seedID("categoria", p.categoria),
		})
		if !p.ativo {
			inativos = append(inativos, id)
		}
	}
	if err := tx.Clauses(onConflict).Create(&produtos).Error; err != nil {
		return fmt.Errorf("produtos: %w", err)
	}
	// ativo=false is a zero value and would be replaced by the column default on insert.
	if len(inativos) > 0 {
		if err := tx.Model(&model.Produto{}).Where("id IN ?", inativos).Update("ativo", false).Error; err != nil {
			return fmt.Errorf("produtos inativos: %w", err)
		}
	}

	vendaSeeds := []vendaSeed{
		{1, 1, time.Date(2024, 8, 15, 14, 30, 0, 0, time.UTC), model.StatusEntregue, []itemSeed{{1, 1, "7499.99"}, {5, 1, "129.99"}}},
		{2, 2, time.Date(2024, 8, 20, 10, 15, 0, 0, time.UTC), model.StatusEntregue, []itemSeed{{5, 2, "129.99"}}},
		{3, 3, time.Date(2024, 9, 1, 16, 45, 0, 0, time.UTC), model.StatusConfirmada, []itemSeed{{3, 1, "2899.99"}}},
		{4, 4, time.Date(2024, 9, 5, 9, 20, 0, 0, time.UTC), model.StatusPendente, []itemSeed{{10, 1, "1299.99"}, {13, 1, "189.99"}, {16, 2, "32.99"}}},
	}
	itemN := 0
	for _, vs := range vendaSeeds {
		v := model.Venda{
			ID:        seedID("venda", vs.n),
			ClienteID: seedID("cliente", vs.cliente),
			DataVenda: vs.data,
			Status:    vs.status,
		}
		for _, is := range vs.itens {
			itemN++
			item := model.ItemVenda{
				ID:            seedID("item_venda", itemN),
				VendaID:       v.ID,
				ProdutoID:     seedID("produto", is.produto),
				Quantidade:    is.quantidade,
				PrecoUnitario: decimal.RequireFromString(is.preco),
			}
			v.ValorTotal = v.ValorTotal.Add(item.Subtotal())
			v.Itens = append(v.Itens, item)
		}
		if err := tx.Clauses(onConflict).Omit("Itens").Create(&v).Error; err != nil {
			return fmt.Errorf("venda %d: %w", vs.n, err)
		}
		if err := tx.Clauses(onConflict).Create(&v.Itens).Error; err != nil {
			return fmt.Errorf("itens da venda %d: %w", vs.n, err)
		}
	}

	log.Info().
		Int("categorias", len(categorias)).
		Int("clientes", len(clientes)).
		Int("produtos", len(produtos)).
		Int("vendas", len(vendaSeeds)).
		Msg("seed data applied")
	return nil
}
