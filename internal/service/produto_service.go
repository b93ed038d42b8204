package service

import (
	"context"
	"fmt"
	"strings"

	"simplesales/internal/apierror"
	"simplesales/internal/dto"
	"simplesales/internal/model"
	"simplesales/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ProdutoService defines product catalog operations. Stock is not adjusted
// here except through the full-replacement Atualizar.
type ProdutoService interface {
	Criar(ctx context.Context, req dto.ProdutoRequest) (dto.ProdutoResponse, error)
	ObterPorID(ctx context.Context, id uuid.UUID) (dto.ProdutoResponse, error)
	ListarAtivos(ctx context.Context) ([]dto.ProdutoResponse, error)
	ListarPorCategoria(ctx context.Context, categoriaID uuid.UUID) ([]dto.ProdutoResponse, error)
	Pesquisar(ctx context.Context, filter dto.ProdutoFilter) ([]dto.ProdutoResponse, error)
	// BaixoEstoque lists active products at or under limite; nil uses the
	// configured default.
	BaixoEstoque(ctx context.Context, limite *int) ([]dto.ProdutoResponse, error)
	Atualizar(ctx context.Context, id uuid.UUID, req dto.ProdutoRequest) (dto.ProdutoResponse, error)
	Ativar(ctx context.Context, id uuid.UUID) error
	Desativar(ctx context.Context, id uuid.UUID) error
	Excluir(ctx context.Context, id uuid.UUID) error
}

type produtoService struct {
	repo               repository.ProdutoRepository
	categoriaRepo      repository.CategoriaRepository
	limiteBaixoEstoque int
}

func NewProdutoService(
	repo repository.ProdutoRepository,
	categoriaRepo repository.CategoriaRepository,
	limiteBaixoEstoque int,
) ProdutoService {
	if limiteBaixoEstoque <= 0 {
		limiteBaixoEstoque = 10
	}
	return &produtoService{repo: repo, categoriaRepo: categoriaRepo, limiteBaixoEstoque: limiteBaixoEstoque}
}

func (s *produtoService) categoria(ctx context.Context, id uuid.UUID) (*model.Categoria, error) {
	c, err := s.categoriaRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Categoria", id)
	}
	return c, nil
}

func (s *produtoService) Criar(ctx context.Context, req dto.ProdutoRequest) (dto.ProdutoResponse, error) {
	cat, err := s.categoria(ctx, req.CategoriaID)
	if err != nil {
		return dto.ProdutoResponse{}, err
	}

	p := &model.Produto{
		Nome:         strings.TrimSpace(req.Nome),
		Descricao:    strings.TrimSpace(req.Descricao),
		Preco:        req.Preco.Round(2),
		EstoqueAtual: req.EstoqueAtual,
		Ativo:        true,
		CategoriaID:  cat.ID,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return dto.ProdutoResponse{}, err
	}
	p.Categoria = cat

	zerolog.Ctx(ctx).Info().Str("produto_id", p.ID.String()).Str("nome", p.Nome).
		Int("estoque", p.EstoqueAtual).Msg("produto criado")
	return mapProduto(*p), nil
}

func (s *produtoService) ObterPorID(ctx context.Context, id uuid.UUID) (dto.ProdutoResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return dto.ProdutoResponse{}, notFoundOr(err, "Produto", id)
	}
	return mapProduto(*p), nil
}

func (s *produtoService) ListarAtivos(ctx context.Context) ([]dto.ProdutoResponse, error) {
	list, err := s.repo.ListAtivos(ctx)
	if err != nil {
		return nil, err
	}
	return mapProdutos(list), nil
}

// ListarPorCategoria answers an unknown category with an empty list; the
// categorias endpoint is the one that reports 404.
func (s *produtoService) ListarPorCategoria(ctx context.Context, categoriaID uuid.UUID) ([]dto.ProdutoResponse, error) {
	list, err := s.repo.ListAtivosByCategoria(ctx, categoriaID)
	if err != nil {
		return nil, err
	}
	return mapProdutos(list), nil
}

func (s *produtoService) Pesquisar(ctx context.Context, filter dto.ProdutoFilter) ([]dto.ProdutoResponse, error) {
	if filter.PrecoMin != nil && filter.PrecoMax != nil && filter.PrecoMin.GreaterThan(*filter.PrecoMax) {
		verr := apierror.NewValidation()
		verr.Add("precoMax", "Preço máximo deve ser maior ou igual ao preço mínimo")
		return nil, verr
	}
	filter.Nome = strings.TrimSpace(filter.Nome)
	list, err := s.repo.Search(ctx, filter)
	if err != nil {
		return nil, err
	}
	return mapProdutos(list), nil
}

func (s *produtoService) BaixoEstoque(ctx context.Context, limite *int) ([]dto.ProdutoResponse, error) {
	l := s.limiteBaixoEstoque
	if limite != nil {
		if *limite < 0 {
			verr := apierror.NewValidation()
			verr.Add("limite", "Limite deve ser maior ou igual a zero")
			return nil, verr
		}
		l = *limite
	}
	list, err := s.repo.ListBaixoEstoque(ctx, l)
	if err != nil {
		return nil, err
	}
	return mapProdutos(list), nil
}

func (s *produtoService) Atualizar(ctx context.Context, id uuid.UUID, req dto.ProdutoRequest) (dto.ProdutoResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return dto.ProdutoResponse{}, notFoundOr(err, "Produto", id)
	}
	cat, err := s.categoria(ctx, req.CategoriaID)
	if err != nil {
		return dto.ProdutoResponse{}, err
	}

	p.Nome = strings.TrimSpace(req.Nome)
	p.Descricao = strings.TrimSpace(req.Descricao)
	p.Preco = req.Preco.Round(2)
	p.EstoqueAtual = req.EstoqueAtual
	p.CategoriaID = cat.ID
	p.Categoria = cat

	if err := s.repo.Update(ctx, p); err != nil {
		return dto.ProdutoResponse{}, err
	}
	return mapProduto(*p), nil
}

func (s *produtoService) Ativar(ctx context.Context, id uuid.UUID) error {
	return s.setAtivo(ctx, id, true)
}

func (s *produtoService) Desativar(ctx context.Context, id uuid.UUID) error {
	return s.setAtivo(ctx, id, false)
}

// setAtivo is a no-op when the product is already in the target state.
func (s *produtoService) setAtivo(ctx context.Context, id uuid.UUID, ativo bool) error {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return notFoundOr(err, "Produto", id)
	}
	if p.Ativo == ativo {
		return nil
	}
	if err := s.repo.SetAtivo(ctx, id, ativo); err != nil {
		return err
	}
	zerolog.Ctx(ctx).Info().Str("produto_id", id.String()).Bool("ativo", ativo).Msg("produto atualizado")
	return nil
}

func (s *produtoService) Excluir(ctx context.Context, id uuid.UUID) error {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return notFoundOr(err, "Produto", id)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if repository.IsForeignKeyViolation(err) {
			return apierror.NewBusiness(fmt.Sprintf(
				"Não é possível excluir o produto '%s' pois está vinculado a vendas", p.Nome)).
				WithDetails(map[string]any{"sugestao": "desative o produto"})
		}
		return err
	}
	zerolog.Ctx(ctx).Warn().Str("produto_id", id.String()).Str("nome", p.Nome).Msg("produto excluído")
	return nil
}
