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

// CategoriaService defines business operations for product categories.
type CategoriaService interface {
	Criar(ctx context.Context, req dto.CategoriaRequest) (dto.CategoriaResponse, error)
	Listar(ctx context.Context) ([]dto.CategoriaResponse, error)
	ObterPorID(ctx context.Context, id uuid.UUID) (dto.CategoriaResponse, error)
	ListarProdutos(ctx context.Context, id uuid.UUID) ([]dto.ProdutoResponse, error)
	Atualizar(ctx context.Context, id uuid.UUID, req dto.CategoriaRequest) (dto.CategoriaResponse, error)
	Excluir(ctx context.Context, id uuid.UUID) error
}

type categoriaService struct {
	repo        repository.CategoriaRepository
	produtoRepo repository.ProdutoRepository
}

func NewCategoriaService(repo repository.CategoriaRepository, produtoRepo repository.ProdutoRepository) CategoriaService {
	return &categoriaService{repo: repo, produtoRepo: produtoRepo}
}

func nomeDuplicado(nome string, outra bool) error {
	if outra {
		return apierror.NewBusiness(fmt.Sprintf("Já existe outra categoria com o nome '%s'", nome))
	}
	return apierror.NewBusiness(fmt.Sprintf("Já existe uma categoria com o nome '%s'", nome))
}

// checkNome fails when another categoria (id aside) already uses nome.
func (s *categoriaService) checkNome(ctx context.Context, nome string, id uuid.UUID) error {
	existing, err := s.repo.FindByNome(ctx, nome)
	if err != nil && !repository.IsNotFound(err) {
		return err
	}
	if existing != nil && existing.ID != id {
		return nomeDuplicado(nome, id != uuid.Nil)
	}
	return nil
}

func (s *categoriaService) Criar(ctx context.Context, req dto.CategoriaRequest) (dto.CategoriaResponse, error) {
	nome := strings.TrimSpace(req.Nome)
	if err := s.checkNome(ctx, nome, uuid.Nil); err != nil {
		return dto.CategoriaResponse{}, err
	}

	c := &model.Categoria{Nome: nome, Descricao: strings.TrimSpace(req.Descricao)}
	if err := s.repo.Create(ctx, c); err != nil {
		if repository.IsUniqueViolation(err, repository.UniqueCategoriaNome) {
			return dto.CategoriaResponse{}, nomeDuplicado(nome, false)
		}
		return dto.CategoriaResponse{}, err
	}
	zerolog.Ctx(ctx).Info().Str("categoria_id", c.ID.String()).Str("nome", c.Nome).Msg("categoria criada")
	return mapCategoria(*c), nil
}

func (s *categoriaService) Listar(ctx context.Context) ([]dto.CategoriaResponse, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]dto.CategoriaResponse, 0, len(list))
	for _, c := range list {
		result = append(result, mapCategoria(c))
	}
	return result, nil
}

func (s *categoriaService) ObterPorID(ctx context.Context, id uuid.UUID) (dto.CategoriaResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return dto.CategoriaResponse{}, notFoundOr(err, "Categoria", id)
	}
	return mapCategoria(*c), nil
}

func (s *categoriaService) ListarProdutos(ctx context.Context, id uuid.UUID) ([]dto.ProdutoResponse, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, notFoundOr(err, "Categoria", id)
	}
	list, err := s.produtoRepo.ListAtivosByCategoria(ctx, id)
	if err != nil {
		return nil, err
	}
	return mapProdutos(list), nil
}

func (s *categoriaService) Atualizar(ctx context.Context, id uuid.UUID, req dto.CategoriaRequest) (dto.CategoriaResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return dto.CategoriaResponse{}, notFoundOr(err, "Categoria", id)
	}

	nome := strings.TrimSpace(req.Nome)
	if !strings.EqualFold(nome, c.Nome) {
		if err := s.checkNome(ctx, nome, id); err != nil {
			return dto.CategoriaResponse{}, err
		}
	}
	c.Nome = nome
	c.Descricao = strings.TrimSpace(req.Descricao)

	if err := s.repo.Update(ctx, c); err != nil {
		if repository.IsUniqueViolation(err, repository.UniqueCategoriaNome) {
			return dto.CategoriaResponse{}, nomeDuplicado(nome, true)
		}
		return dto.CategoriaResponse{}, err
	}
	return mapCategoria(*c), nil
}

func (s *categoriaService) Excluir(ctx context.Context, id uuid.UUID) error {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return notFoundOr(err, "Categoria", id)
	}

	n, err := s.repo.CountProdutos(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		zerolog.Ctx(ctx).Warn().Str("categoria_id", id.String()).Int64("produtos", n).
			Msg("exclusão de categoria com produtos recusada")
		return apierror.NewBusiness(fmt.Sprintf(
			"Não é possível excluir a categoria '%s' pois possui produtos associados", c.Nome)).
			WithDetails(map[string]any{"produtos": n})
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		// A product inserted between the count and the delete still trips the FK.
		if repository.IsForeignKeyViolation(err) {
			return apierror.NewBusiness(fmt.Sprintf(
				"Não é possível excluir a categoria '%s' pois possui produtos associados", c.Nome))
		}
		return err
	}
	zerolog.Ctx(ctx).Info().Str("categoria_id", id.String()).Msg("categoria excluída")
	return nil
}
