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

type ClienteService interface {
	Criar(ctx context.Context, req dto.ClienteRequest) (dto.ClienteResponse, error)
	Listar(ctx context.Context) ([]dto.ClienteResponse, error)
	ObterPorID(ctx context.Context, id uuid.UUID) (dto.ClienteResponse, error)
	Pesquisar(ctx context.Context, filter dto.ClienteFilter) ([]dto.ClienteResponse, error)
	ListarVendas(ctx context.Context, id uuid.UUID) ([]dto.VendaResponse, error)
	Atualizar(ctx context.Context, id uuid.UUID, req dto.ClienteRequest) (dto.ClienteResponse, error)
	Excluir(ctx context.Context, id uuid.UUID) error
}

type clienteService struct {
	repo      repository.ClienteRepository
	vendaRepo repository.VendaRepository
}

func NewClienteService(repo repository.ClienteRepository, vendaRepo repository.VendaRepository) ClienteService {
	return &clienteService{repo: repo, vendaRepo: vendaRepo}
}

// NormalizeEmail is the stored form of an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *clienteService) checkEmail(ctx context.Context, email string, id uuid.UUID) error {
	existing, err := s.repo.FindByEmail(ctx, email)
	if err != nil && !repository.IsNotFound(err) {
		return err
	}
	if existing != nil && existing.ID != id {
		return emailDuplicado(email, id != uuid.Nil)
	}
	return nil
}

func emailDuplicado(email string, outro bool) error {
	if outro {
		return apierror.NewBusiness(fmt.Sprintf("Já existe outro cliente cadastrado com o email %s", email))
	}
	return apierror.NewBusiness(fmt.Sprintf("Já existe um cliente cadastrado com o email %s", email))
}

func (s *clienteService) Criar(ctx context.Context, req dto.ClienteRequest) (dto.ClienteResponse, error) {
	email := NormalizeEmail(req.Email)
	if err := s.checkEmail(ctx, email, uuid.Nil); err != nil {
		zerolog.Ctx(ctx).Warn().Str("email", email).Msg("tentativa de criar cliente com email já existente")
		return dto.ClienteResponse{}, err
	}

	c := &model.Cliente{
		Nome:     strings.TrimSpace(req.Nome),
		Email:    email,
		Telefone: strings.TrimSpace(req.Telefone),
		Endereco: strings.TrimSpace(req.Endereco),
	}
	if err := s.repo.Create(ctx, c); err != nil {
		if repository.IsUniqueViolation(err, repository.UniqueClienteEmail...) {
			return dto.ClienteResponse{}, emailDuplicado(email, false)
		}
		return dto.ClienteResponse{}, err
	}
	zerolog.Ctx(ctx).Info().Str("cliente_id", c.ID.String()).Msg("cliente criado")
	return mapCliente(*c), nil
}

func (s *clienteService) Listar(ctx context.Context) ([]dto.ClienteResponse, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return mapClientes(list), nil
}

func (s *clienteService) ObterPorID(ctx context.Context, id uuid.UUID) (dto.ClienteResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return dto.ClienteResponse{}, notFoundOr(err, "Cliente", id)
	}
	return mapCliente(*c), nil
}

func (s *clienteService) Pesquisar(ctx context.Context, filter dto.ClienteFilter) ([]dto.ClienteResponse, error) {
	filter.Nome = strings.TrimSpace(filter.Nome)
	filter.Email = strings.TrimSpace(filter.Email)
	list, err := s.repo.Search(ctx, filter)
	if err != nil {
		return nil, err
	}
	zerolog.Ctx(ctx).Debug().Int("resultados", len(list)).Msg("pesquisa de clientes")
	return mapClientes(list), nil
}

func (s *clienteService) ListarVendas(ctx context.Context, id uuid.UUID) ([]dto.VendaResponse, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, notFoundOr(err, "Cliente", id)
	}
	list, err := s.vendaRepo.ListByCliente(ctx, id)
	if err != nil {
		return nil, err
	}
	return mapVendas(list), nil
}

func (s *clienteService) Atualizar(ctx context.Context, id uuid.UUID, req dto.ClienteRequest) (dto.ClienteResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return dto.ClienteResponse{}, notFoundOr(err, "Cliente", id)
	}

	email := NormalizeEmail(req.Email)
	if err := s.checkEmail(ctx, email, id); err != nil {
		return dto.ClienteResponse{}, err
	}

	c.Nome = strings.TrimSpace(req.Nome)
	c.Email = email
	c.Telefone = strings.TrimSpace(req.Telefone)
	c.Endereco = strings.TrimSpace(req.Endereco)
	if err := s.repo.Update(ctx, c); err != nil {
		if repository.IsUniqueViolation(err, repository.UniqueClienteEmail...) {
			return dto.ClienteResponse{}, emailDuplicado(email, true)
		}
		return dto.ClienteResponse{}, err
	}
	return mapCliente(*c), nil
}

func (s *clienteService) Excluir(ctx context.Context, id uuid.UUID) error {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return notFoundOr(err, "Cliente", id)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if repository.IsForeignKeyViolation(err) {
			return apierror.NewBusiness(fmt.Sprintf(
				"Não é possível excluir o cliente '%s' pois possui vendas associadas", c.Nome))
		}
		return err
	}
	zerolog.Ctx(ctx).Info().Str("cliente_id", id.String()).Msg("cliente excluído")
	return nil
}

func mapClientes(list []model.Cliente) []dto.ClienteResponse {
	out := make([]dto.ClienteResponse, 0, len(list))
	for _, c := range list {
		out = append(out, mapCliente(c))
	}
	return out
}
