package service

import (
	"context"
	"fmt"
	"time"

	"simplesales/internal/apierror"
	"simplesales/internal/dto"
	"simplesales/internal/model"
	"simplesales/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	maxItensPorVenda     = 50
	maxQuantidadePorItem = 1000
)

// Notifier receives sale lifecycle events after they are committed.
// Delivery is best-effort; a failed enqueue never fails the operation.
type Notifier interface {
	EnqueueNotificacaoVenda(ctx context.Context, vendaID uuid.UUID, status model.StatusVenda) error
}

// VendaService owns the sale workflow: creation with stock reservation and
// the Pendente → Confirmada → Entregue / Cancelada state machine.
type VendaService interface {
	Criar(ctx context.Context, req dto.CriarVendaRequest) (dto.VendaResponse, error)
	ObterPorID(ctx context.Context, id uuid.UUID) (dto.VendaResponse, error)
	Listar(ctx context.Context) ([]dto.VendaResponse, error)
	ListarPorCliente(ctx context.Context, clienteID uuid.UUID) ([]dto.VendaResponse, error)
	ListarPorStatus(ctx context.Context, status model.StatusVenda) ([]dto.VendaResponse, error)
	ListarPorPeriodo(ctx context.Context, periodo dto.PeriodoFilter) ([]dto.VendaResponse, error)
	Confirmar(ctx context.Context, id uuid.UUID) error
	Cancelar(ctx context.Context, id uuid.UUID) error
	Entregar(ctx context.Context, id uuid.UUID) error
	Excluir(ctx context.Context, id uuid.UUID) error
}

type vendaService struct {
	uow         repository.UnitOfWork
	repo        repository.VendaRepository
	clienteRepo repository.ClienteRepository
	produtoRepo repository.ProdutoRepository
	notifier    Notifier
	now         func() time.Time
}

// NewVendaService wires the sale workflow. notifier may be nil.
func NewVendaService(
	uow repository.UnitOfWork,
	repo repository.VendaRepository,
	clienteRepo repository.ClienteRepository,
	produtoRepo repository.ProdutoRepository,
	notifier Notifier,
) VendaService {
	return &vendaService{
		uow:         uow,
		repo:        repo,
		clienteRepo: clienteRepo,
		produtoRepo: produtoRepo,
		notifier:    notifier,
		now:         time.Now,
	}
}

// ── Criar ─────────────────────────────────────────────────────────────────────
//   1. validate item list shape
//   2. cliente must exist
//   3. BEGIN TX: lock products, all must exist and be active
//   4. first shortfall in request order fails the sale
//   5. create venda + itens, guarded stock decrement per line
//   6. COMMIT
//   7. (async) notification

func (s *vendaService) Criar(ctx context.Context, req dto.CriarVendaRequest) (dto.VendaResponse, error) {
	logger := zerolog.Ctx(ctx).With().Str("cliente_id", req.ClienteID.String()).Logger()

	if err := validarItens(req.Itens); err != nil {
		return dto.VendaResponse{}, err
	}

	cliente, err := s.clienteRepo.FindByID(ctx, req.ClienteID)
	if err != nil {
		return dto.VendaResponse{}, notFoundOr(err, "Cliente", req.ClienteID)
	}

	ids := make([]uuid.UUID, len(req.Itens))
	for i, it := range req.Itens {
		ids[i] = it.ProdutoID
	}

	var (
		venda    model.Venda
		produtos map[uuid.UUID]model.Produto
	)
	txErr := s.uow.Do(ctx, func(tx *gorm.DB) error {
		list, err := s.produtoRepo.FindByIDsForUpdateTx(ctx, tx, ids)
		if err != nil {
			return err
		}
		produtos = make(map[uuid.UUID]model.Produto, len(list))
		for _, p := range list {
			produtos[p.ID] = p
		}

		var invalidos []uuid.UUID
		for _, id := range ids {
			if p, ok := produtos[id]; !ok || !p.Ativo {
				invalidos = append(invalidos, id)
			}
		}
		if len(invalidos) > 0 {
			return apierror.NewBusiness("Um ou mais produtos são inválidos ou inativos").
				WithDetails(map[string]any{"produtosInvalidos": invalidos})
		}

		for _, it := range req.Itens {
			p := produtos[it.ProdutoID]
			if it.Quantidade > p.EstoqueAtual {
				return apierror.NewInsufficientStock(p.Nome, it.Quantidade, p.EstoqueAtual)
			}
		}

		venda = model.Venda{
			ClienteID: cliente.ID,
			DataVenda: s.now().UTC(),
			Status:    model.StatusPendente,
			Itens:     make([]model.ItemVenda, 0, len(req.Itens)),
		}
		total := decimal.Zero
		for _, it := range req.Itens {
			item := model.ItemVenda{
				ProdutoID:     it.ProdutoID,
				Quantidade:    it.Quantidade,
				PrecoUnitario: produtos[it.ProdutoID].Preco,
			}
			total = total.Add(item.Subtotal())
			venda.Itens = append(venda.Itens, item)
		}
		venda.ValorTotal = total

		if err := s.repo.CreateTx(ctx, tx, &venda); err != nil {
			return err
		}

		for _, it := range req.Itens {
			ok, err := s.produtoRepo.DecrementStockTx(ctx, tx, it.ProdutoID, it.Quantidade)
			if err != nil {
				return fmt.Errorf("baixa de estoque do produto %s: %w", it.ProdutoID, err)
			}
			if !ok {
				p := produtos[it.ProdutoID]
				return apierror.NewInsufficientStock(p.Nome, it.Quantidade, p.EstoqueAtual)
			}
		}
		return nil
	})
	if txErr != nil {
		return dto.VendaResponse{}, txErr
	}

	venda.Cliente = cliente
	for i := range venda.Itens {
		p := produtos[venda.Itens[i].ProdutoID]
		venda.Itens[i].Produto = &p
	}

	logger.Info().Str("venda_id", venda.ID.String()).Str("valor_total", venda.ValorTotal.StringFixed(2)).
		Int("itens", len(venda.Itens)).Msg("venda criada")
	s.notify(ctx, venda.ID, venda.Status)
	return mapVenda(venda), nil
}

// validarItens repeats the request-level rules so the invariants hold for
// any caller, not only the HTTP layer.
func validarItens(itens []dto.ItemVendaRequest) error {
	verr := apierror.NewValidation()
	switch {
	case len(itens) == 0:
		verr.Add("itens", "A venda deve conter pelo menos um item")
	case len(itens) > maxItensPorVenda:
		verr.Add("itens", fmt.Sprintf("A venda não pode conter mais de %d itens", maxItensPorVenda))
	}

	seen := make(map[uuid.UUID]struct{}, len(itens))
	dupReported := false
	for i, it := range itens {
		if _, dup := seen[it.ProdutoID]; dup && !dupReported {
			verr.Add("itens", "Não é possível adicionar o mesmo produto mais de uma vez")
			dupReported = true
		}
		seen[it.ProdutoID] = struct{}{}
		if it.Quantidade <= 0 || it.Quantidade > maxQuantidadePorItem {
			verr.Add(fmt.Sprintf("itens[%d].quantidade", i),
				fmt.Sprintf("Quantidade deve estar entre 1 e %d", maxQuantidadePorItem))
		}
	}
	if verr.HasErrors() {
		return verr
	}
	return nil
}

// ── Queries ───────────────────────────────────────────────────────────────────

func (s *vendaService) ObterPorID(ctx context.Context, id uuid.UUID) (dto.VendaResponse, error) {
	v, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return dto.VendaResponse{}, notFoundOr(err, "Venda", id)
	}
	return mapVenda(*v), nil
}

func (s *vendaService) Listar(ctx context.Context) ([]dto.VendaResponse, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return mapVendas(list), nil
}

func (s *vendaService) ListarPorCliente(ctx context.Context, clienteID uuid.UUID) ([]dto.VendaResponse, error) {
	list, err := s.repo.ListByCliente(ctx, clienteID)
	if err != nil {
		return nil, err
	}
	return mapVendas(list), nil
}

func (s *vendaService) ListarPorStatus(ctx context.Context, status model.StatusVenda) ([]dto.VendaResponse, error) {
	list, err := s.repo.ListByStatus(ctx, status)
	if err != nil {
		return nil, err
	}
	return mapVendas(list), nil
}

func (s *vendaService) ListarPorPeriodo(ctx context.Context, periodo dto.PeriodoFilter) ([]dto.VendaResponse, error) {
	if periodo.Fim.Before(periodo.Inicio) {
		verr := apierror.NewValidation()
		verr.Add("dataFim", "Data final deve ser maior ou igual à data inicial")
		return nil, verr
	}
	list, err := s.repo.ListByPeriodo(ctx, periodo)
	if err != nil {
		return nil, err
	}
	return mapVendas(list), nil
}

// ── State machine ─────────────────────────────────────────────────────────────

func (s *vendaService) Confirmar(ctx context.Context, id uuid.UUID) error {
	return s.transition(ctx, id, "Confirmar", model.StatusConfirmada,
		func(v *model.Venda) error {
			if v.Status != model.StatusPendente {
				return apierror.NewInvalidOperation(string(v.Status), "Confirmar",
					"Apenas vendas pendentes podem ser confirmadas")
			}
			return nil
		}, nil)
}

func (s *vendaService) Entregar(ctx context.Context, id uuid.UUID) error {
	return s.transition(ctx, id, "Entregar", model.StatusEntregue,
		func(v *model.Venda) error {
			if v.Status != model.StatusConfirmada {
				return apierror.NewInvalidOperation(string(v.Status), "Entregar",
					"Apenas vendas confirmadas podem ser entregues")
			}
			return nil
		}, nil)
}

// Cancelar returns every line quantity to stock. A sale already cancelled
// is rejected so its stock is never restored twice.
func (s *vendaService) Cancelar(ctx context.Context, id uuid.UUID) error {
	return s.transition(ctx, id, "Cancelar", model.StatusCancelada,
		func(v *model.Venda) error {
			switch v.Status {
			case model.StatusEntregue:
				return apierror.NewInvalidOperation(string(v.Status), "Cancelar",
					"Não é possível cancelar uma venda já entregue")
			case model.StatusCancelada:
				return apierror.NewInvalidOperation(string(v.Status), "Cancelar",
					"A venda já está cancelada")
			}
			return nil
		}, s.devolverEstoque)
}

// transition loads and locks the venda, runs guard, then the optional side
// effect, then persists the new status, all in one transaction.
func (s *vendaService) transition(
	ctx context.Context,
	id uuid.UUID,
	op string,
	target model.StatusVenda,
	guard func(v *model.Venda) error,
	effect func(ctx context.Context, tx *gorm.DB, v *model.Venda) error,
) error {
	logger := zerolog.Ctx(ctx).With().Str("venda_id", id.String()).Str("operacao", op).Logger()

	var from model.StatusVenda
	err := s.uow.Do(ctx, func(tx *gorm.DB) error {
		v, err := s.repo.FindByIDForUpdateTx(ctx, tx, id)
		if err != nil {
			return notFoundOr(err, "Venda", id)
		}
		from = v.Status
		if err := guard(v); err != nil {
			return err
		}
		if effect != nil {
			if err := effect(ctx, tx, v); err != nil {
				return err
			}
		}
		return s.repo.UpdateStatusTx(ctx, tx, id, target)
	})
	if err != nil {
		logger.Warn().Err(err).Str("status_atual", string(from)).Msg("transição de venda recusada")
		return err
	}

	logger.Info().Str("de", string(from)).Str("para", string(target)).Msg("status da venda atualizado")
	s.notify(ctx, id, target)
	return nil
}

func (s *vendaService) devolverEstoque(ctx context.Context, tx *gorm.DB, v *model.Venda) error {
	for _, it := range v.Itens {
		if err := s.produtoRepo.IncrementStockTx(ctx, tx, it.ProdutoID, it.Quantidade); err != nil {
			return fmt.Errorf("estorno de estoque do produto %s: %w", it.ProdutoID, err)
		}
	}
	zerolog.Ctx(ctx).Debug().Str("venda_id", v.ID.String()).Int("itens", len(v.Itens)).Msg("estoque revertido")
	return nil
}

// Excluir removes a Pendente or Cancelada sale. Pendente sales give their
// stock back first; Cancelada ones already did.
func (s *vendaService) Excluir(ctx context.Context, id uuid.UUID) error {
	err := s.uow.Do(ctx, func(tx *gorm.DB) error {
		v, err := s.repo.FindByIDForUpdateTx(ctx, tx, id)
		if err != nil {
			return notFoundOr(err, "Venda", id)
		}
		switch v.Status {
		case model.StatusConfirmada, model.StatusEntregue:
			return apierror.NewBusiness("Não é possível excluir vendas confirmadas ou entregues").
				WithDetails(map[string]any{"status": string(v.Status)})
		case model.StatusPendente:
			if err := s.devolverEstoque(ctx, tx, v); err != nil {
				return err
			}
		}
		return s.repo.DeleteTx(ctx, tx, id)
	})
	if err != nil {
		return err
	}
	zerolog.Ctx(ctx).Warn().Str("venda_id", id.String()).Msg("venda excluída")
	return nil
}

func (s *vendaService) notify(ctx context.Context, id uuid.UUID, status model.StatusVenda) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.EnqueueNotificacaoVenda(ctx, id, status); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("venda_id", id.String()).Msg("falha ao enfileirar notificação")
	}
}
