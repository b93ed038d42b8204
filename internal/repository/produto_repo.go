package repository

import (
	"context"

	"simplesales/internal/dto"
	"simplesales/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProdutoRepository defines the data access contract for products.
// Services depend on this interface, not on the concrete GORM implementation,
// so unit tests can swap in an in-memory stub.
type ProdutoRepository interface {
	Create(ctx context.Context, p *model.Produto) error
	// FindByID returns the product with its Categoria, active or not.
	FindByID(ctx context.Context, id uuid.UUID) (*model.Produto, error)
	ListAtivos(ctx context.Context) ([]model.Produto, error)
	ListAtivosByCategoria(ctx context.Context, categoriaID uuid.UUID) ([]model.Produto, error)
	Search(ctx context.Context, filter dto.ProdutoFilter) ([]model.Produto, error)
	// ListBaixoEstoque returns active products with estoque_atual <= limite.
	ListBaixoEstoque(ctx context.Context, limite int) ([]model.Produto, error)
	Update(ctx context.Context, p *model.Produto) error
	SetAtivo(ctx context.Context, id uuid.UUID, ativo bool) error
	Delete(ctx context.Context, id uuid.UUID) error

	// Used inside transactions: callers must pass the tx instance.

	// FindByIDsForUpdateTx row-locks the given products (SELECT … FOR UPDATE)
	// in id order. Missing ids are simply absent from the result.
	FindByIDsForUpdateTx(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]model.Produto, error)
	// DecrementStockTx subtracts qty only if enough stock remains; ok is
	// false when the guard rejected the update.
	DecrementStockTx(ctx context.Context, tx *gorm.DB, id uuid.UUID, qty int) (ok bool, err error)
	IncrementStockTx(ctx context.Context, tx *gorm.DB, id uuid.UUID, qty int) error
}

type produtoRepo struct{ db *gorm.DB }

func NewProdutoRepository(db *gorm.DB) ProdutoRepository { return &produtoRepo{db: db} }

func (r *produtoRepo) Create(ctx context.Context, p *model.Produto) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *produtoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Produto, error) {
	return findByID[model.Produto](ctx, r.db, id, "Categoria")
}

func (r *produtoRepo) ativos(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Categoria").Where("ativo = true")
}

func (r *produtoRepo) ListAtivos(ctx context.Context) ([]model.Produto, error) {
	var list []model.Produto
	err := r.ativos(ctx).Order("nome ASC").Find(&list).Error
	return list, err
}

func (r *produtoRepo) ListAtivosByCategoria(ctx context.Context, categoriaID uuid.UUID) ([]model.Produto, error) {
	var list []model.Produto
	err := r.ativos(ctx).Where("categoria_id = ?", categoriaID).Order("nome ASC").Find(&list).Error
	return list, err
}

func (r *produtoRepo) Search(ctx context.Context, filter dto.ProdutoFilter) ([]model.Produto, error) {
	var list []model.Produto
	q := r.ativos(ctx)
	if filter.Nome != "" {
		q = q.Where("nome ILIKE ?", "%"+escapeLike(filter.Nome)+"%")
	}
	if filter.PrecoMin != nil {
		q = q.Where("preco >= ?", *filter.PrecoMin)
	}
	if filter.PrecoMax != nil {
		q = q.Where("preco <= ?", *filter.PrecoMax)
	}
	err := q.Order("nome ASC").Find(&list).Error
	return list, err
}

func (r *produtoRepo) ListBaixoEstoque(ctx context.Context, limite int) ([]model.Produto, error) {
	var list []model.Produto
	err := r.ativos(ctx).Where("estoque_atual <= ?", limite).
		Order("estoque_atual ASC, nome ASC").Find(&list).Error
	return list, err
}

func (r *produtoRepo) Update(ctx context.Context, p *model.Produto) error {
	return r.db.WithContext(ctx).Model(p).
		Select("nome", "descricao", "preco", "estoque_atual", "categoria_id", "updated_at").
		Updates(p).Error
}

func (r *produtoRepo) SetAtivo(ctx context.Context, id uuid.UUID, ativo bool) error {
	return r.db.WithContext(ctx).Model(&model.Produto{}).Where("id = ?", id).Update("ativo", ativo).Error
}

func (r *produtoRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Produto{}, "id = ?", id).Error
}

func (r *produtoRepo) FindByIDsForUpdateTx(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]model.Produto, error) {
	var list []model.Produto
	if len(ids) == 0 {
		return list, nil
	}
	err := conn(ctx, r.db, tx).Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id IN ?", ids).Order("id").Find(&list).Error
	return list, err
}

func (r *produtoRepo) DecrementStockTx(ctx context.Context, tx *gorm.DB, id uuid.UUID, qty int) (bool, error) {
	res := conn(ctx, r.db, tx).Model(&model.Produto{}).
		Where("id = ? AND estoque_atual >= ?", id, qty).
		Update("estoque_atual", gorm.Expr("estoque_atual - ?", qty))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *produtoRepo) IncrementStockTx(ctx context.Context, tx *gorm.DB, id uuid.UUID, qty int) error {
	return conn(ctx, r.db, tx).Model(&model.Produto{}).Where("id = ?", id).
		Update("estoque_atual", gorm.Expr("estoque_atual + ?", qty)).Error
}
