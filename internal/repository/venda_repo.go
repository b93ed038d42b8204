package repository

import (
	"context"

	"simplesales/internal/dto"
	"simplesales/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type VendaRepository interface {
	// CreateTx inserts the venda together with its Itens.
	CreateTx(ctx context.Context, tx *gorm.DB, v *model.Venda) error
	// FindByID loads Cliente and Itens.Produto.
	FindByID(ctx context.Context, id uuid.UUID) (*model.Venda, error)
	// FindByIDForUpdateTx locks the venda row and loads its Itens.
	FindByIDForUpdateTx(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.Venda, error)
	List(ctx context.Context) ([]model.Venda, error)
	ListByCliente(ctx context.Context, clienteID uuid.UUID) ([]model.Venda, error)
	ListByStatus(ctx context.Context, status model.StatusVenda) ([]model.Venda, error)
	ListByPeriodo(ctx context.Context, periodo dto.PeriodoFilter) ([]model.Venda, error)
	UpdateStatusTx(ctx context.Context, tx *gorm.DB, id uuid.UUID, status model.StatusVenda) error
	// DeleteTx removes the venda and its Itens.
	DeleteTx(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type vendaRepo struct{ db *gorm.DB }

func NewVendaRepository(db *gorm.DB) VendaRepository { return &vendaRepo{db: db} }

func (r *vendaRepo) CreateTx(ctx context.Context, tx *gorm.DB, v *model.Venda) error {
	return conn(ctx, r.db, tx).Create(v).Error
}

func (r *vendaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Venda, error) {
	return findByID[model.Venda](ctx, r.db, id, "Cliente", "Itens.Produto")
}

func (r *vendaRepo) FindByIDForUpdateTx(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.Venda, error) {
	var v model.Venda
	err := conn(ctx, r.db, tx).Clauses(clause.Locking{Strength: "UPDATE"}).
		Preload("Itens").First(&v, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *vendaRepo) withDetails(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Cliente").Preload("Itens.Produto")
}

func (r *vendaRepo) List(ctx context.Context) ([]model.Venda, error) {
	var list []model.Venda
	err := r.withDetails(ctx).Order("data_venda DESC").Find(&list).Error
	return list, err
}

func (r *vendaRepo) ListByCliente(ctx context.Context, clienteID uuid.UUID) ([]model.Venda, error) {
	var list []model.Venda
	err := r.withDetails(ctx).Where("cliente_id = ?", clienteID).Order("data_venda DESC").Find(&list).Error
	return list, err
}

func (r *vendaRepo) ListByStatus(ctx context.Context, status model.StatusVenda) ([]model.Venda, error) {
	var list []model.Venda
	err := r.withDetails(ctx).Where("status = ?", status).Order("data_venda DESC").Find(&list).Error
	return list, err
}

func (r *vendaRepo) ListByPeriodo(ctx context.Context, periodo dto.PeriodoFilter) ([]model.Venda, error) {
	var list []model.Venda
	cond := "data_venda >= ? AND data_venda <= ?"
	if periodo.FimExclusivo {
		cond = "data_venda >= ? AND data_venda < ?"
	}
	err := r.withDetails(ctx).
		Where(cond, periodo.Inicio, periodo.Fim).
		Order("data_venda DESC").Find(&list).Error
	return list, err
}

func (r *vendaRepo) UpdateStatusTx(ctx context.Context, tx *gorm.DB, id uuid.UUID, status model.StatusVenda) error {
	return conn(ctx, r.db, tx).Model(&model.Venda{}).Where("id = ?", id).Update("status", status).Error
}

func (r *vendaRepo) DeleteTx(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	db := conn(ctx, r.db, tx)
	if err := db.Where("venda_id = ?", id).Delete(&model.ItemVenda{}).Error; err != nil {
		return err
	}
	return db.Delete(&model.Venda{}, "id = ?", id).Error
}
