package repository

import (
	"context"

	"simplesales/internal/dto"
	"simplesales/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UniqueClienteEmail names the unique indexes on clientes.email.
var UniqueClienteEmail = []string{"uni_clientes_email", "uni_clientes_email_lower"}

type ClienteRepository interface {
	Create(ctx context.Context, c *model.Cliente) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Cliente, error)
	// FindByEmail expects an already normalized (trimmed, lower-case) email.
	FindByEmail(ctx context.Context, email string) (*model.Cliente, error)
	List(ctx context.Context) ([]model.Cliente, error)
	Search(ctx context.Context, filter dto.ClienteFilter) ([]model.Cliente, error)
	Update(ctx context.Context, c *model.Cliente) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type clienteRepo struct{ db *gorm.DB }

func NewClienteRepository(db *gorm.DB) ClienteRepository { return &clienteRepo{db: db} }

func (r *clienteRepo) Create(ctx context.Context, c *model.Cliente) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *clienteRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Cliente, error) {
	return findByID[model.Cliente](ctx, r.db, id)
}

func (r *clienteRepo) FindByEmail(ctx context.Context, email string) (*model.Cliente, error) {
	var c model.Cliente
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *clienteRepo) List(ctx context.Context) ([]model.Cliente, error) {
	var list []model.Cliente
	err := r.db.WithContext(ctx).Order("nome asc").Find(&list).Error
	return list, err
}

func (r *clienteRepo) Search(ctx context.Context, filter dto.ClienteFilter) ([]model.Cliente, error) {
	var list []model.Cliente
	q := r.db.WithContext(ctx).Model(&model.Cliente{})
	if filter.Nome != "" {
		q = q.Where("nome ILIKE ?", "%"+escapeLike(filter.Nome)+"%")
	}
	if filter.Email != "" {
		q = q.Where("email ILIKE ?", "%"+escapeLike(filter.Email)+"%")
	}
	err := q.Order("nome asc").Find(&list).Error
	return list, err
}

func (r *clienteRepo) Update(ctx context.Context, c *model.Cliente) error {
	return r.db.WithContext(ctx).Model(c).
		Select("nome", "email", "telefone", "endereco", "updated_at").Updates(c).Error
}

func (r *clienteRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Cliente{}, "id = ?", id).Error
}
