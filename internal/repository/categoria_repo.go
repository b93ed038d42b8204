package repository

import (
	"context"

	"simplesales/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UniqueCategoriaNome is the expression index on lower(nome).
const UniqueCategoriaNome = "uni_categorias_nome"

// CategoriaRepository defines CRUD operations for Categoria.
type CategoriaRepository interface {
	Create(ctx context.Context, c *model.Categoria) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Categoria, error)
	// FindByNome matches case-insensitively.
	FindByNome(ctx context.Context, nome string) (*model.Categoria, error)
	List(ctx context.Context) ([]model.Categoria, error)
	Update(ctx context.Context, c *model.Categoria) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountProdutos(ctx context.Context, id uuid.UUID) (int64, error)
}

type categoriaRepo struct{ db *gorm.DB }

func NewCategoriaRepository(db *gorm.DB) CategoriaRepository { return &categoriaRepo{db: db} }

func (r *categoriaRepo) Create(ctx context.Context, c *model.Categoria) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *categoriaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Categoria, error) {
	return findByID[model.Categoria](ctx, r.db, id)
}

func (r *categoriaRepo) FindByNome(ctx context.Context, nome string) (*model.Categoria, error) {
	var c model.Categoria
	err := r.db.WithContext(ctx).Where("lower(nome) = lower(?)", nome).First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *categoriaRepo) List(ctx context.Context) ([]model.Categoria, error) {
	var list []model.Categoria
	err := r.db.WithContext(ctx).Order("nome asc").Find(&list).Error
	return list, err
}

func (r *categoriaRepo) Update(ctx context.Context, c *model.Categoria) error {
	return r.db.WithContext(ctx).Model(c).Select("nome", "descricao", "updated_at").Updates(c).Error
}

func (r *categoriaRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Categoria{}, "id = ?", id).Error
}

func (r *categoriaRepo) CountProdutos(ctx context.Context, id uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Produto{}).Where("categoria_id = ?", id).Count(&n).Error
	return n, err
}
