package model

import (
	"time"

	"github.com/google/uuid"
)

// Categoria groups products. Nome is unique case-insensitively
// (uni_categorias_nome is an expression index on lower(nome)).
type Categoria struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nome      string    `gorm:"type:varchar(50);not null"`
	Descricao string    `gorm:"type:varchar(200);not null;default:''"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Produtos []Produto `gorm:"foreignKey:CategoriaID"`
}

// TableName overrides GORM's default pluralization for Portuguese names.
func (Categoria) TableName() string { return "categorias" }
