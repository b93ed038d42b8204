package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Produto is a sellable item. EstoqueAtual is only moved by the sale
// lifecycle (and by a full product update).
type Produto struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nome         string          `gorm:"type:varchar(100);not null;index"`
	Descricao    string          `gorm:"type:varchar(500);not null;default:''"`
	Preco        decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	EstoqueAtual int             `gorm:"not null;default:0"`
	Ativo        bool            `gorm:"not null;default:true;index"`
	CategoriaID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Categoria *Categoria `gorm:"foreignKey:CategoriaID;constraint:OnDelete:RESTRICT"`
}

func (Produto) TableName() string { return "produtos" }
