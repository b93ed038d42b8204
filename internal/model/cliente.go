package model

import (
	"time"

	"github.com/google/uuid"
)

// Cliente is a customer. Email is stored lower-cased and trimmed.
type Cliente struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nome      string    `gorm:"type:varchar(100);not null;index"`
	Email     string    `gorm:"type:varchar(100);not null;uniqueIndex:uni_clientes_email"`
	Telefone  string    `gorm:"type:varchar(20);not null"`
	Endereco  string    `gorm:"type:varchar(200);not null;default:''"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Vendas []Venda `gorm:"foreignKey:ClienteID"`
}

func (Cliente) TableName() string { return "clientes" }
