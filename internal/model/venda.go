package model

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StatusVenda is the lifecycle state of a Venda.
//
//	Pendente → Confirmada → Entregue
//	Pendente | Confirmada → Cancelada
type StatusVenda string

const (
	StatusPendente   StatusVenda = "Pendente"
	StatusConfirmada StatusVenda = "Confirmada"
	StatusCancelada  StatusVenda = "Cancelada"
	StatusEntregue   StatusVenda = "Entregue"
)

// statusOrdinal keeps the numeric form accepted by GET /vendas/status/{n}.
var statusOrdinal = []StatusVenda{StatusPendente, StatusConfirmada, StatusCancelada, StatusEntregue}

// ParseStatusVenda accepts a status name (any case) or its ordinal 0..3.
func ParseStatusVenda(s string) (StatusVenda, bool) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		if n >= 0 && n < len(statusOrdinal) {
			return statusOrdinal[n], true
		}
		return "", false
	}
	for _, st := range statusOrdinal {
		if strings.EqualFold(string(st), s) {
			return st, true
		}
	}
	return "", false
}

// Venda is a customer order. Itens are created with the Venda and never
// added or removed afterwards.
type Venda struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ClienteID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	DataVenda  time.Time       `gorm:"not null;index:idx_vendas_data_status,priority:1"`
	ValorTotal decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Status     StatusVenda     `gorm:"type:varchar(20);not null;default:'Pendente';index;index:idx_vendas_data_status,priority:2"`

	Cliente *Cliente    `gorm:"foreignKey:ClienteID;constraint:OnDelete:RESTRICT"`
	Itens   []ItemVenda `gorm:"foreignKey:VendaID;constraint:OnDelete:CASCADE"`
}

func (Venda) TableName() string { return "vendas" }

// ItemVenda is one product line of a Venda. PrecoUnitario is a copy of the
// product price at sale time.
type ItemVenda struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	VendaID       uuid.UUID       `gorm:"type:uuid;not null;index;uniqueIndex:idx_itens_venda_venda_produto"`
	ProdutoID     uuid.UUID       `gorm:"type:uuid;not null;index;uniqueIndex:idx_itens_venda_venda_produto"`
	Quantidade    int             `gorm:"not null"`
	PrecoUnitario decimal.Decimal `gorm:"type:decimal(10,2);not null"`

	Produto *Produto `gorm:"foreignKey:ProdutoID;constraint:OnDelete:RESTRICT"`
}

func (ItemVenda) TableName() string { return "itens_venda" }

// Subtotal is Quantidade × PrecoUnitario; it is never stored.
func (i ItemVenda) Subtotal() decimal.Decimal {
	return i.PrecoUnitario.Mul(decimal.NewFromInt(int64(i.Quantidade)))
}
