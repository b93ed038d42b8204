package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ── Request DTOs ──────────────────────────────────────────────────────────────

type ItemVendaRequest struct {
	ProdutoID  uuid.UUID `json:"produtoId"  validate:"required"`
	Quantidade int       `json:"quantidade" validate:"gt=0,lte=1000"`
}

type CriarVendaRequest struct {
	ClienteID uuid.UUID          `json:"clienteId" validate:"required"`
	Itens     []ItemVendaRequest `json:"itens"     validate:"required,min=1,max=50,itens_unicos,dive"`
}

// PeriodoFilter is an interval on data_venda. Fim is inclusive unless
// FimExclusivo is set, which a date-only dataFim uses to cover the whole day.
type PeriodoFilter struct {
	Inicio       time.Time
	Fim          time.Time
	FimExclusivo bool
}

// Contem reports whether t falls inside the interval.
func (p PeriodoFilter) Contem(t time.Time) bool {
	if t.Before(p.Inicio) {
		return false
	}
	if p.FimExclusivo {
		return t.Before(p.Fim)
	}
	return !t.After(p.Fim)
}

// ── Response DTOs ─────────────────────────────────────────────────────────────

type ItemVendaResponse struct {
	ID            uuid.UUID       `json:"id"`
	ProdutoID     uuid.UUID       `json:"produtoId"`
	ProdutoNome   string          `json:"produtoNome"`
	Quantidade    int             `json:"quantidade"`
	PrecoUnitario decimal.Decimal `json:"precoUnitario"`
	Subtotal      decimal.Decimal `json:"subtotal"`
}

type VendaResponse struct {
	ID         uuid.UUID           `json:"id"`
	Cliente    ClienteResumo       `json:"cliente"`
	DataVenda  time.Time           `json:"dataVenda"`
	ValorTotal decimal.Decimal     `json:"valorTotal"`
	Status     string              `json:"status"`
	Itens      []ItemVendaResponse `json:"itens"`
}
