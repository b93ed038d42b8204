package dto

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

// ProdutoRequest is used for create and for the full-replacement update.
type ProdutoRequest struct {
	Nome         string          `json:"nome"         validate:"required,min=2,max=100,nome_produto"`
	Descricao    string          `json:"descricao"    validate:"max=500"`
	Preco        decimal.Decimal `json:"preco"        validate:"required,gt=0,lte=999999.99"`
	EstoqueAtual int             `json:"estoqueAtual" validate:"min=0,max=999999"`
	CategoriaID  uuid.UUID       `json:"categoriaId"  validate:"required"`
}

// ─── Filters ─────────────────────────────────────────────────────────────────

// ProdutoFilter drives GET /produtos/search over active products. Zero
// values mean "no constraint".
type ProdutoFilter struct {
	Nome     string
	PrecoMin *decimal.Decimal
	PrecoMax *decimal.Decimal
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProdutoResponse struct {
	ID           uuid.UUID       `json:"id"`
	Nome         string          `json:"nome"`
	Descricao    string          `json:"descricao"`
	Preco        decimal.Decimal `json:"preco"`
	EstoqueAtual int             `json:"estoqueAtual"`
	Ativo        bool            `json:"ativo"`
	Categoria    CategoriaResumo `json:"categoria"`
}
