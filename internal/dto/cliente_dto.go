package dto

import "github.com/google/uuid"

// ── Request DTOs ──────────────────────────────────────────────────────────────

// ClienteRequest is used for both create and full update.
type ClienteRequest struct {
	Nome     string `json:"nome"     validate:"required,min=2,max=100,nome_cliente"`
	Email    string `json:"email"    validate:"required,min=5,max=100,email,email_dominio"`
	Telefone string `json:"telefone" validate:"required,telefone_br"`
	Endereco string `json:"endereco" validate:"max=200"`
}

// ClienteFilter drives GET /clientes/search. Both terms are optional
// case-insensitive "contains" matches.
type ClienteFilter struct {
	Nome  string `form:"nome"`
	Email string `form:"email"`
}

// ── Response DTOs ─────────────────────────────────────────────────────────────

type ClienteResponse struct {
	ID       uuid.UUID `json:"id"`
	Nome     string    `json:"nome"`
	Email    string    `json:"email"`
	Telefone string    `json:"telefone"`
	Endereco string    `json:"endereco"`
}

type ClienteResumo struct {
	ID    uuid.UUID `json:"id"`
	Nome  string    `json:"nome"`
	Email string    `json:"email"`
}
