package dto

import "github.com/google/uuid"

// ── Request DTOs ──────────────────────────────────────────────────────────────

// CategoriaRequest is used for both create and full update.
type CategoriaRequest struct {
	Nome      string `json:"nome"      validate:"required,min=2,max=50,nome_categoria"`
	Descricao string `json:"descricao" validate:"max=200"`
}

// ── Response DTOs ─────────────────────────────────────────────────────────────

type CategoriaResponse struct {
	ID        uuid.UUID `json:"id"`
	Nome      string    `json:"nome"`
	Descricao string    `json:"descricao"`
}

type CategoriaResumo struct {
	ID   uuid.UUID `json:"id"`
	Nome string    `json:"nome"`
}
