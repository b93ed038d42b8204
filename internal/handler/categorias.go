package handler

import (
	"net/http"

	"simplesales/internal/dto"
	"simplesales/internal/service"

	"github.com/gin-gonic/gin"
)

type CategoriasHandler struct{ svc service.CategoriaService }

func NewCategoriasHandler(svc service.CategoriaService) *CategoriasHandler {
	return &CategoriasHandler{svc: svc}
}

func (h *CategoriasHandler) Criar(c *gin.Context) {
	var req dto.CategoriaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Criar(c.Request.Context(), req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	created(c, resp.ID, resp)
}

func (h *CategoriasHandler) Listar(c *gin.Context) {
	resp, err := h.svc.Listar(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CategoriasHandler) ObterPorID(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.ObterPorID(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CategoriasHandler) ListarProdutos(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.ListarProdutos(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CategoriasHandler) Atualizar(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.CategoriaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Atualizar(c.Request.Context(), id, req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CategoriasHandler) Excluir(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Excluir(c.Request.Context(), id); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}
