package handler

import (
	"net/http"

	"simplesales/internal/dto"
	"simplesales/internal/service"

	"github.com/gin-gonic/gin"
)

type ProdutosHandler struct{ svc service.ProdutoService }

func NewProdutosHandler(svc service.ProdutoService) *ProdutosHandler {
	return &ProdutosHandler{svc: svc}
}

func (h *ProdutosHandler) Criar(c *gin.Context) {
	var req dto.ProdutoRequest
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

func (h *ProdutosHandler) Listar(c *gin.Context) {
	resp, err := h.svc.ListarAtivos(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProdutosHandler) ObterPorID(c *gin.Context) {
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

func (h *ProdutosHandler) ListarPorCategoria(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.ListarPorCategoria(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Pesquisar handles GET /produtos/search?nome=&precoMin=&precoMax=.
func (h *ProdutosHandler) Pesquisar(c *gin.Context) {
	filter := dto.ProdutoFilter{Nome: c.Query("nome")}
	var ok bool
	if filter.PrecoMin, ok = queryDecimal(c, "precoMin"); !ok {
		return
	}
	if filter.PrecoMax, ok = queryDecimal(c, "precoMax"); !ok {
		return
	}
	resp, err := h.svc.Pesquisar(c.Request.Context(), filter)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProdutosHandler) BaixoEstoque(c *gin.Context) {
	limite, ok := queryInt(c, "limite")
	if !ok {
		return
	}
	resp, err := h.svc.BaixoEstoque(c.Request.Context(), limite)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProdutosHandler) Atualizar(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.ProdutoRequest
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

func (h *ProdutosHandler) Ativar(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Ativar(c.Request.Context(), id); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ProdutosHandler) Desativar(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Desativar(c.Request.Context(), id); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ProdutosHandler) Excluir(c *gin.Context) {
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
