package handler

import (
	"net/http"

	"simplesales/internal/apierror"
	"simplesales/internal/dto"
	"simplesales/internal/service"

	"github.com/gin-gonic/gin"
)

type ClientesHandler struct{ svc service.ClienteService }

func NewClientesHandler(svc service.ClienteService) *ClientesHandler {
	return &ClientesHandler{svc: svc}
}

func (h *ClientesHandler) Criar(c *gin.Context) {
	var req dto.ClienteRequest
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

func (h *ClientesHandler) Listar(c *gin.Context) {
	resp, err := h.svc.Listar(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ClientesHandler) Pesquisar(c *gin.Context) {
	var filter dto.ClienteFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		_ = c.Error(apierror.NewRequest("Parâmetros de pesquisa inválidos"))
		return
	}
	resp, err := h.svc.Pesquisar(c.Request.Context(), filter)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ClientesHandler) ObterPorID(c *gin.Context) {
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

func (h *ClientesHandler) ListarVendas(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.ListarVendas(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ClientesHandler) Atualizar(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.ClienteRequest
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

func (h *ClientesHandler) Excluir(c *gin.Context) {
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
