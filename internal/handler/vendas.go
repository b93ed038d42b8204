package handler

import (
	"context"
	"net/http"
	"strings"

	"simplesales/internal/apierror"
	"simplesales/internal/dto"
	"simplesales/internal/model"
	"simplesales/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type VendasHandler struct{ svc service.VendaService }

func NewVendasHandler(svc service.VendaService) *VendasHandler {
	return &VendasHandler{svc: svc}
}

func (h *VendasHandler) Criar(c *gin.Context) {
	var req dto.CriarVendaRequest
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

func (h *VendasHandler) Listar(c *gin.Context) {
	resp, err := h.svc.Listar(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *VendasHandler) ObterPorID(c *gin.Context) {
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

func (h *VendasHandler) ListarPorCliente(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.ListarPorCliente(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListarPorStatus accepts the status name (any case) or its ordinal 0..3.
func (h *VendasHandler) ListarPorStatus(c *gin.Context) {
	status, ok := model.ParseStatusVenda(c.Param("status"))
	if !ok {
		_ = c.Error(apierror.NewRequest(
			"Status inválido: use Pendente, Confirmada, Cancelada, Entregue ou 0..3"))
		return
	}
	resp, err := h.svc.ListarPorStatus(c.Request.Context(), status)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListarPorPeriodo handles GET /vendas/periodo?dataInicio=&dataFim=. A bare
// date for dataFim includes that whole day.
func (h *VendasHandler) ListarPorPeriodo(c *gin.Context) {
	rawInicio := strings.TrimSpace(c.Query("dataInicio"))
	rawFim := strings.TrimSpace(c.Query("dataFim"))
	if rawInicio == "" || rawFim == "" {
		verr := apierror.NewValidation()
		if rawInicio == "" {
			verr.Add("dataInicio", "O campo é obrigatório")
		}
		if rawFim == "" {
			verr.Add("dataFim", "O campo é obrigatório")
		}
		_ = c.Error(verr)
		return
	}

	inicio, _, err := parseDate(rawInicio)
	if err != nil {
		_ = c.Error(apierror.NewRequest("dataInicio inválida: " + rawInicio))
		return
	}
	fim, fimDateOnly, err := parseDate(rawFim)
	if err != nil {
		_ = c.Error(apierror.NewRequest("dataFim inválida: " + rawFim))
		return
	}
	periodo := dto.PeriodoFilter{Inicio: inicio, Fim: fim}
	if fimDateOnly {
		periodo.Fim = fim.AddDate(0, 0, 1)
		periodo.FimExclusivo = true
	}

	resp, err := h.svc.ListarPorPeriodo(c.Request.Context(), periodo)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *VendasHandler) Confirmar(c *gin.Context) { h.transition(c, h.svc.Confirmar) }
func (h *VendasHandler) Cancelar(c *gin.Context)  { h.transition(c, h.svc.Cancelar) }
func (h *VendasHandler) Entregar(c *gin.Context)  { h.transition(c, h.svc.Entregar) }
func (h *VendasHandler) Excluir(c *gin.Context)   { h.transition(c, h.svc.Excluir) }

func (h *VendasHandler) transition(c *gin.Context, op func(ctx context.Context, id uuid.UUID) error) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := op(c.Request.Context(), id); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}
