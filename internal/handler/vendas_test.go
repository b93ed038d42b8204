package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"simplesales/internal/apierror"
	"simplesales/internal/dto"
	"simplesales/internal/middleware"
	"simplesales/internal/model"
	"simplesales/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── Stubs ─────────────────────────────────────────────────────────────────────

// stubVendaService records the last arguments it received.
type stubVendaService struct {
	criarReq dto.CriarVendaRequest
	periodo  dto.PeriodoFilter
	status   model.StatusVenda
	err      error
	calls    []string
}

func (s *stubVendaService) Criar(_ context.Context, req dto.CriarVendaRequest) (dto.VendaResponse, error) {
	s.criarReq = req
	if s.err != nil {
		return dto.VendaResponse{}, s.err
	}
	return dto.VendaResponse{
		ID:         uuid.MustParse("3f2c1a9e-8b7d-4c6e-9a5f-1d2e3c4b5a69"),
		Status:     string(model.StatusPendente),
		ValorTotal: decimal.RequireFromString("259.98"),
	}, nil
}

func (s *stubVendaService) ObterPorID(_ context.Context, id uuid.UUID) (dto.VendaResponse, error) {
	if s.err != nil {
		return dto.VendaResponse{}, s.err
	}
	return dto.VendaResponse{ID: id}, nil
}

func (s *stubVendaService) Listar(context.Context) ([]dto.VendaResponse, error) {
	return []dto.VendaResponse{}, s.err
}

func (s *stubVendaService) ListarPorCliente(context.Context, uuid.UUID) ([]dto.VendaResponse, error) {
	return []dto.VendaResponse{}, s.err
}

func (s *stubVendaService) ListarPorStatus(_ context.Context, status model.StatusVenda) ([]dto.VendaResponse, error) {
	s.status = status
	return []dto.VendaResponse{}, s.err
}

func (s *stubVendaService) ListarPorPeriodo(_ context.Context, p dto.PeriodoFilter) ([]dto.VendaResponse, error) {
	s.periodo = p
	return []dto.VendaResponse{}, s.err
}

func (s *stubVendaService) op(name string) error {
	s.calls = append(s.calls, name)
	return s.err
}

func (s *stubVendaService) Confirmar(context.Context, uuid.UUID) error { return s.op("confirmar") }
func (s *stubVendaService) Cancelar(context.Context, uuid.UUID) error  { return s.op("cancelar") }
func (s *stubVendaService) Entregar(context.Context, uuid.UUID) error  { return s.op("entregar") }
func (s *stubVendaService) Excluir(context.Context, uuid.UUID) error   { return s.op("excluir") }

var _ service.VendaService = (*stubVendaService)(nil)

func newVendasEngine(svc service.VendaService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.ErrorHandler())
	h := NewVendasHandler(svc)
	g := r.Group("/api/vendas")
	g.POST("", h.Criar)
	g.GET("/periodo", h.ListarPorPeriodo)
	g.GET("/status/:status", h.ListarPorStatus)
	g.GET("/:id", h.ObterPorID)
	g.DELETE("/:id", h.Excluir)
	g.PATCH("/:id/confirmar", h.Confirmar)
	g.PATCH("/:id/cancelar", h.Cancelar)
	return r
}

func serve(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			_ = json.NewEncoder(&buf).Encode(b)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeProblem(t *testing.T, w *httptest.ResponseRecorder) apierror.Problem {
	t.Helper()
	assert.Equal(t, "application/problem+json", w.Header().Get("Content-Type"))
	var p apierror.Problem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &p))
	return p
}

// ── Tests ─────────────────────────────────────────────────────────────────────

func TestCriarVenda_Created(t *testing.T) {
	svc := &stubVendaService{}
	r := newVendasEngine(svc)
	clienteID := uuid.New()
	produtoID := uuid.New()

	w := serve(r, http.MethodPost, "/api/vendas", map[string]any{
		"clienteId": clienteID,
		"itens":     []map[string]any{{"produtoId": produtoID, "quantidade": 2}},
	})

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "/api/vendas/3f2c1a9e-8b7d-4c6e-9a5f-1d2e3c4b5a69", w.Header().Get("Location"))
	assert.Equal(t, clienteID, svc.criarReq.ClienteID)
	require.Len(t, svc.criarReq.Itens, 1)
	assert.Equal(t, 2, svc.criarReq.Itens[0].Quantidade)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Pendente", body["status"])
	assert.Equal(t, "259.98", body["valorTotal"])
}

func TestCriarVenda_CorpoInvalido(t *testing.T) {
	svc := &stubVendaService{}
	w := serve(newVendasEngine(svc), http.MethodPost, "/api/vendas", `{"clienteId": `)

	require.Equal(t, http.StatusBadRequest, w.Code)
	p := decodeProblem(t, w)
	assert.Contains(t, p.Detail, "Corpo da requisição inválido")
	assert.NotEmpty(t, p.TraceID)
	assert.Equal(t, "/api/vendas", p.Instance)
}

func TestCriarVenda_ErrosDeValidacao(t *testing.T) {
	svc := &stubVendaService{}
	w := serve(newVendasEngine(svc), http.MethodPost, "/api/vendas", map[string]any{
		"clienteId": uuid.New(),
		"itens":     []map[string]any{},
	})

	require.Equal(t, http.StatusBadRequest, w.Code)
	p := decodeProblem(t, w)
	assert.Equal(t, "Dados de entrada inválidos", p.Title)
	assert.Contains(t, p.Errors, "itens")
	assert.Equal(t, uuid.Nil, svc.criarReq.ClienteID, "service não deve ser chamado")
}

func TestCriarVenda_EstoqueInsuficiente(t *testing.T) {
	svc := &stubVendaService{err: apierror.NewInsufficientStock("Mesa de Centro", 10, 8)}
	w := serve(newVendasEngine(svc), http.MethodPost, "/api/vendas", map[string]any{
		"clienteId": uuid.New(),
		"itens":     []map[string]any{{"produtoId": uuid.New(), "quantidade": 10}},
	})

	require.Equal(t, http.StatusBadRequest, w.Code)
	p := decodeProblem(t, w)
	assert.Equal(t, "Estoque insuficiente", p.Title)
	assert.Equal(t, "Mesa de Centro", p.Extensions["productName"])
	assert.EqualValues(t, 10, p.Extensions["requestedQuantity"])
	assert.EqualValues(t, 8, p.Extensions["availableQuantity"])
	assert.Equal(t, apierror.CodeInsufficientStock, p.Extensions["errorCode"])
}

func TestObterVenda_IDInvalido(t *testing.T) {
	w := serve(newVendasEngine(&stubVendaService{}), http.MethodGet, "/api/vendas/abc", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeProblem(t, w).Detail, "ID inválido")
}

func TestObterVenda_NaoEncontrada(t *testing.T) {
	id := uuid.New()
	svc := &stubVendaService{err: apierror.NewNotFound("Venda", id)}
	w := serve(newVendasEngine(svc), http.MethodGet, "/api/vendas/"+id.String(), nil)

	require.Equal(t, http.StatusNotFound, w.Code)
	p := decodeProblem(t, w)
	assert.Equal(t, "Venda", p.Extensions["resourceType"])
	assert.Equal(t, id.String(), p.Extensions["resourceId"])
}

func TestTransicoesDeVenda_NoContent(t *testing.T) {
	svc := &stubVendaService{}
	r := newVendasEngine(svc)
	id := uuid.NewString()

	assert.Equal(t, http.StatusNoContent, serve(r, http.MethodPatch, "/api/vendas/"+id+"/confirmar", nil).Code)
	assert.Equal(t, http.StatusNoContent, serve(r, http.MethodPatch, "/api/vendas/"+id+"/cancelar", nil).Code)
	assert.Equal(t, http.StatusNoContent, serve(r, http.MethodDelete, "/api/vendas/"+id, nil).Code)
	assert.Equal(t, []string{"confirmar", "cancelar", "excluir"}, svc.calls)
}

func TestTransicaoDeVenda_OperacaoInvalida(t *testing.T) {
	svc := &stubVendaService{err: apierror.NewInvalidOperation("Entregue", "Cancelar", "Não é possível cancelar uma venda já entregue")}
	w := serve(newVendasEngine(svc), http.MethodPatch, "/api/vendas/"+uuid.NewString()+"/cancelar", nil)

	require.Equal(t, http.StatusBadRequest, w.Code)
	p := decodeProblem(t, w)
	assert.Equal(t, "Entregue", p.Extensions["currentState"])
	assert.Equal(t, "Cancelar", p.Extensions["attemptedOperation"])
}

func TestListarVendasPorStatus(t *testing.T) {
	cases := map[string]model.StatusVenda{
		"confirmada": model.StatusConfirmada,
		"Entregue":   model.StatusEntregue,
		"2":          model.StatusCancelada,
	}
	for raw, want := range cases {
		svc := &stubVendaService{}
		w := serve(newVendasEngine(svc), http.MethodGet, "/api/vendas/status/"+raw, nil)
		require.Equal(t, http.StatusOK, w.Code, raw)
		assert.Equal(t, want, svc.status, raw)
	}

	w := serve(newVendasEngine(&stubVendaService{}), http.MethodGet, "/api/vendas/status/Perdida", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListarVendasPorPeriodo(t *testing.T) {
	svc := &stubVendaService{}
	r := newVendasEngine(svc)

	w := serve(r, http.MethodGet, "/api/vendas/periodo?dataInicio=2024-08-01&dataFim=2024-08-31", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC), svc.periodo.Inicio)
	assert.Equal(t, time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC), svc.periodo.Fim, "data final inclui o dia inteiro")
	assert.True(t, svc.periodo.FimExclusivo)

	w = serve(r, http.MethodGet, "/api/vendas/periodo?dataInicio=2024-08-01T00:00:00Z&dataFim=2024-08-15T12:00:00Z", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, time.Date(2024, 8, 15, 12, 0, 0, 0, time.UTC), svc.periodo.Fim)
	assert.False(t, svc.periodo.FimExclusivo, "instante explícito é inclusivo")

	w = serve(r, http.MethodGet, "/api/vendas/periodo?dataInicio=2024-08-01", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeProblem(t, w).Errors, "dataFim")

	w = serve(r, http.MethodGet, "/api/vendas/periodo?dataInicio=ontem&dataFim=2024-08-31", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
}
