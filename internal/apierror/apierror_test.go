package apierror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromError(t *testing.T) {
	verr := NewValidation()
	verr.Add("nome", "O campo é obrigatório")

	cases := []struct {
		name   string
		err    error
		status int
		title  string
		known  bool
	}{
		{"validacao", verr, http.StatusBadRequest, "Dados de entrada inválidos", true},
		{"nao encontrado", NewNotFound("Produto", 7), http.StatusNotFound, "Recurso não encontrado", true},
		{"estoque", NewInsufficientStock("iPhone", 3, 1), http.StatusBadRequest, "Estoque insuficiente", true},
		{"operacao", NewInvalidOperation("Entregue", "Cancelar", "x"), http.StatusBadRequest, "Operação não permitida", true},
		{"negocio", NewBusiness("regra"), http.StatusBadRequest, "Regra de negócio violada", true},
		{"requisicao", NewRequest("ID inválido: abc"), http.StatusBadRequest, "Parâmetro inválido", true},
		{"embrulhado", fmt.Errorf("criar venda: %w", NewNotFound("Cliente", 1)), http.StatusNotFound, "Recurso não encontrado", true},
		{"desconhecido", errors.New("dial tcp: connection refused"), http.StatusInternalServerError, "Erro interno do servidor", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p, known := FromError(tc.err, "/api/x", "trace")
			assert.Equal(t, tc.known, known)
			assert.Equal(t, tc.status, p.Status)
			assert.Equal(t, tc.title, p.Title)
			assert.Equal(t, "/api/x", p.Instance)
			assert.Equal(t, "trace", p.TraceID)
			assert.False(t, p.Timestamp.IsZero())
		})
	}
}

func TestFromError_Extensions(t *testing.T) {
	p, _ := FromError(NewInsufficientStock("Mesa de Centro", 10, 8), "/", "")
	assert.Equal(t, "Estoque insuficiente para 'Mesa de Centro'. Solicitado: 10, Disponível: 8", p.Detail)
	assert.Equal(t, 10, p.Extensions["requestedQuantity"])
	assert.Equal(t, CodeInsufficientStock, p.Extensions["errorCode"])

	p, _ = FromError(NewBusiness("x").WithDetails(map[string]any{"produtos": 2}), "/", "")
	assert.Equal(t, map[string]any{"produtos": 2}, p.Extensions["details"])
	assert.Equal(t, CodeBusinessRule, p.Extensions["errorCode"])

	p, _ = FromError(NewNotFound("Venda", "abc"), "/", "")
	assert.Equal(t, "Venda com ID 'abc' não foi encontrado", p.Detail)
}

func TestSpecializedErrorsAreBusinessErrors(t *testing.T) {
	var be *BusinessError
	assert.True(t, errors.As(NewInsufficientStock("a", 1, 0), &be))
	assert.Equal(t, CodeInsufficientStock, be.Code)
	assert.True(t, errors.As(NewInvalidOperation("Pendente", "Entregar", "m"), &be))
	assert.Equal(t, CodeInvalidOperation, be.Code)
}

func TestValidationError_Message(t *testing.T) {
	verr := NewValidation()
	assert.False(t, verr.HasErrors())
	verr.Add("preco", "Deve ser maior que 0")
	verr.Add("nome", "O campo é obrigatório")
	verr.Add("nome", "Deve ter pelo menos 2 caracteres")
	assert.True(t, verr.HasErrors())
	assert.Equal(t,
		"dados de entrada inválidos: nome: O campo é obrigatório; Deve ter pelo menos 2 caracteres, preco: Deve ser maior que 0",
		verr.Error())
}
