package service

import (
	"simplesales/internal/apierror"
	"simplesales/internal/dto"
	"simplesales/internal/model"
	"simplesales/internal/repository"

	"github.com/google/uuid"
)

// notFoundOr turns GORM's record-not-found into a NotFoundError for resource
// and passes any other error through.
func notFoundOr(err error, resource string, id uuid.UUID) error {
	if repository.IsNotFound(err) {
		return apierror.NewNotFound(resource, id)
	}
	return err
}

func mapCategoria(c model.Categoria) dto.CategoriaResponse {
	return dto.CategoriaResponse{ID: c.ID, Nome: c.Nome, Descricao: c.Descricao}
}

func mapCliente(c model.Cliente) dto.ClienteResponse {
	return dto.ClienteResponse{
		ID:       c.ID,
		Nome:     c.Nome,
		Email:    c.Email,
		Telefone: c.Telefone,
		Endereco: c.Endereco,
	}
}

func mapProduto(p model.Produto) dto.ProdutoResponse {
	resp := dto.ProdutoResponse{
		ID:           p.ID,
		Nome:         p.Nome,
		Descricao:    p.Descricao,
		Preco:        p.Preco,
		EstoqueAtual: p.EstoqueAtual,
		Ativo:        p.Ativo,
		Categoria:    dto.CategoriaResumo{ID: p.CategoriaID},
	}
	if p.Categoria != nil {
		resp.Categoria.Nome = p.Categoria.Nome
	}
	return resp
}

func mapProdutos(list []model.Produto) []dto.ProdutoResponse {
	out := make([]dto.ProdutoResponse, 0, len(list))
	for _, p := range list {
		out = append(out, mapProduto(p))
	}
	return out
}

func mapVenda(v model.Venda) dto.VendaResponse {
	resp := dto.VendaResponse{
		ID:         v.ID,
		Cliente:    dto.ClienteResumo{ID: v.ClienteID},
		DataVenda:  v.DataVenda,
		ValorTotal: v.ValorTotal,
		Status:     string(v.Status),
		Itens:      make([]dto.ItemVendaResponse, 0, len(v.Itens)),
	}
	if v.Cliente != nil {
		resp.Cliente.Nome = v.Cliente.Nome
		resp.Cliente.Email = v.Cliente.Email
	}
	for _, it := range v.Itens {
		item := dto.ItemVendaResponse{
			ID:            it.ID,
			ProdutoID:     it.ProdutoID,
			Quantidade:    it.Quantidade,
			PrecoUnitario: it.PrecoUnitario,
			Subtotal:      it.Subtotal(),
		}
		if it.Produto != nil {
			item.ProdutoNome = it.Produto.Nome
		}
		resp.Itens = append(resp.Itens, item)
	}
	return resp
}

func mapVendas(list []model.Venda) []dto.VendaResponse {
	out := make([]dto.VendaResponse, 0, len(list))
	for _, v := range list {
		out = append(out, mapVenda(v))
	}
	return out
}
