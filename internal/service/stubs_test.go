package service_test

import (
	"context"
	"sort"
	"strings"

	"simplesales/internal/dto"
	"simplesales/internal/model"
	"simplesales/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ── Stubs ─────────────────────────────────────────────────────────────────────

var errFK = &pgconn.PgError{Code: "23503", ConstraintName: "fk_stub"}

// stubCategoriaRepo is an in-memory CategoriaRepository.
type stubCategoriaRepo struct {
	categorias map[uuid.UUID]*model.Categoria
	produtos   *stubProdutoRepo
}

func newStubCategoriaRepo(produtos *stubProdutoRepo) *stubCategoriaRepo {
	return &stubCategoriaRepo{categorias: make(map[uuid.UUID]*model.Categoria), produtos: produtos}
}

func (r *stubCategoriaRepo) Create(_ context.Context, c *model.Categoria) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	cp := *c
	r.categorias[c.ID] = &cp
	return nil
}

func (r *stubCategoriaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Categoria, error) {
	c, ok := r.categorias[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *stubCategoriaRepo) FindByNome(_ context.Context, nome string) (*model.Categoria, error) {
	for _, c := range r.categorias {
		if strings.EqualFold(c.Nome, nome) {
			cp := *c
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubCategoriaRepo) List(_ context.Context) ([]model.Categoria, error) {
	out := make([]model.Categoria, 0, len(r.categorias))
	for _, c := range r.categorias {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Nome < out[j].Nome })
	return out, nil
}

func (r *stubCategoriaRepo) Update(_ context.Context, c *model.Categoria) error {
	cp := *c
	r.categorias[c.ID] = &cp
	return nil
}

func (r *stubCategoriaRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.categorias, id)
	return nil
}

func (r *stubCategoriaRepo) CountProdutos(_ context.Context, id uuid.UUID) (int64, error) {
	var n int64
	if r.produtos == nil {
		return 0, nil
	}
	for _, p := range r.produtos.produtos {
		if p.CategoriaID == id {
			n++
		}
	}
	return n, nil
}

var _ repository.CategoriaRepository = (*stubCategoriaRepo)(nil)

// stubClienteRepo is an in-memory ClienteRepository. Delete fails with a
// foreign-key violation while blocked[id] is set.
type stubClienteRepo struct {
	clientes map[uuid.UUID]*model.Cliente
	blocked  map[uuid.UUID]bool
}

func newStubClienteRepo() *stubClienteRepo {
	return &stubClienteRepo{
		clientes: make(map[uuid.UUID]*model.Cliente),
		blocked:  make(map[uuid.UUID]bool),
	}
}

func (r *stubClienteRepo) Create(_ context.Context, c *model.Cliente) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	cp := *c
	r.clientes[c.ID] = &cp
	return nil
}

func (r *stubClienteRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Cliente, error) {
	c, ok := r.clientes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *stubClienteRepo) FindByEmail(_ context.Context, email string) (*model.Cliente, error) {
	for _, c := range r.clientes {
		if c.Email == email {
			cp := *c
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubClienteRepo) List(_ context.Context) ([]model.Cliente, error) {
	out := make([]model.Cliente, 0, len(r.clientes))
	for _, c := range r.clientes {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Nome < out[j].Nome })
	return out, nil
}

func (r *stubClienteRepo) Search(ctx context.Context, f dto.ClienteFilter) ([]model.Cliente, error) {
	all, _ := r.List(ctx)
	out := make([]model.Cliente, 0, len(all))
	for _, c := range all {
		if f.Nome != "" && !strings.Contains(strings.ToLower(c.Nome), strings.ToLower(f.Nome)) {
			continue
		}
		if f.Email != "" && !strings.Contains(c.Email, strings.ToLower(f.Email)) {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (r *stubClienteRepo) Update(_ context.Context, c *model.Cliente) error {
	cp := *c
	r.clientes[c.ID] = &cp
	return nil
}

func (r *stubClienteRepo) Delete(_ context.Context, id uuid.UUID) error {
	if r.blocked[id] {
		return errFK
	}
	delete(r.clientes, id)
	return nil
}

var _ repository.ClienteRepository = (*stubClienteRepo)(nil)

// stubProdutoRepo is an in-memory ProdutoRepository. Tx methods ignore the
// (nil) transaction handle.
type stubProdutoRepo struct {
	produtos  map[uuid.UUID]*model.Produto
	blocked   map[uuid.UUID]bool
	setAtivos int
}

func newStubProdutoRepo() *stubProdutoRepo {
	return &stubProdutoRepo{
		produtos: make(map[uuid.UUID]*model.Produto),
		blocked:  make(map[uuid.UUID]bool),
	}
}

func (r *stubProdutoRepo) Create(_ context.Context, p *model.Produto) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	cp := *p
	r.produtos[p.ID] = &cp
	return nil
}

func (r *stubProdutoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Produto, error) {
	p, ok := r.produtos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *stubProdutoRepo) filter(keep func(p *model.Produto) bool) []model.Produto {
	out := make([]model.Produto, 0)
	for _, p := range r.produtos {
		if keep(p) {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Nome < out[j].Nome })
	return out
}

func (r *stubProdutoRepo) ListAtivos(_ context.Context) ([]model.Produto, error) {
	return r.filter(func(p *model.Produto) bool { return p.Ativo }), nil
}

func (r *stubProdutoRepo) ListAtivosByCategoria(_ context.Context, categoriaID uuid.UUID) ([]model.Produto, error) {
	return r.filter(func(p *model.Produto) bool { return p.Ativo && p.CategoriaID == categoriaID }), nil
}

func (r *stubProdutoRepo) Search(_ context.Context, f dto.ProdutoFilter) ([]model.Produto, error) {
	return r.filter(func(p *model.Produto) bool {
		if !p.Ativo {
			return false
		}
		if f.Nome != "" && !strings.Contains(strings.ToLower(p.Nome), strings.ToLower(f.Nome)) {
			return false
		}
		if f.PrecoMin != nil && p.Preco.LessThan(*f.PrecoMin) {
			return false
		}
		if f.PrecoMax != nil && p.Preco.GreaterThan(*f.PrecoMax) {
			return false
		}
		return true
	}), nil
}

func (r *stubProdutoRepo) ListBaixoEstoque(_ context.Context, limite int) ([]model.Produto, error) {
	return r.filter(func(p *model.Produto) bool { return p.Ativo && p.EstoqueAtual <= limite }), nil
}

func (r *stubProdutoRepo) Update(_ context.Context, p *model.Produto) error {
	cp := *p
	r.produtos[p.ID] = &cp
	return nil
}

func (r *stubProdutoRepo) SetAtivo(_ context.Context, id uuid.UUID, ativo bool) error {
	r.setAtivos++
	r.produtos[id].Ativo = ativo
	return nil
}

func (r *stubProdutoRepo) Delete(_ context.Context, id uuid.UUID) error {
	if r.blocked[id] {
		return errFK
	}
	delete(r.produtos, id)
	return nil
}

func (r *stubProdutoRepo) FindByIDsForUpdateTx(_ context.Context, _ *gorm.DB, ids []uuid.UUID) ([]model.Produto, error) {
	out := make([]model.Produto, 0, len(ids))
	for _, id := range ids {
		if p, ok := r.produtos[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *stubProdutoRepo) DecrementStockTx(_ context.Context, _ *gorm.DB, id uuid.UUID, qty int) (bool, error) {
	p, ok := r.produtos[id]
	if !ok || p.EstoqueAtual < qty {
		return false, nil
	}
	p.EstoqueAtual -= qty
	return true, nil
}

func (r *stubProdutoRepo) IncrementStockTx(_ context.Context, _ *gorm.DB, id uuid.UUID, qty int) error {
	p, ok := r.produtos[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.EstoqueAtual += qty
	return nil
}

var _ repository.ProdutoRepository = (*stubProdutoRepo)(nil)

// stubVendaRepo is an in-memory VendaRepository.
type stubVendaRepo struct {
	vendas map[uuid.UUID]*model.Venda
}

func newStubVendaRepo() *stubVendaRepo {
	return &stubVendaRepo{vendas: make(map[uuid.UUID]*model.Venda)}
}

func (r *stubVendaRepo) CreateTx(_ context.Context, _ *gorm.DB, v *model.Venda) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	for i := range v.Itens {
		if v.Itens[i].ID == uuid.Nil {
			v.Itens[i].ID = uuid.New()
		}
		v.Itens[i].VendaID = v.ID
	}
	cp := *v
	cp.Itens = append([]model.ItemVenda(nil), v.Itens...)
	r.vendas[v.ID] = &cp
	return nil
}

func (r *stubVendaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Venda, error) {
	v, ok := r.vendas[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *v
	return &cp, nil
}

func (r *stubVendaRepo) FindByIDForUpdateTx(ctx context.Context, _ *gorm.DB, id uuid.UUID) (*model.Venda, error) {
	return r.FindByID(ctx, id)
}

func (r *stubVendaRepo) filter(keep func(v *model.Venda) bool) []model.Venda {
	out := make([]model.Venda, 0)
	for _, v := range r.vendas {
		if keep(v) {
			out = append(out, *v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DataVenda.After(out[j].DataVenda) })
	return out
}

func (r *stubVendaRepo) List(_ context.Context) ([]model.Venda, error) {
	return r.filter(func(*model.Venda) bool { return true }), nil
}

func (r *stubVendaRepo) ListByCliente(_ context.Context, clienteID uuid.UUID) ([]model.Venda, error) {
	return r.filter(func(v *model.Venda) bool { return v.ClienteID == clienteID }), nil
}

func (r *stubVendaRepo) ListByStatus(_ context.Context, status model.StatusVenda) ([]model.Venda, error) {
	return r.filter(func(v *model.Venda) bool { return v.Status == status }), nil
}

func (r *stubVendaRepo) ListByPeriodo(_ context.Context, p dto.PeriodoFilter) ([]model.Venda, error) {
	return r.filter(func(v *model.Venda) bool { return p.Contem(v.DataVenda) }), nil
}

func (r *stubVendaRepo) UpdateStatusTx(_ context.Context, _ *gorm.DB, id uuid.UUID, status model.StatusVenda) error {
	v, ok := r.vendas[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	v.Status = status
	return nil
}

func (r *stubVendaRepo) DeleteTx(_ context.Context, _ *gorm.DB, id uuid.UUID) error {
	delete(r.vendas, id)
	return nil
}

var _ repository.VendaRepository = (*stubVendaRepo)(nil)

// stubNotifier records every enqueued event.
type stubNotifier struct {
	events []model.StatusVenda
	fail   error
}

func (n *stubNotifier) EnqueueNotificacaoVenda(_ context.Context, _ uuid.UUID, status model.StatusVenda) error {
	if n.fail != nil {
		return n.fail
	}
	n.events = append(n.events, status)
	return nil
}

// ── Fixtures ─────────────────────────────────────────────────────────────────

func seedCategoria(r *stubCategoriaRepo, nome string) *model.Categoria {
	c := &model.Categoria{ID: uuid.New(), Nome: nome}
	r.categorias[c.ID] = c
	return c
}

func seedProduto(r *stubProdutoRepo, categoriaID uuid.UUID, nome, preco string, estoque int) *model.Produto {
	p := &model.Produto{
		ID:           uuid.New(),
		Nome:         nome,
		Preco:        decimal.RequireFromString(preco),
		EstoqueAtual: estoque,
		Ativo:        true,
		CategoriaID:  categoriaID,
	}
	r.produtos[p.ID] = p
	return p
}

func seedCliente(r *stubClienteRepo, nome, email string) *model.Cliente {
	c := &model.Cliente{ID: uuid.New(), Nome: nome, Email: email, Telefone: "(11) 98765-4321"}
	r.clientes[c.ID] = c
	return c
}
