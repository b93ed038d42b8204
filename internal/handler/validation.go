package handler

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"simplesales/internal/apierror"
	"simplesales/internal/dto"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var (
	reNomeCategoria = regexp.MustCompile(`^[a-zA-ZÀ-ÿ\s\-]+$`)
	reNomeCliente   = regexp.MustCompile(`^[a-zA-ZÀ-ÿ\s\.]+$`)
	reNomeProduto   = regexp.MustCompile(`^[a-zA-Z0-9\s\-\.À-ÿ]+$`)
	reTelefoneBR    = regexp.MustCompile(`^\(\d{2}\)\s\d{4,5}-\d{4}$`)

	// Throwaway domains rejected for cliente emails.
	dominiosBloqueados = map[string]struct{}{
		"test.com":    {},
		"fake.com":    {},
		"invalid.com": {},
		"temp.com":    {},
	}
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Error keys use the JSON field names clients sent.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})

	// Register decimal.Decimal as a numeric type so that validator tags like
	// gt=0, lte, required work without panicking ("Bad field type decimal.Decimal").
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	mustRegister(v, "nome_categoria", regexValidator(reNomeCategoria))
	mustRegister(v, "nome_cliente", regexValidator(reNomeCliente))
	mustRegister(v, "nome_produto", regexValidator(reNomeProduto))
	mustRegister(v, "telefone_br", regexValidator(reTelefoneBR))
	mustRegister(v, "email_dominio", emailDominioValido)
	mustRegister(v, "itens_unicos", itensUnicos)

	// The custom type func above hides the decimal from field-level tags, so
	// the scale check runs at struct level.
	v.RegisterStructValidation(func(sl validator.StructLevel) {
		req := sl.Current().Interface().(dto.ProdutoRequest)
		if !req.Preco.Equal(req.Preco.Round(2)) {
			sl.ReportError(req.Preco, "preco", "Preco", "decimal_places2", "")
		}
	}, dto.ProdutoRequest{})

	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("validator: register %s: %v", tag, err))
	}
}

func regexValidator(re *regexp.Regexp) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return re.MatchString(fl.Field().String())
	}
}

func emailDominioValido(fl validator.FieldLevel) bool {
	email := strings.ToLower(strings.TrimSpace(fl.Field().String()))
	at := strings.LastIndex(email, "@")
	if at < 0 || at == len(email)-1 {
		return false
	}
	dominio := email[at+1:]
	if !strings.Contains(dominio, ".") {
		return false
	}
	_, bloqueado := dominiosBloqueados[dominio]
	return !bloqueado
}

func itensUnicos(fl validator.FieldLevel) bool {
	itens, ok := fl.Field().Interface().([]dto.ItemVendaRequest)
	if !ok {
		return false
	}
	seen := make(map[string]struct{}, len(itens))
	for _, it := range itens {
		key := it.ProdutoID.String()
		if _, dup := seen[key]; dup {
			return false
		}
		seen[key] = struct{}{}
	}
	return true
}

// validateStruct runs the tags on req and converts failures into an
// apierror.ValidationError keyed by JSON path ("itens[0].quantidade").
func validateStruct(req interface{}) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := apierror.NewValidation()
	for _, fe := range verrs {
		out.Add(fieldPath(fe), mensagem(fe))
	}
	return out
}

// fieldPath drops the leading struct name from the namespace.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func mensagem(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "O campo é obrigatório"
	case "min":
		switch fe.Kind() {
		case reflect.String:
			return fmt.Sprintf("Deve ter pelo menos %s caracteres", fe.Param())
		case reflect.Slice:
			return fmt.Sprintf("Deve conter pelo menos %s item(ns)", fe.Param())
		}
		return fmt.Sprintf("Deve ser maior ou igual a %s", fe.Param())
	case "max":
		switch fe.Kind() {
		case reflect.String:
			return fmt.Sprintf("Deve ter no máximo %s caracteres", fe.Param())
		case reflect.Slice:
			return fmt.Sprintf("Deve conter no máximo %s itens", fe.Param())
		}
		return fmt.Sprintf("Deve ser menor ou igual a %s", fe.Param())
	case "gt":
		return fmt.Sprintf("Deve ser maior que %s", fe.Param())
	case "lte":
		return fmt.Sprintf("Deve ser menor ou igual a %s", fe.Param())
	case "email":
		return "Email deve ter um formato válido"
	case "email_dominio":
		return "Domínio de email inválido ou não permitido"
	case "telefone_br":
		return "Telefone deve estar no formato (11) 99999-9999 ou (11) 9999-9999"
	case "nome_categoria":
		return "Nome deve conter apenas letras, espaços e hífens"
	case "nome_cliente":
		return "Nome deve conter apenas letras, espaços e pontos"
	case "nome_produto":
		return "Nome contém caracteres inválidos"
	case "itens_unicos":
		return "Não é possível adicionar o mesmo produto mais de uma vez"
	case "decimal_places2":
		return "Preço deve ter no máximo 2 casas decimais"
	default:
		return "Valor inválido"
	}
}
