package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"simplesales/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// bindAndValidate binds the JSON body and runs the validator tags. On failure
// it records the error on c (rendered by middleware.ErrorHandler) and returns
// false; the caller should return immediately.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		_ = c.Error(apierror.NewRequest("Corpo da requisição inválido: " + err.Error()))
		return false
	}
	if err := validateStruct(req); err != nil {
		_ = c.Error(err)
		return false
	}
	return true
}

// pathID parses the named path parameter as a UUID.
func pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		_ = c.Error(apierror.NewRequest("ID inválido: " + c.Param(name)))
		return uuid.Nil, false
	}
	return id, true
}

func queryDecimal(c *gin.Context, name string) (*decimal.Decimal, bool) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, true
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		_ = c.Error(apierror.NewRequest("Valor inválido para " + name + ": " + raw))
		return nil, false
	}
	return &d, true
}

func queryInt(c *gin.Context, name string) (*int, bool) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		_ = c.Error(apierror.NewRequest("Valor inválido para " + name + ": " + raw))
		return nil, false
	}
	return &n, true
}

const dateOnly = "2006-01-02"

// parseDate accepts YYYY-MM-DD (UTC midnight) or RFC3339. dateOnly reports
// which form was given.
func parseDate(raw string) (t time.Time, isDateOnly bool, err error) {
	if t, err = time.Parse(dateOnly, raw); err == nil {
		return t.UTC(), true, nil
	}
	t, err = time.Parse(time.RFC3339, raw)
	return t.UTC(), false, err
}

func created(c *gin.Context, id uuid.UUID, body interface{}) {
	c.Header("Location", strings.TrimSuffix(c.Request.URL.Path, "/")+"/"+id.String())
	c.JSON(http.StatusCreated, body)
}
