package handler

import (
	"errors"
	"net/http"
	"reflect"

	"github.com/jmcstoltze/aplicacion-pos/internal/apierror"
	"github.com/jmcstoltze/aplicacion-pos/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails —
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("JSON inválido: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		for _, fe := range err.(validator.ValidationErrors) {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// respondError maps domain errors to HTTP status codes. Anything not in the
// domain taxonomy is a 500 with a generic message.
func respondError(c *gin.Context, err error) {
	var (
		validationErr *domain.ValidationError
		notFoundErr   *domain.NotFoundError
		stockErr      *domain.NegativeStockError
		dupErr        *domain.DuplicateDocumentError
		refErr        *domain.InvalidReferenceError
		protErr       *domain.ProtectedRelationError
	)
	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
	case errors.As(err, &notFoundErr):
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
	case errors.As(err, &stockErr),
		errors.As(err, &dupErr),
		errors.As(err, &refErr),
		errors.As(err, &protErr):
		c.JSON(http.StatusConflict, apierror.New(err.Error()))
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, apierror.New("Error interno del servidor"))
	}
}
