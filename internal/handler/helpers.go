package handler

import (
	"errors"
	"net/http"
	"reflect"
	"strings"

	"tallerpro/internal/apierror"
	"tallerpro/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// decimal.Decimal is validated as a float so tags like min=0 work on it
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	// field errors are keyed by the JSON name the client sent
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails;
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("JSON invalido"))
		return false
	}
	if err := validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			c.JSON(http.StatusBadRequest, apierror.New("Solicitud invalida"))
			return false
		}
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[campo(fe.Namespace())] = apierror.MensajeCampo(fe.Tag(), fe.Param())
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// campo drops the struct name from a validator namespace:
// "GuardarFacturaRequest.lineas[1].descripcion" -> "lineas[1].descripcion".
func campo(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

// bindQuery binds query string filters.
func bindQuery(c *gin.Context, filter interface{}) bool {
	if err := c.ShouldBindQuery(filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Parametros de consulta invalidos"))
		return false
	}
	return true
}

func paramID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return uuid.Nil, false
	}
	return id, true
}

// responderError maps service errors to the HTTP taxonomy. Anything unknown
// is attached to the context for ErrorHandler to log and answered with 500.
func responderError(c *gin.Context, err error) {
	var verr *service.ValidacionError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(verr.Fields))
	case errors.Is(err, service.ErrSinPermiso):
		c.JSON(http.StatusForbidden, apierror.Status(http.StatusForbidden))
	case errors.Is(err, service.ErrNoEncontrado):
		c.JSON(http.StatusNotFound, apierror.Status(http.StatusNotFound))
	case errors.Is(err, service.ErrCredencialesInvalidas), errors.Is(err, service.ErrTokenInvalido):
		c.JSON(http.StatusUnauthorized, apierror.New(err.Error()))
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, apierror.Status(http.StatusInternalServerError))
	}
}
