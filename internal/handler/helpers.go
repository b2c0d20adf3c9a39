package handler

import (
	"errors"
	"net/http"
	"reflect"

	"camher/internal/apierror"
	"camher/internal/middleware"
	"camher/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
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
		c.JSON(http.StatusBadRequest, apierror.New("JSON invalido: "+err.Error()))
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

// actorDe converts the JWT claims set by the auth middleware into the explicit
// caller context the services expect.
func actorDe(c *gin.Context) service.Actor {
	claims := middleware.GetClaims(c)
	if claims == nil {
		return service.Actor{}
	}
	id, _ := uuid.Parse(claims.UserID)
	return service.Actor{
		PerfilID: id,
		Email:    claims.Email,
		Rol:      claims.Rol,
		Aprobado: claims.Aprobado,
	}
}

// respondError maps service errors to HTTP statuses by error kind:
// validación→422, autorización→403, conflicto→409, dependencia→503. Anything
// untyped degrades to 400 with the bare message; record-not-found is 404.
func respondError(c *gin.Context, err error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, apierror.New("Recurso no encontrado"))
		return
	}

	var e *apierror.Error
	if errors.As(err, &e) {
		switch e.Kind {
		case apierror.KindValidacion:
			fields := map[string]string{}
			if e.Campo != "" {
				fields[e.Campo] = e.Detail
			}
			c.JSON(http.StatusUnprocessableEntity, &apierror.ValidationError{Detail: e.Detail, Fields: fields})
		case apierror.KindAutorizacion:
			c.JSON(http.StatusForbidden, apierror.New(e.Detail))
		case apierror.KindConflicto:
			c.JSON(http.StatusConflict, apierror.New(e.Detail))
		case apierror.KindDependencia:
			c.JSON(http.StatusServiceUnavailable, apierror.New(e.Detail))
		default:
			c.JSON(http.StatusInternalServerError, apierror.New("Error interno del servidor"))
		}
		return
	}

	c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
}

// parseIDParam reads the :id path param as a UUID, writing the error response
// itself on failure.
func parseIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return uuid.Nil, false
	}
	return id, true
}
