package handler

import (
	"net/http"
	"reflect"

	"github.com/RonnieLihanda/Elshadai-Hardware/internal/apierror"
	"github.com/RonnieLihanda/Elshadai-Hardware/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
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
		c.JSON(http.StatusBadRequest, apierror.New("Invalid JSON: "+err.Error()))
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

// authUserID parses the caller's user_id claim. A token whose subject does not
// parse is rejected with 401 rather than attributed to the zero UUID; the
// caller should return immediately when ok is false.
func authUserID(c *gin.Context) (uuid.UUID, bool) {
	claims := middleware.GetClaims(c)
	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("Invalid token subject"))
		return uuid.Nil, false
	}
	return id, true
}

// respondError maps a service error to its HTTP status via the error taxonomy
// and writes the standard envelope.
func respondError(c *gin.Context, err error) {
	status := apierror.Status(err)
	if status == http.StatusInternalServerError {
		// Hide internal detail; the cause travels through c.Error to the logger.
		_ = c.Error(err)
		c.JSON(status, apierror.New("Internal server error"))
		return
	}
	c.JSON(status, apierror.New(err.Error()))
}
