package validation

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"
)

// ErrorMissingFields is the error code for malformed or incomplete payloads.
const ErrorMissingFields = "missing_fields"

// BindJSON binds the JSON body into out.
// If the body cannot be decoded, it writes a 400 response and returns an error for the handler to short-circuit.
func BindJSON(c *gin.Context, out interface{}) error {
	if err := c.ShouldBindJSON(out); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": ErrorMissingFields,
			"msg":   err.Error(),
		})
		return err
	}
	return nil
}

// FieldErrors flattens validator errors into field -> tag; other errors land under "error".
func FieldErrors(err error) map[string]string {
	out := map[string]string{}
	var ve validatorv10.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			out[fe.Field()] = fe.Tag()
		}
	} else if err != nil {
		out["error"] = err.Error()
	}
	return out
}
