package middleware

import (
	"net/http"
	"reflect"

	"github.com/gin-gonic/gin"

	"account-service/internal/schemas"
	"account-service/internal/utils"
	"account-service/internal/validators"
)

// ValidateAndSanitizeStruct binds the request body into a fresh instance of
// the given prototype, sanitizes it and validates it. Requests are handled
// concurrently, so the prototype itself is never written to.
func ValidateAndSanitizeStruct(prototype interface{}) gin.HandlerFunc {
	payloadType := reflect.TypeOf(prototype).Elem()

	return func(c *gin.Context) {
		payload := reflect.New(payloadType).Interface()

		if err := c.ShouldBindJSON(payload); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, &schemas.ErrorDTO{Error: *schemas.BadRequest})
			return
		}
		validator := validators.GetValidator()
		// Sanitize the data
		if err := validator.SanitizeData(payload); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, &schemas.ErrorDTO{Error: *schemas.BadRequest})
			return
		}

		if err := validator.Validate.Struct(payload); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, &schemas.ErrorDTO{Error: *schemas.BadRequest})
			return
		}
		// Set the sanitized object in the context
		c.Set(utils.SanitizedPayloadKey.String(), payload)
		c.Next()
	}
}
