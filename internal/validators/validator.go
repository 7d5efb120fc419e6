package validators

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/truemail-rb/truemail-go"
)

type Validator struct {
	Validate    *validator.Validate
	VerifyEmail func(email string) bool
}

var instance *Validator
var once sync.Once
var configuration *truemail.Configuration
var sanitizePolicy = bluemonday.StrictPolicy()

func GetValidator() *Validator {
	once.Do(func() {
		configuration, _ = truemail.NewConfiguration(truemail.ConfigurationAttr{
			VerifierEmail:         "noreply@account-service.dev",
			ValidationTypeDefault: "mx",
			SmtpFailFast:          true,
		})

		instance = &Validator{
			Validate:    validator.New(validator.WithRequiredStructEnabled()),
			VerifyEmail: validateEmail,
		}
	})

	return instance
}

func validateEmail(email string) bool {
	return truemail.IsValid(email, configuration)
}

// SanitizeData strips markup from every string field of the given struct
// pointer and trims surrounding whitespace, so stored values like the email
// are comparable regardless of how the client formatted them.
func (v *Validator) SanitizeData(obj interface{}) error {
	value := reflect.ValueOf(obj)
	if value.Kind() != reflect.Ptr || value.Elem().Kind() != reflect.Struct {
		return errors.New("payload is not a struct pointer")
	}

	value = value.Elem()
	for i := 0; i < value.NumField(); i++ {
		field := value.Field(i)
		if field.Kind() != reflect.String || !field.CanSet() {
			continue
		}

		sanitized := sanitizePolicy.Sanitize(field.String())
		field.SetString(strings.TrimSpace(sanitized))
	}

	return nil
}
