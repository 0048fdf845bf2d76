package database

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/pkg/errors"

	"github.com/example/vocabsrs/pkg/models"
)

var (
	validatorOnce  sync.Once
	entityValidate *validator.Validate
	entityTrans    ut.Translator
	validatorErr   error
)

func entityValidator() (*validator.Validate, ut.Translator, error) {
	validatorOnce.Do(func() {
		validate := validator.New()

		enLocale := en.New()
		uni := ut.New(enLocale, enLocale)
		trans, _ := uni.GetTranslator("en")
		if err := enTranslations.RegisterDefaultTranslations(validate, trans); err != nil {
			validatorErr = fmt.Errorf("failed to register default translations: %w", err)
			return
		}

		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})

		if err := validate.RegisterValidation("clock", func(fl validator.FieldLevel) bool {
			_, _, err := models.ParseClock(fl.Field().String())
			return err == nil
		}); err != nil {
			validatorErr = fmt.Errorf("failed to register clock validation: %w", err)
			return
		}
		_ = validate.RegisterTranslation("clock", trans,
			func(ut ut.Translator) error {
				return ut.Add("clock", "{0} must be a 24h HH:MM time", true)
			},
			func(ut ut.Translator, fe validator.FieldError) string {
				t, _ := ut.T("clock", fe.Field())
				return t
			},
		)

		entityValidate, entityTrans = validate, trans
	})
	return entityValidate, entityTrans, validatorErr
}

// validateEntity checks validate tags on v and reports violations as ErrInvalidArgument
func validateEntity(v interface{}) error {
	validate, trans, err := entityValidator()
	if err != nil {
		return err
	}
	if err := validate.Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, e := range verrs {
				msgs = append(msgs, e.Translate(trans))
			}
			return fmt.Errorf("%w: %s", models.ErrInvalidArgument, strings.Join(msgs, "; "))
		}
		return fmt.Errorf("%w: %v", models.ErrInvalidArgument, err)
	}
	return nil
}
