package validate

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var validate *validator.Validate

var translator ut.Translator

func init() {
	validate = validator.New()

	// report json field names instead of Go field names
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	translator, _ = ut.New(en.New(), en.New()).GetTranslator("en")
	en_translations.RegisterDefaultTranslations(validate, translator)
}

// Check validates val and returns the first failure as a readable error.
func Check(val any) error {
	if err := validate.Struct(val); err != nil {
		verrors, ok := err.(validator.ValidationErrors)
		if !ok {
			return err
		}
		if len(verrors) < 1 {
			return nil
		}
		return errors.New(verrors[0].Translate(translator))
	}
	return nil
}

// GenerateID returns a new opaque document id.
func GenerateID() string {
	return primitive.NewObjectID().Hex()
}

// CheckID reports whether id has the shape of a generated id.
func CheckID(id string) error {
	if !primitive.IsValidObjectID(id) {
		return errors.New("ID is not in its proper form")
	}
	return nil
}
