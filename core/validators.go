package core

import (
	"context"
	"reflect"
	"regexp"
	"strings"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/pkg/errors"
)

var (
	// custom validation tags & texts
	alphaNumUnderTag   = "alphanum_"
	alphaNumUnderText  = "only alphanumeric characters and underscores are allowed"
	alphaNumUnderRegex = regexp.MustCompile(`^[\w\s]+$`)

	hhmmTag   = "hhmm"
	hhmmText  = "{0} must be a time of day formatted as HH:MM"
	hhmmRegex = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

	afterFieldTag  = "afterfield"
	afterFieldText = "{0} must be after {1}"

	existsTag  = "exists"
	existsText = "the selected {0} is invalid"

	requiredTag     = "required"
	requiredWithTag = "required_with"
	requiredText    = "this field is required"
)

// InitValidators instantiates the validator for use.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = en_translations.RegisterDefaultTranslations(validate, translator)

	// Use JSON tag names for errors instead of Go struct names.
	validate.RegisterTagNameFunc(jsonTagName)

	// dates are validated as their "YYYY-MM-DD" string
	validate.RegisterCustomTypeFunc(func(v reflect.Value) interface{} {
		if d, ok := v.Interface().(Date); ok {
			return d.String()
		}
		return nil
	}, Date{})

	// register custom validators
	_ = validate.RegisterValidation(alphaNumUnderTag, alphaNumUnderValidation)
	RegisterCustomTranslation(validate, translator, alphaNumUnderTag, alphaNumUnderText)

	_ = validate.RegisterValidation(hhmmTag, hhmmValidation)
	RegisterCustomTranslation(validate, translator, hhmmTag, hhmmText)

	_ = validate.RegisterValidation(afterFieldTag, afterFieldValidation)
	RegisterCustomTranslation(validate, translator, afterFieldTag, afterFieldText)

	RegisterCustomTranslation(validate, translator, requiredTag, requiredText, true)
	RegisterCustomTranslation(validate, translator, requiredWithTag, requiredText, true)
}

// RegisterExistsValidation registers the `exists=<table>` tag, which checks that a foreign key
// references a stored record.
func RegisterExistsValidation(validate *validator.Validate, translator ut.Translator, checker ExistenceChecker) {
	_ = validate.RegisterValidationCtx(existsTag, existsValidation(checker))
	RegisterCustomTranslation(validate, translator, existsTag, existsText)
}

// RegisterCustomTranslation registers a custom translation for the specified validation tag.
// The text may refer to the field name as {0} and to the tag param as {1}.
func RegisterCustomTranslation(validate *validator.Validate, translator ut.Translator, tag, text string, override ...bool) {
	var ovrd bool
	if len(override) > 0 {
		ovrd = override[0]
	}
	_ = validate.RegisterTranslation(
		tag, translator,
		func(t ut.Translator) error { return t.Add(tag, text, ovrd) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, fe.Field(), fe.Param())
			return s
		},
	)
}

func jsonTagName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	return name
}

// Custom Global Validators

// alphaNumUnderValidation only allows alphanumeric characters and underscores.
func alphaNumUnderValidation(fl validator.FieldLevel) bool {
	return alphaNumUnderRegex.MatchString(fl.Field().String())
}

func hhmmValidation(fl validator.FieldLevel) bool {
	return hhmmRegex.MatchString(fl.Field().String())
}

// afterFieldValidation checks that the field sorts after the sibling field whose JSON name is the tag param.
// Strings ("HH:MM", "YYYY-MM-DD"), dates and instants are supported; empty values are not compared.
func afterFieldValidation(fl validator.FieldLevel) bool {
	parent := reflect.Indirect(fl.Parent())
	if parent.Kind() != reflect.Struct {
		return false
	}
	other, ok := fieldByJSONName(parent, fl.Param())
	if !ok {
		return false
	}
	lhs, ok := orderKey(fl.Field())
	if !ok {
		return false
	}
	rhs, ok := orderKey(other)
	if !ok {
		return false
	}
	if lhs == "" || rhs == "" {
		return true
	}
	return lhs > rhs
}

func fieldByJSONName(v reflect.Value, name string) (reflect.Value, bool) {
	typ := v.Type()
	for i := 0; i < typ.NumField(); i++ {
		if jsonTagName(typ.Field(i)) == name {
			return v.Field(i), true
		}
	}
	return reflect.Value{}, false
}

// orderKey renders v as a string whose lexical order matches the value order.
func orderKey(v reflect.Value) (string, bool) {
	for v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return "", true
		}
		v = v.Elem()
	}
	switch x := v.Interface().(type) {
	case string:
		return x, true
	case Date:
		return x.String(), true
	case time.Time:
		if x.IsZero() {
			return "", true
		}
		return x.UTC().Format("2006-01-02T15:04:05.000000000"), true
	}
	return "", false
}

func existsValidation(checker ExistenceChecker) validator.FuncCtx {
	return func(ctx context.Context, fl validator.FieldLevel) bool {
		var id interface{}
		switch fl.Field().Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			id = fl.Field().Int()
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			id = fl.Field().Uint()
		case reflect.String:
			id = fl.Field().String()
		default:
			return false
		}
		found, err := checker.Exists(ctx, fl.Param(), id)
		if err != nil {
			// a failed lookup says nothing about the value; report it out of band
			if slot, ok := ctx.Value(lookupErrKey{}).(*lookupErr); ok {
				if slot.err == nil {
					slot.err = err
				}
				return true
			}
			return false
		}
		return found
	}
}

type lookupErrKey struct{}

// lookupErr holds the first storage error met while validating a struct.
type lookupErr struct {
	err error
}

// ValidateStruct validates s with ctx. Storage failures met by the `exists` tag are returned
// as plain errors instead of being reported as invalid fields.
func ValidateStruct(ctx context.Context, validate *validator.Validate, s interface{}) error {
	slot := new(lookupErr)
	err := validate.StructCtx(context.WithValue(ctx, lookupErrKey{}, slot), s)
	if slot.err != nil {
		return errors.Wrap(slot.err, "checking references")
	}
	return err
}
