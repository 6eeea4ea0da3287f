package console

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FormValidator checks declarative `validate` rules on form structs and
// reports failures per field name (the `form` tag, else the `json` tag).
type FormValidator struct {
	validate *validator.Validate
}

func NewFormValidator() *FormValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(fieldName)
	return &FormValidator{validate: v}
}

func fieldName(fld reflect.StructField) string {
	for _, tag := range []string{"form", "json"} {
		name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return fld.Name
}

// Validate returns a *ValidationError when any rule fails.
func (f *FormValidator) Validate(form interface{}) error {
	err := f.validate.Struct(form)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		name := fe.Namespace()
		if i := strings.Index(name, "."); i >= 0 {
			name = name[i+1:]
		}
		if _, seen := fields[name]; !seen {
			fields[name] = ruleMessage(fe)
		}
	}
	return &ValidationError{Fields: fields}
}

func ruleMessage(fe validator.FieldError) string {
	label := humanize(fe.Field())
	switch fe.Tag() {
	case "required", "required_without":
		return label + " is required"
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", label, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", label, fe.Param())
	case "lt":
		return fmt.Sprintf("%s must be less than %s", label, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", label, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", label, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", label, fe.Param())
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", label, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", label, fe.Param())
	case "email":
		return label + " must be a valid email address"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", label, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "dive":
		return label + " is invalid"
	default:
		return label + " is invalid"
	}
}

func humanize(name string) string {
	return capitalize(strings.ReplaceAll(name, "_", " "))
}

// Field is one labelled control bound to form state and its error.
type Field struct {
	Name     string `json:"name"`
	Label    string `json:"label"`
	Value    string `json:"value"`
	Required bool   `json:"required"`
	Error    string `json:"error,omitempty"`
}

// BindFields turns a flat form struct into labelled controls. Labels come
// from the `label` tag; errors from err when it is a *ValidationError.
func BindFields(form interface{}, err error) []Field {
	var verr *ValidationError
	errors.As(err, &verr)

	v := reflect.Indirect(reflect.ValueOf(form))
	if v.Kind() != reflect.Struct {
		return nil
	}
	t := v.Type()

	fields := make([]Field, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		name := fieldName(sf)
		if name == "" {
			continue
		}
		fv := v.Field(i)
		switch fv.Kind() {
		case reflect.Slice, reflect.Map, reflect.Struct, reflect.Ptr, reflect.Interface:
			continue
		}

		label := sf.Tag.Get("label")
		if label == "" {
			label = humanize(name)
		}
		f := Field{
			Name:     name,
			Label:    label,
			Value:    fmt.Sprint(fv.Interface()),
			Required: strings.Contains(sf.Tag.Get("validate"), "required"),
		}
		if verr != nil {
			f.Error = verr.Fields[name]
		}
		fields = append(fields, f)
	}
	return fields
}
