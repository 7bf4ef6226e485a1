package utils

import (
	"errors"
	"io"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	slugPattern   = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
	validatorOnce sync.Once
)

// SetupValidator registers json field names and custom tags on gin's validator engine.
func SetupValidator() {
	validatorOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		_ = v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
			return slugPattern.MatchString(fl.Field().String())
		})
		_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
			f := fl.Field()
			if f.Kind() == reflect.Ptr {
				if f.IsNil() {
					return true
				}
				f = f.Elem()
			}
			return strings.TrimSpace(f.String()) != ""
		})
	})
}

// BindJSON decodes the request body into dst and turns validator failures into a field map.
func BindJSON(ctx *gin.Context, dst interface{}) error {
	SetupValidator()
	if err := ctx.ShouldBindJSON(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make(map[string]string, len(verrs))
			for _, e := range verrs {
				fields[e.Field()] = validationMessage(e)
			}
			return Validation("", fields)
		}
		if errors.Is(err, io.EOF) {
			return Validation("request body is required", nil)
		}
		return Validation("invalid request body", nil)
	}
	return nil
}

// IsEmail reports whether s has the shape of an email address.
func IsEmail(s string) bool {
	SetupValidator()
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return false
	}
	return v.Var(s, "required,email") == nil
}

func validationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required", "notblank":
		return "this field is required"
	case "email":
		return "invalid email format"
	case "slug":
		return "may contain only letters, digits, hyphens and underscores"
	case "min":
		if e.Kind() == reflect.String {
			return "must be at least " + e.Param() + " characters"
		}
		return "must be at least " + e.Param()
	case "max":
		if e.Kind() == reflect.String {
			return "must be at most " + e.Param() + " characters"
		}
		return "must be at most " + e.Param()
	case "gt":
		return "must be greater than " + e.Param()
	default:
		return "invalid value"
	}
}
