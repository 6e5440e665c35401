package controller

import (
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/ikkim/mapaddress-backend/internal/app/model"
)

var registerOnce sync.Once

// RegisterValidators installs the custom binding rules and reports fields by
// their JSON names. Safe to call more than once.
func RegisterValidators() {
	registerOnce.Do(func() {
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

		_ = v.RegisterValidation("address_category", func(fl validator.FieldLevel) bool {
			return model.Category(fl.Field().String()).IsValid()
		})
	})
}
