package service

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate checks the same `binding` tags gin enforces on request bodies, so
// records reaching a service without passing through ShouldBindJSON (bulk
// import, direct calls, values trimmed by a prepare hook) follow the same rules.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.SetTagName("binding")
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// RepairStatusUpdate is the body of PUT /repairs/:id/status
type RepairStatusUpdate struct {
	Status string `json:"status" binding:"required,oneof=in_progress completed delivered"`
}

func validateStruct(rec interface{}) error {
	err := validate.Struct(rec)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return invalid("%v", err)
	}

	failed := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := fe.Namespace()
		if i := strings.IndexByte(field, '.'); i >= 0 {
			field = field[i+1:]
		}
		if fe.Param() != "" {
			failed = append(failed, field+" failed "+fe.Tag()+"="+fe.Param())
		} else {
			failed = append(failed, field+" failed "+fe.Tag())
		}
	}
	return invalid("%s", strings.Join(failed, "; "))
}
