package api

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/san-kum/blocksim/internal/graph"
)

// SimulateRequest carries either a diagram (blocks and links) or a single
// transfer function (num and den).
type SimulateRequest struct {
	Blocks  []graph.Block `json:"blocks" validate:"omitempty,max=500,dive"`
	Links   []graph.Link  `json:"links" validate:"omitempty,max=5000,dive"`
	Num     []float64     `json:"num" validate:"omitempty,max=64"`
	Den     []float64     `json:"den" validate:"required_without=Blocks,omitempty,max=64"`
	TFinal  float64       `json:"t_final"`
	Dt      float64       `json:"dt"`
	NPoints int           `json:"n_points" validate:"gte=0"`
}

func (r *SimulateRequest) diagram() bool {
	return len(r.Blocks) > 0
}

func (r *SimulateRequest) graph() *graph.Graph {
	return &graph.Graph{Blocks: r.Blocks, Links: r.Links}
}

type DiscretizeRequest struct {
	Ts    float64   `json:"ts"`
	Poles []float64 `json:"poles" validate:"max=64"`
	Zeros []float64 `json:"zeros" validate:"max=64"`
}

type ReduceRequest struct {
	Blocks []graph.Block `json:"blocks" validate:"required,max=500,dive"`
	Links  []graph.Link  `json:"links" validate:"max=5000,dive"`
}

// FieldError is one failed validation rule.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	parts := make([]string, len(v))
	for i, e := range v {
		parts[i] = e.Field + ": " + e.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

func validate(v *validator.Validate, req any) error {
	err := v.Struct(req)
	if err == nil {
		return nil
	}
	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	out := make(ValidationErrors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, FieldError{Field: fe.Namespace(), Message: message(fe)})
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_without":
		return "field is required"
	case "max":
		return fmt.Sprintf("at most %s entries", fe.Param())
	case "gte":
		return fmt.Sprintf("must be >= %s", fe.Param())
	default:
		return fmt.Sprintf("validation failed: %s", fe.Tag())
	}
}
