package domain

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// FieldError describes one field that failed validation.
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ValidationError lists every failing field, not just the first one.
type ValidationError struct {
	Fields []FieldError `json:"fields"`
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Field + " " + f.Reason
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		_ = v.RegisterValidation("workouttype", func(fl validator.FieldLevel) bool {
			return IsValidWorkoutType(fl.Field().String())
		})
		v.RegisterStructValidation(weekNumbersContiguous, Workout{})
		validate = v
	})
	return validate
}

// weekNumbersContiguous enforces that week numbers run 1..N in slice order.
func weekNumbersContiguous(sl validator.StructLevel) {
	w := sl.Current().Interface().(Workout)
	for i, week := range w.Weeks {
		if week.Number != i+1 {
			sl.ReportError(w.Weeks, "weeks", "Weeks", "contiguous", "")
			return
		}
	}
}

// Validate checks a Workout, Week, Day, Exercise, Client or CoachProfile.
// It returns nil or a *ValidationError; it never mutates v.
func Validate(v any) error {
	err := getValidator().Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := &ValidationError{Fields: make([]FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, FieldError{
			Field:  fieldPath(fe.Namespace()),
			Reason: reason(fe),
		})
	}
	return out
}

// fieldPath drops the root struct name: "Workout.weeks[0].number" -> "weeks[0].number".
func fieldPath(ns string) string {
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "hexcolor":
		return "must be a hex colour such as #000000"
	case "workouttype":
		names := make([]string, len(WorkoutTypes))
		for i, t := range WorkoutTypes {
			names[i] = string(t)
		}
		return "must be one of: " + strings.Join(names, ", ")
	case "contiguous":
		return "must be numbered 1..N without gaps"
	default:
		return "is invalid (" + fe.Tag() + ")"
	}
}
