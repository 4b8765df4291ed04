package validators

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"examprep/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// report fields by their json names
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Struct validates s against its `validate` tags. Failures are keyed by json path,
// e.g. "items[2].type".
func Struct(s interface{}) map[string]string {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]string{"body": err.Error()}
	}
	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		key := fe.Namespace()
		if i := strings.Index(key, "."); i >= 0 {
			key = key[i+1:]
		}
		out[key] = message(fe)
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required!", fe.Field())
	case "email":
		return "Invalid email!"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters long!", fe.Field(), fe.Param())
		}
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("%s must have at least %s items!", fe.Field(), fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s!", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s!", fe.Field(), fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be %s or more!", fe.Field(), fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be %s or less!", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s!", fe.Field(), fe.Param())
	case "numeric":
		return fmt.Sprintf("%s must be numeric!", fe.Field())
	case "len":
		return fmt.Sprintf("%s must be exactly %s characters long!", fe.Field(), fe.Param())
	}
	return fmt.Sprintf("%s is invalid!", fe.Field())
}

// Normalizer is implemented by requests that trim or default their fields before validation.
type Normalizer interface {
	Normalize()
}

// Checker adds cross-field rules that struct tags cannot express. It runs after the tags pass.
type Checker interface {
	Check() map[string]string
}

// Page is the shared pagination query.
type Page struct {
	Page  int `query:"page" json:"page" validate:"omitempty,gte=1"`
	Limit int `query:"limit" json:"limit" validate:"omitempty,gte=1,lte=100"`
}

func (p *Page) Normalize() {
	if p.Page == 0 {
		p.Page = 1
	}
	if p.Limit == 0 {
		p.Limit = 10
	}
}

func (p *Page) Offset() int { return (p.Page - 1) * p.Limit }

// Body parses the request body into reqData, validates it and stores it under key.
// It answers 400 on a malformed body and 422 on validation failures.
func Body(key string, newReq func() interface{}) fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := newReq()
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		if n, ok := reqData.(Normalizer); ok {
			n.Normalize()
		}
		if errs := Check(reqData); len(errs) > 0 {
			return middleware.ValidationErrorResponse(c, errs)
		}
		c.Locals(key, reqData)
		return c.Next()
	}
}

// Check runs the struct tags and then the Checker, if any.
func Check(reqData interface{}) map[string]string {
	if errs := Struct(reqData); len(errs) > 0 {
		return errs
	}
	if ch, ok := reqData.(Checker); ok {
		if errs := ch.Check(); len(errs) > 0 {
			return errs
		}
	}
	return nil
}

// Query is Body for the query string.
func Query(key string, newReq func() interface{}) fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := newReq()
		if err := c.QueryParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid query parameters!", nil)
		}
		if n, ok := reqData.(Normalizer); ok {
			n.Normalize()
		}
		if errs := Struct(reqData); len(errs) > 0 {
			return middleware.ValidationErrorResponse(c, errs)
		}
		c.Locals(key, reqData)
		return c.Next()
	}
}

// ParamIDs checks that each named route param is a positive integer and stores it in
// c.Locals under the same name as a uint.
func ParamIDs(names ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		for _, name := range names {
			raw := strings.TrimSpace(c.Params(name))
			id, err := strconv.ParseUint(raw, 10, 64)
			if err != nil || id == 0 {
				return middleware.JsonResponse(c, fiber.StatusBadRequest, false, fmt.Sprintf("Invalid %s!", name), nil)
			}
			c.Locals(name, uint(id))
		}
		return c.Next()
	}
}
