package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"vibe-commerce/internal/domain"
)

type errorResponse struct {
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}

var fieldNamesOnce sync.Once

// registerJSONFieldNames makes validator report fields by their json names so
// messages read "customer.email: invalid email".
func registerJSONFieldNames() {
	fieldNamesOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return f.Name
			}
			return name
		})
	})
}

// bindJSON decodes the body and validates it. An empty body validates as {} so
// required fields are reported instead of a bare EOF.
func bindJSON(c *gin.Context, obj any) error {
	err := c.ShouldBindJSON(obj)
	if errors.Is(err, io.EOF) {
		return binding.Validator.ValidateStruct(obj)
	}
	return err
}

func (h *handler) fail(c *gin.Context, err error) {
	status, body := h.classify(c, err)
	c.AbortWithStatusJSON(status, body)
}

func (h *handler) classify(c *gin.Context, err error) (int, errorResponse) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		details := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			details = append(details, fieldPath(fe)+": "+fieldMessage(fe))
		}
		return http.StatusBadRequest, errorResponse{Error: strings.Join(details, "; "), Details: details}
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		msg := fmt.Sprintf("%s: expected %s", typeErr.Field, typeErr.Type.String())
		return http.StatusBadRequest, errorResponse{Error: msg, Details: []string{msg}}
	}
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) || errors.Is(err, io.ErrUnexpectedEOF) {
		return http.StatusBadRequest, errorResponse{Error: "invalid JSON body"}
	}

	var derr *domain.Error
	errors.As(err, &derr)
	switch {
	case errors.Is(err, domain.ErrInvalidArgument):
		return http.StatusBadRequest, domainBody(err, derr)
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, domainBody(err, derr)
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict, domainBody(err, derr)
	}

	h.logger.Printf("request %s %s %s failed: %v", requestIDFrom(c), c.Request.Method, c.Request.URL.Path, err)
	return http.StatusInternalServerError, errorResponse{Error: "Internal server error"}
}

func domainBody(err error, derr *domain.Error) errorResponse {
	if derr == nil {
		return errorResponse{Error: err.Error()}
	}
	return errorResponse{Error: derr.Msg, Details: derr.Details}
}

// fieldPath drops the top-level struct name from the validator namespace.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "email":
		return "invalid email"
	case "min", "gte":
		return fmt.Sprintf("%s must be >= %s", fe.Field(), fe.Param())
	case "max", "lte":
		return fmt.Sprintf("%s must be <= %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("failed on %s", fe.Tag())
	}
}
