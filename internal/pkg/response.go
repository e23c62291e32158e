package pkg

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/simp-lee/gocms/internal/domain"
)

// Response is the JSON envelope of every API answer.
type Response struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// ValidationErrorResponse is the envelope of a rejected request body. Errors
// maps JSON field names to the failed rule, e.g. "email": "email" or
// "name": "min=2".
type ValidationErrorResponse struct {
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors"`
}

// Success answers 200 with data.
func Success(c *gin.Context, data any) {
	respond(c, http.StatusOK, data)
}

// Created answers 201 with the created resource.
func Created(c *gin.Context, data any) {
	respond(c, http.StatusCreated, data)
}

// List answers 200 with one page of a list endpoint, a *query.Result
// carrying items, total, page, page_size and total_pages.
func List(c *gin.Context, result any) {
	respond(c, http.StatusOK, result)
}

func respond(c *gin.Context, status int, data any) {
	c.JSON(status, Response{Code: status, Message: "success", Data: data})
}

// Error answers with the status of err's domain.AppError code. Errors that
// are not AppErrors become 500 with a fixed message.
func Error(c *gin.Context, err error) {
	status := domain.HTTPStatusCode(err)

	msg := "internal error"
	var appErr *domain.AppError
	if errors.As(err, &appErr) {
		msg = appErr.Message
	}

	c.JSON(status, Response{Code: status, Message: msg})
}

// BindAndValidate binds the request into obj by Content-Type and runs its
// binding rules. On failure it answers 400 and returns false:
//
//	if !pkg.BindAndValidate(c, &req) { return }
func BindAndValidate(c *gin.Context, obj any) bool {
	if err := c.ShouldBind(obj); err != nil {
		c.JSON(http.StatusBadRequest, bindErrorResponse(err, obj))
		return false
	}
	return true
}

// bindErrorResponse describes a binding failure without echoing decoder or
// parser messages to the client.
func bindErrorResponse(err error, obj any) ValidationErrorResponse {
	resp := ValidationErrorResponse{Code: http.StatusBadRequest, Message: "validation error", Errors: map[string]string{}}

	var (
		ve        validator.ValidationErrors
		typeErr   *json.UnmarshalTypeError
		syntaxErr *json.SyntaxError
	)
	switch {
	case errors.As(err, &ve):
		tags := jsonFieldNames(obj)
		for _, fe := range ve {
			name, ok := tags[fe.StructField()]
			if !ok {
				name = strings.ToLower(fe.Field())
			}
			rule := fe.Tag()
			if fe.Param() != "" {
				rule += "=" + fe.Param()
			}
			resp.Errors[name] = rule
		}
	case errors.As(err, &typeErr) && typeErr.Field != "":
		resp.Errors[typeErr.Field] = "type=" + typeErr.Type.String()
	case errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF):
		resp.Message = "malformed JSON body"
	case errors.Is(err, io.EOF):
		resp.Message = "request body is empty"
	default:
		resp.Message = "invalid request body"
	}
	return resp
}

// jsonFieldNames maps struct field names of obj to their JSON names.
func jsonFieldNames(obj any) map[string]string {
	t := reflect.TypeOf(obj)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil
	}
	names := make(map[string]string, t.NumField())
	for i := range t.NumField() {
		f := t.Field(i)
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name != "" && name != "-" {
			names[f.Name] = name
		}
	}
	return names
}
