package api

import (
	"encoding/json"
	"errors"

	"github.com/valyala/fasthttp"

	"github.com/Artexxx/HR-Directory/internal/validation"
)

var (
	ErrEmployeeIDRequired    = errors.New("поле id не передано")
	ErrEmployeeNotFound      = errors.New("сотрудник не найден")
	ErrEmployeeAlreadyExists = errors.New("сотрудник уже существует")
	ErrAuditDisabled         = errors.New("аудит событий не настроен")
)

type okResponse struct {
	Status string `json:"status" example:"ok"`
	Msg    string `json:"msg" example:"Готово"`
}

type errorResponse struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

type listResponse struct {
	Items  any `json:"items"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

func writeJSON(ctx *fasthttp.RequestCtx, statusCode int, body any) {
	ctx.Response.Header.Set("Content-Type", "application/json; charset=utf-8")
	ctx.SetStatusCode(statusCode)

	_ = json.NewEncoder(ctx).Encode(body)
}

func ok(ctx *fasthttp.RequestCtx, msg string) {
	writeJSON(ctx, fasthttp.StatusOK, okResponse{Status: "ok", Msg: msg})
}

func writeError(ctx *fasthttp.RequestCtx, httpStatus int, err error) {
	writeJSON(ctx, httpStatus, errorResponse{Code: fasthttp.StatusMessage(httpStatus), Message: err.Error()})
}

// writeValidation answers 400 with one message per rejected field.
func writeValidation(ctx *fasthttp.RequestCtx, fe validation.FieldErrors) {
	writeJSON(ctx, fasthttp.StatusBadRequest, errorResponse{
		Code:    fasthttp.StatusMessage(fasthttp.StatusBadRequest),
		Message: fe.Error(),
		Fields:  fe.Messages(),
	})
}
