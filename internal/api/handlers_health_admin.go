package api

import (
	"fmt"
	"strconv"

	"github.com/valyala/fasthttp"
)

// @Summary Проверка здоровья сервиса
// @Tags    Admin
// @Success 200 {object} okResponse
// @Router  /health [get]
func (s *Service) healthHandler(ctx *fasthttp.RequestCtx) {
	ok(ctx, "OK")
}

// @Summary Полная очистка справочника и журнала событий
// @Tags    Admin
// @Success 200 {object} okResponse
// @Failure 500 {object} errorResponse
// @Router  /admin/reset [post]
func (s *Service) resetHandler(ctx *fasthttp.RequestCtx) {
	if err := s.employees.Reset(ctx); err != nil {
		writeError(ctx, fasthttp.StatusInternalServerError, fmt.Errorf("employeeRepository.Reset: %w", err))
		return
	}

	if s.events != nil {
		if err := s.events.ResetAll(ctx); err != nil {
			writeError(ctx, fasthttp.StatusInternalServerError, fmt.Errorf("events.ResetAll: %w", err))
			return
		}
	}

	ok(ctx, "Все данные очищены")
}

// @Summary Журнал событий об изменениях
// @Tags    Audit
// @Produce json
// @Param   limit  query int false "Лимит"   default(50)
// @Param   offset query int false "Смещение" default(0)
// @Success 200 {object} listResponse
// @Failure 501 {object} errorResponse "аудит не настроен"
// @Failure 500 {object} errorResponse
// @Router  /events [get]
func (s *Service) listEvents(ctx *fasthttp.RequestCtx) {
	if s.events == nil {
		writeError(ctx, fasthttp.StatusNotImplemented, ErrAuditDisabled)
		return
	}

	limit, offset := parseLO(ctx)
	rows, err := s.events.ListEvents(ctx, limit, offset)
	if err != nil {
		writeError(ctx, fasthttp.StatusInternalServerError, fmt.Errorf("events.ListEvents: %w", err))
		return
	}

	writeJSON(ctx, fasthttp.StatusOK, listResponse{Items: rows, Limit: limit, Offset: offset})
}

// @Summary Сообщения DLQ
// @Tags    Audit
// @Produce json
// @Param   limit  query int false "Лимит"   default(50)
// @Param   offset query int false "Смещение" default(0)
// @Success 200 {object} listResponse
// @Failure 501 {object} errorResponse "аудит не настроен"
// @Failure 500 {object} errorResponse
// @Router  /dlq [get]
func (s *Service) listDLQ(ctx *fasthttp.RequestCtx) {
	if s.events == nil {
		writeError(ctx, fasthttp.StatusNotImplemented, ErrAuditDisabled)
		return
	}

	limit, offset := parseLO(ctx)
	rows, err := s.events.ListDLQ(ctx, limit, offset)
	if err != nil {
		writeError(ctx, fasthttp.StatusInternalServerError, fmt.Errorf("events.ListDLQ: %w", err))
		return
	}

	writeJSON(ctx, fasthttp.StatusOK, listResponse{Items: rows, Limit: limit, Offset: offset})
}

func parseLO(ctx *fasthttp.RequestCtx) (int, int) {
	q := ctx.URI().QueryArgs()
	limit := 50
	offset := 0

	if v := q.GetUfloatOrZero("limit"); v > 0 && v <= 500 {
		limit = int(v)
	}
	if s := string(q.Peek("offset")); s != "" {
		if x, err := strconv.Atoi(s); err == nil && x >= 0 {
			offset = x
		}
	}

	return limit, offset
}
