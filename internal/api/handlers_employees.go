package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/valyala/fasthttp"

	"github.com/Artexxx/HR-Directory/internal/dto"
	"github.com/Artexxx/HR-Directory/internal/exchange/producer"
	"github.com/Artexxx/HR-Directory/internal/validation"
)

// @Summary Список сотрудников
// @Tags    Employees
// @Produce json
// @Success 200 {array} dto.Employee
// @Failure 500 {object} errorResponse "Внутренняя ошибка"
// @Router  /employees [get]
func (s *Service) listEmployees(ctx *fasthttp.RequestCtx) {
	rows, err := s.employees.List(ctx)
	if err != nil {
		writeError(ctx, fasthttp.StatusInternalServerError, fmt.Errorf("employeeRepository.List: %w", err))
		return
	}

	writeJSON(ctx, fasthttp.StatusOK, rows)
}

// @Summary Получить сотрудника по id
// @Tags    Employees
// @Produce json
// @Param   id path string true "Идентификатор сотрудника"
// @Success 200 {object} dto.Employee
// @Failure 404 {object} errorResponse "employee not found"
// @Failure 500 {object} errorResponse "Внутренняя ошибка"
// @Router  /employees/{id} [get]
func (s *Service) getEmployee(ctx *fasthttp.RequestCtx) {
	id, present := pathID(ctx)
	if !present {
		return
	}

	row, err := s.employees.Get(ctx, id)
	if err != nil {
		if errors.Is(err, dto.ErrNotFound) {
			writeError(ctx, fasthttp.StatusNotFound, ErrEmployeeNotFound)
			return
		}

		writeError(ctx, fasthttp.StatusInternalServerError, fmt.Errorf("employeeRepository.Get: %w", err))
		return
	}

	writeJSON(ctx, fasthttp.StatusOK, row)
}

// @Summary Создать сотрудника
// @Tags    Employees
// @Accept  json
// @Produce json
// @Param   request body dto.Employee true "Сотрудник (id назначает сервер)"
// @Success 201 {object} dto.Employee
// @Failure 400 {object} errorResponse "VALIDATION ERROR — поле fields содержит сообщение по каждому полю"
// @Failure 409 {object} errorResponse "employee already exists"
// @Failure 500 {object} errorResponse "Внутренняя ошибка"
// @Router  /employees [post]
func (s *Service) createEmployee(ctx *fasthttp.RequestCtx) {
	var req dto.Employee
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, fmt.Errorf("json.Unmarshal: %w", err))
		return
	}

	employee, valid := s.validate(ctx, req.WithID(s.newID()))
	if !valid {
		return
	}

	if err := s.employees.Create(ctx, employee); err != nil {
		if errors.Is(err, dto.ErrAlreadyExists) {
			writeError(ctx, fasthttp.StatusConflict, ErrEmployeeAlreadyExists)
			return
		}

		writeError(ctx, fasthttp.StatusInternalServerError, fmt.Errorf("employeeRepository.Create: %w", err))
		return
	}

	s.metrics.wrote("create")
	s.publish(ctx, producer.KindCreated, employee)
	writeJSON(ctx, fasthttp.StatusCreated, employee)
}

// @Summary Обновить сотрудника
// @Tags    Employees
// @Accept  json
// @Produce json
// @Param   id path string true "Идентификатор сотрудника"
// @Param   request body dto.Employee true "Полная запись сотрудника"
// @Success 200 {object} dto.Employee
// @Failure 400 {object} errorResponse "VALIDATION ERROR — поле fields содержит сообщение по каждому полю"
// @Failure 404 {object} errorResponse "employee not found"
// @Failure 500 {object} errorResponse "Внутренняя ошибка"
// @Router  /employees/{id} [put]
func (s *Service) updateEmployee(ctx *fasthttp.RequestCtx) {
	id, present := pathID(ctx)
	if !present {
		return
	}

	var req dto.Employee
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, fmt.Errorf("json.Unmarshal: %w", err))
		return
	}

	employee, valid := s.validate(ctx, req.WithID(id))
	if !valid {
		return
	}

	if err := s.employees.Update(ctx, employee); err != nil {
		if errors.Is(err, dto.ErrNotFound) {
			writeError(ctx, fasthttp.StatusNotFound, ErrEmployeeNotFound)
			return
		}

		writeError(ctx, fasthttp.StatusInternalServerError, fmt.Errorf("employeeRepository.Update: %w", err))
		return
	}

	s.metrics.wrote("update")
	s.publish(ctx, producer.KindUpdated, employee)
	writeJSON(ctx, fasthttp.StatusOK, employee)
}

// @Summary Удалить сотрудника
// @Tags    Employees
// @Produce json
// @Param   id path string true "Идентификатор сотрудника"
// @Success 200 {object} okResponse
// @Failure 404 {object} errorResponse "employee not found"
// @Failure 500 {object} errorResponse "Внутренняя ошибка"
// @Router  /employees/{id} [delete]
func (s *Service) deleteEmployee(ctx *fasthttp.RequestCtx) {
	id, present := pathID(ctx)
	if !present {
		return
	}

	if err := s.employees.Delete(ctx, id); err != nil {
		if errors.Is(err, dto.ErrNotFound) {
			writeError(ctx, fasthttp.StatusNotFound, ErrEmployeeNotFound)
			return
		}

		writeError(ctx, fasthttp.StatusInternalServerError, fmt.Errorf("employeeRepository.Delete: %w", err))
		return
	}

	s.metrics.wrote("delete")
	s.publish(ctx, producer.KindDeleted, dto.Employee{ID: id})
	ok(ctx, "Сотрудник удалён")
}

func pathID(ctx *fasthttp.RequestCtx) (string, bool) {
	id, _ := ctx.UserValue("id").(string)
	if strings.TrimSpace(id) == "" {
		writeError(ctx, fasthttp.StatusBadRequest, ErrEmployeeIDRequired)
		return "", false
	}
	return id, true
}

func (s *Service) validate(ctx *fasthttp.RequestCtx, e dto.Employee) (dto.Employee, bool) {
	out, err := s.validator.ValidateEmployee(e)
	if err != nil {
		var fe validation.FieldErrors
		if errors.As(err, &fe) {
			writeValidation(ctx, fe)
			return dto.Employee{}, false
		}
		writeError(ctx, fasthttp.StatusBadRequest, err)
		return dto.Employee{}, false
	}
	return out, true
}

// publish emits a change event. The write is already committed, so a failed
// publish is logged and does not fail the request.
func (s *Service) publish(ctx context.Context, kind producer.Kind, e dto.Employee) {
	if s.producer == nil {
		return
	}

	messageID, err := s.producer.Publish(ctx, kind, e)
	if err != nil {
		s.log.Error().Err(err).Str("kind", string(kind)).Str("employee_id", e.ID).Msg("publish change event failed")
		return
	}

	s.log.Debug().Str("kind", string(kind)).Str("employee_id", e.ID).Str("message_id", messageID.String()).Msg("change event published")
}
