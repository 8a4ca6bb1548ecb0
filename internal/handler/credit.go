package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/segyhp/credit-engine/internal/domain"
	"github.com/segyhp/credit-engine/internal/validator"
	customError "github.com/segyhp/credit-engine/pkg/errors"
	"github.com/segyhp/credit-engine/pkg/response"
)

const maxBodyBytes = 1 << 20

// CreditService is the engine surface the HTTP layer depends on.
type CreditService interface {
	Simulate(ctx context.Context, in domain.SimulationRequest) (domain.SimulationResult, error)
	Compare(ctx context.Context, in domain.ComparisonRequest) (domain.ComparisonSet, error)
	GetComparison(ctx context.Context, id string) (domain.ComparisonSet, error)
	ExportCSV(ctx context.Context, set domain.ComparisonSet) (string, string, error)
	ExportJSON(ctx context.Context, set domain.ComparisonSet) ([]byte, string, error)
	BorrowingCapacity(ctx context.Context, in domain.CapacityRequest) (domain.CapacityResponse, error)
	Schedule(ctx context.Context, in domain.ScheduleRequest) (domain.ScheduleResponse, error)
	Validate(ctx context.Context, in domain.ValidationRequest) validator.Result
	ListProducts(ctx context.Context, creditType domain.CreditType) ([]domain.CreditProduct, error)
}

type CreditHandler struct {
	service CreditService
	logger  *zap.Logger
}

func NewCreditHandler(service CreditService, logger *zap.Logger) *CreditHandler {
	return &CreditHandler{service: service, logger: logger}
}

// Register mounts the credit routes on r.
func (h *CreditHandler) Register(r *mux.Router) {
	r.HandleFunc("/simulations", h.Simulate).Methods(http.MethodPost)
	r.HandleFunc("/comparisons", h.Compare).Methods(http.MethodPost)
	r.HandleFunc("/comparisons/export", h.ExportComparison).Methods(http.MethodPost)
	r.HandleFunc("/comparisons/{id}", h.GetComparison).Methods(http.MethodGet)
	r.HandleFunc("/capacity", h.BorrowingCapacity).Methods(http.MethodPost)
	r.HandleFunc("/schedules", h.Schedule).Methods(http.MethodPost)
	r.HandleFunc("/validations", h.Validate).Methods(http.MethodPost)
	r.HandleFunc("/products", h.ListProducts).Methods(http.MethodGet)
}

func statusFor(code string) int {
	switch code {
	case customError.ErrCodeValidationFailed, customError.ErrCodeProductIncompatible, customError.ErrCodeNoCompatibleProduct:
		return http.StatusUnprocessableEntity
	case customError.ErrCodeInvalidInput:
		return http.StatusBadRequest
	case customError.ErrCodeProductNotFound, customError.ErrCodeComparisonNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (h *CreditHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var be *customError.BusinessError
	if !errors.As(err, &be) {
		h.logger.Error("unhandled error", zap.String("path", r.URL.Path), zap.Error(err))
		response.InternalServerError(w, "internal error", nil)
		return
	}

	status := statusFor(be.Code)
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed",
			zap.String("path", r.URL.Path),
			zap.String("code", be.Code),
			zap.String("request_id", response.RequestID(r.Context())),
			zap.Error(err),
		)
	}
	response.Fail(w, status, be.Code, be.Message, be.Fields)
}

func (h *CreditHandler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		h.writeError(w, r, customError.WrapInvalidInput(fmt.Errorf("decode body: %w", err)))
		return false
	}
	return true
}

// Simulate handles POST /simulations
func (h *CreditHandler) Simulate(w http.ResponseWriter, r *http.Request) {
	var in domain.SimulationRequest
	if !h.decode(w, r, &in) {
		return
	}

	result, err := h.service.Simulate(r.Context(), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	response.Success(w, result)
}

// Compare handles POST /comparisons
func (h *CreditHandler) Compare(w http.ResponseWriter, r *http.Request) {
	var in domain.ComparisonRequest
	if !h.decode(w, r, &in) {
		return
	}

	set, err := h.service.Compare(r.Context(), in)
	if customError.CodeOf(err) == customError.ErrCodeExportError && len(set.Offers) > 0 {
		h.logger.Warn("returning unsaved comparison",
			zap.String("request_id", response.RequestID(r.Context())),
			zap.Error(err),
		)
		response.SuccessWithMessage(w, "comparison computed but could not be saved", set)
		return
	}
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if set.ID != "" {
		response.Created(w, set)
		return
	}
	response.Success(w, set)
}

// GetComparison handles GET /comparisons/{id}
func (h *CreditHandler) GetComparison(w http.ResponseWriter, r *http.Request) {
	set, err := h.service.GetComparison(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	response.Success(w, set)
}

// ExportComparison handles POST /comparisons/export. With ?id= the saved
// comparison is exported; otherwise the body is compared first. ?format=
// selects csv (default) or json.
func (h *CreditHandler) ExportComparison(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "csv"
	}
	if format != "csv" && format != "json" {
		h.writeError(w, r, customError.WrapValidationFailed(map[string][]string{"format": {"must be one of: csv, json"}}))
		return
	}

	var (
		set domain.ComparisonSet
		err error
	)
	if id := r.URL.Query().Get("id"); id != "" {
		set, err = h.service.GetComparison(r.Context(), id)
	} else {
		var in domain.ComparisonRequest
		if !h.decode(w, r, &in) {
			return
		}
		in.Save = false
		set, err = h.service.Compare(r.Context(), in)
	}
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if format == "json" {
		body, filename, err := h.service.ExportJSON(r.Context(), set)
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		response.Attachment(w, "application/json", filename, body)
		return
	}

	body, filename, err := h.service.ExportCSV(r.Context(), set)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	response.Attachment(w, "text/csv; charset=utf-8", filename, []byte(body))
}

// BorrowingCapacity handles POST /capacity
func (h *CreditHandler) BorrowingCapacity(w http.ResponseWriter, r *http.Request) {
	var in domain.CapacityRequest
	if !h.decode(w, r, &in) {
		return
	}

	out, err := h.service.BorrowingCapacity(r.Context(), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	response.Success(w, out)
}

// Schedule handles POST /schedules
func (h *CreditHandler) Schedule(w http.ResponseWriter, r *http.Request) {
	var in domain.ScheduleRequest
	if !h.decode(w, r, &in) {
		return
	}

	out, err := h.service.Schedule(r.Context(), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	response.Success(w, out)
}

// Validate handles POST /validations. The result is returned with 200 even
// when it holds blocking errors.
func (h *CreditHandler) Validate(w http.ResponseWriter, r *http.Request) {
	var in domain.ValidationRequest
	if !h.decode(w, r, &in) {
		return
	}

	res := h.service.Validate(r.Context(), in)
	response.Success(w, struct {
		Valid bool `json:"valid"`
		validator.Result
	}{Valid: res.Valid(), Result: res})
}

// ListProducts handles GET /products
func (h *CreditHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.ListProducts(r.Context(), domain.CreditType(r.URL.Query().Get("type")))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	response.Success(w, products)
}
