// Package quote exposes the HTTP surface of the pricing engine.
package quote

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	validator "github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/noah-isme/backend-kasir/internal/common"
	"github.com/noah-isme/backend-kasir/internal/obs"
	"github.com/noah-isme/backend-kasir/internal/pricing"
)

// Handler serves quote and catalogue endpoints.
type Handler struct {
	Rules    pricing.Table
	Currency string
	Validate *validator.Validate
}

type quoteRequest struct {
	Items []string `json:"items"`
	Rules TableDoc `json:"rules,omitempty"`
}

type quoteResponse struct {
	ID       uuid.UUID      `json:"id"`
	Currency string         `json:"currency"`
	Total    pricing.Money  `json:"total"`
	Lines    []pricing.Line `json:"lines"`
}

// Quote handles POST /api/v1/quotes. The request carries the scanned cart
// and, optionally, a caller-supplied rule table overriding the service
// catalogue for this quote only.
func (h *Handler) Quote(w http.ResponseWriter, r *http.Request) {
	var payload quoteRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.writeError(w, common.NewAppError("BAD_REQUEST", "invalid request body", http.StatusBadRequest, err))
		return
	}
	if h.Validate != nil {
		if err := h.Validate.Var(payload.Items, "dive,required"); err != nil {
			h.writeError(w, common.NewAppError("INVALID_ITEMS", "cart items must be non-empty codes", http.StatusUnprocessableEntity, err))
			return
		}
		if len(payload.Rules) > 0 {
			if err := h.Validate.Var(payload.Rules, "dive"); err != nil {
				h.writeError(w, common.NewAppError("INVALID_RULES", "invalid rule table", http.StatusUnprocessableEntity, err))
				return
			}
		}
	}

	rules := h.catalogue()
	if payload.Rules != nil {
		var err error
		rules, err = payload.Rules.Table()
		if err != nil {
			h.writeError(w, common.NewAppError("INVALID_RULES", err.Error(), http.StatusUnprocessableEntity, err))
			return
		}
	}

	tally := pricing.Tally(payload.Items)
	lines, err := pricing.Lines(tally, rules)
	if err != nil {
		h.writeError(w, err)
		return
	}
	var total pricing.Money
	for _, line := range lines {
		total += line.Subtotal
	}

	if obs.QuoteRequestsTotal != nil {
		obs.QuoteRequestsTotal.WithLabelValues("ok").Inc()
	}
	if obs.QuoteAmount != nil {
		obs.QuoteAmount.Observe(float64(total))
	}

	common.JSON(w, http.StatusOK, map[string]any{"data": quoteResponse{
		ID:       uuid.New(),
		Currency: h.Currency,
		Total:    total,
		Lines:    lines,
	}})
}

// RulesDoc handles GET /api/v1/rules, returning the service catalogue as a
// rule-table document.
func (h *Handler) RulesDoc(w http.ResponseWriter, _ *http.Request) {
	common.JSON(w, http.StatusOK, map[string]any{"data": DocFromTable(h.catalogue())})
}

func (h *Handler) catalogue() pricing.Table {
	if h.Rules != nil {
		return h.Rules
	}
	return pricing.DefaultRules()
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var unknown *pricing.UnknownSKUError
	if errors.As(err, &unknown) {
		err = &common.AppError{
			Code:       "UNKNOWN_SKU",
			Message:    unknown.Error(),
			HTTPStatus: http.StatusUnprocessableEntity,
			Err:        err,
			Details:    map[string]string{"code": unknown.Code},
		}
	}

	var appErr *common.AppError
	if errors.As(err, &appErr) {
		status := appErr.HTTPStatus
		if status == 0 {
			status = http.StatusInternalServerError
		}
		code := appErr.Code
		if code == "" {
			code = "INTERNAL"
		}
		if obs.QuoteRequestsTotal != nil {
			obs.QuoteRequestsTotal.WithLabelValues(strings.ToLower(code)).Inc()
		}
		common.JSONError(w, status, code, appErr.Message, appErr.Details)
		return
	}

	if obs.QuoteRequestsTotal != nil {
		obs.QuoteRequestsTotal.WithLabelValues("error").Inc()
	}
	common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "unable to price cart", nil)
}
