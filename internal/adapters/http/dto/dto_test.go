package dto

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/summitpoint/quotedesk/internal/domain"
	"github.com/summitpoint/quotedesk/internal/ports"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestNewErrorResponse(t *testing.T) {
	t.Parallel()

	resp := NewErrorResponse(ErrorCodeNotFound, "quote Q-1 not found")

	assert.Equal(t, ErrorCodeNotFound, resp.Error.Code)
	assert.Equal(t, "quote Q-1 not found", resp.Error.Message)
	assert.Nil(t, resp.Error.Details)
	assert.Empty(t, resp.TraceID)
}

func TestNewErrorResponseWithDetails(t *testing.T) {
	t.Parallel()

	details := map[string]string{"quantity": "must be a valid decimal number"}
	resp := NewErrorResponseWithDetails(ErrorCodeValidation, "request validation failed", details)

	assert.Equal(t, ErrorCodeValidation, resp.Error.Code)
	assert.Equal(t, details, resp.Error.Details)
}

func TestHTTPStatusFromCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		code     string
		expected int
	}{
		{ErrorCodeNotFound, http.StatusNotFound},
		{ErrorCodeConflict, http.StatusConflict},
		{ErrorCodeValidation, http.StatusBadRequest},
		{ErrorCodeBadRequest, http.StatusBadRequest},
		{ErrorCodeUnauthorized, http.StatusUnauthorized},
		{ErrorCodeUnavailable, http.StatusServiceUnavailable},
		{ErrorCodeTimeout, http.StatusGatewayTimeout},
		{ErrorCodeInternal, http.StatusInternalServerError},
		{"SOMETHING_ELSE", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, HTTPStatusFromCode(tt.code))
		})
	}
}

func TestMapDomainError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "not found",
			err:        domain.NewNotFoundError("quote", "Q-404"),
			wantStatus: http.StatusNotFound,
			wantCode:   ErrorCodeNotFound,
		},
		{
			name:       "conflict",
			err:        domain.NewConflictError("quote", "already finalized"),
			wantStatus: http.StatusConflict,
			wantCode:   ErrorCodeConflict,
		},
		{
			name:       "validation",
			err:        domain.NewValidationError("customer.name", "required before the draft can be saved"),
			wantStatus: http.StatusBadRequest,
			wantCode:   ErrorCodeValidation,
		},
		{
			name:       "unavailable",
			err:        domain.NewUnavailableError("record-store", "circuit open"),
			wantStatus: http.StatusServiceUnavailable,
			wantCode:   ErrorCodeUnavailable,
		},
		{
			name:       "unknown error hides internals",
			err:        errors.New("pq: connection reset"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   ErrorCodeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			status, resp := MapDomainError(tt.err)

			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantCode, resp.Error.Code)

			if tt.wantCode == ErrorCodeInternal {
				assert.NotContains(t, resp.Error.Message, "pq:")
			}
		})
	}
}

func TestMapDomainError_ValidationDetails(t *testing.T) {
	t.Parallel()

	_, resp := MapDomainError(domain.NewValidationError("quantity", "must be a valid decimal number"))

	require.NotNil(t, resp.Error.Details)
	assert.Equal(t, "must be a valid decimal number", resp.Error.Details["quantity"])
}

func TestHandleError(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/quotes/Q-404", nil)

	HandleError(c, domain.NewNotFoundError("quote", "Q-404"))

	assert.Equal(t, http.StatusNotFound, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, ErrorCodeNotFound, resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "Q-404")
}

func TestHandleBindingError(t *testing.T) {
	t.Parallel()

	type payload struct {
		Name string `json:"name" validate:"required"`
	}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(`{}`))
	c.Request.Header.Set("Content-Type", "application/json")

	var p payload
	err := BindAndValidate(c, &p)
	require.Error(t, err)

	HandleBindingError(c, err)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, ErrorCodeValidation, resp.Error.Code)
	assert.Contains(t, resp.Error.Details, "name")
}

func TestPaginationRequest(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		req        PaginationRequest
		wantLimit  int
		wantOffset int
	}{
		{"defaults", PaginationRequest{}, DefaultLimit, 0},
		{"explicit", PaginationRequest{Limit: 5, Offset: 10}, 5, 10},
		{"limit capped", PaginationRequest{Limit: 500}, MaxLimit, 0},
		{"negative clamped", PaginationRequest{Limit: -1, Offset: -3}, DefaultLimit, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.wantLimit, tt.req.GetLimit())
			assert.Equal(t, tt.wantOffset, tt.req.GetOffset())
		})
	}
}

func TestNewPaginatedResponse(t *testing.T) {
	t.Parallel()

	t.Run("extra row signals another page and is trimmed", func(t *testing.T) {
		t.Parallel()

		resp := NewPaginatedResponse([]int{1, 2, 3, 4}, 3, 0)

		assert.Equal(t, []int{1, 2, 3}, resp.Items)
		assert.True(t, resp.HasMore)
		assert.Equal(t, 3, resp.Limit)
	})

	t.Run("short page has no more", func(t *testing.T) {
		t.Parallel()

		resp := NewPaginatedResponse([]int{1, 2}, 3, 6)

		assert.Equal(t, []int{1, 2}, resp.Items)
		assert.False(t, resp.HasMore)
		assert.Equal(t, 6, resp.Offset)
	})

	t.Run("nil items marshal as an empty array", func(t *testing.T) {
		t.Parallel()

		resp := NewPaginatedResponse[int](nil, 3, 0)

		body, err := json.Marshal(resp)
		require.NoError(t, err)
		assert.Contains(t, string(body), `"items":[]`)
	})
}

func TestBindAndValidate_DecimalTag(t *testing.T) {
	t.Parallel()

	bind := func(body string) error {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodPost, "/items", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")

		var req AddItemRequest

		return BindAndValidate(c, &req)
	}

	assert.NoError(t, bind(`{"name":"Paint","quantity":"2.5","unitPrice":"14.99"}`))
	assert.NoError(t, bind(`{"name":"Paint","quantity":"3"}`))

	err := bind(`{"name":"Paint","quantity":"two and a half"}`)
	require.Error(t, err)
	assert.Equal(t, "must be a valid decimal number", ValidationErrors(err)["quantity"])

	err = bind(`{"name":"   ","quantity":"1"}`)
	require.Error(t, err)
	assert.Contains(t, ValidationErrors(err), "name")
}

func TestValidationErrorsUseJSONNames(t *testing.T) {
	t.Parallel()

	err := Validate(&SetStatusRequest{Status: "archived"})
	require.Error(t, err)

	fields := ValidationErrors(err)
	assert.Contains(t, fields, "status")
	assert.Contains(t, fields["status"], "must be one of")
}

func TestToQuoteResponse(t *testing.T) {
	t.Parallel()

	draft := domain.NewDraft()
	draft.Number = "Q-120"
	draft.Customer.Name = "Dana Reyes"
	draft.Items.Add(domain.NewLineItem("Exterior paint", "gallon", decimal.NewFromInt(10), decimal.RequireFromString("42.50")))
	draft.LaborHours = decimal.NewFromInt(16)
	draft.LaborRate = decimal.NewFromInt(85)
	draft.MarkupPercent = decimal.NewFromInt(10)
	draft.Tier = domain.TierPremium

	resp := ToQuoteResponse(draft)

	assert.Equal(t, "Q-120", resp.Number)
	assert.Equal(t, "Dana Reyes", resp.Customer.Name)
	require.Len(t, resp.LineItems, 1)
	assert.Equal(t, "premium", resp.PricingTier)

	// The payload's breakdown is the same computation the draft exposes.
	pricing := draft.Pricing()
	assert.True(t, resp.Pricing.Total.Equal(pricing.Total))
	assert.True(t, resp.Pricing.Materials.Equal(pricing.Materials))

	// Item subtotal travels as computed, never re-derived client-side.
	assert.True(t, resp.LineItems[0].Subtotal.Equal(decimal.RequireFromString("425.00")))
}

func TestToQuoteSummaryResponse(t *testing.T) {
	t.Parallel()

	resp := ToQuoteSummaryResponse(ports.QuoteSummary{
		Number:       "Q-7",
		CustomerName: "Avery Lin",
		Status:       domain.StatusSent,
		Total:        decimal.RequireFromString("1250.00"),
	})

	assert.Equal(t, "Q-7", resp.Number)
	assert.Equal(t, "sent", resp.Status)
	assert.True(t, resp.Total.Equal(decimal.RequireFromString("1250.00")))
}

func TestApplySuggestionsRequestToDomain(t *testing.T) {
	t.Parallel()

	req := &ApplySuggestionsRequest{
		Items: []SuggestionPayload{
			{Name: "Drywall sheet", Quantity: "12", Unit: "sheet"},
			{Name: "Joint compound", Quantity: "not-a-number"},
		},
		LaborHoursMin: "6",
		LaborHoursMax: "10",
	}

	result := req.ToDomain()

	require.Len(t, result.Items, 2)
	assert.True(t, result.Items[0].Quantity.Equal(decimal.NewFromInt(12)))
	assert.True(t, result.Items[1].Quantity.IsZero())
	assert.True(t, result.LaborHoursMin.Equal(decimal.NewFromInt(6)))
	assert.True(t, result.LaborHoursMax.Equal(decimal.NewFromInt(10)))
	assert.True(t, result.LaborHoursMidpoint().Equal(decimal.NewFromInt(8)))
}

func TestParseDecimalField(t *testing.T) {
	t.Parallel()

	d, err := ParseDecimalField("quantity", "3.25")
	require.NoError(t, err)
	assert.True(t, d.Equal(decimal.RequireFromString("3.25")))

	d, err = ParseDecimalField("quantity", "")
	require.NoError(t, err)
	assert.True(t, d.IsZero())

	_, err = ParseDecimalField("quantity", "banana")
	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))
}

func TestDecimalFieldsMarshalAsStrings(t *testing.T) {
	t.Parallel()

	draft := domain.NewDraft()
	draft.Customer.Name = "Rowan Park"
	draft.Items.Add(domain.NewLineItem("Primer", "gallon", decimal.NewFromInt(4), decimal.RequireFromString("19.99")))

	body, err := json.Marshal(ToQuoteResponse(draft))
	require.NoError(t, err)

	assert.Contains(t, string(body), `"unitPrice":"19.99"`)
	assert.Contains(t, string(body), `"subtotal":"79.96"`)
}
