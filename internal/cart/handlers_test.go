package cart_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sales-api/internal/cart"
)

type errorResponse struct {
	Status  int               `json:"status"`
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors"`
}

func newHandler() *cart.Handler {
	return &cart.Handler{
		Svc:    &cart.Service{Logger: zerolog.Nop(), NewID: func() string { return "quote-42" }},
		Logger: zerolog.Nop(),
	}
}

func post(t *testing.T, h *cart.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/calculate", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.Calculate(rec, req)
	return rec
}

func TestCalculateScenarios(t *testing.T) {
	h := newHandler()
	cases := []struct {
		name string
		body string
		want string
	}{
		{
			name: "individual",
			body: `{"client":{"type":"INDIVIDUAL","clientId":"IND001","firstName":"John","lastName":"Doe"},
				"items":[{"productType":"HIGH_END_PHONE","quantity":2},{"productType":"LAPTOP","quantity":1}]}`,
			want: `{"total":4200,"itemDetails":[
				{"productType":"HIGH_END_PHONE","quantity":2,"unitPrice":1500,"totalPrice":3000},
				{"productType":"LAPTOP","quantity":1,"unitPrice":1200,"totalPrice":1200}]}`,
		},
		{
			name: "professional high revenue",
			body: `{"client":{"type":"PROFESSIONAL","clientId":"PRO001","companyName":"Tech Corp","vatNumber":"FR123456789",
				"registrationNumber":"REG123","annualRevenue":15000000},"items":[{"productType":"MID_RANGE_PHONE","quantity":10}]}`,
			want: `{"total":5500,"itemDetails":[{"productType":"MID_RANGE_PHONE","quantity":10,"unitPrice":550,"totalPrice":5500}]}`,
		},
		{
			name: "professional low revenue",
			body: `{"client":{"type":"PROFESSIONAL","clientId":"PRO002","companyName":"Small Corp",
				"registrationNumber":"REG456","annualRevenue":5000000},"items":[{"productType":"LAPTOP","quantity":3}]}`,
			want: `{"total":3000,"itemDetails":[{"productType":"LAPTOP","quantity":3,"unitPrice":1000,"totalPrice":3000}]}`,
		},
		{
			name: "revenue at threshold",
			body: `{"client":{"type":"PROFESSIONAL","clientId":"PRO003","companyName":"Edge Corp",
				"registrationNumber":"REG789","annualRevenue":10000000},"items":[{"productType":"HIGH_END_PHONE","quantity":1}]}`,
			want: `{"total":1150,"itemDetails":[{"productType":"HIGH_END_PHONE","quantity":1,"unitPrice":1150,"totalPrice":1150}]}`,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := post(t, h, tc.body)
			require.Equal(t, http.StatusOK, rec.Code)
			require.Equal(t, "quote-42", rec.Header().Get(cart.QuoteIDHeader))
			require.JSONEq(t, tc.want, rec.Body.String())
		})
	}
}

func TestCalculateRendersNumbersUnquoted(t *testing.T) {
	rec := post(t, newHandler(), `{"client":{"type":"INDIVIDUAL","clientId":"a","firstName":"b","lastName":"c"},
		"items":[{"productType":"MID_RANGE_PHONE","quantity":2147483647}]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"total":1717986917600`)
	require.Contains(t, rec.Body.String(), `"unitPrice":800`)
}

func TestCalculateValidationFailure(t *testing.T) {
	rec := post(t, newHandler(), `{"items":[{}]}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, http.StatusBadRequest, body.Status)
	require.Equal(t, "Validation failed", body.Message)
	require.Equal(t, map[string]string{
		"client":               "is required",
		"items[0].productType": "is required",
		"items[0].quantity":    "is required",
	}, body.Errors)
	require.Empty(t, rec.Header().Get(cart.QuoteIDHeader))
}

func TestCalculateMalformedPayload(t *testing.T) {
	rec := post(t, newHandler(), `{"client":{"type":"GOVERNMENT"},"items":[{"productType":"LAPTOP","quantity":1}]}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "Invalid request format or value", body.Message)
	require.Nil(t, body.Errors)
}

func TestCalculateWithoutService(t *testing.T) {
	rec := post(t, &cart.Handler{Logger: zerolog.Nop()}, `{}`)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
}
