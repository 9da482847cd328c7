package common

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func fixedClock(t *testing.T) time.Time {
	t.Helper()
	ts := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	prev := Now
	Now = func() time.Time { return ts }
	t.Cleanup(func() { Now = prev })
	return ts
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder) ErrorBody {
	t.Helper()
	var body ErrorBody
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return body
}

func TestWriteErrorValidation(t *testing.T) {
	ts := fixedClock(t)
	rr := httptest.NewRecorder()
	WriteError(rr, ValidationError(map[string]string{"items": "must not be empty"}))

	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	body := decodeBody(t, rr)
	require.Equal(t, 400, body.Status)
	require.Equal(t, CodeValidation, body.Code)
	require.Equal(t, MsgValidationFailed, body.Message)
	require.Equal(t, "must not be empty", body.Errors["items"])
	require.True(t, ts.Equal(body.Timestamp))
}

func TestWriteErrorMalformedHasNoFields(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteError(rr, MalformedRequest(errors.New("unexpected EOF")))

	require.Equal(t, http.StatusBadRequest, rr.Code)
	body := decodeBody(t, rr)
	require.Equal(t, MsgMalformedRequest, body.Message)
	require.Nil(t, body.Errors)
}

func TestWriteErrorUnexpected(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteError(rr, errors.New("boom"))

	require.Equal(t, http.StatusInternalServerError, rr.Code)
	body := decodeBody(t, rr)
	require.Equal(t, 500, body.Status)
	require.Equal(t, MsgUnexpected, body.Message)
	require.Equal(t, "boom", body.Errors["error"])
}

func TestAppErrorUnwrap(t *testing.T) {
	cause := errors.New("cause")
	err := MalformedRequest(cause)
	require.ErrorIs(t, err, cause)
	require.True(t, IsAppError(err))
	require.False(t, IsAppError(cause))
}

func TestAmountMarshalsAsBareNumber(t *testing.T) {
	out, err := json.Marshal(map[string]Amount{"total": {Decimal: decimal.RequireFromString("10750.50")}})
	require.NoError(t, err)
	require.Equal(t, `{"total":10750.5}`, string(out))
}
