package cart

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/shopspring/decimal"

	"github.com/noah-isme/sales-api/internal/common"
	"github.com/noah-isme/sales-api/internal/pricing"
)

// Client type discriminators accepted on the wire.
const (
	ClientTypeIndividual   = "INDIVIDUAL"
	ClientTypeProfessional = "PROFESSIONAL"
)

// CalculateRequest is a decoded and validated cart calculation input.
type CalculateRequest struct {
	Client pricing.Client
	Items  []pricing.Item
}

type calculatePayload struct {
	Client json.RawMessage `json:"client"`
	Items  []itemPayload   `json:"items" validate:"required,min=1,dive"`
}

type itemPayload struct {
	ProductType *pricing.ProductKind `json:"productType" validate:"required"`
	Quantity    *int                 `json:"quantity" validate:"required,min=1,max=2147483647"`
}

type clientTypePayload struct {
	Type string `json:"type"`
}

type individualPayload struct {
	ClientID  string `json:"clientId" validate:"notblank"`
	FirstName string `json:"firstName" validate:"notblank"`
	LastName  string `json:"lastName" validate:"notblank"`
}

type professionalPayload struct {
	ClientID           string           `json:"clientId" validate:"notblank"`
	CompanyName        string           `json:"companyName" validate:"notblank"`
	VATNumber          string           `json:"vatNumber"`
	RegistrationNumber string           `json:"registrationNumber" validate:"notblank"`
	AnnualRevenue      *decimal.Decimal `json:"annualRevenue" validate:"required,nonnegative"`
}

// DecodeCalculateRequest reads a calculation payload. Undecodable payloads, unknown client types
// and unknown product kinds yield a malformed request error; field violations yield a validation
// error listing every offending field.
func DecodeCalculateRequest(r io.Reader) (CalculateRequest, error) {
	var payload calculatePayload
	if err := json.NewDecoder(r).Decode(&payload); err != nil {
		return CalculateRequest{}, common.MalformedRequest(fmt.Errorf("decode request: %w", err))
	}

	fields, err := fieldErrors(payload, "")
	if err != nil {
		return CalculateRequest{}, err
	}
	if fields == nil {
		fields = map[string]string{}
	}

	client, clientFields, err := decodeClient(payload.Client)
	if err != nil {
		return CalculateRequest{}, common.MalformedRequest(err)
	}
	for k, v := range clientFields {
		fields[k] = v
	}
	if len(fields) > 0 {
		return CalculateRequest{}, common.ValidationError(fields)
	}

	items := make([]pricing.Item, 0, len(payload.Items))
	for _, it := range payload.Items {
		items = append(items, pricing.Item{Kind: *it.ProductType, Quantity: *it.Quantity})
	}
	return CalculateRequest{Client: client, Items: items}, nil
}

func decodeClient(raw json.RawMessage) (pricing.Client, map[string]string, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, map[string]string{"client": "is required"}, nil
	}
	var head clientTypePayload
	if err := json.Unmarshal(trimmed, &head); err != nil {
		return nil, nil, fmt.Errorf("decode client: %w", err)
	}
	switch head.Type {
	case ClientTypeIndividual:
		var p individualPayload
		if err := json.Unmarshal(trimmed, &p); err != nil {
			return nil, nil, fmt.Errorf("decode individual client: %w", err)
		}
		fields, err := fieldErrors(p, "client.")
		if err != nil || len(fields) > 0 {
			return nil, fields, err
		}
		return pricing.Individual{ID: p.ClientID, FirstName: p.FirstName, LastName: p.LastName}, nil, nil
	case ClientTypeProfessional:
		var p professionalPayload
		if err := json.Unmarshal(trimmed, &p); err != nil {
			return nil, nil, fmt.Errorf("decode professional client: %w", err)
		}
		fields, err := fieldErrors(p, "client.")
		if err != nil || len(fields) > 0 {
			return nil, fields, err
		}
		return pricing.Professional{
			ID:                 p.ClientID,
			CompanyName:        p.CompanyName,
			VATNumber:          p.VATNumber,
			RegistrationNumber: p.RegistrationNumber,
			AnnualRevenue:      *p.AnnualRevenue,
		}, nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown client type %q", head.Type)
	}
}
