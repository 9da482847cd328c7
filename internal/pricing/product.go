package pricing

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownProduct is returned when a product tag is not part of the catalogue.
var ErrUnknownProduct = errors.New("unknown product kind")

// ProductKind identifies a sellable product.
type ProductKind string

const (
	HighEndPhone  ProductKind = "HIGH_END_PHONE"
	MidRangePhone ProductKind = "MID_RANGE_PHONE"
	Laptop        ProductKind = "LAPTOP"
)

var productKinds = []ProductKind{HighEndPhone, MidRangePhone, Laptop}

// ProductKinds returns every product kind in declaration order.
func ProductKinds() []ProductKind {
	out := make([]ProductKind, len(productKinds))
	copy(out, productKinds)
	return out
}

// Valid reports whether k is a known product kind.
func (k ProductKind) Valid() bool {
	switch k {
	case HighEndPhone, MidRangePhone, Laptop:
		return true
	default:
		return false
	}
}

// Label returns a human readable name.
func (k ProductKind) Label() string {
	switch k {
	case HighEndPhone:
		return "High-end phone"
	case MidRangePhone:
		return "Mid-range phone"
	case Laptop:
		return "Laptop"
	default:
		return string(k)
	}
}

func (k ProductKind) String() string { return string(k) }

// ParseProductKind converts a wire tag into a ProductKind.
func ParseProductKind(value string) (ProductKind, error) {
	kind := ProductKind(strings.TrimSpace(value))
	if !kind.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownProduct, value)
	}
	return kind, nil
}

// MarshalText implements encoding.TextMarshaler.
func (k ProductKind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownProduct, string(k))
	}
	return []byte(k), nil
}

// UnmarshalText implements encoding.TextUnmarshaler and rejects unknown tags.
func (k *ProductKind) UnmarshalText(text []byte) error {
	parsed, err := ParseProductKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
