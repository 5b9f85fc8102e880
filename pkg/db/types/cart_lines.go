package dbtypes

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// CartLine is the compact cart row recorded with a checkout submission.
type CartLine struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
	Color    string          `json:"color"`
	Size     string          `json:"size"`
}

// CartLines persists as a JSON array (jsonb on Postgres, text on SQLite).
type CartLines []CartLine

func (l *CartLines) Scan(src any) error {
	if src == nil {
		*l = CartLines{}
		return nil
	}

	var raw []byte
	switch v := src.(type) {
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("CartLines: unsupported Scan type %T", src)
	}
	if len(raw) == 0 {
		*l = CartLines{}
		return nil
	}

	var out []CartLine
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("CartLines: decode: %w", err)
	}
	if out == nil {
		out = []CartLine{}
	}
	*l = CartLines(out)
	return nil
}

func (l CartLines) Value() (driver.Value, error) {
	if len(l) == 0 {
		return "[]", nil
	}
	raw, err := json.Marshal([]CartLine(l))
	if err != nil {
		return nil, fmt.Errorf("CartLines: encode: %w", err)
	}
	return string(raw), nil
}
