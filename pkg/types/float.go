package types

import "github.com/shopspring/decimal"

// Float is a JSON number that some endpoints send quoted, e.g. "30.0444000".
type Float float64

func (f *Float) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return err
	}
	*f = Float(d.InexactFloat64())
	return nil
}

func (f Float) Float64() float64 {
	return float64(f)
}
