package model

import (
	"bytes"
	"fmt"
	"golang.org/x/text/message"
	"math"
	"strconv"
)

// Money is an amount in centavos. It travels on the wire as a decimal number
// with two fractional digits, e.g. 5.60.
type Money int64

func MoneyFromFloat(v float64) Money {
	return Money(math.Round(v * 100))
}

func (m Money) Float64() float64 {
	return float64(m) / 100
}

func (m Money) String() string {
	sign := ""
	v := int64(m)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *Money) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}

	data = bytes.Trim(data, `"`)
	v, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return fmt.Errorf("money: %w", err)
	}

	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("money: invalid amount %q", data)
	}

	*m = MoneyFromFloat(v)
	return nil
}

// Format renders m in the printer's locale, e.g. "R$ 5,60" for pt-BR.
func (m Money) Format(p *message.Printer) string {
	return p.Sprintf("R$ %.2f", m.Float64())
}
