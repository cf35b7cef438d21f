// internal/model/filter.go
package model

import (
	"encoding"
	"fmt"
)

// CardFilter は復習義務の消化対象となるカードの種別を表します
type CardFilter string

const (
	FilterNew  CardFilter = "new"  // 未学習カードのみ
	FilterDue  CardFilter = "due"  // 復習期限が来たカードのみ
	FilterBoth CardFilter = "both" // 両方
)

var _ encoding.TextUnmarshaler = (*CardFilter)(nil)

// IsValid はフィルタ値が定義済みのものかを返します
func (f CardFilter) IsValid() bool {
	switch f {
	case FilterNew, FilterDue, FilterBoth:
		return true
	}
	return false
}

func (f CardFilter) String() string {
	return string(f)
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *CardFilter) UnmarshalText(text []byte) error {
	v := CardFilter(text)
	if !v.IsValid() {
		return fmt.Errorf("%w: unknown card filter %q", ErrInvalidInput, string(text))
	}
	*f = v
	return nil
}
