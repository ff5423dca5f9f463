package app

import (
	"strconv"

	"github.com/randomtoy/dicegame/internal/domain"
)

const (
	ResultPlaceholder = "Result"
	RollingIndicator  = "Rolling..."
)

// DieDisplay is the text shown inside a die.
func DieDisplay(s domain.DieState) string {
	if s.Rolling {
		return RollingIndicator
	}
	return strconv.Itoa(s.Value)
}

// GroupDisplay is the text shown in the sum box.
func GroupDisplay(s domain.GroupState) string {
	switch {
	case s.Rolling:
		return RollingIndicator
	case !s.HasSum:
		return ResultPlaceholder
	default:
		return strconv.Itoa(s.Sum)
	}
}
