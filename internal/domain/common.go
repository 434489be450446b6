package domain

import (
	"fmt"
	"strings"
)

// Side represents the direction of a position.
type Side string

const (
	SideLong  Side = "long"
	SideShort Side = "short"
)

// ParseSide normalizes a side string (case-insensitive) to its canonical
// lowercase form. Anything other than long/short is rejected.
func ParseSide(s string) (Side, error) {
	switch Side(strings.ToLower(s)) {
	case SideLong:
		return SideLong, nil
	case SideShort:
		return SideShort, nil
	default:
		return "", fmt.Errorf("side must be %q or %q, got %q", SideLong, SideShort, s)
	}
}

// PositionStatus represents the status of a simulated position.
type PositionStatus string

const (
	StatusOpen   PositionStatus = "open"
	StatusClosed PositionStatus = "closed"
)

// CloseReason indicates why a position was closed.
type CloseReason string

const (
	CloseReasonStopLoss   CloseReason = "SL"
	CloseReasonTakeProfit CloseReason = "TP"
	CloseReasonManual     CloseReason = "MANUAL"
)
