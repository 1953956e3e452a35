package payment

import (
	"math"
	"strings"

	"booking/portal/internal/models"
)

// maxMinorUnits is the largest minor amount that survives the float64 and
// int64 round trip exactly.
const maxMinorUnits = 1 << 53

// toMinorUnits converts major currency units to the gateway's minor units.
// The result is always in (0, maxMinorUnits).
func toMinorUnits(amount float64) (int64, error) {
	minor := math.Round(amount * 100)
	if math.IsNaN(minor) || minor <= 0 {
		return 0, ErrAmountBelowMinorUnit
	}
	if minor >= maxMinorUnits {
		return 0, ErrAmountTooLarge
	}
	return int64(minor), nil
}

func fromMinorUnits(minor float64) float64 {
	return minor / 100
}

// normalizeStatus folds gateway specific states into the four canonical ones.
func normalizeStatus(raw string) models.PaymentState {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "completed", "succeeded", "paid":
		return models.PaymentCompleted
	case "failed":
		return models.PaymentFailed
	case "canceled", "cancelled":
		return models.PaymentCancelled
	default:
		return models.PaymentPending
	}
}
