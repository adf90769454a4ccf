package income

import (
	"errors"
	"time"

	"github.com/payplan/payplan/internal/dates"
	"github.com/shopspring/decimal"
)

var ErrSourceNotFound = errors.New("income source not found")

// Source is a recurring pay schedule owned by a single user. The projector
// turns it into dated paycheck occurrences; it is never mutated during
// planning.
type Source struct {
	Id        int
	UserId    int
	Name      string
	Amount    decimal.Decimal
	Frequency dates.Frequency
	StartDate time.Time
	EndDate   *time.Time
	IsActive  bool
}
