package paycheck

import (
	"sort"

	"github.com/payplan/payplan/internal/dates"
	"github.com/payplan/payplan/pkg/income"
)

// DefaultLookaheadMonths is the number of months projected beyond the target
// month when the caller gives no explicit planning window.
const DefaultLookaheadMonths = 4

// Project walks each active income source from its start date and emits every
// occurrence falling between the first day of the target month and the end of
// the lookahead window. A source whose schedule never lands in the window
// contributes nothing. The result is ordered by date, ties broken by source
// id.
func Project(sources []income.Source, target dates.YearMonth, lookaheadMonths int) Projection {
	windowEnd := target.AddMonths(lookaheadMonths)
	firstDay := target.FirstDay()

	var projection Projection
	for _, src := range sources {
		if !src.IsActive {
			continue
		}
		cursor := src.StartDate
		for cursor.Before(firstDay) {
			cursor = dates.Next(cursor, src.Frequency)
		}
		for !dates.YearMonthOf(cursor).After(windowEnd) {
			if src.EndDate != nil && cursor.After(*src.EndDate) {
				break
			}
			occurrence := Paycheck{
				Id:        OccurrenceId(src.Id, cursor),
				SourceId:  src.Id,
				UserId:    src.UserId,
				Name:      src.Name,
				Amount:    src.Amount,
				Date:      cursor,
				Frequency: src.Frequency,
			}
			if dates.YearMonthOf(cursor).Equal(target) {
				projection.CurrentMonth = append(projection.CurrentMonth, occurrence)
			} else {
				projection.Future = append(projection.Future, occurrence)
			}
			cursor = dates.Next(cursor, src.Frequency)
		}
	}

	sortPaychecks(projection.CurrentMonth)
	sortPaychecks(projection.Future)
	return projection
}

func sortPaychecks(paychecks []Paycheck) {
	sort.Slice(paychecks, func(i, j int) bool {
		if !paychecks[i].Date.Equal(paychecks[j].Date) {
			return paychecks[i].Date.Before(paychecks[j].Date)
		}
		return paychecks[i].SourceId < paychecks[j].SourceId
	})
}
