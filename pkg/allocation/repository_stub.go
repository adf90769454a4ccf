package allocation

import (
	"context"
	"time"

	"github.com/payplan/payplan/internal/dates"
)

// StubRepository keeps allocations in memory. Window filtering needs the
// instance months, so tests register them via SetInstanceMonth.
type StubRepository struct {
	allocations    map[int]Allocation
	instanceMonths map[int]dates.YearMonth
	nextId         int
}

func NewStubRepository() *StubRepository {
	return &StubRepository{
		allocations:    make(map[int]Allocation),
		instanceMonths: make(map[int]dates.YearMonth),
		nextId:         1,
	}
}

func (r *StubRepository) SetInstanceMonth(instanceId int, month dates.YearMonth) {
	r.instanceMonths[instanceId] = month
}

func (r *StubRepository) CreateAllocation(_ context.Context, a Allocation) (Allocation, error) {
	for _, existing := range r.allocations {
		if existing.InstanceId == a.InstanceId && existing.PaycheckId == a.PaycheckId && existing.AccountId == a.AccountId {
			return Allocation{}, ErrDuplicateAllocation
		}
	}
	a.Id = r.nextId
	r.nextId++
	a.CreatedAt = time.Now()
	a.UpdatedAt = a.CreatedAt
	r.allocations[a.Id] = a
	return a, nil
}

func (r *StubRepository) GetAllocation(_ context.Context, accountId int, allocationId int) (Allocation, error) {
	a, ok := r.allocations[allocationId]
	if !ok || a.AccountId != accountId {
		return Allocation{}, ErrAllocationNotFound
	}
	return a, nil
}

func (r *StubRepository) GetByPair(_ context.Context, accountId int, instanceId int, paycheckId string) (Allocation, error) {
	for id := 1; id < r.nextId; id++ {
		a, ok := r.allocations[id]
		if ok && a.AccountId == accountId && a.InstanceId == instanceId && a.PaycheckId == paycheckId {
			return a, nil
		}
	}
	return Allocation{}, ErrAllocationNotFound
}

func (r *StubRepository) UpdateAllocation(_ context.Context, a Allocation) (Allocation, error) {
	existing, ok := r.allocations[a.Id]
	if !ok || existing.AccountId != a.AccountId {
		return Allocation{}, ErrAllocationNotFound
	}
	a.UpdatedAt = time.Now()
	r.allocations[a.Id] = a
	return a, nil
}

func (r *StubRepository) DeleteByPair(_ context.Context, accountId int, instanceId int, paycheckId string) (bool, error) {
	for id, a := range r.allocations {
		if a.AccountId == accountId && a.InstanceId == instanceId && a.PaycheckId == paycheckId {
			delete(r.allocations, id)
			return true, nil
		}
	}
	return false, nil
}

func (r *StubRepository) ListForWindow(_ context.Context, accountId int, from dates.YearMonth, to dates.YearMonth) ([]Allocation, error) {
	var allocations []Allocation
	for id := 1; id < r.nextId; id++ {
		a, ok := r.allocations[id]
		if !ok || a.AccountId != accountId {
			continue
		}
		month, known := r.instanceMonths[a.InstanceId]
		if known && (month.Before(from) || month.After(to)) {
			continue
		}
		allocations = append(allocations, a)
	}
	return allocations, nil
}
