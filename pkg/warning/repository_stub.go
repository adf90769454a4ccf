package warning

import "context"

type StubRepository struct {
	dismissals []Dismissal
}

func NewStubRepository() *StubRepository {
	return &StubRepository{}
}

func (r *StubRepository) CreateDismissal(_ context.Context, d Dismissal) error {
	for _, existing := range r.dismissals {
		if existing == d {
			return ErrDuplicateDismissal
		}
	}
	r.dismissals = append(r.dismissals, d)
	return nil
}

func (r *StubRepository) ListDismissals(_ context.Context, accountId int, userId int) ([]Dismissal, error) {
	var dismissals []Dismissal
	for _, d := range r.dismissals {
		if d.AccountId == accountId && d.UserId == userId {
			dismissals = append(dismissals, d)
		}
	}
	return dismissals, nil
}
