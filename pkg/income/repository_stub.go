package income

import "context"

type StubRepository struct {
	sources map[int]Source
	nextId  int
}

func NewStubRepository() *StubRepository {
	return &StubRepository{sources: make(map[int]Source), nextId: 1}
}

func (r *StubRepository) CreateSource(_ context.Context, src Source) (Source, error) {
	src.Id = r.nextId
	r.nextId++
	r.sources[src.Id] = src
	return src, nil
}

func (r *StubRepository) GetSource(_ context.Context, sourceId int) (Source, error) {
	src, ok := r.sources[sourceId]
	if !ok {
		return Source{}, ErrSourceNotFound
	}
	return src, nil
}

func (r *StubRepository) ListSourcesForUser(_ context.Context, userId int) ([]Source, error) {
	var sources []Source
	for id := 1; id < r.nextId; id++ {
		if src, ok := r.sources[id]; ok && src.UserId == userId {
			sources = append(sources, src)
		}
	}
	return sources, nil
}

func (r *StubRepository) ListActiveForUser(ctx context.Context, userId int) ([]Source, error) {
	all, err := r.ListSourcesForUser(ctx, userId)
	if err != nil {
		return nil, err
	}
	var active []Source
	for _, src := range all {
		if src.IsActive {
			active = append(active, src)
		}
	}
	return active, nil
}

func (r *StubRepository) UpdateSource(_ context.Context, src Source) (Source, error) {
	if _, ok := r.sources[src.Id]; !ok {
		return Source{}, ErrSourceNotFound
	}
	r.sources[src.Id] = src
	return src, nil
}
