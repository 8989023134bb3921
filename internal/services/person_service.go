package services

import (
	"context"
	"errors"

	"gastos/internal/core"
	"gastos/internal/log"
	"gastos/internal/storage"
)

// PersonTotals is a person with their derived age and financial totals.
type PersonTotals struct {
	Person core.Person
	Age    int
	Totals core.Totals
}

// PeopleTotals is a page of people with totals plus the sum over that page.
type PeopleTotals struct {
	Page   Page[PersonTotals]
	Totals core.Totals
}

type PersonService struct {
	people storage.PersonRepository
	totals *TotalsEngine
	opts   options
}

func NewPersonService(people storage.PersonRepository, totals *TotalsEngine, opts ...Option) *PersonService {
	return &PersonService{
		people: people,
		totals: totals,
		opts:   buildOptions(log.ComponentPerson, opts),
	}
}

// Create stores a new person. Any identity on p is ignored.
func (s *PersonService) Create(ctx context.Context, p core.Person) Result[core.Person] {
	p.ID = 0
	if err := p.Validate(); err != nil {
		return Fail[core.Person](core.KindValidation, validationMessage(err))
	}
	if err := s.people.Add(ctx, &p); err != nil {
		s.fail(ctx, "Failed to create person", log.OpCreate, 0, err)
		return Fail[core.Person](core.KindUnexpected, MsgCreatePersonFailed)
	}
	return Ok(p)
}

// Update changes name and birth date only.
func (s *PersonService) Update(ctx context.Context, id int64, in core.Person) Result[core.Person] {
	p, err := s.people.GetByID(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return Fail[core.Person](core.KindNotFound, MsgPersonNotFound)
	}
	if err != nil {
		s.fail(ctx, "Failed to load person", log.OpUpdate, id, err)
		return Fail[core.Person](core.KindUnexpected, MsgUpdatePersonFailed)
	}

	p.Name = in.Name
	p.BirthDate = in.BirthDate
	if err := p.Validate(); err != nil {
		return Fail[core.Person](core.KindValidation, validationMessage(err))
	}
	if err := s.people.Update(ctx, p); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return Fail[core.Person](core.KindNotFound, MsgPersonNotFound)
		}
		s.fail(ctx, "Failed to update person", log.OpUpdate, id, err)
		return Fail[core.Person](core.KindUnexpected, MsgUpdatePersonFailed)
	}
	return Ok(p)
}

func (s *PersonService) GetByID(ctx context.Context, id int64) Result[core.Person] {
	p, err := s.people.GetByID(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return Fail[core.Person](core.KindNotFound, MsgPersonNotFound)
	}
	if err != nil {
		s.fail(ctx, "Failed to get person", log.OpRead, id, err)
		return Fail[core.Person](core.KindUnexpected, MsgGetPersonFailed)
	}
	return Ok(p)
}

// Delete removes the person and, through the store, all of their transactions.
func (s *PersonService) Delete(ctx context.Context, id int64) Result[bool] {
	err := s.people.Delete(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return Fail[bool](core.KindNotFound, MsgPersonNotFound)
	}
	if err != nil {
		s.fail(ctx, "Failed to delete person", log.OpDelete, id, err)
		return Fail[bool](core.KindUnexpected, MsgDeletePersonFailed)
	}
	s.opts.logger.InfoContext(ctx, "Person deleted", log.FieldPersonID, id)
	return Ok(true)
}

// List returns every person whose name contains search, ordered by name.
func (s *PersonService) List(ctx context.Context, search string) Result[[]core.Person] {
	people, err := s.people.List(ctx, core.PersonFilter{Search: core.NormalizeSearch(search)}, core.OrderByName)
	if err != nil {
		s.fail(ctx, "Failed to list people", log.OpList, 0, err)
		return Fail[[]core.Person](core.KindUnexpected, MsgListPeopleFailed)
	}
	if people == nil {
		people = []core.Person{}
	}
	return Ok(people)
}

// ListPaged returns one page of people, newest first, each with age and
// totals.
func (s *PersonService) ListPaged(ctx context.Context, skip, take int, search string) Result[Page[PersonTotals]] {
	page, err := s.page(ctx, skip, take, search)
	if err != nil {
		s.fail(ctx, "Failed to list people", log.OpList, 0, err)
		return Fail[Page[PersonTotals]](core.KindUnexpected, MsgListPeopleFailed)
	}
	return Ok(page)
}

// ListWithTotals is ListPaged plus the totals summed over the page.
func (s *PersonService) ListWithTotals(ctx context.Context, skip, take int, search string) Result[PeopleTotals] {
	page, err := s.page(ctx, skip, take, search)
	if err != nil {
		s.fail(ctx, "Failed to compute people totals", log.OpTotals, 0, err)
		return Fail[PeopleTotals](core.KindUnexpected, MsgPeopleTotalsFailed)
	}
	sums := make([]core.Totals, len(page.Items))
	for i, it := range page.Items {
		sums[i] = it.Totals
	}
	return Ok(PeopleTotals{Page: page, Totals: Sum(sums)})
}

func (s *PersonService) page(ctx context.Context, skip, take int, search string) (Page[PersonTotals], error) {
	skip, take = core.NormalizePage(skip, take)
	f := core.PersonFilter{Search: core.NormalizeSearch(search)}

	people, err := s.people.Paginate(ctx, skip, take, f, core.OrderNewestFirst)
	if err != nil {
		return Page[PersonTotals]{}, err
	}
	total, err := s.people.Count(ctx, f)
	if err != nil {
		return Page[PersonTotals]{}, err
	}

	ids := make([]int64, len(people))
	for i, p := range people {
		ids[i] = p.ID
	}
	totals, err := s.totals.ForPeople(ctx, ids)
	if err != nil {
		return Page[PersonTotals]{}, err
	}

	today := s.opts.now().UTC()
	items := make([]PersonTotals, len(people))
	for i, p := range people {
		items[i] = PersonTotals{Person: p, Age: core.Age(p.BirthDate.Time, today), Totals: totals[i]}
	}
	return newPage(items, skip, take, total), nil
}

func (s *PersonService) fail(ctx context.Context, msg, op string, id int64, err error) {
	s.opts.logger.ErrorContext(ctx, msg,
		log.FieldOperation, op,
		log.FieldPersonID, id,
		log.FieldError, err.Error())
}
