package services

import (
	"context"
	"errors"

	"gastos/internal/core"
	"gastos/internal/log"
	"gastos/internal/storage"
)

// TransactionDetail is a transaction with its person and category loaded.
// Either reference may be nil when it could not be resolved.
type TransactionDetail struct {
	Transaction core.Transaction
	Person      *core.Person
	Category    *core.Category
}

// TransactionService validates and persists transactions against the
// current state of their person and category.
type TransactionService struct {
	repos  storage.Repositories
	totals *TotalsEngine
	opts   options
	saved  *log.StructuredLogger
}

func NewTransactionService(repos storage.Repositories, totals *TotalsEngine, opts ...Option) *TransactionService {
	o := buildOptions(log.ComponentTransaction, opts)
	return &TransactionService{
		repos:  repos,
		totals: totals,
		opts:   o,
		saved:  log.NewStructuredLogger(o.logger),
	}
}

// Create loads the references, applies the business rules and inserts.
func (s *TransactionService) Create(ctx context.Context, in core.Transaction) Result[TransactionDetail] {
	in.ID = 0
	in.Amount = core.RoundAmount(in.Amount)

	person, category, res, ok := s.loadReferences(ctx, in, MsgCreateTransactionFailed)
	if !ok {
		return res
	}
	if res, ok := s.validate(in, person, category); !ok {
		return res
	}

	if err := s.repos.Transactions.Add(ctx, &in); err != nil {
		s.fail(ctx, "Failed to create transaction", log.OpCreate, in, err)
		return Fail[TransactionDetail](core.KindUnexpected, MsgCreateTransactionFailed)
	}

	s.saved.LogTransactionSaved(ctx, log.OpCreate, in.ID, in.PersonID, in.CategoryID, in.Type.String(), in.Amount.StringFixed(core.AmountScale))
	s.publish(ctx, EventTransactionCreated, in)
	return Ok(TransactionDetail{Transaction: in, Person: &person, Category: &category})
}

// Update rewrites every mutable field of transaction id. The existing row
// is looked up before the references, and the rules run against the
// incoming type and category.
func (s *TransactionService) Update(ctx context.Context, id int64, in core.Transaction) Result[TransactionDetail] {
	existing, err := s.repos.Transactions.GetByID(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return Fail[TransactionDetail](core.KindNotFound, MsgTransactionNotFound)
	}
	if err != nil {
		s.fail(ctx, "Failed to load transaction", log.OpUpdate, core.Transaction{ID: id}, err)
		return Fail[TransactionDetail](core.KindUnexpected, MsgUpdateTransactionFailed)
	}

	in.Amount = core.RoundAmount(in.Amount)
	person, category, res, ok := s.loadReferences(ctx, in, MsgUpdateTransactionFailed)
	if !ok {
		return res
	}
	if res, ok := s.validate(in, person, category); !ok {
		return res
	}

	existing.Description = in.Description
	existing.Amount = in.Amount
	existing.Type = in.Type
	existing.Date = in.Date
	existing.CategoryID = in.CategoryID
	existing.PersonID = in.PersonID

	if err := s.repos.Transactions.Update(ctx, existing); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return Fail[TransactionDetail](core.KindNotFound, MsgTransactionNotFound)
		}
		s.fail(ctx, "Failed to update transaction", log.OpUpdate, existing, err)
		return Fail[TransactionDetail](core.KindUnexpected, MsgUpdateTransactionFailed)
	}

	s.saved.LogTransactionSaved(ctx, log.OpUpdate, existing.ID, existing.PersonID, existing.CategoryID, existing.Type.String(), existing.Amount.StringFixed(core.AmountScale))
	s.publish(ctx, EventTransactionUpdated, existing)
	return Ok(TransactionDetail{Transaction: existing, Person: &person, Category: &category})
}

func (s *TransactionService) GetByID(ctx context.Context, id int64) Result[TransactionDetail] {
	t, err := s.repos.Transactions.GetByID(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return Fail[TransactionDetail](core.KindNotFound, MsgTransactionNotFound)
	}
	if err != nil {
		s.fail(ctx, "Failed to get transaction", log.OpRead, core.Transaction{ID: id}, err)
		return Fail[TransactionDetail](core.KindUnexpected, MsgGetTransactionFailed)
	}

	details, err := s.attach(ctx, []core.Transaction{t})
	if err != nil {
		s.fail(ctx, "Failed to load transaction references", log.OpRead, t, err)
		return Fail[TransactionDetail](core.KindUnexpected, MsgGetTransactionFailed)
	}
	return Ok(details[0])
}

func (s *TransactionService) Delete(ctx context.Context, id int64) Result[bool] {
	t, err := s.repos.Transactions.GetByID(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return Fail[bool](core.KindNotFound, MsgTransactionNotFound)
	}
	if err != nil {
		s.fail(ctx, "Failed to load transaction", log.OpDelete, core.Transaction{ID: id}, err)
		return Fail[bool](core.KindUnexpected, MsgDeleteTransactionFailed)
	}

	if err := s.repos.Transactions.Delete(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return Fail[bool](core.KindNotFound, MsgTransactionNotFound)
		}
		s.fail(ctx, "Failed to delete transaction", log.OpDelete, t, err)
		return Fail[bool](core.KindUnexpected, MsgDeleteTransactionFailed)
	}

	s.publish(ctx, EventTransactionDeleted, t)
	return Ok(true)
}

// List returns one page of matching transactions, newest date first, with
// references attached.
func (s *TransactionService) List(ctx context.Context, skip, take int, f core.TransactionFilter) Result[Page[TransactionDetail]] {
	skip, take = core.NormalizePage(skip, take)

	rows, err := s.repos.Transactions.Paginate(ctx, skip, take, f, core.OrderTransactions)
	if err != nil {
		s.fail(ctx, "Failed to list transactions", log.OpList, core.Transaction{}, err)
		return Fail[Page[TransactionDetail]](core.KindUnexpected, MsgListTransactionsFailed)
	}
	total, err := s.repos.Transactions.Count(ctx, f)
	if err != nil {
		s.fail(ctx, "Failed to count transactions", log.OpList, core.Transaction{}, err)
		return Fail[Page[TransactionDetail]](core.KindUnexpected, MsgListTransactionsFailed)
	}
	details, err := s.attach(ctx, rows)
	if err != nil {
		s.fail(ctx, "Failed to load transaction references", log.OpList, core.Transaction{}, err)
		return Fail[Page[TransactionDetail]](core.KindUnexpected, MsgListTransactionsFailed)
	}

	s.opts.logger.DebugContext(ctx, "Transactions listed",
		log.FieldSkip, skip, log.FieldTake, take, log.FieldRows, len(details))
	return Ok(newPage(details, skip, take, total))
}

// Totals sums every transaction matching f.
func (s *TransactionService) Totals(ctx context.Context, f core.TransactionFilter) Result[core.Totals] {
	t, err := s.totals.Global(ctx, f)
	if err != nil {
		s.fail(ctx, "Failed to compute totals", log.OpTotals, core.Transaction{}, err)
		return Fail[core.Totals](core.KindUnexpected, MsgTotalsFailed)
	}
	return Ok(t)
}

func (s *TransactionService) loadReferences(ctx context.Context, in core.Transaction, failMsg string) (core.Person, core.Category, Result[TransactionDetail], bool) {
	person, err := s.repos.People.GetByID(ctx, in.PersonID)
	if errors.Is(err, storage.ErrNotFound) {
		return core.Person{}, core.Category{}, Fail[TransactionDetail](core.KindNotFound, MsgPersonNotFound), false
	}
	if err != nil {
		s.fail(ctx, "Failed to load person", log.OpRead, in, err)
		return core.Person{}, core.Category{}, Fail[TransactionDetail](core.KindUnexpected, failMsg), false
	}

	category, err := s.repos.Categories.GetByID(ctx, in.CategoryID)
	if errors.Is(err, storage.ErrNotFound) {
		return core.Person{}, core.Category{}, Fail[TransactionDetail](core.KindNotFound, MsgCategoryNotFound), false
	}
	if err != nil {
		s.fail(ctx, "Failed to load category", log.OpRead, in, err)
		return core.Person{}, core.Category{}, Fail[TransactionDetail](core.KindUnexpected, failMsg), false
	}
	return person, category, Result[TransactionDetail]{}, true
}

func (s *TransactionService) validate(in core.Transaction, person core.Person, category core.Category) (Result[TransactionDetail], bool) {
	if err := in.Validate(); err != nil {
		return Fail[TransactionDetail](core.KindValidation, validationMessage(err)), false
	}
	err := core.ValidateTransactionRules(in.Type, category.Purpose, person.BirthDate.Time, s.opts.now().UTC())
	var rule *core.RuleError
	if errors.As(err, &rule) {
		s.opts.logger.Info("Transaction rejected",
			log.FieldOperation, log.OpValidate,
			log.FieldPersonID, person.ID,
			log.FieldCategoryID, category.ID,
			"rule", string(rule.Code))
		return Fail[TransactionDetail](core.KindValidation, rule.Message), false
	}
	return Result[TransactionDetail]{}, true
}

// attach loads the people and categories referenced by rows with one list
// query each.
func (s *TransactionService) attach(ctx context.Context, rows []core.Transaction) ([]TransactionDetail, error) {
	out := make([]TransactionDetail, len(rows))
	if len(rows) == 0 {
		return out, nil
	}

	var personIDs, categoryIDs []int64
	seenP, seenC := map[int64]bool{}, map[int64]bool{}
	for _, t := range rows {
		if !seenP[t.PersonID] {
			seenP[t.PersonID] = true
			personIDs = append(personIDs, t.PersonID)
		}
		if !seenC[t.CategoryID] {
			seenC[t.CategoryID] = true
			categoryIDs = append(categoryIDs, t.CategoryID)
		}
	}

	people, err := s.repos.People.List(ctx, core.PersonFilter{IDs: personIDs}, core.OrderNewestFirst)
	if err != nil {
		return nil, err
	}
	cats, err := s.repos.Categories.List(ctx, core.CategoryFilter{IDs: categoryIDs}, core.OrderNewestFirst)
	if err != nil {
		return nil, err
	}

	byPerson := make(map[int64]*core.Person, len(people))
	for i := range people {
		byPerson[people[i].ID] = &people[i]
	}
	byCategory := make(map[int64]*core.Category, len(cats))
	for i := range cats {
		byCategory[cats[i].ID] = &cats[i]
	}

	for i, t := range rows {
		out[i] = TransactionDetail{Transaction: t, Person: byPerson[t.PersonID], Category: byCategory[t.CategoryID]}
	}
	return out, nil
}

func (s *TransactionService) publish(ctx context.Context, event string, t core.Transaction) {
	if s.opts.events == nil {
		s.opts.logger.DebugContext(ctx, "No event publisher configured, skipping event", "event", event)
		return
	}
	if err := s.opts.events.PublishTransaction(ctx, event, t); err != nil {
		// The row is already persisted; the request still succeeds.
		s.opts.logger.ErrorContext(ctx, "Failed to publish transaction event",
			log.FieldOperation, log.OpPublish,
			log.FieldTransactionID, t.ID,
			"event", event,
			log.FieldError, err.Error())
	}
}

func (s *TransactionService) fail(ctx context.Context, msg, op string, t core.Transaction, err error) {
	s.opts.logger.ErrorContext(ctx, msg,
		log.FieldOperation, op,
		log.FieldTransactionID, t.ID,
		log.FieldPersonID, t.PersonID,
		log.FieldCategoryID, t.CategoryID,
		log.FieldError, err.Error())
}
