package services

import (
	"context"
	"errors"

	"gastos/internal/core"
	"gastos/internal/log"
	"gastos/internal/storage"
)

type CategoryTotals struct {
	Category core.Category
	Totals   core.Totals
}

// CategoriesTotals is a page of categories with totals plus the page sum.
type CategoriesTotals struct {
	Page   Page[CategoryTotals]
	Totals core.Totals
}

// CategoryQuery narrows category listings. A nil Purpose matches all.
type CategoryQuery struct {
	Search  string
	Purpose *core.CategoryPurpose
}

func (q CategoryQuery) filter() core.CategoryFilter {
	return core.CategoryFilter{Search: core.NormalizeSearch(q.Search), Purpose: q.Purpose}
}

type CategoryService struct {
	categories storage.CategoryRepository
	totals     *TotalsEngine
	opts       options
}

func NewCategoryService(categories storage.CategoryRepository, totals *TotalsEngine, opts ...Option) *CategoryService {
	return &CategoryService{
		categories: categories,
		totals:     totals,
		opts:       buildOptions(log.ComponentCategory, opts),
	}
}

func (s *CategoryService) Create(ctx context.Context, c core.Category) Result[core.Category] {
	c.ID = 0
	if err := c.Validate(); err != nil {
		return Fail[core.Category](core.KindValidation, validationMessage(err))
	}
	if err := s.categories.Add(ctx, &c); err != nil {
		s.fail(ctx, "Failed to create category", log.OpCreate, 0, err)
		return Fail[core.Category](core.KindUnexpected, MsgCreateCategoryFailed)
	}
	return Ok(c)
}

// Update replaces description and purpose of an existing category.
func (s *CategoryService) Update(ctx context.Context, id int64, in core.Category) Result[core.Category] {
	c, err := s.categories.GetByID(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return Fail[core.Category](core.KindNotFound, MsgCategoryNotFound)
	}
	if err != nil {
		s.fail(ctx, "Failed to load category", log.OpUpdate, id, err)
		return Fail[core.Category](core.KindUnexpected, MsgUpdateCategoryFailed)
	}

	c.Description = in.Description
	c.Purpose = in.Purpose
	if err := c.Validate(); err != nil {
		return Fail[core.Category](core.KindValidation, validationMessage(err))
	}
	if err := s.categories.Update(ctx, c); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return Fail[core.Category](core.KindNotFound, MsgCategoryNotFound)
		}
		s.fail(ctx, "Failed to update category", log.OpUpdate, id, err)
		return Fail[core.Category](core.KindUnexpected, MsgUpdateCategoryFailed)
	}
	return Ok(c)
}

func (s *CategoryService) GetByID(ctx context.Context, id int64) Result[core.Category] {
	c, err := s.categories.GetByID(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return Fail[core.Category](core.KindNotFound, MsgCategoryNotFound)
	}
	if err != nil {
		s.fail(ctx, "Failed to get category", log.OpRead, id, err)
		return Fail[core.Category](core.KindUnexpected, MsgGetCategoryFailed)
	}
	return Ok(c)
}

// Delete refuses categories still referenced by transactions.
func (s *CategoryService) Delete(ctx context.Context, id int64) Result[bool] {
	err := s.categories.Delete(ctx, id)
	switch {
	case err == nil:
		s.opts.logger.InfoContext(ctx, "Category deleted", log.FieldCategoryID, id)
		return Ok(true)
	case errors.Is(err, storage.ErrNotFound):
		return Fail[bool](core.KindNotFound, MsgCategoryNotFound)
	case errors.Is(err, storage.ErrInUse):
		return Fail[bool](core.KindValidation, MsgCategoryInUse)
	default:
		s.fail(ctx, "Failed to delete category", log.OpDelete, id, err)
		return Fail[bool](core.KindUnexpected, MsgDeleteCategoryFailed)
	}
}

// List returns every matching category ordered by description.
func (s *CategoryService) List(ctx context.Context, q CategoryQuery) Result[[]core.Category] {
	cats, err := s.categories.List(ctx, q.filter(), core.OrderByDesc)
	if err != nil {
		s.fail(ctx, "Failed to list categories", log.OpList, 0, err)
		return Fail[[]core.Category](core.KindUnexpected, MsgListCategoriesFailed)
	}
	if cats == nil {
		cats = []core.Category{}
	}
	return Ok(cats)
}

// ListPaged returns one page of categories, newest first, with totals.
func (s *CategoryService) ListPaged(ctx context.Context, skip, take int, q CategoryQuery) Result[Page[CategoryTotals]] {
	page, err := s.page(ctx, skip, take, q)
	if err != nil {
		s.fail(ctx, "Failed to list categories", log.OpList, 0, err)
		return Fail[Page[CategoryTotals]](core.KindUnexpected, MsgListCategoriesFailed)
	}
	return Ok(page)
}

func (s *CategoryService) ListWithTotals(ctx context.Context, skip, take int, q CategoryQuery) Result[CategoriesTotals] {
	page, err := s.page(ctx, skip, take, q)
	if err != nil {
		s.fail(ctx, "Failed to compute category totals", log.OpTotals, 0, err)
		return Fail[CategoriesTotals](core.KindUnexpected, MsgCategoryTotalsFailed)
	}
	sums := make([]core.Totals, len(page.Items))
	for i, it := range page.Items {
		sums[i] = it.Totals
	}
	return Ok(CategoriesTotals{Page: page, Totals: Sum(sums)})
}

func (s *CategoryService) page(ctx context.Context, skip, take int, q CategoryQuery) (Page[CategoryTotals], error) {
	skip, take = core.NormalizePage(skip, take)
	f := q.filter()

	cats, err := s.categories.Paginate(ctx, skip, take, f, core.OrderNewestFirst)
	if err != nil {
		return Page[CategoryTotals]{}, err
	}
	total, err := s.categories.Count(ctx, f)
	if err != nil {
		return Page[CategoryTotals]{}, err
	}

	ids := make([]int64, len(cats))
	for i, c := range cats {
		ids[i] = c.ID
	}
	totals, err := s.totals.ForCategories(ctx, ids)
	if err != nil {
		return Page[CategoryTotals]{}, err
	}

	items := make([]CategoryTotals, len(cats))
	for i, c := range cats {
		items[i] = CategoryTotals{Category: c, Totals: totals[i]}
	}
	return newPage(items, skip, take, total), nil
}

func (s *CategoryService) fail(ctx context.Context, msg, op string, id int64, err error) {
	s.opts.logger.ErrorContext(ctx, msg,
		log.FieldOperation, op,
		log.FieldCategoryID, id,
		log.FieldError, err.Error())
}
