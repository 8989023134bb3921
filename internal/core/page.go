package core

// Listing defaults shared by every paginated endpoint.
const (
	DefaultSkip = 0
	DefaultTake = 20
)

// PageInfo is the derived metadata of one page of a listing.
type PageInfo struct {
	Skip            int
	Take            int
	CurrentPage     int
	TotalItems      int
	TotalPages      int
	HasPreviousPage bool
	HasNextPage     bool
}

// NormalizePage clamps skip to >= 0 and take to >= 1.
func NormalizePage(skip, take int) (int, int) {
	return max(0, skip), max(1, take)
}

// Paginate computes page metadata for a window starting at skip with the
// given page size over totalItems rows.
func Paginate(skip, take, totalItems int) PageInfo {
	skip, take = NormalizePage(skip, take)
	totalItems = max(0, totalItems)

	currentPage := skip/take + 1
	totalPages := (totalItems + take - 1) / take

	return PageInfo{
		Skip:            skip,
		Take:            take,
		CurrentPage:     currentPage,
		TotalItems:      totalItems,
		TotalPages:      totalPages,
		HasPreviousPage: currentPage > 1,
		HasNextPage:     currentPage < totalPages,
	}
}
