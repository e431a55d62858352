package repositories

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Paginate normalizes page/page_size into a LIMIT/OFFSET pair. Page numbers
// start at 1; out-of-range sizes are clamped.
func Paginate(page, pageSize int) (limit, offset int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return pageSize, (page - 1) * pageSize
}
