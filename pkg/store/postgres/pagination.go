package postgres

const DefaultPageSize = 10

// clampPage pins page into [1, lastPage] so an out-of-range request returns
// the last valid page instead of an empty set.
func clampPage(page, pageSize int, total int64) (int, int) {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	last := int((total + int64(pageSize) - 1) / int64(pageSize))
	if last < 1 {
		last = 1
	}
	if page < 1 {
		page = 1
	}
	if page > last {
		page = last
	}
	return page, pageSize
}

func TotalPages(total int64, pageSize int) int {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	pages := int(total) / pageSize
	if int(total)%pageSize > 0 {
		pages++
	}
	if pages < 1 {
		pages = 1
	}
	return pages
}
