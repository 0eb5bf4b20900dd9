package console

const defaultPageGroupSize = 10

// Pagination is the view model of a grouped page selector: page numbers are
// shown in fixed groups and the group follows the current page.
type Pagination struct {
	Page       int
	TotalPages int
	Pages      []int
	HasPrev    bool
	HasNext    bool
	PrevPage   int
	NextPage   int
}

func NewPagination(page int, total int64, perPage int, groupSize int) Pagination {
	if perPage <= 0 {
		perPage = defaultUsersPerPage
	}
	if groupSize <= 0 {
		groupSize = defaultPageGroupSize
	}

	totalPages := int((total + int64(perPage) - 1) / int64(perPage))
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	currentGroup := (page - 1) / groupSize
	startPage := currentGroup*groupSize + 1
	endPage := min(startPage+groupSize-1, totalPages)

	pages := make([]int, 0, endPage-startPage+1)
	for number := startPage; number <= endPage; number++ {
		pages = append(pages, number)
	}

	return Pagination{
		Page:       page,
		TotalPages: totalPages,
		Pages:      pages,
		HasPrev:    page > 1,
		HasNext:    page < totalPages,
		PrevPage:   max(page-1, 1),
		NextPage:   min(page+1, totalPages),
	}
}
