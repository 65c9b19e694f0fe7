package listctl

// TotalPages is ceil(total/size), never less than one.
func TotalPages(total, size int) int {
	if size <= 0 {
		size = DefaultPageSize
	}
	if total <= 0 {
		return 1
	}
	return (total + size - 1) / size
}

func CanNext(page, total, size int) bool { return page < TotalPages(total, size) }

func CanPrev(page int) bool { return page > 1 }
