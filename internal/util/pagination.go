package util

import "strconv"

const (
	DefaultPage     = 1
	DefaultPageSize = 50
	MaxPageSize     = 100
)

func Calculate(page, size int) (offset, limit int) {
	if page < 1 {
		page = DefaultPage
	}
	if size <= 0 || size > MaxPageSize {
		size = DefaultPageSize
	}
	offset = (page - 1) * size
	return offset, size
}

// ParsePage reads page and size query values; malformed input falls back to defaults.
func ParsePage(pageRaw, sizeRaw string) (page, size int) {
	page, err := strconv.Atoi(pageRaw)
	if err != nil || page < 1 {
		page = DefaultPage
	}
	size, err = strconv.Atoi(sizeRaw)
	if err != nil || size <= 0 || size > MaxPageSize {
		size = DefaultPageSize
	}
	return page, size
}
