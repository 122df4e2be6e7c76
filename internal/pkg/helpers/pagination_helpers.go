package helpers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/techhub/server/internal/app/models/dto"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Page is a 1-based page request.
type Page struct {
	Number int
	Size   int
}

// NewPage clamps number and size into range.
func NewPage(number, size int) Page {
	if number < 1 {
		number = 1
	}
	if size < 1 || size > MaxPageSize {
		size = DefaultPageSize
	}
	return Page{Number: number, Size: size}
}

// PageFromQuery reads ?page= and ?size= (or its alias ?limit=).
// Malformed values fall back to the defaults.
func PageFromQuery(c *gin.Context) Page {
	number, _ := strconv.Atoi(c.Query("page"))

	raw := c.Query("size")
	if raw == "" {
		raw = c.Query("limit")
	}
	size, _ := strconv.Atoi(raw)

	return NewPage(number, size)
}

// Offset is the number of rows to skip.
func (p Page) Offset() uint64 {
	return uint64(p.Number-1) * uint64(p.Size)
}

// Info describes this page of totalItems.
func (p Page) Info(totalItems int64) dto.PaginationInfo {
	totalPages := int((totalItems + int64(p.Size) - 1) / int64(p.Size))
	if totalPages == 0 {
		totalPages = 1
	}
	return dto.PaginationInfo{
		CurrentPage: p.Number,
		TotalPages:  totalPages,
		PageSize:    p.Size,
		TotalItems:  totalItems,
	}
}
