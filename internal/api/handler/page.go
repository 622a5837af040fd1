package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/csemotors/dealership/internal/api/flash"
	"github.com/csemotors/dealership/internal/api/middleware"
	"github.com/csemotors/dealership/internal/core/domain"
	"github.com/csemotors/dealership/internal/core/ports"
)

// pageData assembles the fields every template expects: title, the
// classification nav, the pending one-shot notice and the request
// identity. A nav read failure degrades to an empty menu rather than
// failing the page.
func pageData(c echo.Context, inv ports.InventoryService, title string) echo.Map {
	var nav []domain.Classification
	if inv != nil {
		if list, err := inv.Classifications(c.Request().Context()); err == nil {
			nav = list
		}
	}
	return echo.Map{
		"Title":    title,
		"Nav":      nav,
		"Notice":   flash.Pop(c),
		"Identity": middleware.Identity(c),
	}
}
