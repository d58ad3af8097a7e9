package handlers

import (
	"net/http"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/labstack/echo/v4"

	"github.com/Grzafnan/nest-server/internal/apperror"
	"github.com/Grzafnan/nest-server/internal/service/search"
	"github.com/Grzafnan/nest-server/internal/util"
)

type SearchHTTP struct {
	ES    *elasticsearch.Client
	Index string
}

func (h *SearchHTTP) Search(c echo.Context) error {
	q := c.QueryParam("q")
	if q == "" {
		return apperror.BadRequest("query parameter q is required")
	}

	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	from, size := util.Calculate(page, size)

	ctx := c.Request().Context()
	total, users, err := search.Search(ctx, h.ES, h.Index, q, from, size)
	if err != nil {
		return err
	}

	return sendResponse(c, http.StatusOK, "Users retrieved successfully!", echo.Map{
		"total": total,
		"users": users,
	})
}
