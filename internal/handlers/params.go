package handlers

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/online-store/store-service/internal/domain"
	sharedHTTP "github.com/online-store/store-service/shared/http"
)

const dateLayout = "2006-01-02"

// paramError is a malformed path or query parameter.
type paramError struct {
	name  string
	value string
}

func (e *paramError) Error() string {
	return fmt.Sprintf("invalid %s: %q", e.name, e.value)
}

func badParam(c *fiber.Ctx, err error) error {
	if pe, ok := err.(*paramError); ok {
		return sharedHTTP.BadRequestResponse(c, "Invalid "+pe.name, map[string]interface{}{
			pe.name: pe.value,
		})
	}
	return sharedHTTP.BadRequestResponse(c, err.Error(), nil)
}

func parseUint(name, value string) (uint, error) {
	id, err := strconv.ParseUint(value, 10, 0)
	if err != nil || id == 0 {
		return 0, &paramError{name: name, value: value}
	}
	return uint(id), nil
}

// pathID reads a positive integer path parameter.
func pathID(c *fiber.Ctx, name string) (uint, error) {
	return parseUint(name, c.Params(name))
}

func queryID(c *fiber.Ctx, name string) (*uint, error) {
	value := c.Query(name)
	if value == "" {
		return nil, nil
	}
	id, err := parseUint(name, value)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// queryPage reads the cursor and limit query parameters.
func queryPage(c *fiber.Ctx) (domain.Page, error) {
	cursor, err := queryID(c, "cursor")
	if err != nil {
		return domain.Page{}, err
	}

	limit := 0
	if value := c.Query("limit"); value != "" {
		limit, err = strconv.Atoi(value)
		if err != nil || limit < 1 {
			return domain.Page{}, &paramError{name: "limit", value: value}
		}
	}
	return domain.NewPage(cursor, limit), nil
}

// queryTime accepts RFC 3339 timestamps or plain dates. A plain date used as
// an upper bound covers the whole day.
func queryTime(c *fiber.Ctx, name string, upper bool) (*time.Time, error) {
	value := strings.TrimSpace(c.Query(name))
	if value == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return &t, nil
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return nil, &paramError{name: name, value: value}
	}
	if upper {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}

func queryReportFilter(c *fiber.Ctx) (domain.SaleReportFilter, error) {
	var (
		filter domain.SaleReportFilter
		err    error
	)
	if filter.ProductID, err = queryID(c, "product_id"); err != nil {
		return filter, err
	}
	if filter.CategoryID, err = queryID(c, "category_id"); err != nil {
		return filter, err
	}
	if filter.Start, err = queryTime(c, queryAlias(c, "start_date", "start"), false); err != nil {
		return filter, err
	}
	if filter.End, err = queryTime(c, queryAlias(c, "end_date", "end"), true); err != nil {
		return filter, err
	}
	filter.ProductName = strings.TrimSpace(c.Query("product_name"))
	filter.CategoryName = strings.TrimSpace(c.Query("category_name"))
	return filter, nil
}

// queryAlias returns name unless only the legacy alias is present.
func queryAlias(c *fiber.Ctx, name, alias string) string {
	if c.Query(name) == "" && c.Query(alias) != "" {
		return alias
	}
	return name
}

func pageResponse(c *fiber.Ctx, message string, page domain.Page, items interface{}, count int, lastID uint) error {
	return sharedHTTP.PageResponse(c, message, sharedHTTP.Page{
		Items:      items,
		NextCursor: page.NextCursor(lastID, count),
		Limit:      page.Limit,
	})
}
