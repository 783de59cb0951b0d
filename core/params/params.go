package params

import (
	"strconv"
	"strings"

	"event-dashboard-api/core/constants"

	"github.com/labstack/echo/v4"
)

// QueryParams carries pagination, sorting and listing filters parsed from
// the request query string. Sort fields are validated against an
// allow-list at query-build time, not here.
type QueryParams struct {
	PageNumber int
	PageSize   int
	Sort       string
	Order      string

	// Listing filters, all optional.
	Search      string
	Status      string
	StartDate   string
	EndDate     string
	HasReminder string // "yes", "no" or empty
}

func NewQueryParams(c echo.Context) *QueryParams {
	p := &QueryParams{
		PageNumber:  atoiDefault(c.QueryParam("page"), 1),
		PageSize:    atoiDefault(c.QueryParam("limit"), constants.DefaultPageSize),
		Sort:        c.QueryParam("sort"),
		Order:       strings.ToLower(c.QueryParam("order")),
		Search:      strings.TrimSpace(c.QueryParam("search")),
		Status:      c.QueryParam("status"),
		StartDate:   c.QueryParam("start_date"),
		EndDate:     c.QueryParam("end_date"),
		HasReminder: strings.ToLower(c.QueryParam("has_reminder")),
	}

	if p.PageNumber < 1 {
		p.PageNumber = 1
	}
	if p.PageSize < 1 {
		p.PageSize = constants.DefaultPageSize
	}
	if p.PageSize > constants.MaxPageSize {
		p.PageSize = constants.MaxPageSize
	}
	if p.Order != "desc" {
		p.Order = "asc"
	}
	if p.HasReminder != "yes" && p.HasReminder != "no" {
		p.HasReminder = ""
	}
	return p
}

// Signature folds the requester identity and every parameter that can
// change a listing result into a stable cache key.
func (p *QueryParams) Signature(requesterID string) string {
	var b strings.Builder
	b.WriteString(constants.ListingCacheKeyPrefix)
	for _, part := range []string{
		requesterID,
		strconv.Itoa(p.PageNumber),
		strconv.Itoa(p.PageSize),
		p.Sort,
		p.Order,
		p.Search,
		p.Status,
		p.StartDate,
		p.EndDate,
		p.HasReminder,
	} {
		b.WriteString(part)
		b.WriteByte('|')
	}
	return b.String()
}

func atoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
