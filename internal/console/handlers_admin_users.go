package console

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/miuconsole/internal/apiclient"
	"github.com/terraincognita07/miuconsole/internal/daterange"
)

const (
	usersPickerName    = "period"
	usersResultsTarget = "users-results"
)

var userSearchTypes = []string{"all", "user_email", "user_nickname"}

var userSortOptions = []string{"created_at", "user_nickname"}

type userRow struct {
	ID          int64  `json:"id"`
	Nickname    string `json:"user_nickname"`
	Email       string `json:"user_email"`
	Active      bool   `json:"active"`
	CreatedAt   string `json:"created_at"`
	LastLoginAt string `json:"last_login_at"`
}

type usersPage struct {
	Rows  []userRow `json:"rows"`
	Total int64     `json:"total"`
	Page  int       `json:"page"`
}

// usersFilter is the normalized query of the member list.
type usersFilter struct {
	Page        int
	SearchType  string
	SearchValue string
	Sort        string
	Period      daterange.Range
}

func parseUsersFilter(c *fiber.Ctx) usersFilter {
	filter := usersFilter{
		Page:        c.QueryInt("page", 1),
		SearchType:  oneOf(c.Query("search_type"), userSearchTypes),
		SearchValue: strings.TrimSpace(c.Query("search_value")),
		Sort:        oneOf(c.Query("sort"), userSortOptions),
		Period: normalizeRange(daterange.Range{
			Start: parseDateParam(c.Query(usersPickerName + "_from")),
			End:   parseDateParam(c.Query(usersPickerName + "_to")),
		}),
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	return filter
}

func oneOf(raw string, allowed []string) string {
	value := strings.TrimSpace(raw)
	for _, candidate := range allowed {
		if value == candidate {
			return value
		}
	}
	return allowed[0]
}

// upstreamQuery is the query string of GET api/admin/users.
func (filter usersFilter) upstreamQuery(perPage int) url.Values {
	query := url.Values{}
	query.Set("page", strconv.Itoa(filter.Page))
	query.Set("row_count", strconv.Itoa(perPage))
	if filter.SearchType != "all" {
		query.Set("search_type", filter.SearchType)
	}
	if filter.SearchValue != "" {
		query.Set("search_value", filter.SearchValue)
	}
	query.Set("sort", filter.Sort)
	if filter.Period.HasStart() {
		query.Set("start_date", filter.Period.Start.String())
	}
	if filter.Period.HasEnd() {
		query.Set("end_date", filter.Period.End.String())
	}
	return query
}

// PageURL links to another page of the list with the same filters.
func (filter usersFilter) PageURL(page int) string {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	if filter.SearchType != "all" {
		query.Set("search_type", filter.SearchType)
	}
	if filter.SearchValue != "" {
		query.Set("search_value", filter.SearchValue)
	}
	query.Set("sort", filter.Sort)
	if filter.Period.HasStart() {
		query.Set(usersPickerName+"_from", filter.Period.Start.String())
	}
	if filter.Period.HasEnd() {
		query.Set(usersPickerName+"_to", filter.Period.End.String())
	}
	return adminHomePath + "?" + query.Encode()
}

func (server *Server) ShowAdminUsers(c *fiber.Ctx) error {
	filter := parseUsersFilter(c)

	outcome := server.call(c, adminLoginPath, apiclient.Get("api/admin/users", filter.upstreamQuery(server.usersPerPage)))
	if !outcome.OK() {
		return server.respondFailure(c, outcome)
	}
	result, err := apiclient.Decode[usersPage](outcome)
	if err != nil {
		return server.respondFailure(c, apiclient.Outcome{Kind: apiclient.KindParseFailure, Status: outcome.Status, Err: err})
	}

	page := filter.Page
	if result.Page > 0 {
		page = result.Page
	}
	data := fiber.Map{
		"Title":      translateMessage(currentMessages(c), "admin.users.title"),
		"Users":      result.Rows,
		"Total":      result.Total,
		"Filter":     filter,
		"Pagination": NewPagination(page, result.Total, server.usersPerPage, defaultPageGroupSize),
	}
	if isHTMX(c) && c.Get("HX-Target") == usersResultsTarget {
		return server.renderPartial(c, "users_results", data)
	}

	today := daterange.DateOf(server.now().In(server.location))
	bounds := daterange.Bounds{Max: today}
	data["Picker"] = server.newPickerView(usersPickerName, daterange.NewPickerState(filter.Period, today), bounds, currentMessages(c))
	data["SearchTypes"] = userSearchTypes
	data["SortOptions"] = userSortOptions
	return server.render(c, "admin_users", data)
}
