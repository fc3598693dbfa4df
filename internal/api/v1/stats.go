package v1

import "github.com/shopspring/decimal"

// AllTime is echoed as the date of a stats result when the caller gave none.
const AllTime = "all_time"

// StatsQuery asks for the statistics of one site.
type StatsQuery struct {
	SiteID string `form:"site_id"`
	Date   string `form:"date"`
}

// TopPath is one entry of the most viewed paths of a site.
// Path is nil for the group of events that reported no path.
type TopPath struct {
	Path  *string `json:"path"`
	Views int64   `json:"views"`
}

// StatsResult is the read-side view of one site.
type StatsResult struct {
	SiteID       string          `json:"site_id"`
	Date         string          `json:"date"`
	TotalViews   int64           `json:"total_views"`
	UniqueUsers  int64           `json:"unique_users"`
	ViewsPerUser decimal.Decimal `json:"views_per_user"`
	TopPaths     []TopPath       `json:"top_paths"`
}
