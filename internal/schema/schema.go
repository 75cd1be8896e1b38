// Package schema declares the column contracts for the study's datasets.
// These are plain declarative metadata (column name and semantic type);
// nothing here validates or enforces the shapes at runtime.
package schema

// Column pairs a dataset column name with its semantic type label.
type Column struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Table names a dataset and lists its columns in output order.
type Table struct {
	Name    string   `json:"name"`
	Columns []Column `json:"columns"`
}

// Header returns the ordered column names, ready for a CSV header row.
func (t Table) Header() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// ExpectedPanel is the main staggered-DiD panel.
var ExpectedPanel = Table{
	Name: "expected_panel",
	Columns: []Column{
		{Name: "site_id", Type: "str"},
		{Name: "date", Type: "datetime"},
		{Name: "traffic", Type: "float"},
		{Name: "treated", Type: "int"},
		{Name: "treatment_start_date", Type: "datetime"},
		{Name: "group", Type: "int"},
		{Name: "time", Type: "int"},
	},
}

// MonthlyTraffic is the monthly traffic dataset.
var MonthlyTraffic = Table{
	Name: "monthly_traffic",
	Columns: []Column{
		{Name: "domain", Type: "str"},
		{Name: "country", Type: "str"},
		{Name: "channel", Type: "str"},
		{Name: "yearmonth", Type: "period"},
		{Name: "desktop_marketing_channels_visits", Type: "float"},
		{Name: "mobile_marketing_channels_visits", Type: "float"},
	},
}

// WeeklyTraffic is the weekly traffic dataset.
var WeeklyTraffic = Table{
	Name: "weekly_traffic",
	Columns: []Column{
		{Name: "domain", Type: "str"},
		{Name: "country", Type: "str"},
		{Name: "date", Type: "date"},
		{Name: "all_traffic_visits", Type: "float"},
		{Name: "all_traffic_pages_per_visit", Type: "float"},
		{Name: "all_traffic_average_visit_duration", Type: "float"},
		{Name: "all_traffic_bounce_rate", Type: "float"},
		{Name: "desktop_visits", Type: "float"},
		{Name: "desktop_pages_per_visit", Type: "float"},
		{Name: "desktop_average_visit_duration", Type: "float"},
		{Name: "desktop_bounce_rate", Type: "float"},
	},
}

// RobotsScrape is the Wayback robots.txt harvesting dataset produced by
// this repository. The column order is the output file contract.
var RobotsScrape = Table{
	Name: "robots_scrape",
	Columns: []Column{
		{Name: "domain", Type: "str"},
		{Name: "timestamp", Type: "str"},
		{Name: "scraped_url", Type: "str"},
		{Name: "robots_txt", Type: "str"},
		{Name: "raw_robots_response_text", Type: "str"},
		{Name: "robots_content_type", Type: "str"},
		{Name: "robots_rules", Type: "dict_or_str"},
		{Name: "meta_robots", Type: "str"},
		{Name: "x_robots_tag", Type: "str"},
		{Name: "status_robots", Type: "int"},
		{Name: "status_home", Type: "int"},
		{Name: "error_details", Type: "str"},
		{Name: "datetime", Type: "datetime"},
		{Name: "googlebot_allowed", Type: "bool"},
	},
}

// LanguageDetection is the per-domain language detection dataset.
var LanguageDetection = Table{
	Name: "language_detection",
	Columns: []Column{
		{Name: "domain", Type: "str"},
		{Name: "category", Type: "str"},
		{Name: "country", Type: "str"},
		{Name: "rank", Type: "int"},
		{Name: "detected_language", Type: "str"},
	},
}

// AIModeRelease lists per-country AI Mode release dates.
var AIModeRelease = Table{
	Name: "ai_mode_release",
	Columns: []Column{
		{Name: "country", Type: "str"},
		{Name: "release_date", Type: "date"},
		{Name: "language_0", Type: "str"},
		{Name: "language_1", Type: "str"},
		{Name: "language_2", Type: "str"},
		{Name: "language_3", Type: "str"},
	},
}

// AIOverviewsRelease lists per-country AI Overviews release waves.
var AIOverviewsRelease = Table{
	Name: "ai_overviews_release",
	Columns: []Column{
		{Name: "country", Type: "str"},
		{Name: "wave", Type: "str"},
		{Name: "language_0", Type: "str"},
		{Name: "language_1", Type: "str"},
		{Name: "language_2", Type: "str"},
		{Name: "language_3", Type: "str"},
	},
}

// All returns every declared dataset contract.
func All() []Table {
	return []Table{
		ExpectedPanel,
		MonthlyTraffic,
		WeeklyTraffic,
		RobotsScrape,
		LanguageDetection,
		AIModeRelease,
		AIOverviewsRelease,
	}
}
