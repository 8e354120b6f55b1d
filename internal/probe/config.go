package probe

import (
	"time"

	"github.com/okian/prospect/internal/domain/types"
)

// Config holds configuration for a probe run.
type Config struct {
	BaseURL string        // Base URL of the service
	Years   []int         // Draft years to check, four-digit
	Limit   int           // Rankings fetched per year
	TopN    int           // Ranked entries per year whose cohort rating is checked
	Workers int           // Concurrent rating requests
	Timeout time.Duration // HTTP request timeout
	Verbose bool          // Log every checked entry
}

// Stats holds probe run statistics.
type Stats struct {
	RunID          string
	YearsChecked   int
	EntriesChecked int
	RatingsChecked int
	ReportsChecked int
	Skipped        int // entries whose name resolves to a different record
	Violations     []string
	StartTime      time.Time
	EndTime        time.Time
	Duration       time.Duration
}

type yearRankings struct {
	year    int
	entries []types.Entry
}
