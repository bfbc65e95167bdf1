package startups

import (
	"math"
	"sort"
	"strings"

	"github.com/maroc-digital-hub/backend/internal/models"
)

// SectorStat is one bar of the sector distribution histogram.
type SectorStat struct {
	Sector     models.Sector `json:"sector"`
	Count      int           `json:"count"`
	Percentage int           `json:"percentage"`
}

// Filter returns the startups matching the sector (or SectorAll) AND the
// case-insensitive query against name and description. The result is always
// a subset of the input, in input order.
func Filter(list []models.Startup, sector, query string) []models.Startup {
	q := strings.ToLower(strings.TrimSpace(query))
	var out []models.Startup
	for _, st := range list {
		if sector != "" && sector != SectorAll && string(st.Sector) != sector {
			continue
		}
		if q != "" &&
			!strings.Contains(strings.ToLower(st.Name), q) &&
			!strings.Contains(strings.ToLower(st.Description), q) {
			continue
		}
		out = append(out, st)
	}
	return out
}

// Paginate slices one page out of the list. totalPages is ceil(len/PageSize);
// an out-of-range page yields an empty slice.
func Paginate(list []models.Startup, page int) (items []models.Startup, totalPages int) {
	totalPages = int(math.Ceil(float64(len(list)) / float64(PageSize)))
	if page < 1 {
		page = 1
	}
	start := (page - 1) * PageSize
	if start >= len(list) {
		return nil, totalPages
	}
	end := start + PageSize
	if end > len(list) {
		end = len(list)
	}
	return list[start:end], totalPages
}

// SectorStats computes the sector distribution over the full, unfiltered
// list. Percentage is round(count/total*100); with zero startups every
// percentage is 0.
func SectorStats(list []models.Startup) []SectorStat {
	counts := make(map[models.Sector]int)
	for _, st := range list {
		counts[st.Sector]++
	}
	total := len(list)
	stats := make([]SectorStat, 0, len(models.Sectors))
	for _, sector := range models.Sectors {
		count := counts[sector]
		pct := 0
		if total > 0 {
			pct = int(math.Round(float64(count) / float64(total) * 100))
		}
		stats = append(stats, SectorStat{Sector: sector, Count: count, Percentage: pct})
	}
	return stats
}

// Recent returns the newest n startups by creation time, descending.
func Recent(list []models.Startup, n int) []models.Startup {
	out := make([]models.Startup, len(list))
	copy(out, list)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if n >= 0 && n < len(out) {
		out = out[:n]
	}
	return out
}
