package backend

import (
	"crypto/sha256"
	"fmt"
	"net/http"
	"strings"

	"github.com/goccy/go-json"
	"github.com/gorilla/mux"

	"github.com/relabs-tech/jobly/core/access"
	"github.com/relabs-tech/jobly/core/apperr"
	"github.com/relabs-tech/jobly/core/logger"
)

// statisticsTables are the tables reported by /statistics, in this order
var statisticsTables = []string{
	"companies",
	"jobs",
	"users",
	"technologies",
	"applications",
	"user_technologies",
	"job_technologies",
}

// tableStatistics represents information about a table
type tableStatistics struct {
	Table        string  `json:"table"`
	Count        int64   `json:"count"`
	SizeMB       float64 `json:"size_mb"`
	AverageSizeB float64 `json:"average_size_b"`
}

func (b *Backend) handleStatistics(router *mux.Router) {
	if b.db == nil {
		return
	}
	logger.Default().Debugln("statistics")
	addRoute(router, "/statistics", http.MethodGet, b.statistics)
}

func (b *Backend) statistics(w http.ResponseWriter, r *http.Request) error {
	if err := access.RequireAdmin(access.AuthorizationFromContext(r.Context())); err != nil {
		return err
	}

	stats := []tableStatistics{}
	for _, table := range statisticsTables {
		name := b.db.Table(table)
		row := b.db.QueryRowContext(r.Context(),
			fmt.Sprintf(`SELECT pg_total_relation_size('%s'), count(*) FROM %s;`, name, name))
		var size, count int64
		if err := row.Scan(&size, &count); err != nil {
			return apperr.Internal(fmt.Errorf("statistics of %s: %w", table, err))
		}
		stats = append(stats, tableStatistics{
			Table:        table,
			Count:        count,
			SizeMB:       float64(size) / 1024. / 1024.,
			AverageSizeB: averageSize(size, count),
		})
	}

	jsonData, err := json.Marshal(map[string]interface{}{"tables": stats})
	if err != nil {
		return apperr.Internal(err)
	}
	etag := fmt.Sprintf(`"%x"`, sha256.Sum256(jsonData))
	w.Header().Set("Etag", etag)
	if ifNoneMatchFound(r.Header.Get("If-None-Match"), etag) {
		w.WriteHeader(http.StatusNotModified)
		return nil
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Write(jsonData)
	return nil
}

func ifNoneMatchFound(ifNoneMatch, etag string) bool {
	ifNoneMatch = strings.Trim(ifNoneMatch, " ")
	if len(ifNoneMatch) == 0 {
		return false
	}
	if ifNoneMatch == "*" {
		return true
	}
	for _, s := range strings.Split(ifNoneMatch, ",") {
		s = strings.Trim(s, " \"")
		t := strings.Trim(etag, " \"")
		if s == t {
			return true
		}
	}
	return false
}

func averageSize(size, count int64) float64 {
	if count == 0 {
		return 0
	}
	return float64(size) / float64(count)
}
