package applicationinfra

import (
	"strings"
	"testing"
	"time"

	"github.com/Abraxas-365/hirehub/recruitment/application"
)

func TestBuildExportQueryNoFilters(t *testing.T) {
	query, args := buildExportQuery(application.ExportFilter{}, 200)

	if strings.Contains(query, "WHERE") {
		t.Fatalf("unexpected WHERE clause:\n%s", query)
	}
	if !strings.Contains(query, "LEFT JOIN candidates c") {
		t.Fatalf("candidates must be left-joined:\n%s", query)
	}
	if !strings.Contains(query, "ORDER BY a.created_at ASC") {
		t.Fatalf("export must be oldest first:\n%s", query)
	}
	if len(args) != 1 || args[0] != 200 {
		t.Fatalf("expected only the limit arg, got %v", args)
	}
}

func TestBuildExportQueryJobFiltersInsideJoin(t *testing.T) {
	query, args := buildExportQuery(application.ExportFilter{JobType: "engineering", JobTitle: "Backend"}, 10)

	joinLine := "JOIN jobs j ON j.id = a.job_id AND j.type = $1 AND j.title = $2"
	if !strings.Contains(query, joinLine) {
		t.Fatalf("job filters must be part of the join, got:\n%s", query)
	}
	if strings.Contains(query, "WHERE") {
		t.Fatalf("job filters must not leak into WHERE:\n%s", query)
	}
	if len(args) != 3 || args[0] != "engineering" || args[1] != "Backend" || args[2] != 10 {
		t.Fatalf("unexpected args %v", args)
	}
}

func TestBuildExportQueryIndependentBounds(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC).UnixMilli()

	query, args := buildExportQuery(application.ExportFilter{Start: &start}, 50)
	if !strings.Contains(query, "WHERE a.created_at >= $1") {
		t.Fatalf("expected lower bound only:\n%s", query)
	}
	if strings.Contains(query, "<=") {
		t.Fatalf("upper bound must be absent:\n%s", query)
	}
	if got := args[0].(time.Time); got.UnixMilli() != start {
		t.Fatalf("expected start %d, got %v", start, got)
	}

	end := start + 1000
	query, args = buildExportQuery(application.ExportFilter{Start: &start, End: &end, JobType: "sales"}, 50)
	if !strings.Contains(query, "WHERE a.created_at >= $2 AND a.created_at <= $3") {
		t.Fatalf("expected both bounds after the job filter:\n%s", query)
	}
	if !strings.HasSuffix(strings.TrimSpace(query), "LIMIT $4") || len(args) != 4 {
		t.Fatalf("limit must be the last bind var, args=%v\n%s", args, query)
	}
}
