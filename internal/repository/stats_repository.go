package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// StatsRepository aggregates headline counts for the admin dashboard.
type StatsRepository struct {
	db *sqlx.DB
}

// NewStatsRepository constructs the repository.
func NewStatsRepository(db *sqlx.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

// CountStudents returns the number of student records.
func (r *StatsRepository) CountStudents(ctx context.Context) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM students`)
}

// CountTeachers returns the number of teacher records.
func (r *StatsRepository) CountTeachers(ctx context.Context) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM teachers`)
}

// CountCourses returns the number of courses.
func (r *StatsRepository) CountCourses(ctx context.Context) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM courses`)
}

// ScanStatusTotals returns total scan rows grouped by status.
func (r *StatsRepository) ScanStatusTotals(ctx context.Context) (map[string]int, error) {
	const query = `SELECT status, COUNT(*) AS total FROM student_attendance GROUP BY status`
	rows := []struct {
		Status string `db:"status"`
		Total  int    `db:"total"`
	}{}
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("scan status totals: %w", err)
	}
	totals := make(map[string]int, len(rows))
	for _, row := range rows {
		totals[row.Status] = row.Total
	}
	return totals, nil
}

func (r *StatsRepository) count(ctx context.Context, query string) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, query); err != nil {
		return 0, fmt.Errorf("count rows: %w", err)
	}
	return total, nil
}
