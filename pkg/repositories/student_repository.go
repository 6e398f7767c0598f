package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/campuspulse/survey-engine/pkg/database"
	"github.com/campuspulse/survey-engine/pkg/models"
)

// StudentRepository provides access to the students fact table and its
// denormalizing read queries.
type StudentRepository interface {
	// BulkInsert appends all fact rows in one COPY within a transaction.
	BulkInsert(ctx context.Context, students []models.Student) (int64, error)

	FetchByGenderAndAcademicLevel(ctx context.Context, gender models.Gender, level models.AcademicLevel, limit int) ([]models.StudentRow, error)
	// FetchAverageDailyUsage returns nil when no rows match the country.
	FetchAverageDailyUsage(ctx context.Context, country string) (*float64, error)
	FetchConflictsOverThreshold(ctx context.Context, threshold, limit int) ([]models.StudentRow, error)
	FetchByAffectedFlag(ctx context.Context, isAffected bool, limit int) ([]models.StudentRow, error)
	FetchByCountryAndMentalHealth(ctx context.Context, country string, score, limit int) ([]models.StudentRow, error)
}

type studentRepository struct {
	db *database.DB
}

// NewStudentRepository creates a new StudentRepository.
func NewStudentRepository(db *database.DB) StudentRepository {
	return &studentRepository{db: db}
}

var _ StudentRepository = (*studentRepository)(nil)

var studentColumns = []string{
	"gender_id", "academic_level_id", "country_id", "platform_id",
	"relationship_status", "age", "avg_daily_usage_hours",
	"affects_academic_performance", "sleep_hours_per_night",
	"mental_health_score", "conflicts_over_social_media", "addicted_score",
}

func (r *studentRepository) BulkInsert(ctx context.Context, students []models.Student) (int64, error) {
	if len(students) == 0 {
		return 0, nil
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	rows := make([][]any, len(students))
	for i, s := range students {
		rows[i] = []any{
			s.GenderID, s.AcademicLevelID, s.CountryID, s.PlatformID,
			string(s.RelationshipStatus), s.Age, s.AvgDailyUsageHours,
			s.AffectsAcademicPerformance, s.SleepHoursPerNight,
			s.MentalHealthScore, s.ConflictsOverSocialMedia, s.AddictedScore,
		}
	}

	inserted, err := tx.CopyFrom(ctx, pgx.Identifier{"students"}, studentColumns, pgx.CopyFromRows(rows))
	if err != nil {
		return 0, fmt.Errorf("failed to copy student rows: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit student insert: %w", err)
	}

	return inserted, nil
}

// baseStudentQuery joins the fact table with every dimension and projects the
// denormalized row shape. All read queries filter and cap on top of it.
const baseStudentQuery = `
	SELECT s.id, s.relationship_status, s.age, s.avg_daily_usage_hours,
	       s.affects_academic_performance, s.sleep_hours_per_night,
	       s.mental_health_score, s.conflicts_over_social_media, s.addicted_score,
	       g.gender, a.academic_level, c.country_name, p.platform
	FROM students s
	JOIN genders g ON s.gender_id = g.id
	JOIN academic_levels a ON s.academic_level_id = a.id
	JOIN countries c ON s.country_id = c.id
	JOIN platforms p ON s.platform_id = p.id`

func (r *studentRepository) FetchByGenderAndAcademicLevel(ctx context.Context, gender models.Gender, level models.AcademicLevel, limit int) ([]models.StudentRow, error) {
	query := baseStudentQuery + `
	WHERE g.gender = $1 AND a.academic_level = $2
	ORDER BY s.id
	LIMIT $3`
	return r.queryRows(ctx, query, string(gender), string(level), limit)
}

func (r *studentRepository) FetchAverageDailyUsage(ctx context.Context, country string) (*float64, error) {
	query := `
	SELECT avg(s.avg_daily_usage_hours)
	FROM students s
	JOIN countries c ON s.country_id = c.id
	WHERE c.country_name = $1`

	var avg *float64
	if err := r.db.QueryRow(ctx, query, country).Scan(&avg); err != nil {
		return nil, fmt.Errorf("failed to fetch average daily usage: %w", err)
	}
	return avg, nil
}

func (r *studentRepository) FetchConflictsOverThreshold(ctx context.Context, threshold, limit int) ([]models.StudentRow, error) {
	query := baseStudentQuery + `
	WHERE s.conflicts_over_social_media > $1
	ORDER BY s.id
	LIMIT $2`
	return r.queryRows(ctx, query, threshold, limit)
}

func (r *studentRepository) FetchByAffectedFlag(ctx context.Context, isAffected bool, limit int) ([]models.StudentRow, error) {
	query := baseStudentQuery + `
	WHERE s.affects_academic_performance = $1
	ORDER BY s.id
	LIMIT $2`
	return r.queryRows(ctx, query, isAffected, limit)
}

func (r *studentRepository) FetchByCountryAndMentalHealth(ctx context.Context, country string, score, limit int) ([]models.StudentRow, error) {
	query := baseStudentQuery + `
	WHERE c.country_name = $1 AND s.mental_health_score = $2
	ORDER BY s.id
	LIMIT $3`
	return r.queryRows(ctx, query, country, score, limit)
}

func (r *studentRepository) queryRows(ctx context.Context, query string, args ...any) ([]models.StudentRow, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query students: %w", err)
	}
	defer rows.Close()

	var results []models.StudentRow
	for rows.Next() {
		var row models.StudentRow
		if err := rows.Scan(
			&row.ID, &row.RelationshipStatus, &row.Age, &row.AvgDailyUsageHours,
			&row.AffectsAcademicPerformance, &row.SleepHoursPerNight,
			&row.MentalHealthScore, &row.ConflictsOverSocialMedia, &row.AddictedScore,
			&row.Gender, &row.AcademicLevel, &row.CountryName, &row.Platform,
		); err != nil {
			return nil, fmt.Errorf("failed to scan student row: %w", err)
		}
		results = append(results, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read student rows: %w", err)
	}

	return results, nil
}
