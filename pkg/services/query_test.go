package services

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/campuspulse/survey-engine/pkg/apperrors"
	"github.com/campuspulse/survey-engine/pkg/models"
)

// capturingStudentRepository records the arguments of each fetch call.
type capturingStudentRepository struct {
	mockStudentRepository

	gender    models.Gender
	level     models.AcademicLevel
	country   string
	threshold int
	affected  bool
	score     int
	limit     int

	rows []models.StudentRow
	avg  *float64
}

func (m *capturingStudentRepository) FetchByGenderAndAcademicLevel(ctx context.Context, gender models.Gender, level models.AcademicLevel, limit int) ([]models.StudentRow, error) {
	m.gender, m.level, m.limit = gender, level, limit
	return m.rows, nil
}

func (m *capturingStudentRepository) FetchAverageDailyUsage(ctx context.Context, country string) (*float64, error) {
	m.country = country
	return m.avg, nil
}

func (m *capturingStudentRepository) FetchConflictsOverThreshold(ctx context.Context, threshold, limit int) ([]models.StudentRow, error) {
	m.threshold, m.limit = threshold, limit
	return m.rows, nil
}

func (m *capturingStudentRepository) FetchByAffectedFlag(ctx context.Context, isAffected bool, limit int) ([]models.StudentRow, error) {
	m.affected, m.limit = isAffected, limit
	return m.rows, nil
}

func (m *capturingStudentRepository) FetchByCountryAndMentalHealth(ctx context.Context, country string, score, limit int) ([]models.StudentRow, error) {
	m.country, m.score, m.limit = country, score, limit
	return m.rows, nil
}

func TestQueryService_StudentsByGenderAndAcademicLevel(t *testing.T) {
	repo := &capturingStudentRepository{rows: []models.StudentRow{{ID: 1}}}
	service := NewQueryService(repo, 100, zap.NewNop())

	rows, err := service.StudentsByGenderAndAcademicLevel(context.Background(), " female ", "high school")
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if repo.gender != models.GenderFemale {
		t.Errorf("expected FEMALE, got %q", repo.gender)
	}
	if repo.level != models.AcademicLevelHighSchool {
		t.Errorf("expected HIGH_SCHOOL, got %q", repo.level)
	}
	if repo.limit != 100 {
		t.Errorf("expected limit 100, got %d", repo.limit)
	}
}

func TestQueryService_InvalidGender(t *testing.T) {
	service := NewQueryService(&capturingStudentRepository{}, 100, zap.NewNop())

	_, err := service.StudentsByGenderAndAcademicLevel(context.Background(), "other", "Graduate")
	if err == nil {
		t.Fatal("expected error for invalid gender")
	}
	if !errors.Is(err, apperrors.ErrInvalidCategoryValue) {
		t.Errorf("expected ErrInvalidCategoryValue, got: %v", err)
	}
}

func TestQueryService_AverageDailyUsageByCountry(t *testing.T) {
	avg := 5.25
	repo := &capturingStudentRepository{avg: &avg}
	service := NewQueryService(repo, 100, zap.NewNop())

	got, err := service.AverageDailyUsageByCountry(context.Background(), " Poland ")
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if got == nil || *got != 5.25 {
		t.Errorf("expected 5.25, got %v", got)
	}
	if repo.country != "Poland" {
		t.Errorf("expected trimmed country, got %q", repo.country)
	}
}

func TestQueryService_NoMatchReturnsNilAverage(t *testing.T) {
	service := NewQueryService(&capturingStudentRepository{}, 100, zap.NewNop())

	got, err := service.AverageDailyUsageByCountry(context.Background(), "Atlantis")
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil average, got %v", *got)
	}
}

func TestQueryService_DefaultCap(t *testing.T) {
	repo := &capturingStudentRepository{}
	service := NewQueryService(repo, 0, zap.NewNop())

	if _, err := service.StudentsWithConflictsOver(context.Background(), 3); err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if repo.threshold != 3 {
		t.Errorf("expected threshold 3, got %d", repo.threshold)
	}
	if repo.limit != 500 {
		t.Errorf("expected default cap 500, got %d", repo.limit)
	}
}

func TestQueryService_AffectedFlag(t *testing.T) {
	repo := &capturingStudentRepository{}
	service := NewQueryService(repo, 100, zap.NewNop())

	if _, err := service.StudentsByAffectedFlag(context.Background(), true); err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if !repo.affected {
		t.Error("expected affected flag to pass through")
	}
}

func TestQueryService_CountryAndMentalHealth(t *testing.T) {
	repo := &capturingStudentRepository{}
	service := NewQueryService(repo, 100, zap.NewNop())

	if _, err := service.StudentsByCountryAndMentalHealth(context.Background(), "Germany", 7); err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if repo.country != "Germany" || repo.score != 7 {
		t.Errorf("expected (Germany, 7), got (%q, %d)", repo.country, repo.score)
	}
}
