package services

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/campuspulse/survey-engine/pkg/models"
	"github.com/campuspulse/survey-engine/pkg/repositories"
)

// QueryService answers the read queries over the imported survey data.
// Inputs are validated against the categorical vocabularies before any SQL
// runs, and list results are capped at maxResults.
type QueryService interface {
	StudentsByGenderAndAcademicLevel(ctx context.Context, gender, academicLevel string) ([]models.StudentRow, error)
	AverageDailyUsageByCountry(ctx context.Context, country string) (*float64, error)
	StudentsWithConflictsOver(ctx context.Context, threshold int) ([]models.StudentRow, error)
	StudentsByAffectedFlag(ctx context.Context, isAffected bool) ([]models.StudentRow, error)
	StudentsByCountryAndMentalHealth(ctx context.Context, country string, score int) ([]models.StudentRow, error)
}

type queryService struct {
	students   repositories.StudentRepository
	maxResults int
	logger     *zap.Logger
}

// NewQueryService creates a new query service with dependencies.
func NewQueryService(students repositories.StudentRepository, maxResults int, logger *zap.Logger) QueryService {
	if maxResults <= 0 {
		maxResults = 500
	}
	return &queryService{
		students:   students,
		maxResults: maxResults,
		logger:     logger.Named("query"),
	}
}

func (s *queryService) StudentsByGenderAndAcademicLevel(ctx context.Context, gender, academicLevel string) ([]models.StudentRow, error) {
	g, err := models.ParseGender(gender)
	if err != nil {
		return nil, err
	}
	level, err := models.ParseAcademicLevel(academicLevel)
	if err != nil {
		return nil, err
	}
	return s.students.FetchByGenderAndAcademicLevel(ctx, g, level, s.maxResults)
}

func (s *queryService) AverageDailyUsageByCountry(ctx context.Context, country string) (*float64, error) {
	return s.students.FetchAverageDailyUsage(ctx, strings.TrimSpace(country))
}

func (s *queryService) StudentsWithConflictsOver(ctx context.Context, threshold int) ([]models.StudentRow, error) {
	return s.students.FetchConflictsOverThreshold(ctx, threshold, s.maxResults)
}

func (s *queryService) StudentsByAffectedFlag(ctx context.Context, isAffected bool) ([]models.StudentRow, error) {
	return s.students.FetchByAffectedFlag(ctx, isAffected, s.maxResults)
}

func (s *queryService) StudentsByCountryAndMentalHealth(ctx context.Context, country string, score int) ([]models.StudentRow, error) {
	return s.students.FetchByCountryAndMentalHealth(ctx, strings.TrimSpace(country), score, s.maxResults)
}
