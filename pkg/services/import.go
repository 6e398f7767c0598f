package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/campuspulse/survey-engine/pkg/apperrors"
	"github.com/campuspulse/survey-engine/pkg/models"
	"github.com/campuspulse/survey-engine/pkg/repositories"
)

// Dimension table names and their value columns.
const (
	tableGenders        = "genders"
	columnGender        = "gender"
	tableAcademicLevels = "academic_levels"
	columnAcademicLevel = "academic_level"
	tableCountries      = "countries"
	columnCountryName   = "country_name"
	tablePlatforms      = "platforms"
	columnPlatform      = "platform"
)

// ImportResult summarizes one import run.
type ImportResult struct {
	RunID            uuid.UUID `json:"run_id"`
	RowsRead         int       `json:"rows_read"`
	StudentsImported int64     `json:"students_imported"`
}

// ImportService loads the survey CSV into the star schema: dimension values
// are resolved first (find-or-create), then fact rows are rewritten onto the
// resolved foreign keys and bulk-appended.
type ImportService interface {
	ImportFile(ctx context.Context, path string) (*ImportResult, error)
}

type importService struct {
	dimensions repositories.DimensionRepository
	students   repositories.StudentRepository
	logger     *zap.Logger
}

// NewImportService creates a new import service with dependencies.
func NewImportService(dimensions repositories.DimensionRepository, students repositories.StudentRepository, logger *zap.Logger) ImportService {
	return &importService{
		dimensions: dimensions,
		students:   students,
		logger:     logger.Named("import"),
	}
}

func (s *importService) ImportFile(ctx context.Context, path string) (*ImportResult, error) {
	runID := uuid.New()
	logger := s.logger.With(zap.String("run_id", runID.String()))

	records, err := readDataset(path)
	if err != nil {
		return nil, err
	}
	logger.Info("Dataset read", zap.String("path", path), zap.Int("rows", len(records)))

	maps, err := s.resolveDimensions(ctx, records, logger)
	if err != nil {
		return nil, err
	}

	students, err := buildStudents(records, maps)
	if err != nil {
		return nil, err
	}

	inserted, err := s.students.BulkInsert(ctx, students)
	if err != nil {
		return nil, err
	}
	logger.Info("Students imported", zap.Int64("count", inserted))

	return &ImportResult{
		RunID:            runID,
		RowsRead:         len(records),
		StudentsImported: inserted,
	}, nil
}

// dimensionMaps holds the resolved lookup-key -> id mapping for each
// dimension. Keys are lowercased canonical values.
type dimensionMaps struct {
	genders        map[string]int64
	academicLevels map[string]int64
	countries      map[string]int64
	platforms      map[string]int64
}

// complete reports whether every dimension resolved at least one value.
// Fact rows must not be written against a partially resolved mapping.
func (m *dimensionMaps) complete() bool {
	return len(m.genders) > 0 && len(m.academicLevels) > 0 &&
		len(m.countries) > 0 && len(m.platforms) > 0
}

func (s *importService) resolveDimensions(ctx context.Context, records []models.SurveyRecord, logger *zap.Logger) (*dimensionMaps, error) {
	genders, err := s.resolve(ctx, tableGenders, columnGender,
		distinct(records, func(r models.SurveyRecord) string { return r.Gender }),
		func(raw string) (string, error) {
			g, err := models.ParseGender(raw)
			return string(g), err
		})
	if err != nil {
		return nil, err
	}

	levels, err := s.resolve(ctx, tableAcademicLevels, columnAcademicLevel,
		distinct(records, func(r models.SurveyRecord) string { return r.AcademicLevel }),
		func(raw string) (string, error) {
			l, err := models.ParseAcademicLevel(raw)
			return string(l), err
		})
	if err != nil {
		return nil, err
	}

	countries, err := s.resolve(ctx, tableCountries, columnCountryName,
		distinct(records, func(r models.SurveyRecord) string { return r.Country }),
		func(raw string) (string, error) {
			// Country is free text: stored trimmed, first-seen casing wins.
			return strings.TrimSpace(raw), nil
		})
	if err != nil {
		return nil, err
	}

	platforms, err := s.resolve(ctx, tablePlatforms, columnPlatform,
		distinct(records, func(r models.SurveyRecord) string { return r.MostUsedPlatform }),
		func(raw string) (string, error) {
			p, err := models.ParsePlatform(raw)
			return string(p), err
		})
	if err != nil {
		return nil, err
	}

	maps := &dimensionMaps{
		genders:        genders,
		academicLevels: levels,
		countries:      countries,
		platforms:      platforms,
	}

	if !maps.complete() {
		return nil, fmt.Errorf("%w: a dimension resolved no values", apperrors.ErrIncompleteDimensionMapping)
	}

	logger.Debug("Dimensions resolved",
		zap.Int("genders", len(genders)),
		zap.Int("academic_levels", len(levels)),
		zap.Int("countries", len(countries)),
		zap.Int("platforms", len(platforms)))

	return maps, nil
}

// resolve normalizes each distinct raw value to its canonical stored form,
// finds-or-creates the dimension rows, and returns ids keyed by the
// lowercased canonical value (the lookup key used by the fact loader).
// Canonicals are deduplicated by lookup key, so case variants of a free-text
// value ("Poland", "poland") produce one dimension row with the first-seen
// spelling.
func (s *importService) resolve(ctx context.Context, table, column string, raws []string, normalize func(string) (string, error)) (map[string]int64, error) {
	seen := make(map[string]struct{}, len(raws))
	canonicals := make([]string, 0, len(raws))
	for _, raw := range raws {
		canonical, err := normalize(raw)
		if err != nil {
			return nil, err
		}
		key := strings.ToLower(canonical)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		canonicals = append(canonicals, canonical)
	}

	stored, err := s.dimensions.FindOrCreate(ctx, table, column, canonicals)
	if err != nil {
		return nil, err
	}

	ids := make(map[string]int64, len(stored))
	for value, id := range stored {
		ids[strings.ToLower(value)] = id
	}
	return ids, nil
}

// buildStudents rewrites each record's categorical columns into dimension
// foreign keys. Every lookup key must be present in the resolved maps.
func buildStudents(records []models.SurveyRecord, maps *dimensionMaps) ([]models.Student, error) {
	students := make([]models.Student, 0, len(records))
	for _, r := range records {
		genderID, err := lookup(maps.genders, keyForGender(r.Gender), r.Gender)
		if err != nil {
			return nil, err
		}
		levelID, err := lookup(maps.academicLevels, keyForAcademicLevel(r.AcademicLevel), r.AcademicLevel)
		if err != nil {
			return nil, err
		}
		countryID, err := lookup(maps.countries, keyForCountry(r.Country), r.Country)
		if err != nil {
			return nil, err
		}
		platformID, err := lookup(maps.platforms, keyForPlatform(r.MostUsedPlatform), r.MostUsedPlatform)
		if err != nil {
			return nil, err
		}

		status, err := models.ParseRelationshipStatus(r.RelationshipStatus)
		if err != nil {
			return nil, err
		}

		students = append(students, models.Student{
			GenderID:                   genderID,
			AcademicLevelID:            levelID,
			CountryID:                  countryID,
			PlatformID:                 platformID,
			RelationshipStatus:         status,
			Age:                        r.Age,
			AvgDailyUsageHours:         r.AvgDailyUsageHours,
			AffectsAcademicPerformance: r.AffectsAcademicPerformance,
			SleepHoursPerNight:         r.SleepHoursPerNight,
			MentalHealthScore:          r.MentalHealthScore,
			ConflictsOverSocialMedia:   r.ConflictsOverSocialMedia,
			AddictedScore:              r.AddictedScore,
		})
	}
	return students, nil
}

func lookup(ids map[string]int64, key, raw string) (int64, error) {
	id, ok := ids[key]
	if !ok {
		return 0, fmt.Errorf("%w: %q", apperrors.ErrUnmappedCategoryValue, raw)
	}
	return id, nil
}

// Lookup keys are the lowercased canonical form of each raw value, so case
// and whitespace variants land on the same dimension row.
func keyForGender(raw string) string {
	g, err := models.ParseGender(raw)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(raw))
	}
	return strings.ToLower(string(g))
}

func keyForAcademicLevel(raw string) string {
	l, err := models.ParseAcademicLevel(raw)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(raw))
	}
	return strings.ToLower(string(l))
}

func keyForCountry(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

func keyForPlatform(raw string) string {
	p, err := models.ParsePlatform(raw)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(raw))
	}
	return strings.ToLower(string(p))
}

// distinct collects the distinct raw values of one categorical column,
// preserving first-seen order.
func distinct(records []models.SurveyRecord, value func(models.SurveyRecord) string) []string {
	seen := make(map[string]struct{}, len(records))
	var values []string
	for _, r := range records {
		v := value(r)
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		values = append(values, v)
	}
	return values
}
