package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/campuspulse/survey-engine/pkg/apperrors"
	"github.com/campuspulse/survey-engine/pkg/models"
)

// mockDimensionRepository assigns sequential ids per table unless a canned
// result is configured for it.
type mockDimensionRepository struct {
	captured map[string][]string
	results  map[string]map[string]int64
	err      error
}

func (m *mockDimensionRepository) FindOrCreate(ctx context.Context, table, column string, values []string) (map[string]int64, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.captured == nil {
		m.captured = make(map[string][]string)
	}
	m.captured[table] = append(m.captured[table], values...)

	if canned, ok := m.results[table]; ok {
		return canned, nil
	}

	ids := make(map[string]int64, len(values))
	for i, v := range values {
		ids[v] = int64(i + 1)
	}
	return ids, nil
}

type mockStudentRepository struct {
	inserted  []models.Student
	insertErr error
}

func (m *mockStudentRepository) BulkInsert(ctx context.Context, students []models.Student) (int64, error) {
	if m.insertErr != nil {
		return 0, m.insertErr
	}
	m.inserted = students
	return int64(len(students)), nil
}

func (m *mockStudentRepository) FetchByGenderAndAcademicLevel(ctx context.Context, gender models.Gender, level models.AcademicLevel, limit int) ([]models.StudentRow, error) {
	return nil, nil
}

func (m *mockStudentRepository) FetchAverageDailyUsage(ctx context.Context, country string) (*float64, error) {
	return nil, nil
}

func (m *mockStudentRepository) FetchConflictsOverThreshold(ctx context.Context, threshold, limit int) ([]models.StudentRow, error) {
	return nil, nil
}

func (m *mockStudentRepository) FetchByAffectedFlag(ctx context.Context, isAffected bool, limit int) ([]models.StudentRow, error) {
	return nil, nil
}

func (m *mockStudentRepository) FetchByCountryAndMentalHealth(ctx context.Context, country string, score, limit int) ([]models.StudentRow, error) {
	return nil, nil
}

func testDatasetPath() string {
	return filepath.Join("testdata", "students.csv")
}

func TestImportService_ImportFile(t *testing.T) {
	dims := &mockDimensionRepository{}
	students := &mockStudentRepository{}
	service := NewImportService(dims, students, zap.NewNop())

	result, err := service.ImportFile(context.Background(), testDatasetPath())
	require.NoError(t, err)

	assert.Equal(t, 5, result.RowsRead)
	assert.Equal(t, int64(5), result.StudentsImported)
	require.Len(t, students.inserted, 5)

	// Case and whitespace variants collapse to one canonical value each.
	expectCaptured(t, dims, "genders", []string{"FEMALE", "MALE"})
	expectCaptured(t, dims, "academic_levels", []string{"GRADUATE", "HIGH_SCHOOL", "UNDERGRADUATE"})
	expectCaptured(t, dims, "countries", []string{"France", "Germany", "Poland"})
	expectCaptured(t, dims, "platforms", []string{"INSTAGRAM", "LINKEDIN", "TIKTOK", "WHATSAPP"})

	// "TikTok" and "Tik Tok" share the same platform id.
	assert.Equal(t, students.inserted[1].PlatformID, students.inserted[2].PlatformID,
		"TikTok variants must share a platform id")
	// "FEMALE" and " female " share the same gender id.
	assert.Equal(t, students.inserted[1].GenderID, students.inserted[2].GenderID,
		"gender variants must share an id")

	assert.Equal(t, models.RelationshipInRelationship, students.inserted[1].RelationshipStatus)
}

func TestImportService_CountryCaseVariantsShareRow(t *testing.T) {
	csv := "Student_ID,Gender,Academic_Level,Country,Most_Used_Platform,Relationship_Status,Age,Avg_Daily_Usage_Hours,Affects_Academic_Performance,Sleep_Hours_Per_Night,Mental_Health_Score,Conflicts_Over_Social_Media,Addicted_Score\n" +
		"1,Male,Undergraduate,Poland,Instagram,Single,21,4,Yes,6.5,7,2,3\n" +
		"2,Female,Graduate,poland,TikTok,Single,24,6,No,7.0,5,4,4\n" +
		"3,Male,Graduate, POLAND ,Instagram,Single,23,5,No,7.0,6,1,3\n"

	path := filepath.Join(t.TempDir(), "students.csv")
	require.NoError(t, os.WriteFile(path, []byte(csv), 0o644))

	dims := &mockDimensionRepository{}
	students := &mockStudentRepository{}
	service := NewImportService(dims, students, zap.NewNop())

	_, err := service.ImportFile(context.Background(), path)
	require.NoError(t, err)

	// One dimension row, first-seen spelling.
	assert.Equal(t, []string{"Poland"}, dims.captured["countries"])

	require.Len(t, students.inserted, 3)
	assert.Equal(t, students.inserted[0].CountryID, students.inserted[1].CountryID)
	assert.Equal(t, students.inserted[0].CountryID, students.inserted[2].CountryID)
}

func TestImportService_UnmappedCategoryValue(t *testing.T) {
	dims := &mockDimensionRepository{
		results: map[string]map[string]int64{
			"genders": {"MALE": 1},
		},
	}
	service := NewImportService(dims, &mockStudentRepository{}, zap.NewNop())

	_, err := service.ImportFile(context.Background(), testDatasetPath())
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrUnmappedCategoryValue))
}

func TestImportService_IncompleteDimensionMapping(t *testing.T) {
	dims := &mockDimensionRepository{
		results: map[string]map[string]int64{
			"countries": {},
		},
	}
	service := NewImportService(dims, &mockStudentRepository{}, zap.NewNop())

	_, err := service.ImportFile(context.Background(), testDatasetPath())
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrIncompleteDimensionMapping))
}

func TestImportService_DimensionRepoError(t *testing.T) {
	dims := &mockDimensionRepository{err: errors.New("database error")}
	service := NewImportService(dims, &mockStudentRepository{}, zap.NewNop())

	_, err := service.ImportFile(context.Background(), testDatasetPath())
	require.Error(t, err)
}

func TestImportService_BulkInsertError(t *testing.T) {
	students := &mockStudentRepository{insertErr: errors.New("copy failed")}
	service := NewImportService(&mockDimensionRepository{}, students, zap.NewNop())

	_, err := service.ImportFile(context.Background(), testDatasetPath())
	require.Error(t, err)
}

func expectCaptured(t *testing.T, dims *mockDimensionRepository, table string, want []string) {
	t.Helper()
	got := append([]string(nil), dims.captured[table]...)
	sort.Strings(got)
	assert.Equal(t, want, got, "table %s", table)
}
