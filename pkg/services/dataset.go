package services

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/campuspulse/survey-engine/pkg/models"
)

// Column headers expected in the survey CSV file.
var requiredColumns = []string{
	"Student_ID", "Gender", "Academic_Level", "Country", "Most_Used_Platform",
	"Relationship_Status", "Age", "Avg_Daily_Usage_Hours",
	"Affects_Academic_Performance", "Sleep_Hours_Per_Night",
	"Mental_Health_Score", "Conflicts_Over_Social_Media", "Addicted_Score",
}

// readDataset parses the survey CSV into typed records. The Student_ID column
// is kept only as a row index for diagnostics.
func readDataset(path string) ([]models.SurveyRecord, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset header: %w", err)
	}

	index, err := columnIndex(header)
	if err != nil {
		return nil, err
	}

	var records []models.SurveyRecord
	for line := 2; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read dataset line %d: %w", line, err)
		}

		record, err := parseRecord(row, index)
		if err != nil {
			return nil, fmt.Errorf("dataset line %d: %w", line, err)
		}
		records = append(records, record)
	}

	return records, nil
}

// columnIndex maps each required column name to its position in the header.
// Matching tolerates case and surrounding whitespace.
func columnIndex(header []string) (map[string]int, error) {
	byName := make(map[string]int, len(header))
	for i, h := range header {
		byName[strings.ToLower(strings.TrimSpace(h))] = i
	}

	index := make(map[string]int, len(requiredColumns))
	var missing []string
	for _, col := range requiredColumns {
		i, ok := byName[strings.ToLower(col)]
		if !ok {
			missing = append(missing, col)
			continue
		}
		index[col] = i
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("dataset is missing required columns: %v", missing)
	}
	return index, nil
}

func parseRecord(row []string, index map[string]int) (models.SurveyRecord, error) {
	get := func(col string) string {
		i := index[col]
		if i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	age, err := strconv.Atoi(get("Age"))
	if err != nil {
		return models.SurveyRecord{}, fmt.Errorf("invalid Age %q", get("Age"))
	}
	usage, err := parseHours(get("Avg_Daily_Usage_Hours"))
	if err != nil {
		return models.SurveyRecord{}, fmt.Errorf("invalid Avg_Daily_Usage_Hours %q", get("Avg_Daily_Usage_Hours"))
	}
	affects, err := parseBool(get("Affects_Academic_Performance"))
	if err != nil {
		return models.SurveyRecord{}, fmt.Errorf("invalid Affects_Academic_Performance %q", get("Affects_Academic_Performance"))
	}
	sleep, err := strconv.ParseFloat(get("Sleep_Hours_Per_Night"), 64)
	if err != nil {
		return models.SurveyRecord{}, fmt.Errorf("invalid Sleep_Hours_Per_Night %q", get("Sleep_Hours_Per_Night"))
	}
	mental, err := strconv.Atoi(get("Mental_Health_Score"))
	if err != nil {
		return models.SurveyRecord{}, fmt.Errorf("invalid Mental_Health_Score %q", get("Mental_Health_Score"))
	}
	conflicts, err := strconv.Atoi(get("Conflicts_Over_Social_Media"))
	if err != nil {
		return models.SurveyRecord{}, fmt.Errorf("invalid Conflicts_Over_Social_Media %q", get("Conflicts_Over_Social_Media"))
	}
	addicted, err := strconv.Atoi(get("Addicted_Score"))
	if err != nil {
		return models.SurveyRecord{}, fmt.Errorf("invalid Addicted_Score %q", get("Addicted_Score"))
	}

	return models.SurveyRecord{
		StudentID:                  get("Student_ID"),
		Gender:                     get("Gender"),
		AcademicLevel:              get("Academic_Level"),
		Country:                    get("Country"),
		MostUsedPlatform:           get("Most_Used_Platform"),
		RelationshipStatus:         get("Relationship_Status"),
		Age:                        age,
		AvgDailyUsageHours:         usage,
		AffectsAcademicPerformance: affects,
		SleepHoursPerNight:         sleep,
		MentalHealthScore:          mental,
		ConflictsOverSocialMedia:   conflicts,
		AddictedScore:              addicted,
	}, nil
}

// parseHours accepts integer hour counts, tolerating a fractional source
// value by truncating it ("4.5" -> 4).
func parseHours(s string) (int, error) {
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	return int(f), nil
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "t", "yes", "y", "1":
		return true, nil
	case "false", "f", "no", "n", "0":
		return false, nil
	default:
		return false, fmt.Errorf("not a boolean value")
	}
}
