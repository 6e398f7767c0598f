package models

// SurveyRecord is one typed row of the survey CSV. Student_ID is carried only
// as a row index for diagnostics; the database generates its own surrogate id.
type SurveyRecord struct {
	StudentID                  string
	Gender                     string
	AcademicLevel              string
	Country                    string
	MostUsedPlatform           string
	RelationshipStatus         string
	Age                        int
	AvgDailyUsageHours         int
	AffectsAcademicPerformance bool
	SleepHoursPerNight         float64
	MentalHealthScore          int
	ConflictsOverSocialMedia   int
	AddictedScore              int
}

// Student is a row of the students fact table with all categorical columns
// rewritten to dimension foreign keys.
type Student struct {
	ID                         int64
	GenderID                   int64
	AcademicLevelID            int64
	CountryID                  int64
	PlatformID                 int64
	RelationshipStatus         RelationshipStatus
	Age                        int
	AvgDailyUsageHours         int
	AffectsAcademicPerformance bool
	SleepHoursPerNight         float64
	MentalHealthScore          int
	ConflictsOverSocialMedia   int
	AddictedScore              int
}

// StudentRow is the denormalized projection returned by read queries:
// the fact's scalar fields joined with every dimension label.
type StudentRow struct {
	ID                         int64   `json:"id"`
	RelationshipStatus         string  `json:"relationship_status"`
	Age                        int     `json:"age"`
	AvgDailyUsageHours         int     `json:"avg_daily_usage_hours"`
	AffectsAcademicPerformance bool    `json:"affects_academic_performance"`
	SleepHoursPerNight         float64 `json:"sleep_hours_per_night"`
	MentalHealthScore          int     `json:"mental_health_score"`
	ConflictsOverSocialMedia   int     `json:"conflicts_over_social_media"`
	AddictedScore              int     `json:"addicted_score"`
	Gender                     string  `json:"gender"`
	AcademicLevel              string  `json:"academic_level"`
	CountryName                string  `json:"country_name"`
	Platform                   string  `json:"platform"`
}
