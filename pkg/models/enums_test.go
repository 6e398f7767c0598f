package models

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campuspulse/survey-engine/pkg/apperrors"
)

func TestParseGender_CaseAndWhitespaceVariants(t *testing.T) {
	for _, raw := range []string{"Male", "MALE", " male ", "\tmAlE\n"} {
		g, err := ParseGender(raw)
		require.NoError(t, err, "raw %q", raw)
		assert.Equal(t, GenderMale, g, "raw %q", raw)
	}
}

func TestParseGender_Invalid(t *testing.T) {
	_, err := ParseGender("unknown")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidCategoryValue))
}

func TestParseAcademicLevel_MultiWord(t *testing.T) {
	cases := map[string]AcademicLevel{
		"High School":     AcademicLevelHighSchool,
		"high school":     AcademicLevelHighSchool,
		"HIGH_SCHOOL":     AcademicLevelHighSchool,
		" Undergraduate ": AcademicLevelUndergraduate,
		"Graduate":        AcademicLevelGraduate,
	}
	for raw, want := range cases {
		got, err := ParseAcademicLevel(raw)
		require.NoError(t, err, "raw %q", raw)
		assert.Equal(t, want, got, "raw %q", raw)
	}
}

func TestParsePlatform_SpellingVariants(t *testing.T) {
	cases := map[string]Platform{
		"TikTok":    PlatformTikTok,
		"Tik Tok":   PlatformTikTok,
		"tik_tok":   PlatformTikTok,
		"Instagram": PlatformInstagram,
		"LinkedIn":  PlatformLinkedIn,
		"VKontakte": PlatformVKontakte,
		"KakaoTalk": PlatformKakaoTalk,
	}
	for raw, want := range cases {
		got, err := ParsePlatform(raw)
		require.NoError(t, err, "raw %q", raw)
		assert.Equal(t, want, got, "raw %q", raw)
	}
}

func TestParsePlatform_Invalid(t *testing.T) {
	_, err := ParsePlatform("MySpace")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidCategoryValue))
}

func TestParseRelationshipStatus(t *testing.T) {
	cases := map[string]RelationshipStatus{
		"Single":          RelationshipSingle,
		"In Relationship": RelationshipInRelationship,
		"in relationship": RelationshipInRelationship,
		"Complicated":     RelationshipComplicated,
	}
	for raw, want := range cases {
		got, err := ParseRelationshipStatus(raw)
		require.NoError(t, err, "raw %q", raw)
		assert.Equal(t, want, got, "raw %q", raw)
	}
}
