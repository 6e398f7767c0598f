package models

import (
	"fmt"
	"strings"

	"github.com/campuspulse/survey-engine/pkg/apperrors"
)

// Gender is the canonical code stored in the genders dimension.
type Gender string

const (
	GenderMale   Gender = "MALE"
	GenderFemale Gender = "FEMALE"
)

// AcademicLevel is the canonical code stored in the academic_levels dimension.
type AcademicLevel string

const (
	AcademicLevelUndergraduate AcademicLevel = "UNDERGRADUATE"
	AcademicLevelGraduate      AcademicLevel = "GRADUATE"
	AcademicLevelHighSchool    AcademicLevel = "HIGH_SCHOOL"
)

// Platform is the canonical code stored in the platforms dimension.
type Platform string

const (
	PlatformInstagram Platform = "INSTAGRAM"
	PlatformTwitter   Platform = "TWITTER"
	PlatformTikTok    Platform = "TIKTOK"
	PlatformYouTube   Platform = "YOUTUBE"
	PlatformFacebook  Platform = "FACEBOOK"
	PlatformLinkedIn  Platform = "LINKEDIN"
	PlatformSnapchat  Platform = "SNAPCHAT"
	PlatformLine      Platform = "LINE"
	PlatformKakaoTalk Platform = "KAKAOTALK"
	PlatformVKontakte Platform = "VKONTAKTE"
	PlatformWhatsApp  Platform = "WHATSAPP"
	PlatformWeChat    Platform = "WECHAT"
)

// RelationshipStatus is the canonical code stored on the students fact table.
type RelationshipStatus string

const (
	RelationshipSingle         RelationshipStatus = "SINGLE"
	RelationshipInRelationship RelationshipStatus = "IN_RELATIONSHIP"
	RelationshipComplicated    RelationshipStatus = "COMPLICATED"
)

var genders = map[string]Gender{
	"MALE":   GenderMale,
	"FEMALE": GenderFemale,
}

var academicLevels = map[string]AcademicLevel{
	"UNDERGRADUATE": AcademicLevelUndergraduate,
	"GRADUATE":      AcademicLevelGraduate,
	"HIGH_SCHOOL":   AcademicLevelHighSchool,
}

// Platforms are keyed with inner spaces and underscores removed so that
// source spellings like "Tik Tok" and "TikTok" collapse to one code.
var platforms = map[string]Platform{
	"INSTAGRAM": PlatformInstagram,
	"TWITTER":   PlatformTwitter,
	"TIKTOK":    PlatformTikTok,
	"YOUTUBE":   PlatformYouTube,
	"FACEBOOK":  PlatformFacebook,
	"LINKEDIN":  PlatformLinkedIn,
	"SNAPCHAT":  PlatformSnapchat,
	"LINE":      PlatformLine,
	"KAKAOTALK": PlatformKakaoTalk,
	"VKONTAKTE": PlatformVKontakte,
	"WHATSAPP":  PlatformWhatsApp,
	"WECHAT":    PlatformWeChat,
}

var relationshipStatuses = map[string]RelationshipStatus{
	"SINGLE":          RelationshipSingle,
	"IN_RELATIONSHIP": RelationshipInRelationship,
	"COMPLICATED":     RelationshipComplicated,
}

// normalizeEnum uppercases a raw categorical value, trims surrounding
// whitespace and collapses inner spaces to underscores, matching the stored
// enum spelling ("High School" -> "HIGH_SCHOOL").
func normalizeEnum(raw string) string {
	s := strings.ToUpper(strings.TrimSpace(raw))
	return strings.ReplaceAll(strings.Join(strings.Fields(s), "_"), " ", "_")
}

// ParseGender resolves a raw survey value to its canonical gender code.
func ParseGender(raw string) (Gender, error) {
	if g, ok := genders[normalizeEnum(raw)]; ok {
		return g, nil
	}
	return "", fmt.Errorf("%w: gender %q", apperrors.ErrInvalidCategoryValue, raw)
}

// ParseAcademicLevel resolves a raw survey value to its canonical academic
// level code. Multi-word levels collapse spaces to underscores before lookup.
func ParseAcademicLevel(raw string) (AcademicLevel, error) {
	if l, ok := academicLevels[normalizeEnum(raw)]; ok {
		return l, nil
	}
	return "", fmt.Errorf("%w: academic level %q", apperrors.ErrInvalidCategoryValue, raw)
}

// ParsePlatform resolves a raw survey value to its canonical platform code.
// Inner spaces and underscores are ignored so "Tik Tok" and "TikTok" match.
func ParsePlatform(raw string) (Platform, error) {
	key := strings.ReplaceAll(normalizeEnum(raw), "_", "")
	if p, ok := platforms[key]; ok {
		return p, nil
	}
	return "", fmt.Errorf("%w: platform %q", apperrors.ErrInvalidCategoryValue, raw)
}

// ParseRelationshipStatus resolves a raw survey value to its canonical
// relationship status code ("In Relationship" -> IN_RELATIONSHIP).
func ParseRelationshipStatus(raw string) (RelationshipStatus, error) {
	if s, ok := relationshipStatuses[normalizeEnum(raw)]; ok {
		return s, nil
	}
	return "", fmt.Errorf("%w: relationship status %q", apperrors.ErrInvalidCategoryValue, raw)
}
