package models

// Feature names a gated surface of the app
type Feature string

const (
	FeatureTutors       Feature = "tutors"
	FeatureHabitTracker Feature = "habit_tracker"
	FeatureJournal      Feature = "journal"
	FeatureTaskManager  Feature = "tasks"
)

// Features lists every gated feature
var Features = []Feature{FeatureTutors, FeatureHabitTracker, FeatureJournal, FeatureTaskManager}

// ValidFeature reports whether f names a known feature
func ValidFeature(f Feature) bool {
	for _, known := range Features {
		if known == f {
			return true
		}
	}
	return false
}

// AppAccessSettings holds a child's per-feature toggles. A nil field means
// the parent never touched that toggle and the feature stays allowed.
type AppAccessSettings struct {
	ChildID      string `json:"child_id"`
	Tutors       *bool  `json:"tutors_enabled"`
	HabitTracker *bool  `json:"habit_tracker_enabled"`
	Journal      *bool  `json:"journal_enabled"`
	Tasks        *bool  `json:"tasks_enabled"`
}

// Allows reports whether the settings permit a feature. Unset toggles allow.
func (s *AppAccessSettings) Allows(f Feature) bool {
	if s == nil {
		return true
	}
	var v *bool
	switch f {
	case FeatureTutors:
		v = s.Tutors
	case FeatureHabitTracker:
		v = s.HabitTracker
	case FeatureJournal:
		v = s.Journal
	case FeatureTaskManager:
		v = s.Tasks
	default:
		return true
	}
	if v == nil {
		return true
	}
	return *v
}
