package scenario

import "witness-lab/internal/domain"

// Baseline es el catalogo de escenarios base, incluyendo casos borde de
// validacion dificil (impacto minimo y contrafactuales).
var Baseline = []Scenario{
	{
		ID:            "scenario_001",
		Category:      CategoryEmotionalSupport,
		Intervener:    "Intervener_1",
		Beneficiary:   "Beneficiary_1",
		Description:   "I noticed my friend was showing signs of a panic attack and helped them through breathing exercises and grounding techniques.",
		PredictedHarm: "Full panic attack leading to public embarrassment and increased anxiety",
		Context: map[string]any{
			"location":     "coffee_shop",
			"time_of_day":  "afternoon",
			"relationship": "close_friend",
			"before_state": "visible anxiety, rapid breathing, looking overwhelmed",
			"after_state":  "calmer, breathing normalized, able to continue conversation",
		},
		ExpectedScores: domain.ScoreMap{"H": 7, "T": 9, "R": 3, "S": 6, "E": 8, "W": 8},
		Difficulty:     "easy",
	},
	{
		ID:            "scenario_002",
		Category:      CategoryConflictResolution,
		Intervener:    "Intervener_2",
		Beneficiary:   "Beneficiary_2",
		Description:   "I mediated a misunderstanding between two roommates about shared responsibilities that was escalating into a major conflict.",
		PredictedHarm: "Living situation breakdown, one person moving out, loss of friendship",
		Context: map[string]any{
			"location":     "shared_apartment",
			"time_of_day":  "evening",
			"relationship": "mutual_friend",
			"before_state": "Tense conversation, raised voices, accusations",
			"after_state":  "Agreement reached, clear boundaries set, both parties satisfied",
		},
		ExpectedScores: domain.ScoreMap{"H": 8, "T": 7, "R": 7, "S": 9, "E": 7, "W": 7},
		Difficulty:     "medium",
	},
	{
		ID:            "scenario_003",
		Category:      CategoryPreventiveAction,
		Intervener:    "Intervener_3",
		Beneficiary:   "Beneficiary_3",
		Description:   "I warned a friend about a potential mismatch with someone they were about to go on a first date with, based on shared values.",
		PredictedHarm: "Bad first date, emotional disappointment, wasted time and energy",
		Context: map[string]any{
			"location":     "phone_call",
			"time_of_day":  "morning",
			"relationship": "close_friend",
			"before_state": "Excited about date, unaware of potential mismatch",
			"after_state":  "More realistic expectations, decided to proceed with caution",
		},
		ExpectedScores: domain.ScoreMap{"H": 4, "T": 8, "R": 2, "S": 5, "E": 6, "W": 6},
		// Contrafactual dificil de validar.
		Difficulty: "hard",
	},
	{
		ID:            "scenario_004",
		Category:      CategoryClarification,
		Intervener:    "Intervener_1",
		Beneficiary:   "Beneficiary_1",
		Description:   "I clarified a misunderstanding between two partners about communication preferences that was causing ongoing friction.",
		PredictedHarm: "Continued miscommunication, relationship strain, potential breakup",
		Context: map[string]any{
			"location":     "group_setting",
			"time_of_day":  "afternoon",
			"relationship": "mutual_friend",
			"before_state": "Both partners frustrated, repeating same arguments",
			"after_state":  "Understanding reached, new communication approach agreed",
		},
		ExpectedScores: domain.ScoreMap{"H": 6, "T": 6, "R": 6, "S": 8, "E": 9, "W": 7},
		Difficulty:     "medium",
	},
	{
		ID:            "scenario_005",
		Category:      CategoryTimelyIntervention,
		Intervener:    "Intervener_2",
		Beneficiary:   "Beneficiary_2",
		Description:   "I checked in with a friend at exactly the right moment when they were about to make a decision they would regret.",
		PredictedHarm: "Poor decision with long-term consequences, regret, relationship damage",
		Context: map[string]any{
			"location":     "text_message",
			"time_of_day":  "late_night",
			"relationship": "close_friend",
			"before_state": "About to send angry message, emotional state",
			"after_state":  "Decided to wait, calmer perspective gained",
		},
		ExpectedScores: domain.ScoreMap{"H": 7, "T": 10, "R": 4, "S": 7, "E": 7, "W": 7},
		Difficulty:     "easy",
	},
	{
		ID:            "scenario_006",
		Category:      CategoryEmotionalSupport,
		Intervener:    "Intervener_3",
		Beneficiary:   "Beneficiary_3",
		Description:   "I listened to someone vent about work stress for 10 minutes.",
		PredictedHarm: "Continued stress buildup",
		Context: map[string]any{
			"location":     "workplace",
			"time_of_day":  "afternoon",
			"relationship": "colleague",
			"before_state": "Stressed about work",
			"after_state":  "Slightly less stressed",
		},
		ExpectedScores: domain.ScoreMap{"H": 2, "T": 3, "R": 1, "S": 2, "E": 3, "W": 4},
		// Impacto minimo, dificil de validar.
		Difficulty: "hard",
	},
	{
		ID:            "scenario_007",
		Category:      CategoryConflictResolution,
		Intervener:    "Intervener_1",
		Beneficiary:   "Beneficiary_1",
		Description:   "I prevented a community-wide conflict by addressing a misunderstanding before it spread.",
		PredictedHarm: "Community split, loss of trust, multiple relationships damaged",
		Context: map[string]any{
			"location":     "community_space",
			"time_of_day":  "evening",
			"relationship": "community_member",
			"before_state": "Rumors spreading, tension building",
			"after_state":  "Misunderstanding clarified, community cohesion maintained",
		},
		ExpectedScores: domain.ScoreMap{"H": 9, "T": 8, "R": 10, "S": 9, "E": 8, "W": 8},
		Difficulty:     "medium",
	},
}
