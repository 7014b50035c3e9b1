// Package progress derives per-step and overall completion from the field
// validator's verdicts.
package progress

import (
	"math"

	"github.com/sampleslayer92/utopia-produkcia-sub005/internal/onboarding/models"
	"github.com/sampleslayer92/utopia-produkcia-sub005/internal/onboarding/validation"
)

// StepConfig names one wizard step and the field paths it requires.
type StepConfig struct {
	Name           string   `yaml:"name" json:"name"`
	RequiredFields []string `yaml:"required_fields" json:"requiredFields"`
}

// StepProgress is the derived completion state of one step. It is never
// persisted.
type StepProgress struct {
	Index                int      `json:"index"`
	Name                 string   `json:"name"`
	RequiredFields       []string `json:"requiredFields"`
	CompletedFields      []string `json:"completedFields"`
	CompletionPercentage int      `json:"completionPercentage"`
	IsComplete           bool     `json:"isComplete"`
	Visited              bool     `json:"visited"`
}

// Overview aggregates every step.
//
// OverallPercentage only counts steps that declare required fields, so a
// visited zero-field step reads 100% on its own but adds nothing here.
type Overview struct {
	Steps             []StepProgress `json:"steps"`
	CompletedSteps    int            `json:"completedSteps"`
	TotalSteps        int            `json:"totalSteps"`
	OverallPercentage int            `json:"overallPercentage"`
}

// Calculate evaluates steps against data. The step index is its position in
// steps and matches the indexes stored in visitedSteps.
func Calculate(data models.OnboardingData, steps []StepConfig) Overview {
	overview := Overview{
		Steps:      make([]StepProgress, 0, len(steps)),
		TotalSteps: len(steps),
	}
	var totalRequired, totalCompleted int
	for i, step := range steps {
		sp := evaluate(i, step, data)
		if sp.IsComplete {
			overview.CompletedSteps++
		}
		totalRequired += len(sp.RequiredFields)
		totalCompleted += len(sp.CompletedFields)
		overview.Steps = append(overview.Steps, sp)
	}
	overview.OverallPercentage = percent(totalCompleted, totalRequired)
	return overview
}

// Step evaluates a single step.
func Step(data models.OnboardingData, steps []StepConfig, index int) (StepProgress, bool) {
	if index < 0 || index >= len(steps) {
		return StepProgress{}, false
	}
	return evaluate(index, steps[index], data), true
}

func evaluate(index int, step StepConfig, data models.OnboardingData) StepProgress {
	sp := StepProgress{
		Index:           index,
		Name:            step.Name,
		RequiredFields:  append([]string(nil), step.RequiredFields...),
		CompletedFields: []string{},
		Visited:         data.HasVisited(index),
	}
	if len(step.RequiredFields) == 0 {
		sp.IsComplete = sp.Visited
		if sp.Visited {
			sp.CompletionPercentage = 100
		}
		return sp
	}
	for _, path := range step.RequiredFields {
		value, ok := models.Resolve(data, path)
		if ok && validation.IsComplete(value, path) {
			sp.CompletedFields = append(sp.CompletedFields, path)
		}
	}
	sp.CompletionPercentage = percent(len(sp.CompletedFields), len(sp.RequiredFields))
	sp.IsComplete = len(sp.CompletedFields) == len(sp.RequiredFields)
	return sp
}

// percent rounds half up, 0 when there is nothing to count.
func percent(done, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Floor(float64(done)*100/float64(total) + 0.5))
}
