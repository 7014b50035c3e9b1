package progress

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/sampleslayer92/utopia-produkcia-sub005/internal/onboarding/models"
	strs "github.com/sampleslayer92/utopia-produkcia-sub005/pkg/platform/strings"
)

// DefaultSteps is the wizard sequence used when no configuration file is set.
// The summary step has no required fields and completes on visit.
func DefaultSteps() []StepConfig {
	return []StepConfig{
		{Name: "Contact", RequiredFields: []string{
			"contactInfo.firstName", "contactInfo.lastName", "contactInfo.email",
			"contactInfo.phone", "contactInfo.role",
		}},
		{Name: "Company", RequiredFields: []string{
			"companyInfo.companyName", "companyInfo.ico", "companyInfo.dic",
			"companyInfo.address", "companyInfo.contactPerson",
		}},
		{Name: "Business locations", RequiredFields: []string{"businessLocations"}},
		{Name: "Devices", RequiredFields: []string{
			"deviceSelection.dynamicCards", "deviceSelection.fees",
		}},
		{Name: "Authorized persons", RequiredFields: []string{"authorizedPersons"}},
		{Name: "Actual owners", RequiredFields: []string{"actualOwners"}},
		{Name: "Consents", RequiredFields: []string{"consents", "consents.signingPersonId"}},
		{Name: "Summary"},
	}
}

type stepsFile struct {
	Steps []StepConfig `yaml:"steps"`
}

// LoadSteps reads a step sequence from a YAML file. Every required path must
// resolve against an empty aggregate so typos fail at startup instead of
// reading as permanently incomplete.
func LoadSteps(path string) ([]StepConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read steps config: %w", err)
	}
	return ParseSteps(raw)
}

// ParseSteps decodes and checks a YAML step sequence.
func ParseSteps(raw []byte) ([]StepConfig, error) {
	var f stepsFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("decode steps config: %w", err)
	}
	if len(f.Steps) == 0 {
		return nil, fmt.Errorf("steps config declares no steps")
	}
	probe := probeAggregate()
	for i, step := range f.Steps {
		if strings.TrimSpace(step.Name) == "" {
			return nil, fmt.Errorf("step %d has no name", i)
		}
		step.RequiredFields = strs.DedupeAndTrim(step.RequiredFields)
		f.Steps[i] = step
		for _, field := range step.RequiredFields {
			if _, ok := models.Resolve(probe, field); !ok {
				return nil, fmt.Errorf("step %q: unknown field path %q", step.Name, field)
			}
		}
	}
	return f.Steps, nil
}

// probeAggregate has every optional block allocated so nested paths resolve.
func probeAggregate() models.OnboardingData {
	data := models.OnboardingData{}
	data.CompanyInfo.ContactAddress = &models.Address{}
	return data
}
