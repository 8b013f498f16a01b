package models

import (
	"os"
	"sort"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// Sample is the per-sample static metadata supplied alongside a run.
type Sample struct {
	Key               string `mapstructure:"-" json:"key"`
	SampleName        string `mapstructure:"sample_name" json:"sampleName"`
	LibraryName       string `mapstructure:"library_name" json:"libraryName"`
	RunId             string `mapstructure:"run_id" json:"runId"`
	NumLibrariesInRun int    `mapstructure:"num_libraries_in_run" json:"numLibrariesInRun"`
	Sequencer         string `mapstructure:"sequencer" json:"sequencer"`
	Extraction        string `mapstructure:"extraction" json:"extraction"`
	Panel             string `mapstructure:"panel" json:"panel"`
	TargetPool        string `mapstructure:"target_pool" json:"targetPool"`
	Report            string `mapstructure:"report" json:"report,omitempty"`
}

// Validate reports every missing required metadata field at once.
func (s *Sample) Validate() error {
	var missing []string
	required := []struct {
		name  string
		value string
	}{
		{"sample_name", s.SampleName},
		{"library_name", s.LibraryName},
		{"run_id", s.RunId},
		{"sequencer", s.Sequencer},
		{"extraction", s.Extraction},
		{"panel", s.Panel},
		{"target_pool", s.TargetPool},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			missing = append(missing, r.name)
		}
	}
	if len(missing) > 0 {
		return errors.Errorf("sample %q is missing required metadata: %s", s.Key, strings.Join(missing, ", "))
	}
	return nil
}

// ValidateCoverage also requires the run's library count, which every
// coverage record carries.
func (s *Sample) ValidateCoverage() error {
	if err := s.Validate(); err != nil {
		return err
	}
	if s.NumLibrariesInRun < 1 {
		return errors.Errorf("sample %q is missing required metadata: num_libraries_in_run", s.Key)
	}
	return nil
}

// LoadSamples reads a samples file: a YAML mapping of sample key to metadata.
func LoadSamples(path string) (map[string]*Sample, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading samples file %s", path)
	}
	return ParseSamples(raw)
}

func ParseSamples(raw []byte) (map[string]*Sample, error) {
	var entries map[string]map[string]interface{}
	if err := yaml.Unmarshal(raw, &entries); err != nil {
		return nil, errors.Wrap(err, "parsing samples file")
	}

	samples := make(map[string]*Sample, len(entries))
	for key, entry := range entries {
		sample := &Sample{Key: key}

		// sample sheets are hand edited; accept "4" and 4 alike
		decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			WeaklyTypedInput: true,
			Result:           sample,
		})
		if err != nil {
			return nil, err
		}
		if err := decoder.Decode(entry); err != nil {
			return nil, errors.Wrapf(err, "decoding sample %q", key)
		}
		samples[key] = sample
	}
	return samples, nil
}

// SampleKeys returns the sample keys in a stable order.
func SampleKeys(samples map[string]*Sample) []string {
	keys := make([]string, 0, len(samples))
	for k := range samples {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
