package models

import (
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"

	"variantstore/api/models/constants"
	assemblyId "variantstore/api/models/constants/assembly-id"
	"variantstore/api/models/constants/caller"
	coverageLayout "variantstore/api/models/constants/coverage-layout"
	"variantstore/api/models/constants/requirement"
)

const (
	DefaultAnnotatedSuffix = "vcfanno.snpEff.GRCh37.75.vcf"
	DefaultProgram         = "sambamba"
)

// RuntimeConfig holds the pipeline settings shared by every sample of a run.
type RuntimeConfig struct {
	GenomeVersion   string            `yaml:"genome_version"`
	Program         string            `yaml:"program"`
	AnnotatedSuffix string            `yaml:"annotated_suffix"`
	CoverageLayout  string            `yaml:"coverage_layout"`
	Callers         map[string]string `yaml:"callers"`
}

func LoadRuntimeConfig(path string) (*RuntimeConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading configuration file %s", path)
	}

	var rc RuntimeConfig
	if err := yaml.Unmarshal(raw, &rc); err != nil {
		return nil, errors.Wrapf(err, "parsing configuration file %s", path)
	}
	rc.defineMissing()
	return &rc, nil
}

func (rc *RuntimeConfig) defineMissing() {
	if rc.AnnotatedSuffix == "" {
		rc.AnnotatedSuffix = DefaultAnnotatedSuffix
	}
	if rc.Program == "" {
		rc.Program = DefaultProgram
	}
	if len(rc.Callers) == 0 {
		rc.Callers = map[string]string{}
		for _, c := range caller.Default {
			rc.Callers[string(c)] = string(requirement.Required)
		}
	}
}

func (rc *RuntimeConfig) AssemblyId() (constants.AssemblyId, error) {
	if !assemblyId.IsKnownAssemblyId(rc.GenomeVersion) {
		return assemblyId.Unknown, fmt.Errorf("unknown reference genome build %q", rc.GenomeVersion)
	}
	return assemblyId.CastToAssemblyId(rc.GenomeVersion), nil
}

func (rc *RuntimeConfig) Layout() (constants.CoverageLayout, error) {
	layout := coverageLayout.CastToCoverageLayout(rc.CoverageLayout)
	if layout == coverageLayout.Unknown {
		return layout, fmt.Errorf("unknown coverage layout %q", rc.CoverageLayout)
	}
	return layout, nil
}

// CallerPolicy maps every active caller to whether its normalized file must exist.
func (rc *RuntimeConfig) CallerPolicy() (map[constants.Caller]constants.Requirement, error) {
	policy := make(map[constants.Caller]constants.Requirement, len(rc.Callers))
	for name, req := range rc.Callers {
		c, ok := caller.CastToCaller(name)
		if !ok {
			return nil, fmt.Errorf("unknown caller %q in configuration", name)
		}
		r := requirement.CastToRequirement(req)
		if r == requirement.Unknown {
			return nil, fmt.Errorf("caller %s: unknown requirement %q (expected required or optional)", name, strings.TrimSpace(req))
		}
		policy[c] = r
	}
	return policy, nil
}
