package workflows

import (
	c "variantstore/api/models/constants"
	a "variantstore/api/models/constants/assembly-id"
	ingestionKind "variantstore/api/models/constants/ingestion-kind"
	"variantstore/api/models/constants/requirement"
)

type WorkflowSchema map[string]interface{}

// WORKFLOW_SAMPLE_SCHEMA describes the per-sample jobs an external scheduler may submit.
// Each job is one independent unit of work.
var WORKFLOW_SAMPLE_SCHEMA WorkflowSchema = map[string]interface{}{
	"ingestion": map[string]interface{}{
		"sample_variants": map[string]interface{}{
			"name":        "Sample Variant Reconciliation",
			"description": "Reconciles one sample's annotated variants with every caller's normalized calls and stores them in the run-scoped and canonical variant collections.",
			"data_type":   "variant",
			"tags":        []string{"variant", "somatic"},
			"type":        "ingestion",
			"kind":        ingestionKind.Variants,
			"inputs": []map[string]interface{}{
				{
					"id":       "sample",
					"type":     "string",
					"required": true,
				},
				{
					"id":       "genome_version",
					"type":     "enum",
					"required": true,
					"values":   []c.AssemblyId{a.GRCh37, a.GRCh38},
				},
				{
					"id":       "caller_files",
					"type":     "file[]",
					"required": true,
					"pattern":  "^.*\\.normalized\\.vcf(\\.gz)?$",
				},
				{
					"id":       "annotated_file",
					"type":     "file",
					"required": true,
					"pattern":  "^.*\\.vcf(\\.gz)?$",
				},
				{
					"id":       "callers",
					"type":     "map",
					"required": false,
					"values":   []c.Requirement{requirement.Required, requirement.Optional},
				},
			},
		},
		"sample_coverage": map[string]interface{}{
			"name":        "Sample Amplicon Coverage",
			"description": "Stores one sample's per-amplicon coverage table in the amplicon and sample coverage collections.",
			"data_type":   "coverage",
			"tags":        []string{"coverage"},
			"type":        "ingestion",
			"kind":        ingestionKind.Coverage,
			"inputs": []map[string]interface{}{
				{
					"id":       "sample",
					"type":     "string",
					"required": true,
				},
				{
					"id":       "coverage_file",
					"type":     "file",
					"required": true,
					"pattern":  "^.*_coverage\\.bed$",
				},
			},
		},
	},
	"analysis": map[string]interface{}{},
	"export":   map[string]interface{}{},
}
