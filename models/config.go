package models

type Config struct {
	Debug          bool   `envconfig:"VS_DEBUG" default:"false"`
	SemVer         string `envconfig:"VS_SEMVER" default:"0.1.0"`
	ServiceContact string `envconfig:"VS_SERVICE_CONTACT"`

	Api struct {
		Port                    string `envconfig:"VS_API_INTERNAL_PORT" default:"5000"`
		ConcurrencyLevel        int    `envconfig:"VS_CONCURRENCY_LEVEL" default:"4"`
		RequestRetentionHours   int    `envconfig:"VS_REQUEST_RETENTION_HOURS" default:"72"`
		SanitationIntervalHours int    `envconfig:"VS_SANITATION_INTERVAL_HOURS" default:"24"`
	}
	Paths struct {
		WorkDir           string `envconfig:"VS_WORK_DIR" default:"."`
		LogDir            string `envconfig:"VS_LOG_DIR" default:"."`
		SamplesFile       string `envconfig:"VS_SAMPLES_FILE"`
		ConfigurationFile string `envconfig:"VS_CONFIGURATION_FILE"`
	}
	Elasticsearch struct {
		Url                    string `envconfig:"VS_ES_URL" default:"http://localhost:9200"`
		Username               string `envconfig:"VS_ES_USERNAME"`
		Password               string `envconfig:"VS_ES_PASSWORD"`
		ConnectTimeoutSeconds  int    `envconfig:"VS_ES_CONNECT_TIMEOUT_SECONDS" default:"60"`
		RunVariantsIndex       string `envconfig:"VS_ES_RUN_VARIANTS_INDEX" default:"sample-variants"`
		CanonicalVariantsIndex string `envconfig:"VS_ES_CANONICAL_VARIANTS_INDEX" default:"variants"`
		AmpliconCoverageIndex  string `envconfig:"VS_ES_AMPLICON_COVERAGE_INDEX" default:"amplicon-coverage"`
		SampleCoverageIndex    string `envconfig:"VS_ES_SAMPLE_COVERAGE_INDEX" default:"sample-coverage"`
	}
}
