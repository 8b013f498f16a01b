package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/grailbio/base/log"
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
	cli "github.com/urfave/cli/v2"

	"variantstore/api/models"
	"variantstore/api/models/constants"
	ingestionKind "variantstore/api/models/constants/ingestion-kind"
	serviceInfo "variantstore/api/models/constants/service-info"
	esRepo "variantstore/api/repositories/elasticsearch"
	"variantstore/api/services"
	"variantstore/api/services/persist"
	"variantstore/api/utils"
)

// environment is everything a command needs to run units of work.
type environment struct {
	cfg     *models.Config
	runtime *models.RuntimeConfig
	samples map[string]*models.Sample
	store   *esRepo.Store
}

func main() {
	app := &cli.App{
		Name:            "variantstore",
		Usage:           "Reconcile multi-caller somatic variant calls and amplicon coverage into the variant store",
		HideHelpCommand: true,
		Version:         string(serviceInfo.SERVICE_VERSION),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "samples",
				Usage:    "Samples file (YAML) mapping each sample key to its metadata",
				EnvVars:  []string{"VS_SAMPLES_FILE"},
				Category: "Inputs",
			},
			&cli.StringFlag{
				Name:     "configuration",
				Usage:    "Run configuration file (YAML): genome version, coverage program, caller policy",
				EnvVars:  []string{"VS_CONFIGURATION_FILE"},
				Category: "Inputs",
			},
			&cli.StringFlag{
				Name:     "workdir",
				Usage:    "Directory holding the caller, annotated and coverage files",
				EnvVars:  []string{"VS_WORK_DIR"},
				Category: "Inputs",
			},
			&cli.StringFlag{
				Name:     "logdir",
				Usage:    "Directory receiving the per-sample outcome logs, defaults to the work directory",
				EnvVars:  []string{"VS_LOG_DIR"},
				Category: "Inputs",
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "variants",
				Usage: "Reconcile and store one sample's variants",
				Flags: []cli.Flag{sampleFlag()},
				Action: func(c *cli.Context) error {
					return runSample(c, ingestionKind.Variants)
				},
			},
			{
				Name:  "coverage",
				Usage: "Store one sample's amplicon coverage",
				Flags: []cli.Flag{sampleFlag()},
				Action: func(c *cli.Context) error {
					return runSample(c, ingestionKind.Coverage)
				},
			},
			{
				Name:  "batch",
				Usage: "Run every sample of the samples file as an independent unit of work",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "kind",
						Usage: "variants or coverage",
						Value: string(ingestionKind.Variants),
						Action: func(c *cli.Context, input string) error {
							if ingestionKind.IsKnownIngestionKind(input) {
								return nil
							}
							return cli.Exit("Invalid kind '"+input+"', must be one of: variants, coverage", 1)
						},
					},
				},
				Action: runBatch,
			},
			{
				Name:  "indices",
				Usage: "Create the variant and coverage indices with their mappings if absent",
				Action: func(c *cli.Context) error {
					cfg, err := loadConfig(c)
					if err != nil {
						return err
					}
					store, err := connect(c.Context, cfg)
					if err != nil {
						return err
					}
					return store.EnsureIndices(c.Context)
				},
			},
			{
				Name:  "serve",
				Usage: "Serve the ingestion HTTP API",
				Action: func(c *cli.Context) error {
					env, err := setup(c)
					if err != nil {
						return err
					}
					return serve(env)
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Error.Printf("%v", err)
		os.Exit(1)
	}
}

func sampleFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "sample",
		Usage:    "Key of the sample in the samples file",
		Required: true,
	}
}

// stdoutStatus is the status sink of the command line: one line per finished sample.
var stdoutStatus = persist.StatusFunc(func(message string) {
	fmt.Println(message)
})

func runSample(c *cli.Context, kind constants.IngestionKind) error {
	env, err := setup(c)
	if err != nil {
		return err
	}
	iz := services.NewIngestionService(env.store, env.cfg, env.runtime, env.samples)
	_, err = iz.Process(c.Context, kind, c.String("sample"), stdoutStatus)
	return err
}

func runBatch(c *cli.Context) error {
	env, err := setup(c)
	if err != nil {
		return err
	}
	iz := services.NewIngestionService(env.store, env.cfg, env.runtime, env.samples)
	kind := ingestionKind.CastToIngestionKind(c.String("kind"))

	keys := models.SampleKeys(env.samples)
	log.Printf("running %s ingestion for %d samples, %d at a time", kind, len(keys), env.cfg.Api.ConcurrencyLevel)
	_, err = iz.RunBatch(c.Context, kind, keys, env.cfg.Api.ConcurrencyLevel, stdoutStatus)
	return err
}

// loadConfig gathers environment variables; command line flags take precedence.
func loadConfig(c *cli.Context) (*models.Config, error) {
	var cfg models.Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, errors.Wrap(err, "reading environment")
	}

	if v := c.String("samples"); v != "" {
		cfg.Paths.SamplesFile = v
	}
	if v := c.String("configuration"); v != "" {
		cfg.Paths.ConfigurationFile = v
	}
	if v := c.String("workdir"); v != "" {
		cfg.Paths.WorkDir = v
		if c.String("logdir") == "" {
			cfg.Paths.LogDir = v
		}
	}
	if v := c.String("logdir"); v != "" {
		cfg.Paths.LogDir = v
	}
	return &cfg, nil
}

func connect(ctx context.Context, cfg *models.Config) (*esRepo.Store, error) {
	client, err := utils.CreateEsConnection(cfg)
	if err != nil {
		return nil, err
	}
	if err := utils.WaitForEs(ctx, client, time.Duration(cfg.Elasticsearch.ConnectTimeoutSeconds)*time.Second); err != nil {
		return nil, err
	}
	return esRepo.NewStore(client, cfg), nil
}

func setup(c *cli.Context) (*environment, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, err
	}
	if cfg.Paths.SamplesFile == "" {
		return nil, errors.New("no samples file given (--samples or VS_SAMPLES_FILE)")
	}
	if cfg.Paths.ConfigurationFile == "" {
		return nil, errors.New("no configuration file given (--configuration or VS_CONFIGURATION_FILE)")
	}

	runtime, err := models.LoadRuntimeConfig(cfg.Paths.ConfigurationFile)
	if err != nil {
		return nil, err
	}
	samples, err := models.LoadSamples(cfg.Paths.SamplesFile)
	if err != nil {
		return nil, err
	}

	log.Printf("Using :\n"+
		"\tDebug : %t\n"+
		"\tWork Directory : %s\n"+
		"\tLog Directory : %s\n"+
		"\tGenome Version : %s\n"+
		"\tSamples : %d\n"+
		"\tConcurrency Level : %d\n"+
		"\tElasticsearch Url : %s\n"+
		"\tElasticsearch Username : %s\n",
		cfg.Debug,
		cfg.Paths.WorkDir,
		cfg.Paths.LogDir,
		runtime.GenomeVersion,
		len(samples),
		cfg.Api.ConcurrencyLevel,
		cfg.Elasticsearch.Url,
		cfg.Elasticsearch.Username)

	store, err := connect(c.Context, cfg)
	if err != nil {
		return nil, err
	}

	return &environment{
		cfg:     cfg,
		runtime: runtime,
		samples: samples,
		store:   store,
	}, nil
}
