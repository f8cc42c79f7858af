package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"

	"github.com/Rikcr7/ResuMATE/internal/logger"
	"github.com/Rikcr7/ResuMATE/internal/metrics"
	"github.com/Rikcr7/ResuMATE/internal/secrets"
	"github.com/Rikcr7/ResuMATE/pkg/analysis"
	"github.com/Rikcr7/ResuMATE/pkg/intake"
	"github.com/Rikcr7/ResuMATE/pkg/query"
	"github.com/Rikcr7/ResuMATE/pkg/results"
	"github.com/Rikcr7/ResuMATE/pkg/screening"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var runCmd = &cobra.Command{
	Use:   "run [resume files...]",
	Short: "Submit resumes for analysis and browse the ranked candidates",
	Run: func(cmd *cobra.Command, args []string) {
		run(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolP("non-interactive", "n", false, "print the ranked candidates and statistics and exit")
	runCmd.Flags().StringP("title", "t", "", "job title")
	runCmd.Flags().String("description-file", "", "file with the job description")
	runCmd.Flags().StringP("export-dir", "o", "", "directory for exported reports")

	viper.BindPFlag("job.title", runCmd.Flags().Lookup("title"))
	viper.BindPFlag("job.description-file", runCmd.Flags().Lookup("description-file"))
	viper.BindPFlag("export-dir", runCmd.Flags().Lookup("export-dir"))
}

// run is the main command for the cli.
func run(cmd *cobra.Command, args []string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	defer logger.Sync() //nolint:errcheck

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	if config == nil || config.Service == nil {
		logger.Fatal("config is required")
	}

	logger.Info("starting the resumate", zap.String("version", buildVersion()))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(redacted(config), "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	metrics.MustRegister()
	if config.MetricsFile != "" {
		defer func() {
			if err := metrics.WriteTextfile(config.MetricsFile); err != nil {
				logger.Warn("writing metrics", zap.String("path", config.MetricsFile), zap.Error(err))
			}
		}()
	}

	token, err := resolveToken(config.Service)
	if err != nil {
		logger.Fatal(
			"loading analysis service token",
			zap.Error(err),
			zap.String("hint", "set RESUMATE_TOKEN_FILE environment variable or the 'service.token-file' key in the configuration file"),
		)
	}

	client, err := analysis.New(analysis.Config{
		BaseURL:   config.Service.URL,
		Token:     token,
		UserAgent: config.Service.UserAgent,
		Timeout:   config.Service.Timeout,
		CacheSize: config.Cache.Size,
		CacheTTL:  config.Cache.TTL,
	}, logger)
	if err != nil {
		logger.Fatal("creating analysis client", zap.Error(err))
	}

	stager := intake.NewStager(intake.Limits{
		MaxFiles:    config.Intake.MaxFiles,
		MaxFileSize: config.Intake.MaxFileSize,
	}, logger)

	stageResumes(stager, append(config.Resumes, args...), logger)

	description, err := jobDescription(config.Job)
	if err != nil {
		logger.Fatal("reading job description", zap.Error(err))
	}

	store := results.NewStore()
	session := screening.NewSession(client, store, screening.PollPolicy{
		Interval:         config.Poll.Interval,
		MaxBackoff:       config.Poll.MaxBackoff,
		TransientRetries: config.Poll.TransientRetries,
		MaxAttempts:      config.Poll.MaxAttempts,
	}, logger)
	defer session.Close()

	job, err := session.Submit(ctx, screening.JobRequest{
		Title:       config.Job.Title,
		Description: description,
		Files:       stager.Files(),
	})
	if err != nil {
		var vErr *screening.ValidationError
		if errors.As(err, &vErr) {
			logger.Fatal("invalid job request", zap.String("field", vErr.Field), zap.Error(err))
		}
		logger.Fatal("submitting analysis", zap.Error(err))
	}

	logger.Info("waiting for the analysis", zap.String(logFieldJob, job.ID), zap.Int("resumes", stager.Len()))

	job, err = session.Wait(ctx, job.ID)
	if err != nil {
		logger.Fatal("waiting for the analysis", zap.Error(err))
	}

	if job.State != screening.StateCompleted {
		logger.Fatal("analysis did not complete",
			zap.String(logFieldJob, job.ID),
			zap.Int("attempts", job.Attempts),
			zap.Error(job.LastError),
		)
	}

	state, err := initialQuery(config.Query)
	if err != nil {
		logger.Fatal("parsing query", zap.Error(err))
	}

	logger.Info("analysis completed", zap.Int("candidates", len(store.Results())))

	if nonInteractive, _ := cmd.Flags().GetBool("non-interactive"); nonInteractive {
		for _, step := range query.Explain(store.Results(), state) {
			logger.Debug("filter step",
				zap.String("name", step.Name),
				zap.Bool("enabled", step.Enabled),
				zap.Int("initial", step.Step.Initial),
				zap.Int("dropped", step.Step.Dropped),
				zap.Int("left", step.Step.Left),
			)
		}
		printView(os.Stdout, query.View(store.Results(), store, state))
		printStats(os.Stdout, query.Summarize(store.Results()))
		return
	}

	b := &browser{
		ctx:       ctx,
		session:   session,
		store:     store,
		state:     state,
		exportDir: config.ExportDir,
		logger:    logger,
		out:       os.Stdout,
	}

	if err := b.loop(); err != nil && !errors.Is(err, errExit) {
		logger.Fatal("exiting", zap.Error(err))
	}
}

const logFieldJob = "job_id"

func stageResumes(stager *intake.Stager, paths []string, logger *zap.Logger) {
	for _, path := range paths {
		path = strings.TrimSpace(path)
		if path == "" {
			continue
		}

		sel, err := intake.FromPath(path)
		if err != nil {
			logger.Warn("skipping resume", zap.String("path", path), zap.Error(err))
			continue
		}

		if _, err := stager.Stage(sel); err != nil {
			logger.Warn("resume rejected", zap.String("path", path), zap.Error(err))
		}
	}

	logger.Info("resumes staged", zap.Int("count", stager.Len()), zap.Int("limit", stager.Limits().MaxFiles))
}

func resolveToken(config *ServiceConfig) (string, error) {
	return secrets.LoadOptional(secrets.Source{
		Name:  "analysis service token",
		File:  config.TokenFile,
		Env:   envPrefix + "_TOKEN",
		Value: config.Token,
	})
}

func jobDescription(config *JobConfig) (string, error) {
	if config == nil {
		return "", nil
	}

	file := strings.TrimSpace(config.DescriptionFile)
	if file == "" {
		return config.Description, nil
	}

	data, err := os.ReadFile(file)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", file, err)
	}
	return string(data), nil
}

func initialQuery(config *QueryConfig) (query.State, error) {
	state := query.DefaultState()
	if config == nil {
		return state, nil
	}

	score, err := query.ParseScoreBucket(config.Score)
	if err != nil {
		return state, err
	}
	sort, err := query.ParseSortKey(config.Sort)
	if err != nil {
		return state, err
	}

	return query.State{Search: config.Search, Score: score, Sort: sort}, nil
}

// redacted returns a copy of config that is safe to log.
func redacted(config *Config) Config {
	c := *config
	if c.Service != nil && c.Service.Token != "" {
		svc := *c.Service
		svc.Token = "***"
		c.Service = &svc
	}
	return c
}
