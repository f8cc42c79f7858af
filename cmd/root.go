package cmd

import (
	"errors"
	"io/fs"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app       = "resumate"
	envPrefix = "RESUMATE"
)

type Config struct {
	Service     *ServiceConfig `mapstructure:"service"`
	Poll        *PollConfig    `mapstructure:"poll"`
	Intake      *IntakeConfig  `mapstructure:"intake"`
	Cache       *CacheConfig   `mapstructure:"cache"`
	Job         *JobConfig     `mapstructure:"job"`
	Query       *QueryConfig   `mapstructure:"query"`
	Resumes     []string       `mapstructure:"resumes"`
	ExportDir   string         `mapstructure:"export-dir"`
	MetricsFile string         `mapstructure:"metrics-file"`
}

type ServiceConfig struct {
	URL       string        `mapstructure:"url"`
	Token     string        `mapstructure:"token"`
	TokenFile string        `mapstructure:"token-file"`
	Timeout   time.Duration `mapstructure:"timeout"`
	UserAgent string        `mapstructure:"user-agent"`
}

type PollConfig struct {
	Interval         time.Duration `mapstructure:"interval"`
	MaxBackoff       time.Duration `mapstructure:"max-backoff"`
	TransientRetries int           `mapstructure:"transient-retries"`
	MaxAttempts      int           `mapstructure:"max-attempts"`
}

type IntakeConfig struct {
	MaxFiles    int   `mapstructure:"max-files"`
	MaxFileSize int64 `mapstructure:"max-file-size"`
}

type CacheConfig struct {
	Size int           `mapstructure:"size"`
	TTL  time.Duration `mapstructure:"ttl"`
}

type JobConfig struct {
	Title           string `mapstructure:"title"`
	Description     string `mapstructure:"description"`
	DescriptionFile string `mapstructure:"description-file"`
}

type QueryConfig struct {
	Search string `mapstructure:"search"`
	Score  string `mapstructure:"score"`
	Sort   string `mapstructure:"sort"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "resumate submits resumes for screening against a job and helps to shortlist candidates",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	setDefaults()

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()

	if err := viper.BindEnv("service.token-file", envPrefix+"_TOKEN_FILE"); err != nil {
		log.Fatalf("binding %s_TOKEN_FILE environment variable: %v", envPrefix, err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is resumate.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func setDefaults() {
	viper.SetDefault("service.url", "http://localhost:5000")
	viper.SetDefault("service.token", "")
	viper.SetDefault("job.title", "")
	viper.SetDefault("job.description", "")
	viper.SetDefault("job.description-file", "")
	viper.SetDefault("query.search", "")
	viper.SetDefault("metrics-file", "")
	viper.SetDefault("service.timeout", 30*time.Second)
	viper.SetDefault("service.user-agent", app+"/"+version)
	viper.SetDefault("poll.interval", 2*time.Second)
	viper.SetDefault("poll.max-backoff", 30*time.Second)
	viper.SetDefault("poll.transient-retries", 3)
	viper.SetDefault("poll.max-attempts", 900)
	viper.SetDefault("intake.max-files", 100)
	viper.SetDefault("intake.max-file-size", 10<<20)
	viper.SetDefault("cache.size", 256)
	viper.SetDefault("cache.ttl", 10*time.Minute)
	viper.SetDefault("query.score", "all")
	viper.SetDefault("query.sort", "score")
	viper.SetDefault("export-dir", ".")
}

func initConfig() {
	// Config needed only for run command now. If there is no config, we can skip initialization
	if runCmd.CalledAs() == "" {
		return
	}

	// .env only fills variables that are not already set.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("loading .env: %v", err)
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// An explicit config file must exist; the default one is optional.
		if cfgFile != "" || !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	return config, nil
}
