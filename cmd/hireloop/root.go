package main

import (
	"log"

	"hireloop/internal/core"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "hireloop"
)

type Config struct {
	Job        *JobConfig        `mapstructure:"job"`
	SessionDir string            `mapstructure:"session-dir"`
	OpenRouter *OpenRouterConfig `mapstructure:"openrouter"`
	Gemini     *GeminiConfig     `mapstructure:"gemini"`
	Qdrant     *QdrantConfig     `mapstructure:"qdrant"`
	Engine     *core.Config      `mapstructure:"engine"`
}

// JobConfig describes the position the interview is conducted for.
type JobConfig struct {
	ID          string   `mapstructure:"id"`
	Title       string   `mapstructure:"title"`
	Description string   `mapstructure:"description"`
	Skills      []string `mapstructure:"skills"`
	Experience  int      `mapstructure:"experience"`
	Company     string   `mapstructure:"company"`
}

type OpenRouterConfig struct {
	APIKey     string `mapstructure:"api-key"`
	BaseURL    string `mapstructure:"base-url"`
	Model      string `mapstructure:"model"`
	MaxRetries int    `mapstructure:"max-retries"`
}

type GeminiConfig struct {
	APIKey string `mapstructure:"api-key"`
	Model  string `mapstructure:"model"`
}

type QdrantConfig struct {
	URL    string `mapstructure:"url"`
	APIKey string `mapstructure:"api-key"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "hireloop runs adaptive technical screening interviews from the terminal",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("openrouter.api-key", "OPENROUTER_API_KEY"); err != nil {
		log.Fatalf("binding OPENROUTER_API_KEY environment variable: %v", err)
	}
	if err := viper.BindEnv("gemini.api-key", "GEMINI_API_KEY"); err != nil {
		log.Fatalf("binding GEMINI_API_KEY environment variable: %v", err)
	}
	if err := viper.BindEnv("qdrant.api-key", "QDRANT_API_KEY"); err != nil {
		log.Fatalf("binding QDRANT_API_KEY environment variable: %v", err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is hireloop.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	// Config needed only for run command now. If there is no config, we can skip initialization
	if runCmd.CalledAs() == "" {
		return
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app + ".yaml")
	}

	// We can't proceed if the config file parsed with error.
	if err := viper.ReadInConfig(); err != nil {
		log.Fatal(err)
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
