package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"hireloop/internal/core"
	"hireloop/internal/llm"
	"hireloop/internal/llm/gemini"
	"hireloop/internal/llm/tasks"
	"hireloop/internal/logger"
	"hireloop/internal/sessionstore"
	"hireloop/internal/vectorstore"
	"hireloop/pkg/schema"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	defaultSessionDir = ".hireloop/sessions"
	defaultBaseURL    = "https://openrouter.ai/api/v1"
	defaultModel      = "anthropic/claude-3.5-sonnet"

	cmdFinish = "/finish"
	cmdQuit   = "/quit"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run an interactive interview session",
	Run: func(cmd *cobra.Command, _ []string) {
		run(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringP("resume", "r", "", "resume a suspended session by id")
	runCmd.Flags().StringP("candidate", "c", "candidate", "candidate identifier recorded in the session")
	runCmd.Flags().Bool("offline", false, "run with canned collaborator responses, no LLM calls")
}

// run is the main command for the cli.
func run(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting hireloop", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	if config == nil {
		logger.Fatal("config is required")
	}

	if config.Job == nil || config.Job.Title == "" {
		logger.Fatal("a job title is required under job.title to conduct an interview")
	}

	sessionDir := config.SessionDir
	if sessionDir == "" {
		sessionDir = defaultSessionDir
	}

	store, err := sessionstore.NewFileStore[*core.SessionState](sessionDir)
	if err != nil {
		logger.Fatal("opening the session store", zap.Error(err))
	}

	lock := sessionstore.NewDirLock(filepath.Join(sessionDir, ".lock"))
	if err := lock.Acquire(); err != nil {
		logger.Fatal("locking the session directory", zap.Error(err))
	}
	defer lock.Release()

	offline, _ := cmd.Flags().GetBool("offline")
	collab, err := buildCollaborator(ctx, config, logger, offline)
	if err != nil {
		logger.Fatal(
			"building the interview collaborator",
			zap.Error(err),
			zap.String("hint", "set OPENROUTER_API_KEY or pass --offline"),
		)
	}

	jobs := &core.StaticJobSource{Context: config.Job.context()}

	var opts []core.EngineOption
	if config.Qdrant != nil && config.Qdrant.URL != "" {
		qdrant := vectorstore.NewClient(config.Qdrant.URL, config.Qdrant.APIKey, logger)
		if err := qdrant.EnsureCollections(ctx); err != nil {
			logger.Warn("qdrant unavailable, running without question bank and archive", zap.Error(err))
		} else {
			archiver := vectorstore.NewArchiver(qdrant, logger, 64)
			defer archiver.Close()
			opts = append(opts,
				core.WithQuestionBank(vectorstore.NewQuestionBank(qdrant)),
				core.WithArchiver(archiver),
			)
		}
	}

	engine := core.NewEngine(config.Engine, collab, jobs, store, logger, opts...)

	sessionID, question, err := openSession(ctx, cmd, engine, config)
	if err != nil {
		logger.Fatal("opening the session", zap.Error(err))
	}

	interviewLoop(ctx, engine, logger, sessionID, question)
}

// buildCollaborator wires the LLM-backed collaborator, or the canned one
// for offline runs.
func buildCollaborator(ctx context.Context, config *Config, logger *zap.Logger, offline bool) (core.Collaborator, error) {
	if offline {
		logger.Info("running in offline mode with canned responses")
		return core.NewMockCollaborator(), nil
	}

	or := config.OpenRouter
	if or == nil || or.APIKey == "" {
		return nil, errors.New("openrouter api key is required")
	}

	clientConfig := &llm.Config{
		APIKey:       or.APIKey,
		BaseURL:      or.BaseURL,
		DefaultModel: or.Model,
		MaxRetries:   or.MaxRetries,
	}
	if clientConfig.BaseURL == "" {
		clientConfig.BaseURL = defaultBaseURL
	}
	if clientConfig.DefaultModel == "" {
		clientConfig.DefaultModel = defaultModel
	}

	client, err := llm.NewClient(clientConfig, logger)
	if err != nil {
		return nil, fmt.Errorf("creating the openrouter client: %w", err)
	}

	// Question text goes through Gemini when configured, everything else
	// stays on OpenRouter.
	var textGen tasks.TextGenerator
	if config.Gemini != nil && config.Gemini.APIKey != "" {
		generator, err := gemini.NewGenerator(ctx, config.Gemini.APIKey, config.Gemini.Model)
		if err != nil {
			return nil, fmt.Errorf("creating the gemini generator: %w", err)
		}
		logger.Info("using gemini for question generation", zap.String("model", generator.Model()))
		textGen = generator
	}

	return tasks.NewCollaborator(client, textGen), nil
}

// openSession starts a new session or resumes a suspended one, returning
// the id and the question awaiting an answer.
func openSession(ctx context.Context, cmd *cobra.Command, engine *core.Engine, config *Config) (string, string, error) {
	if resumeID, _ := cmd.Flags().GetString("resume"); resumeID != "" {
		state, err := engine.GetState(ctx, resumeID)
		if err != nil {
			return "", "", err
		}
		if state.IsComplete {
			return "", "", fmt.Errorf("session %s is already complete", resumeID)
		}
		fmt.Printf("Resuming session %s (stage %s, %d questions asked).\n",
			state.SessionID, state.Stage, state.QuestionsAsked)
		return state.SessionID, state.CurrentQuestion, nil
	}

	candidate, _ := cmd.Flags().GetString("candidate")
	result, err := engine.StartSession(ctx, config.Job.ID, candidate)
	if err != nil {
		return "", "", err
	}
	fmt.Printf("Session %s started for %q at %s.\n", result.SessionID, config.Job.Title, config.Job.Company)
	return result.SessionID, result.Question, nil
}

// interviewLoop reads answers from the terminal until the interview
// completes or the candidate suspends it.
func interviewLoop(ctx context.Context, engine *core.Engine, logger *zap.Logger, sessionID, question string) {
	fmt.Printf("Answer each question; %s suspends for later, %s ends the interview now.\n", cmdQuit, cmdFinish)

	for {
		fmt.Printf("\nInterviewer: %s\n\n", question)

		prompt := promptui.Prompt{
			Label: "You",
			Validate: func(s string) error {
				if strings.TrimSpace(s) == "" {
					return errors.New("an answer is required")
				}
				return nil
			},
		}
		answer, err := prompt.Run()
		if err != nil {
			// Ctrl+C and Ctrl+D suspend rather than abandon.
			printSuspended(sessionID)
			return
		}

		switch strings.TrimSpace(answer) {
		case cmdQuit:
			printSuspended(sessionID)
			return
		case cmdFinish:
			final, err := engine.ForceComplete(ctx, sessionID)
			if err != nil {
				logger.Fatal("completing the session", zap.Error(err))
			}
			printFinal(final)
			return
		}

		turn, err := engine.SubmitAnswer(ctx, sessionID, answer)
		if err != nil {
			logger.Fatal("submitting the answer", zap.Error(err))
		}

		if turn.Evaluation != nil {
			logger.Debug("answer evaluated",
				zap.Float64("confidence", turn.Evaluation.LastConfidence),
				zap.Float64("avg_confidence", turn.Evaluation.AvgConfidence),
				zap.String("trend", string(turn.Evaluation.Trend)))
		}

		if turn.IsComplete {
			if turn.Closing != "" {
				fmt.Printf("\nInterviewer: %s\n", turn.Closing)
			}
			printFinal(turn.Final)
			return
		}
		question = turn.NextQuestion
	}
}

func printSuspended(sessionID string) {
	fmt.Printf("\nSession suspended. Resume it with: %s run --resume %s\n", app, sessionID)
}

func printFinal(final *core.FinalResult) {
	fmt.Println("\nInterview complete.")
	fmt.Printf("Recommendation: %s\n", final.Recommendation)
	fmt.Printf("Scores: confidence %.2f, clarity %.2f, technical %.2f\n",
		final.Scores["confidence"], final.Scores["clarity"], final.Scores["technical"])

	if final.Feedback == nil {
		return
	}
	fmt.Printf("\n%s\n", final.Feedback.OverallSummary)
	printSignals("Strengths", final.Feedback.Strengths)
	printSignals("Opportunities", final.Feedback.Opportunities)
	if final.Feedback.RoleAlignment != "" {
		fmt.Printf("\nRole alignment: %s\n", final.Feedback.RoleAlignment)
	}
}

func printSignals(label string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Printf("\n%s:\n", label)
	for _, item := range items {
		fmt.Printf("  - %s\n", item)
	}
}

func (j *JobConfig) context() *schema.JobContext {
	return &schema.JobContext{
		JobID:              j.ID,
		Title:              j.Title,
		Description:        j.Description,
		SkillsRequired:     j.Skills,
		ExperienceRequired: j.Experience,
		CompanyName:        j.Company,
	}
}
