package cli

import (
	"context"
	"os"
	"time"

	"github.com/daper-app/daper/pkg/adapter"
	"github.com/daper-app/daper/pkg/repository"
	"github.com/daper-app/daper/pkg/usecase/usage"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

// config holds configuration values
type config struct {
	// Server
	addr      string
	logLevel  string
	logFormat string

	// Repository
	repoBackend string
	project     string
	database    string

	// Adapters
	geminiAPIKey   string
	geminiProject  string
	geminiLocation string
	geminiModel    string

	// Optional YAML file overriding the quota limits
	configPath string
}

// globalFlags returns flags shared by all commands with destination config
func globalFlags(cfg *config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "Listen address for the HTTP API",
			Value:       ":8080",
			Sources:     cli.EnvVars("DAPER_ADDR"),
			Destination: &cfg.addr,
		},
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "Log level (debug, info, warn, error)",
			Value:       "info",
			Sources:     cli.EnvVars("DAPER_LOG_LEVEL"),
			Destination: &cfg.logLevel,
		},
		&cli.StringFlag{
			Name:        "log-format",
			Usage:       "Log format (console, json)",
			Value:       "console",
			Sources:     cli.EnvVars("DAPER_LOG_FORMAT"),
			Destination: &cfg.logFormat,
		},
		&cli.StringFlag{
			Name:        "repository",
			Usage:       "Repository backend (firestore, memory)",
			Value:       "firestore",
			Sources:     cli.EnvVars("DAPER_REPOSITORY"),
			Destination: &cfg.repoBackend,
		},
		&cli.StringFlag{
			Name:        "project",
			Aliases:     []string{"p"},
			Usage:       "Google Cloud project ID",
			Sources:     cli.EnvVars("GOOGLE_CLOUD_PROJECT"),
			Destination: &cfg.project,
		},
		&cli.StringFlag{
			Name:        "database",
			Aliases:     []string{"d"},
			Usage:       "Firestore database ID",
			Value:       "(default)",
			Sources:     cli.EnvVars("FIRESTORE_DATABASE_ID"),
			Destination: &cfg.database,
		},
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "Path to YAML config overriding quota limits",
			Sources:     cli.EnvVars("DAPER_CONFIG"),
			Destination: &cfg.configPath,
		},
	}
}

// llmFlags returns flags for the generation backend with destination config
func llmFlags(cfg *config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "gemini-api-key",
			Usage:       "Gemini API key (preferred over Vertex AI when set)",
			Sources:     cli.EnvVars("GEMINI_API_KEY"),
			Destination: &cfg.geminiAPIKey,
		},
		&cli.StringFlag{
			Name:        "gemini-project",
			Usage:       "Google Cloud project ID for Vertex AI",
			Sources:     cli.EnvVars("GEMINI_PROJECT_ID"),
			Destination: &cfg.geminiProject,
		},
		&cli.StringFlag{
			Name:        "gemini-location",
			Usage:       "Google Cloud location for Vertex AI",
			Value:       "us-central1",
			Sources:     cli.EnvVars("GEMINI_LOCATION"),
			Destination: &cfg.geminiLocation,
		},
		&cli.StringFlag{
			Name:        "gemini-model",
			Usage:       "Generative model name",
			Sources:     cli.EnvVars("GEMINI_MODEL"),
			Destination: &cfg.geminiModel,
		},
	}
}

// newRepository creates the configured repository backend
func (cfg *config) newRepository(ctx context.Context) (repository.Repository, error) {
	switch cfg.repoBackend {
	case "memory":
		return repository.NewMemory(), nil

	case "firestore":
		if cfg.project == "" {
			return nil, goerr.New("project is required")
		}
		if cfg.database == "" {
			return nil, goerr.New("database is required")
		}

		repo, err := repository.NewFirestore(ctx, cfg.project, cfg.database)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create repository")
		}
		return repo, nil

	default:
		return nil, goerr.New("unknown repository backend", goerr.V("backend", cfg.repoBackend))
	}
}

// newGemini creates a new Gemini adapter instance
func (cfg *config) newGemini(ctx context.Context) (adapter.Gemini, error) {
	var opts []adapter.GeminiOption
	if cfg.geminiModel != "" {
		opts = append(opts, adapter.WithGenerativeModel(cfg.geminiModel))
	}

	if cfg.geminiAPIKey != "" {
		client, err := adapter.NewGeminiWithAPIKey(ctx, cfg.geminiAPIKey, opts...)
		if err != nil {
			return nil, err
		}
		return client, nil
	}

	if cfg.geminiProject == "" {
		return nil, goerr.New("gemini-api-key or gemini-project is required")
	}
	if cfg.geminiLocation == "" {
		return nil, goerr.New("gemini-location is required")
	}
	client, err := adapter.NewGemini(ctx, cfg.geminiProject, cfg.geminiLocation, opts...)
	if err != nil {
		return nil, err
	}
	return client, nil
}

// limitsFile is the YAML config layout
type limitsFile struct {
	Limits struct {
		FreeIdeaLimit  int    `yaml:"freeIdeaLimit"`
		FreeDailyLimit int    `yaml:"freeDailyLimit"`
		Window         string `yaml:"window"`
		LockTTL        string `yaml:"lockTTL"`
	} `yaml:"limits"`
}

// loadLimits returns the quota limits, applying YAML overrides when a config
// file is given. Absent or zero fields keep their defaults.
func (cfg *config) loadLimits() (usage.Limits, error) {
	limits := usage.DefaultLimits()
	if cfg.configPath == "" {
		return limits, nil
	}

	data, err := os.ReadFile(cfg.configPath)
	if err != nil {
		return limits, goerr.Wrap(err, "failed to read config file", goerr.V("path", cfg.configPath))
	}

	var file limitsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return limits, goerr.Wrap(err, "failed to parse config file", goerr.V("path", cfg.configPath))
	}

	if file.Limits.FreeIdeaLimit > 0 {
		limits.FreeIdeaLimit = file.Limits.FreeIdeaLimit
	}
	if file.Limits.FreeDailyLimit > 0 {
		limits.FreeDailyLimit = file.Limits.FreeDailyLimit
	}
	if file.Limits.Window != "" {
		window, err := time.ParseDuration(file.Limits.Window)
		if err != nil {
			return limits, goerr.Wrap(err, "invalid window duration", goerr.V("window", file.Limits.Window))
		}
		limits.Window = window
	}
	if file.Limits.LockTTL != "" {
		ttl, err := time.ParseDuration(file.Limits.LockTTL)
		if err != nil {
			return limits, goerr.Wrap(err, "invalid lock TTL duration", goerr.V("lockTTL", file.Limits.LockTTL))
		}
		limits.LockTTL = ttl
	}

	return limits, nil
}
