package cli

import (
	"errors"
	"os"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"dbschema-spec/internal/types"
)

// version is set at build time via ldflags.
var version = "dev"

const envPrefix = "DBSCHEMA_SPEC"

// Process exit codes, part of the tool's contract with callers.
const (
	exitFileNotFound      = 1
	exitInvalidSchema     = 2
	exitCircularReference = 3
	exitValidationFailed  = 4
	exitFileSystem        = 5
)

type RootConfig struct {
	ConfigFile string
	LogLevel   string
}

func Execute() {
	root := newRootCommand()
	if err := root.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(exitCodeForError(err))
	}
}

func newRootCommand() *cobra.Command {
	cfg := RootConfig{}
	cmd := &cobra.Command{
		Use:     "dbschema-spec",
		Short:   "Database schema spec generator",
		Long:    "Resolves $ref references and variant-conditional oneOf blocks in JSON Schema documents, producing one self-contained spec per database variant.",
		Version: version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := initConfig(cfg.ConfigFile); err != nil {
				return err
			}
			setupLogging(viper.GetString("log_level"))
			return nil
		},
	}
	cmd.PersistentFlags().StringVar(&cfg.ConfigFile, "config", "", "Config file path")
	cmd.PersistentFlags().StringVar(&cfg.LogLevel, "log-level", "info", "Log level")
	_ = viper.BindPFlag("log_level", cmd.PersistentFlags().Lookup("log-level"))

	cmd.AddCommand(newGenerateCommand())
	cmd.AddCommand(newVariantsCommand())
	cmd.AddCommand(newResolveCommand())
	cmd.AddCommand(newValidateCommand())
	return cmd
}

func initConfig(configFile string) error {
	// .env is honored before the environment is read, matching the
	// deployment convention for BASE_URL.
	_ = godotenv.Load()

	viper.SetEnvPrefix(envPrefix)
	viper.AutomaticEnv()
	_ = viper.BindEnv("base_url", envPrefix+"_BASE_URL", "BASE_URL")

	viper.SetDefault("docs_dir", "docs")
	viper.SetDefault("output_dir", "output")
	viper.SetDefault("root_schema_file", "specs.json")
	viper.SetDefault("database_registry_file", "schemas/base/database.json")

	if configFile != "" {
		viper.SetConfigFile(configFile)
		if err := viper.ReadInConfig(); err != nil {
			return errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("failed to read config file").
				WithCause(err)
		}
		return nil
	}

	viper.SetConfigName("dbschema-spec")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME/.config/dbschema-spec")
	if err := viper.ReadInConfig(); err != nil {
		return nil
	}
	return nil
}

func setupLogging(level string) {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})
	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

// exitCodeForError maps the error taxonomy to the exit-code contract.
// Kinds are matched structurally, never by message text.
func exitCodeForError(err error) int {
	var circular *types.CircularReferenceError
	if errors.As(err, &circular) {
		return exitCircularReference
	}

	var noMatch *types.NoMatchingBranchError
	var ambiguous *types.AmbiguousBranchError
	var validation *types.ValidationError
	if errors.As(err, &noMatch) || errors.As(err, &ambiguous) || errors.As(err, &validation) {
		return exitValidationFailed
	}

	var extraction *types.VariantExtractionError
	var configuration *types.ConfigurationError
	var resolution *types.ReferenceResolutionError
	if errors.As(err, &extraction) || errors.As(err, &configuration) || errors.As(err, &resolution) {
		return exitInvalidSchema
	}

	switch errbuilder.CodeOf(err) {
	case errbuilder.CodeNotFound:
		return exitFileNotFound
	case errbuilder.CodeInvalidArgument:
		return exitInvalidSchema
	case errbuilder.CodePermissionDenied, errbuilder.CodeInternal:
		return exitFileSystem
	default:
		return exitFileSystem
	}
}
