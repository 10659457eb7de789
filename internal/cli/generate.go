package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"dbschema-spec/internal/app"
	"dbschema-spec/internal/types"
)

type generateOptions struct {
	DocsDir    string
	OutputDir  string
	BaseURL    string
	RootSchema string
	Registry   string
}

func newGenerateCommand() *cobra.Command {
	opts := generateOptions{}
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate unified schemas for every database variant",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGenerate(cmd.Context(), cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.DocsDir, "docs", "docs", "Schema documents directory")
	cmd.Flags().StringVar(&opts.OutputDir, "output", "output", "Output directory")
	cmd.Flags().StringVar(&opts.BaseURL, "base-url", "", "Base URL for generated spec files")
	cmd.Flags().StringVar(&opts.RootSchema, "root-schema", "specs.json", "Root schema file")
	cmd.Flags().StringVar(&opts.Registry, "registry", "schemas/base/database.json", "Database registry file")

	_ = viper.BindPFlag("docs_dir", cmd.Flags().Lookup("docs"))
	_ = viper.BindPFlag("output_dir", cmd.Flags().Lookup("output"))
	_ = viper.BindPFlag("base_url", cmd.Flags().Lookup("base-url"))
	_ = viper.BindPFlag("root_schema_file", cmd.Flags().Lookup("root-schema"))
	_ = viper.BindPFlag("database_registry_file", cmd.Flags().Lookup("registry"))

	return cmd
}

func runGenerate(ctx context.Context, cmd *cobra.Command, opts generateOptions) error {
	service, err := app.NewService(serviceConfig(cmd, opts))
	if err != nil {
		return err
	}
	result, err := service.GenerateAll(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("generated: %d schema file(s) for %d variant(s)\n", len(result.Files), len(result.Variants))
	return nil
}

func serviceConfig(cmd *cobra.Command, opts generateOptions) app.Config {
	return app.Config{
		DocsDir:        resolveString(cmd, opts.DocsDir, "docs_dir", "docs"),
		OutputDir:      resolveString(cmd, opts.OutputDir, "output_dir", "output"),
		BaseURL:        resolveString(cmd, opts.BaseURL, "base_url", "base-url"),
		RootSchemaFile: resolveString(cmd, opts.RootSchema, "root_schema_file", "root-schema"),
		RegistryFile:   resolveString(cmd, opts.Registry, "database_registry_file", "registry"),
		Fields:         types.DefaultSchemaFields(),
		ProjectSchemas: app.DefaultProjectSchemas(),
	}
}
