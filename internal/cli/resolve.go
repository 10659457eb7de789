package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"dbschema-spec/internal/app"
	"dbschema-spec/internal/types"
)

type resolveOptions struct {
	DocsDir string
	File    string
	Engine  string
	Version string
}

func newResolveCommand() *cobra.Command {
	opts := resolveOptions{}
	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve one schema file and print the result",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runResolve(cmd.Context(), cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.DocsDir, "docs", "docs", "Schema documents directory")
	cmd.Flags().StringVar(&opts.File, "file", "specs.json", "Base-relative schema file to resolve")
	cmd.Flags().StringVar(&opts.Engine, "engine", "", "Database engine to bind the resolution to")
	cmd.Flags().StringVar(&opts.Version, "version", "", "Database version to bind the resolution to")
	_ = viper.BindPFlag("docs_dir", cmd.Flags().Lookup("docs"))
	return cmd
}

func runResolve(ctx context.Context, cmd *cobra.Command, opts resolveOptions) error {
	var variant *types.DatabaseVariant
	switch {
	case opts.Engine != "" && opts.Version != "":
		bound, err := types.NewDatabaseVariant(opts.Engine, opts.Version)
		if err != nil {
			return err
		}
		variant = &bound
	case opts.Engine != "" || opts.Version != "":
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("engine and version must be given together")
	}

	service, err := app.NewService(app.Config{
		DocsDir:        resolveString(cmd, opts.DocsDir, "docs_dir", "docs"),
		OutputDir:      viper.GetString("output_dir"),
		BaseURL:        viper.GetString("base_url"),
		RootSchemaFile: viper.GetString("root_schema_file"),
		RegistryFile:   viper.GetString("database_registry_file"),
		Fields:         types.DefaultSchemaFields(),
	})
	if err != nil {
		return err
	}

	doc, err := service.ResolveDocument(ctx, opts.File, variant)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
