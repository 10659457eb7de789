package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"dbschema-spec/internal/app"
	"dbschema-spec/internal/types"
)

type variantsOptions struct {
	DocsDir  string
	Registry string
}

func newVariantsCommand() *cobra.Command {
	opts := variantsOptions{}
	cmd := &cobra.Command{
		Use:   "variants",
		Short: "List database variants advertised by the registry",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runVariants(cmd.Context(), cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.DocsDir, "docs", "docs", "Schema documents directory")
	cmd.Flags().StringVar(&opts.Registry, "registry", "schemas/base/database.json", "Database registry file")
	_ = viper.BindPFlag("docs_dir", cmd.Flags().Lookup("docs"))
	_ = viper.BindPFlag("database_registry_file", cmd.Flags().Lookup("registry"))
	return cmd
}

func runVariants(ctx context.Context, cmd *cobra.Command, opts variantsOptions) error {
	service, err := app.NewService(app.Config{
		DocsDir:        resolveString(cmd, opts.DocsDir, "docs_dir", "docs"),
		OutputDir:      viper.GetString("output_dir"),
		BaseURL:        viper.GetString("base_url"),
		RootSchemaFile: viper.GetString("root_schema_file"),
		RegistryFile:   resolveString(cmd, opts.Registry, "database_registry_file", "registry"),
		Fields:         types.DefaultSchemaFields(),
	})
	if err != nil {
		return err
	}
	variants, err := service.ListVariants(ctx)
	if err != nil {
		return err
	}
	for _, variant := range variants {
		fmt.Println(variant.String())
	}
	return nil
}
