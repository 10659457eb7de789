package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"dbschema-spec/internal/app"
	"dbschema-spec/internal/types"
)

func newValidateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <file>",
		Short: "Validate a resolved schema document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd.Context(), args[0])
		},
	}
	return cmd
}

func runValidate(ctx context.Context, path string) error {
	service, err := app.NewService(app.Config{
		DocsDir:        viper.GetString("docs_dir"),
		OutputDir:      viper.GetString("output_dir"),
		BaseURL:        viper.GetString("base_url"),
		RootSchemaFile: viper.GetString("root_schema_file"),
		RegistryFile:   viper.GetString("database_registry_file"),
		Fields:         types.DefaultSchemaFields(),
	})
	if err != nil {
		return err
	}

	result, err := service.ValidateFile(ctx, path)
	if err != nil {
		return err
	}
	for _, warning := range result.Warnings {
		fmt.Printf("warning: %s\n", warning)
	}
	if !result.IsValid {
		return &types.ValidationError{Messages: result.Errors}
	}
	fmt.Printf("valid: %s\n", path)
	return nil
}

func resolveString(cmd *cobra.Command, value string, key string, flagName string) string {
	if cmd == nil {
		if value != "" {
			return value
		}
		return viper.GetString(key)
	}
	if flagChanged(cmd, flagName) {
		return value
	}
	if viper.GetString(key) != "" {
		return viper.GetString(key)
	}
	return value
}

func flagChanged(cmd *cobra.Command, name string) bool {
	if cmd == nil || strings.TrimSpace(name) == "" {
		return false
	}
	if flag := cmd.Flags().Lookup(name); flag != nil {
		return flag.Changed
	}
	if flag := cmd.PersistentFlags().Lookup(name); flag != nil {
		return flag.Changed
	}
	return false
}
