package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/campaigngrade-hub/campaigngrade1/internal/adapters/postgres"
	"github.com/campaigngrade-hub/campaigngrade1/internal/app/bootstrap"
	"github.com/campaigngrade-hub/campaigngrade1/internal/application"
	"github.com/campaigngrade-hub/campaigngrade1/internal/domain"
	"github.com/spf13/cobra"
)

type runtimeFactory func(ctx context.Context, configPath string) (*bootstrap.AdminRuntime, error)

func newRootCmd() *cobra.Command {
	return newRootCmdWith(bootstrap.NewAdminRuntime)
}

func newRootCmdWith(open runtimeFactory) *cobra.Command {
	var configPath string
	root := &cobra.Command{
		Use:           "cgctl",
		Short:         "CampaignGrade operator commands",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "configs/default.yaml", "path to the service config file")

	withRuntime := func(cmd *cobra.Command, fn func(context.Context, *bootstrap.AdminRuntime) error) error {
		rt, err := open(cmd.Context(), configPath)
		if err != nil {
			return err
		}
		defer rt.Close()
		return fn(cmd.Context(), rt)
	}

	root.AddCommand(
		newMigrateCmd(withRuntime),
		newMigrationsCmd(),
		newPromoteCmd(withRuntime),
		newCreateFirmCmd(withRuntime),
	)
	return root
}

type runtimeRunner func(cmd *cobra.Command, fn func(context.Context, *bootstrap.AdminRuntime) error) error

func newMigrateCmd(run runtimeRunner) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the embedded SQL migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, func(ctx context.Context, rt *bootstrap.AdminRuntime) error {
				if err := rt.Migrate(ctx); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
				return nil
			})
		},
	}
}

func newMigrationsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrations",
		Short: "List the embedded SQL migrations in execution order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			names, err := postgres.MigrationNames()
			if err != nil {
				return err
			}
			for _, name := range names {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}

func newPromoteCmd(run runtimeRunner) *cobra.Command {
	var email, role string
	cmd := &cobra.Command{
		Use:   "promote",
		Short: "Set the role of an existing account",
		Long: `Set the role of an existing account by email.

Examples:
  cgctl promote --email ops@campaign-grade.com --role platform_admin
  cgctl promote --email partner@firm.com --role firm_admin`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			parsed, err := domain.NormalizeRole(role)
			if err != nil {
				return err
			}
			return run(cmd, func(ctx context.Context, rt *bootstrap.AdminRuntime) error {
				profile, err := rt.Service.PromoteByEmail(ctx, email, parsed)
				if err != nil {
					return fmt.Errorf("promote %s: %w", email, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "UPDATED %s %s\n", profile.Email, profile.Role)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&role, "role", string(domain.RolePlatformAdmin), "reviewer, firm_admin or platform_admin")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newCreateFirmCmd(run runtimeRunner) *cobra.Command {
	var name, website, services string
	cmd := &cobra.Command{
		Use:   "create-firm",
		Short: "Add a firm to the directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req := application.CreateFirmRequest{Name: name, Website: website}
			for _, s := range strings.Split(services, ",") {
				if trimmed := strings.TrimSpace(s); trimmed != "" {
					req.Services = append(req.Services, trimmed)
				}
			}
			return run(cmd, func(ctx context.Context, rt *bootstrap.AdminRuntime) error {
				firm, err := rt.Service.CreateFirmDirect(ctx, req)
				if err != nil {
					return fmt.Errorf("create firm: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "CREATED %s %s\n", firm.ID, firm.Slug)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "firm name")
	cmd.Flags().StringVar(&website, "website", "", "firm website")
	cmd.Flags().StringVar(&services, "services", "", "comma separated service categories")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}
