package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	"certinvite/config"
	"certinvite/internal/adapters/auth"
	"certinvite/internal/domain"
	"certinvite/internal/repository/postgres"
	"certinvite/internal/services"

	_ "github.com/lib/pq"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "certinvitectl",
		Short:         "Operator utility for the certificate invitation service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(newTokenCommand())
	cmd.AddCommand(newMigrateCommand())
	cmd.AddCommand(newInvitationsCommand())
	return cmd
}

func newTokenCommand() *cobra.Command {
	var (
		subject string
		ttl     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint an admin bearer token signed with JWT_SECRET",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			token, err := auth.NewJWTIssuer(cfg.JWTSecret).Issue(subject, []string{domain.AdminRole}, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "", "Operator identity recorded in the token")
	cmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "Token lifetime")
	_ = cmd.MarkFlagRequired("subject")
	return cmd
}

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(cmd, func(ctx context.Context, _ *config.Config, db *sql.DB) error {
				return postgres.Migrate(ctx, db)
			})
		},
	}
}

func newInvitationsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "invitations",
		Short: "Create, inspect and revoke invitations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(newInvitationsCreateCommand())
	cmd.AddCommand(newInvitationsStatusCommand())
	cmd.AddCommand(newInvitationsRevokeCommand())
	return cmd
}

func newInvitationsCreateCommand() *cobra.Command {
	var (
		profileID   int64
		userID      int64
		activations int
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an invitation and print its link",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(cmd, func(ctx context.Context, cfg *config.Config, db *sql.DB) error {
				inv, err := newLedger(cfg, db).Create(ctx, profileID, userID, activations)
				if err != nil {
					return err
				}
				link, err := services.BuildInvitationLink(cfg.PublicBaseURL, true, inv.Token)
				if err != nil {
					return err
				}
				printInvitation(cmd, inv)
				fmt.Fprintf(cmd.OutOrStdout(), "link:\t%s\n", link)
				return nil
			})
		},
	}

	cmd.Flags().Int64Var(&profileID, "profile", 0, "Profile ID")
	cmd.Flags().Int64Var(&userID, "user", 0, "User ID")
	cmd.Flags().IntVar(&activations, "activations", 1, "Number of certificates allowed (0 for unlimited)")
	_ = cmd.MarkFlagRequired("profile")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func newInvitationsStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status TOKEN",
		Short: "Show the derived status of an invitation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(cmd, func(ctx context.Context, cfg *config.Config, db *sql.DB) error {
				inv, err := newLedger(cfg, db).Load(ctx, args[0])
				if err != nil {
					return err
				}
				printInvitation(cmd, inv)
				return nil
			})
		},
	}
}

func newInvitationsRevokeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "revoke TOKEN",
		Short: "Expire an invitation now",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(cmd, func(ctx context.Context, cfg *config.Config, db *sql.DB) error {
				ledger := newLedger(cfg, db)
				inv, err := ledger.Load(ctx, args[0])
				if err != nil {
					return err
				}
				if err := ledger.Revoke(ctx, inv); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "revoked invitation %d\n", inv.ID)
				return nil
			})
		},
	}
}

func withDB(cmd *cobra.Command, fn func(ctx context.Context, cfg *config.Config, db *sql.DB) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()
	return fn(ctx, cfg, db)
}

func newLedger(cfg *config.Config, db *sql.DB) domain.InvitationLedger {
	return services.NewInvitationLedger(
		postgres.NewInvitationRepository(db),
		postgres.NewCertificateRepository(db),
		domain.SystemClock(),
		nil,
		config.NewLogger(),
		services.LedgerConfig{Validity: cfg.InvitationValidity, ContextTimeout: cfg.ContextTimeout},
	)
}

func printInvitation(cmd *cobra.Command, inv *domain.Invitation) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "id:\t%d\n", inv.ID)
	fmt.Fprintf(out, "status:\t%s\n", inv.Status)
	fmt.Fprintf(out, "expiry:\t%s\n", inv.Expiry.Format(time.RFC3339))
	if inv.Unlimited() {
		fmt.Fprintf(out, "activations:\tunlimited (%d issued)\n", inv.IssuedCount())
	} else {
		fmt.Fprintf(out, "activations:\t%d of %d remaining\n", inv.ActivationsRemaining, inv.ActivationsTotal)
	}
}
