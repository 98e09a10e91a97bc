package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	natsadapter "github.com/samirrijal/digitalshield/internal/adapters/nats"
	"github.com/samirrijal/digitalshield/internal/adapters/postgres"
	"github.com/samirrijal/digitalshield/internal/adapters/valkey"
	"github.com/samirrijal/digitalshield/internal/core/domain"
	"github.com/samirrijal/digitalshield/internal/core/usecases"
	"github.com/samirrijal/digitalshield/internal/fixtures"
	"github.com/samirrijal/digitalshield/internal/pkg/auth"
	"github.com/samirrijal/digitalshield/internal/pkg/caseid"
	"github.com/samirrijal/digitalshield/internal/pkg/validate"
)

var (
	seedFixtures string
	caseIDCount  int
	tokenUser    string
	tokenEmail   string
	tokenRole    string
	tokenTTL     time.Duration
	locUser      string
	locLat       float64
	locLon       float64
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the database schema",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply pending migrations",
	Args:  cobra.NoArgs,
	RunE:  runMigrateUp,
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load monitored areas and learning resources into Postgres",
	Long: `Upserts the fixture set into monitored_areas and resources.

The embedded demo set is used unless --fixtures points at a YAML file with the
same layout.`,
	Args: cobra.NoArgs,
	RunE: runSeed,
}

var caseIDCmd = &cobra.Command{
	Use:   "case-id",
	Short: "Print fresh case IDs (CASE-YYYY-DDD-NNNN)",
	Args:  cobra.NoArgs,
	RunE:  runCaseID,
}

var checkLinkCmd = &cobra.Command{
	Use:   "check-link <url>",
	Short: "Classify a URL against the suspicious-pattern list",
	Args:  cobra.ExactArgs(1),
	RunE:  runCheckLink,
}

var publishLocationCmd = &cobra.Command{
	Use:   "publish-location",
	Short: "Queue a location sample for the tracker",
	Long: `Publishes one position sample on shield.location.<user> so a running
tracker evaluates it exactly as it would a device update.`,
	Args: cobra.NoArgs,
	RunE: runPublishLocation,
}

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint a development bearer token",
	Args:  cobra.NoArgs,
	RunE:  runToken,
}

func init() {
	seedCmd.Flags().StringVar(&seedFixtures, "fixtures", "", "fixture YAML file (default: embedded set)")
	caseIDCmd.Flags().IntVarP(&caseIDCount, "count", "n", 1, "number of IDs to print")
	tokenCmd.Flags().StringVar(&tokenUser, "user", "", "subject (user id)")
	tokenCmd.Flags().StringVar(&tokenEmail, "email", "", "email claim")
	tokenCmd.Flags().StringVar(&tokenRole, "role", string(auth.RoleUser), "role claim: user or admin")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 0, "token lifetime (default: auth.token_ttl minutes)")
	_ = tokenCmd.MarkFlagRequired("user")
	publishLocationCmd.Flags().StringVar(&locUser, "user", "", "user id the sample belongs to")
	publishLocationCmd.Flags().Float64Var(&locLat, "lat", 0, "latitude")
	publishLocationCmd.Flags().Float64Var(&locLon, "lon", 0, "longitude")
	_ = publishLocationCmd.MarkFlagRequired("user")
	_ = publishLocationCmd.MarkFlagRequired("lat")
	_ = publishLocationCmd.MarkFlagRequired("lon")
}

func runMigrateUp(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ctx, cancel := commandContext()
	defer cancel()

	db, err := postgres.New(ctx, cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	defer db.Close()

	applied, err := db.Migrate(ctx)
	for _, name := range applied {
		fmt.Fprintf(cmd.OutOrStdout(), "OK  %s\n", name)
	}
	if err != nil {
		return err
	}
	if len(applied) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "schema up to date")
	}
	return nil
}

func runSeed(cmd *cobra.Command, args []string) error {
	fx, err := fixtures.Load(seedFixtures)
	if err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ctx, cancel := commandContext()
	defer cancel()

	db, err := postgres.New(ctx, cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	defer db.Close()

	areas, err := usecases.NewDashboardService(fx, postgres.NewAreaRepo(db)).SeedAreas(ctx)
	if err != nil {
		return err
	}
	resources, err := usecases.NewResourceService(postgres.NewResourceRepo(db), nil).Seed(ctx, fx)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "seeded %d areas, %d resources\n", areas, resources)

	// Cached listings would keep serving the old set until they expire.
	cache, err := valkey.New(cfg.Valkey.Addr)
	if err != nil {
		slog.Warn("valkey unavailable, resource cache not flushed", "error", err)
		return nil
	}
	defer cache.Close()
	if n, err := cache.DeletePrefix(ctx, "resources:"); err != nil {
		slog.Warn("flush resource cache", "error", err)
	} else {
		slog.Debug("flushed resource cache", "keys", n)
	}
	return nil
}

func runPublishLocation(cmd *cobra.Command, args []string) error {
	sample := domain.SampleAt(locLat, locLon, time.Now().UTC())
	if _, ok := sample.Position(); !ok {
		return fmt.Errorf("coordinates out of range: %v,%v", locLat, locLon)
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ctx, cancel := commandContext()
	defer cancel()

	pub, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		return err
	}
	defer pub.Close()

	if err := pub.PublishLocationSample(ctx, locUser, sample); err != nil {
		return fmt.Errorf("publish sample: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "queued %s\n", natsadapter.LocationSubject(locUser))
	return nil
}

func runCaseID(cmd *cobra.Command, args []string) error {
	if caseIDCount < 1 {
		return fmt.Errorf("--count must be at least 1")
	}
	gen := caseid.New()
	for i := 0; i < caseIDCount; i++ {
		id, _ := gen.Next()
		fmt.Fprintln(cmd.OutOrStdout(), id)
	}
	return nil
}

func runCheckLink(cmd *cobra.Command, args []string) error {
	url, err := validate.NormalizeURL(args[0])
	if err != nil {
		return err
	}
	res := usecases.ClassifyURL(url, time.Now().UTC())
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

func runToken(cmd *cobra.Command, args []string) error {
	role, ok := auth.NormalizeRole(tokenRole)
	if !ok {
		return fmt.Errorf("unknown role %q", tokenRole)
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ttl := tokenTTL
	if ttl <= 0 {
		ttl = time.Duration(cfg.Auth.TokenTTL) * time.Minute
	}
	tok, err := auth.IssueToken(auth.Identity{UserID: tokenUser, Email: tokenEmail, Role: role}, []byte(cfg.Auth.JWTSecret), cfg.Auth.Issuer, ttl)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), tok)
	return nil
}
