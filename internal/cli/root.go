// Package cli implements hmsctl, the operator console for the Helvino
// hospital management backend.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Helvino-Technologies-Limited/hospitalmanager-sub000/internal/config"
	"github.com/Helvino-Technologies-Limited/hospitalmanager-sub000/internal/guard"
	"github.com/Helvino-Technologies-Limited/hospitalmanager-sub000/internal/logging"
	"github.com/Helvino-Technologies-Limited/hospitalmanager-sub000/internal/profile"
	"github.com/Helvino-Technologies-Limited/hospitalmanager-sub000/internal/session"
	"github.com/Helvino-Technologies-Limited/hospitalmanager-sub000/internal/storage"
	"github.com/Helvino-Technologies-Limited/hospitalmanager-sub000/pkg/hms"
)

// app is the per-invocation container. It is built once in the root
// pre-run hook and handed to every command.
type app struct {
	v          *viper.Viper
	configFile string
	debug      bool

	cfg     *config.Console
	logger  *slog.Logger
	kv      storage.KV
	session *session.Store
	client  *hms.Client
	profile *profile.Store

	in  io.Reader
	out io.Writer
}

// Execute runs hmsctl with os.Args and releases local resources afterwards,
// whether or not the command succeeded.
func Execute(ctx context.Context) error {
	root, a := newRootCmd()
	defer a.teardown()
	return root.ExecuteContext(ctx)
}

// newRootCmd creates the root cobra command for hmsctl and the container
// its commands share.
func newRootCmd() (*cobra.Command, *app) {
	a := &app{v: config.New()}

	root := &cobra.Command{
		Use:   "hmsctl",
		Short: "Operator console for the Helvino hospital management system",
		Long: "hmsctl signs in to the hospital management backend and works with patients,\n" +
			"visits, pharmacy, lab, imaging, billing, insurance, wards and staff.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		SilenceUsage: true,
	}

	d := config.DefaultConsoleConfig()
	pf := root.PersistentFlags()
	pf.StringVar(&a.configFile, "config", "", "Config file (default <data-dir>/config.yaml)")
	pf.BoolVar(&a.debug, "debug", false, "Enable debug logging")
	pf.String("server", d.Server, "Backend base URL (or HMS_SERVER env)")
	pf.String("data-dir", d.DataDir, "Directory for the local session database (or HMS_DATA_DIR env)")
	pf.String("log-level", d.LogLevel, "Log level (debug, info, warn, error)")
	pf.String("log-format", d.LogFormat, "Log format (text, json)")
	pf.Duration("timeout", d.Timeout, "Per-request timeout (0 for none)")
	pf.Int("retries", d.Retries, "Extra attempts for failed reads")
	pf.Bool("strict-envelope", d.StrictEnvelope, "Treat success=false responses as errors")
	pf.StringP("output", "o", d.Output, "Output format (table, json, yaml)")

	for key, flag := range map[string]string{
		config.KeyServer:         "server",
		config.KeyDataDir:        "data-dir",
		config.KeyLogLevel:       "log-level",
		config.KeyLogFormat:      "log-format",
		config.KeyTimeout:        "timeout",
		config.KeyRetries:        "retries",
		config.KeyStrictEnvelope: "strict-envelope",
		config.KeyOutput:         "output",
	} {
		a.v.BindPFlag(key, pf.Lookup(flag))
	}

	root.AddCommand(
		newLoginCmd(a),
		newLogoutCmd(a),
		newWhoamiCmd(a),
		newRefreshCmd(a),
		newDashboardCmd(a),
		newPatientsCmd(a),
		newVisitsCmd(a),
		newQueueCmd(a),
		newAppointmentsCmd(a),
		newPharmacyCmd(a),
		newLabCmd(a),
		newImagingCmd(a),
		newBillingCmd(a),
		newInsuranceCmd(a),
		newWardsCmd(a),
		newUsersCmd(a),
		newReportsCmd(a),
		newNotificationsCmd(a),
		newProfileCmd(a),
		newFindCmd(a),
	)

	return root, a
}

// setup resolves configuration and wires storage, session, client and
// profile. The session is hydrated before any command runs.
func (a *app) setup(cmd *cobra.Command) error {
	if a.debug {
		a.v.Set(config.KeyLogLevel, "debug")
	}
	cfg, err := config.Load(a.v, a.configFile)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logging.NewLoggerWithWriter(logging.ParseLevel(cfg.LogLevel), cfg.LogFormat, cmd.ErrOrStderr())
	a.in = cmd.InOrStdin()
	a.out = cmd.OutOrStdout()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	kv, err := storage.OpenDir(ctx, cfg.DataDir, a.logger)
	if err != nil {
		return fmt.Errorf("open local storage: %w", err)
	}
	a.kv = kv

	a.session = session.New(kv, nil, a.logger)
	if err := a.session.Hydrate(ctx); err != nil {
		return err
	}
	a.client = hms.NewClient(cfg.ClientConfig(), a.session, a.logger)
	a.session.SetUserLookup(a.client.Users)

	a.profile, err = profile.Load(ctx, kv)
	if err != nil {
		return err
	}

	a.logger.Debug("console ready", "server", cfg.Server, "data_dir", cfg.DataDir)
	return nil
}

// teardown releases what setup opened. Safe to call more than once.
func (a *app) teardown() {
	if a.session != nil {
		a.session.Close()
		a.session = nil
	}
	if a.kv != nil {
		if err := a.kv.Close(); err != nil {
			a.logger.Warn("close local storage", "error", err)
		}
		a.kv = nil
	}
}

// requireRoles returns a PreRunE that applies the access guard.
func (a *app) requireRoles(roles ...hms.Role) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		return guard.Require(a.session.Snapshot(), roles...)
	}
}

// protect installs the guard on cmd and every runnable descendant.
// An empty role set admits any signed-in operator.
func protect(a *app, cmd *cobra.Command, roles ...hms.Role) *cobra.Command {
	if cmd.RunE != nil || cmd.Run != nil {
		cmd.PreRunE = a.requireRoles(roles...)
	}
	for _, c := range cmd.Commands() {
		protect(a, c, roles...)
	}
	return cmd
}

// userID returns the signed-in user's id.
func (a *app) userID() int64 {
	return a.session.Snapshot().UserID
}

// pollInterval returns the configured refresh period for watch modes.
func (a *app) pollInterval() time.Duration {
	if a.cfg.PollInterval <= 0 {
		return 30 * time.Second
	}
	return a.cfg.PollInterval
}

// stdinIsTerminal is replaced in tests.
var stdinIsTerminal = func() bool {
	return isTerminal(os.Stdin)
}
