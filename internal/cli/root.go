// Package cli implements the census command-line interface.
package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mesh-intelligence/census/internal/logging"
	"github.com/mesh-intelligence/census/internal/metrics"
	"github.com/mesh-intelligence/census/internal/paths"
	"github.com/mesh-intelligence/census/pkg/backup"
	"github.com/mesh-intelligence/census/pkg/sqlite"
	"github.com/mesh-intelligence/census/pkg/survey"
	"github.com/mesh-intelligence/census/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// app holds the global flag values and the loaded configuration of one
// command invocation.
type app struct {
	configDir string
	dataDir   string
	jsonMode  bool

	cfg    *viper.Viper
	logger *slog.Logger
}

// NewRootCmd creates the top-level "census" command with global flags and
// all subcommands registered.
func NewRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "census",
		Short: "Offline village, house and member survey store",
		Long: "census records villages, the houses in them and the members of each house\n" +
			"in a local SQLite database, and filters, searches, exports and restores them.",
		Version:           Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	root.PersistentFlags().StringVar(&a.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	root.PersistentFlags().StringVar(&a.dataDir, "data-dir", "", "data directory (default: platform data dir)")
	root.PersistentFlags().BoolVar(&a.jsonMode, "json", false, "output as JSON")

	root.AddCommand(
		newVersionCmd(),
		newInitCmd(a),
		newVillageCmd(a),
		newHouseCmd(a),
		newMemberCmd(a),
		newImageCmd(a),
		newSettingCmd(a),
		newFilterCmd(a),
		newSearchCmd(a),
		newStatsCmd(a),
		newVotersCmd(a),
		newBackupCmd(a),
		newWipeCmd(a),
	)
	return root
}

// Execute runs the root command, reports any error on stderr, and returns
// the process exit code.
func Execute() int {
	root := NewRootCmd()
	err := root.Execute()
	if err != nil {
		fmt.Fprintln(root.ErrOrStderr(), "census:", err)
	}
	return exitCode(err)
}

// exitCode maps an error to an exit code: storage and file system failures
// are system errors, everything else is the user's.
func exitCode(err error) int {
	var pathErr *fs.PathError
	switch {
	case err == nil:
		return exitSuccess
	case errors.Is(err, types.ErrStorage), errors.As(err, &pathErr):
		return exitSysError
	default:
		return exitUserError
	}
}

// setup loads an optional .env file and config.yaml, then configures
// logging.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	if cmd.Name() == "version" {
		return nil
	}
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}

	configDir, err := paths.ResolveConfigDir(a.configDir)
	if err != nil {
		return fmt.Errorf("resolve config dir: %w", err)
	}
	cfg, err := loadConfig(configDir)
	if err != nil {
		return err
	}
	a.configDir = configDir
	a.cfg = cfg
	a.logger = logging.Setup(cmd.ErrOrStderr(), cfg.GetString(cfgKeyLogLevel))
	return nil
}

// session is an attached store and the services built on it.
type session struct {
	store       types.Store
	repo        *survey.Repository
	backup      *backup.Service
	dataDir     string
	recorder    *metrics.Recorder
	metricsFile string
}

// open resolves the data directory and attaches the store.
func (a *app) open() (*session, error) {
	dataDir, err := paths.ResolveDataDir(a.dataDir, a.cfg.GetString(cfgKeyDataDir), a.configDir)
	if err != nil {
		return nil, fmt.Errorf("resolve data dir: %w", err)
	}

	store := sqlite.NewBackend()
	err = store.Attach(types.Config{
		Backend: a.cfg.GetString(cfgKeyBackend),
		DataDir: dataDir,
	})
	if err != nil {
		return nil, fmt.Errorf("attach store: %w", err)
	}

	s := &session{store: store, dataDir: dataDir}
	opts := []survey.Option{survey.WithLogger(a.logger)}
	if path := a.cfg.GetString(cfgKeyMetricsFile); path != "" {
		s.recorder = metrics.NewRecorder()
		s.metricsFile = path
		opts = append(opts, survey.WithObserver(s.recorder))
	}
	s.repo = survey.New(store, opts...)
	s.backup = backup.New(s.repo, backup.WithLogger(a.logger))
	a.logger.Debug("store attached", "data_dir", dataDir)
	return s, nil
}

// close writes the metrics textfile, if configured, and detaches the store.
func (s *session) close() error {
	var errs []error
	if s.recorder != nil {
		if err := s.recorder.WriteTextfile(s.metricsFile); err != nil {
			errs = append(errs, fmt.Errorf("write metrics: %w", err))
		}
	}
	if err := s.store.Detach(); err != nil {
		errs = append(errs, fmt.Errorf("detach store: %w", err))
	}
	return errors.Join(errs...)
}

// run opens a session, calls fn, and closes the session.
func (a *app) run(fn func(s *session) error) (err error) {
	s, err := a.open()
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, s.close())
	}()
	return fn(s)
}
