// Package cli implements the bcrypt command tree.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/hasbyte1/go-bcrypt/async"
	"github.com/hasbyte1/go-bcrypt/bcrypt"
	"github.com/hasbyte1/go-bcrypt/internal/config"
	"github.com/hasbyte1/go-bcrypt/internal/logger"
)

// ErrMismatch is returned by the compare command when the secret does not
// match. It maps to exit status 1 without an error message.
var ErrMismatch = errors.New("secret does not match hash")

type app struct {
	v       *viper.Viper
	cfgFile string
	cfg     config.Config
	log     *zap.Logger
}

// NewRootCommand builds the command tree with its persistent flags bound to
// a fresh configuration.
func NewRootCommand() *cobra.Command {
	a := &app{v: config.New(), log: zap.NewNop()}

	root := &cobra.Command{
		Use:   "bcrypt",
		Short: "Generate and check bcrypt password hashes",
		Long: `bcrypt generates salts, hashes secrets and checks secrets against
stored hashes. Every revision ($2$, $2a$, $2b$, $2x$, $2y$) can be checked;
new hashes use $2b$ or $2y$.

A secret given as "-" is read from standard input up to the first newline.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.load,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "config file (yaml, json or toml)")
	pf.Int("cost", bcrypt.DefaultCost, "work factor for new salts, 4 to 31")
	pf.String("revision", config.DefaultVersion, "revision for new salts: 2b or 2y")
	pf.Int("workers", 0, "concurrent computations (default number of CPUs)")
	pf.Duration("timeout", config.DefaultTimeout, "give up waiting after this long")
	pf.String("log-level", config.DefaultLogLevel, "debug, info, warn or error")
	pf.String("log-format", config.DefaultLogFormat, "console or json")

	bind := map[string]string{
		config.KeyCost:      "cost",
		config.KeyVersion:   "revision",
		config.KeyWorkers:   "workers",
		config.KeyTimeout:   "timeout",
		config.KeyLogLevel:  "log-level",
		config.KeyLogFormat: "log-format",
	}
	for key, flag := range bind {
		cobra.CheckErr(a.v.BindPFlag(key, pf.Lookup(flag)))
	}

	root.AddCommand(
		a.saltCommand(),
		a.hashCommand(),
		a.compareCommand(),
		a.costCommand(),
		a.infoCommand(),
		a.calibrateCommand(),
	)
	return root
}

// Execute runs the command tree with args and returns the process exit
// status. Errors other than [ErrMismatch] are printed to stderr.
func Execute(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	root := NewRootCommand()
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrMismatch):
		return 1
	default:
		fmt.Fprintln(stderr, "Error:", err)
		return 1
	}
}

func (a *app) load(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.v, a.cfgFile)
	if err != nil {
		return err
	}
	lg, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.log = lg.Named("cli").With(zap.String("command", cmd.Name()))
	return nil
}

// withPool runs fn with a pool sized from the configuration and a context
// bounded by the configured timeout.
func (a *app) withPool(cmd *cobra.Command, fn func(ctx context.Context, p *async.Pool) error) error {
	p, err := async.New(async.Options{
		Workers:    a.cfg.Workers,
		Version:    a.cfg.BcryptVersion(),
		Logger:     a.log,
		Registerer: prometheus.NewRegistry(),
	})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), a.cfg.Timeout)
	defer cancel()

	start := time.Now()
	err = fn(ctx, p)
	p.Close()

	s := p.Stats()
	a.log.Debug("pool finished",
		zap.Duration("elapsed", time.Since(start)),
		zap.Uint64("completed", s.Completed),
		zap.Uint64("failed", s.Failed),
		zap.Uint64("abandoned", s.Abandoned),
	)
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("gave up after %s: %w", a.cfg.Timeout, err)
	}
	return err
}
