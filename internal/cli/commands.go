package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hasbyte1/go-bcrypt/async"
	"github.com/hasbyte1/go-bcrypt/bcrypt"
	"github.com/hasbyte1/go-bcrypt/hashing"
	"github.com/hasbyte1/go-bcrypt/internal/logger"
)

func (a *app) saltCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "salt",
		Short: "Print a new salt",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			h, err := a.hasher()
			if err != nil {
				return err
			}
			salt, err := h.Salt()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), salt)
			return nil
		},
	}
}

func (a *app) hashCommand() *cobra.Command {
	var salt string
	cmd := &cobra.Command{
		Use:   "hash <secret|->",
		Short: "Hash a secret with a new salt or the one given by --salt",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			secret, err := readSecret(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			return a.withPool(cmd, func(ctx context.Context, p *async.Pool) error {
				var ch <-chan async.Result[string]
				if salt != "" {
					ch = p.Hash(ctx, secret, salt)
				} else {
					ch = p.HashWithCost(ctx, secret, a.cfg.Cost)
				}
				hash, err := async.Await(ctx, ch)
				if err != nil {
					return err
				}
				a.log.Info("hashed secret", zap.String("hash", logger.MaskHash(hash)))
				fmt.Fprintln(cmd.OutOrStdout(), hash)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&salt, "salt", "", "salt or hash whose salt is reused; overrides --cost")
	return cmd
}

func (a *app) compareCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "compare <secret|-> <hash>",
		Short: "Check a secret against a hash; exits 1 when it does not match",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			secret, err := readSecret(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			return a.withPool(cmd, func(ctx context.Context, p *async.Pool) error {
				ok, err := async.Await(ctx, p.Verify(ctx, secret, args[1]))
				if err != nil {
					return err
				}
				a.log.Info("compared secret", zap.String("hash", logger.MaskHash(args[1])), zap.Bool("match", ok))
				fmt.Fprintln(cmd.OutOrStdout(), ok)
				if !ok {
					return ErrMismatch
				}
				return nil
			})
		},
	}
}

func (a *app) costCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "cost <hash>",
		Short: "Print the work factor recorded in a hash",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cost, err := bcrypt.ExtractCost(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cost)
			return nil
		},
	}
}

func (a *app) infoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info <hash>",
		Short: "Describe a hash and whether it needs a rehash under the current settings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := hashing.NewBcryptManager(a.bcryptOptions())
			if err != nil {
				return err
			}
			info, err := m.InfoWithDetect(args[0])
			if err != nil {
				return err
			}
			rehash, err := m.NeedsRehash(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "driver\t%s\n", info.Driver)
			fmt.Fprintf(out, "version\t%v\n", info.Params["version"])
			fmt.Fprintf(out, "cost\t%v\n", info.Params["cost"])
			fmt.Fprintf(out, "rehash\t%t\n", rehash)
			return nil
		},
	}
}

func (a *app) calibrateCommand() *cobra.Command {
	var (
		target time.Duration
		limit  int
	)
	cmd := &cobra.Command{
		Use:   "calibrate",
		Short: "Print the smallest cost whose hash takes at least --target",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if limit < bcrypt.MinCost || limit > bcrypt.MaxCost {
				return fmt.Errorf("--max must be in [%d, %d], got %d", bcrypt.MinCost, bcrypt.MaxCost, limit)
			}
			if target <= 0 {
				return errors.New("--target must be positive")
			}
			cost, elapsed, err := calibrate(cmd.Context(), target, limit)
			if err != nil {
				return err
			}
			a.log.Info("calibrated", zap.Int("cost", cost), zap.Duration("elapsed", elapsed))
			fmt.Fprintln(cmd.OutOrStdout(), cost)
			fmt.Fprintf(cmd.ErrOrStderr(), "cost %d took %s\n", cost, elapsed.Round(time.Microsecond))
			return nil
		},
	}
	cmd.Flags().DurationVar(&target, "target", 250*time.Millisecond, "hash time to reach")
	cmd.Flags().IntVar(&limit, "max", 16, "highest cost to try")
	return cmd
}

// calibrate hashes once per cost from MinCost upwards and stops at the first
// cost taking at least target, or at limit.
func calibrate(ctx context.Context, target time.Duration, limit int) (int, time.Duration, error) {
	secret := []byte("calibration secret")
	for cost := bcrypt.MinCost; ; cost++ {
		if err := ctx.Err(); err != nil {
			return 0, 0, err
		}
		salt, err := bcrypt.NewSalt(cost, nil)
		if err != nil {
			return 0, 0, err
		}
		start := time.Now()
		if _, err := bcrypt.Hash(secret, salt); err != nil {
			return 0, 0, err
		}
		elapsed := time.Since(start)
		if elapsed >= target || cost >= limit {
			return cost, elapsed, nil
		}
	}
}

func (a *app) bcryptOptions() hashing.BcryptOptions {
	return hashing.BcryptOptions{Cost: a.cfg.Cost, Version: a.cfg.BcryptVersion()}
}

func (a *app) hasher() (*hashing.BcryptHasher, error) {
	return hashing.NewBcryptHasher(a.bcryptOptions())
}

// readSecret returns arg, or the first line of in when arg is "-".
func readSecret(in io.Reader, arg string) ([]byte, error) {
	if arg != "-" {
		return []byte(arg), nil
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("read secret: %w", err)
	}
	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")
	return []byte(line), nil
}
