package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"xdao.co/restcrypt/config"
	"xdao.co/restcrypt/keys"
	"xdao.co/restcrypt/storage"
	"xdao.co/restcrypt/storage/localfs"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// usageError marks failures that exit with status 2.
type usageError struct{ err error }

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

func usagef(format string, args ...any) error {
	return &usageError{err: fmt.Errorf(format, args...)}
}

type app struct {
	out    io.Writer
	errOut io.Writer

	configPath   string
	keyDir       string
	recipientDir string
	logLevel     string

	cfg    *config.Config
	logger *slog.Logger
}

func run(args []string, out io.Writer, errOut io.Writer) int {
	if args == nil {
		// cobra falls back to os.Args on nil.
		args = []string{}
	}
	a := &app{out: out, errOut: errOut}
	root := a.rootCmd()
	root.SetArgs(args)
	root.SetOut(out)
	root.SetErr(errOut)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		var ue *usageError
		if errors.As(err, &ue) || strings.HasPrefix(err.Error(), "unknown command") {
			return 2
		}
		return 1
	}
	return 0
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "restcrypt",
		Short:         "UTF-8 byte codec and RSA encryption helpers",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Usage()
			return usagef("missing command")
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
	}
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &usageError{err: err}
	})

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "Config file (default ~/.restcrypt/config.yaml)")
	root.PersistentFlags().StringVar(&a.keyDir, "key-dir", "", "Key store directory (default ~/.restcrypt/keys)")
	root.PersistentFlags().StringVar(&a.recipientDir, "recipient-dir", "", "Recipient public key directory (default ~/.restcrypt/recipients)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "debug, info, warn or error")

	root.AddCommand(
		a.utf8Cmd(),
		a.keyCmd(),
		a.recipientCmd(),
		a.configCmd(),
		a.encryptCmd(),
		a.decryptCmd(),
		a.digestCmd(),
		a.hmacCmd(),
		a.saltCmd(),
		a.nonceCmd(),
	)
	return root
}

func (a *app) setup() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.keyDir != "" {
		cfg.KeyDir = a.keyDir
	}
	if a.recipientDir != "" {
		cfg.RecipientDir = a.recipientDir
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}
	level, err := config.ParseLevel(cfg.LogLevel)
	if err != nil {
		return &usageError{err: err}
	}
	a.cfg = cfg
	a.logger = slog.New(slog.NewTextHandler(a.errOut, &slog.HandlerOptions{Level: level}))
	a.logger.Debug("configuration loaded", "path", cfg.Path(), "key_dir", cfg.KeyDir)
	return nil
}

func (a *app) recipients() (*localfs.Directory, error) {
	dir := a.cfg.RecipientDir
	if dir == "" {
		var err error
		if dir, err = config.DefaultRecipientDir(); err != nil {
			return nil, err
		}
	}
	return localfs.New(dir)
}

func (a *app) keyStore() (*keys.KeyStore, error) {
	ks, err := keys.CreateKeyStore(a.cfg.KeyDir)
	if err != nil {
		return nil, err
	}
	ks.Logger = a.logger
	return ks, nil
}

// storeError names the key pair when the store has none under that name.
func storeError(name string, err error) error {
	if keys.IsNotFound(err) {
		return fmt.Errorf("no key pair named %q (see 'key list'): %w", name, err)
	}
	return err
}

// recipientError points at 'recipient add' when keyID was never imported.
func recipientError(keyID string, err error) error {
	if storage.IsNotFound(err) {
		return fmt.Errorf("unknown recipient %s (import it with 'recipient add'): %w", keyID, err)
	}
	return err
}

// passphrase reads the environment variable named by envName. Passphrases
// never travel on the command line.
func passphrase(envName string) (string, error) {
	if envName == "" {
		return "", nil
	}
	v, ok := os.LookupEnv(envName)
	if !ok || v == "" {
		return "", usagef("environment variable %s is not set", envName)
	}
	return v, nil
}

// groupCmd returns a command that only holds subcommands. Running it bare or
// with an unknown subcommand is a usage error.
func groupCmd(use, short string) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Usage()
			if len(args) == 0 {
				return usagef("missing %s subcommand", cmd.Name())
			}
			return usagef("unknown %s subcommand %q", cmd.Name(), args[0])
		},
	}
}

func exactArgs(n int, what string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return usagef("usage: %s (expected %s)", cmd.UseLine(), what)
		}
		return nil
	}
}
