package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"xdao.co/restcrypt/digest"
)

func (a *app) digestCmd() *cobra.Command {
	var alg string
	cmd := &cobra.Command{
		Use:   "digest [--alg <alg>] <text>",
		Short: "Print the uppercase hex digest of text",
		Args:  exactArgs(1, "one text argument"),
		RunE: func(cmd *cobra.Command, args []string) error {
			sum, err := digest.Sum(digest.Algorithm(alg), []byte(args[0]))
			if err != nil {
				return &usageError{err: err}
			}
			_, _ = fmt.Fprintln(a.out, sum)
			return nil
		},
	}
	cmd.Flags().StringVar(&alg, "alg", string(digest.SHA256), "One of: "+strings.Join(digest.Algorithms(), ", "))
	return cmd
}

func (a *app) hmacCmd() *cobra.Command {
	var key string
	cmd := &cobra.Command{
		Use:   "hmac --key <key> <text>",
		Short: "Print the uppercase hex HMAC-SHA256 of text",
		Args:  exactArgs(1, "one text argument"),
		RunE: func(cmd *cobra.Command, args []string) error {
			if key == "" {
				return usagef("missing --key")
			}
			_, _ = fmt.Fprintln(a.out, digest.HMACSHA256(args[0], key))
			return nil
		},
	}
	cmd.Flags().StringVar(&key, "key", "", "HMAC key")
	return cmd
}

func (a *app) saltCmd() *cobra.Command {
	var length int
	cmd := &cobra.Command{
		Use:   "salt",
		Short: "Print a random salt of letters",
		Args:  exactArgs(0, "no arguments"),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := digest.GenerateSalt(length)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(a.out, s)
			return nil
		},
	}
	cmd.Flags().IntVar(&length, "length", digest.DefaultSaltLen, "Salt length")
	return cmd
}

func (a *app) nonceCmd() *cobra.Command {
	var length int
	cmd := &cobra.Command{
		Use:   "nonce",
		Short: "Print a random nonce of letters and digits",
		Args:  exactArgs(0, "no arguments"),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := digest.GenerateNonce(length)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(a.out, s)
			return nil
		},
	}
	cmd.Flags().IntVar(&length, "length", digest.DefaultNonceLen, "Nonce length")
	return cmd
}
