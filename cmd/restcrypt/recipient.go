package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"xdao.co/restcrypt/keys"
)

func (a *app) recipientCmd() *cobra.Command {
	cmd := groupCmd("recipient", "Manage public keys of encryption recipients, addressed by key ID")
	cmd.AddCommand(a.recipientAddCmd(), a.recipientListCmd(), a.recipientShowCmd())
	return cmd
}

func (a *app) recipientAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <pubkey-file>",
		Short: "Import a public key and print its key ID",
		Args:  exactArgs(1, "one public key file"),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			pub, err := keys.ParsePublicKey(string(data))
			if err != nil {
				return err
			}
			dir, err := a.recipients()
			if err != nil {
				return err
			}
			id, err := dir.Put(pub)
			if err != nil {
				return err
			}
			a.logger.Info("recipient imported", "key_id", id, "bits", pub.N.BitLen())
			_, _ = fmt.Fprintln(a.out, id)
			return nil
		},
	}
}

func (a *app) recipientListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List recipient key IDs",
		Args:    exactArgs(0, "no arguments"),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := a.recipients()
			if err != nil {
				return err
			}
			ids, err := dir.List()
			if err != nil {
				return err
			}
			for _, id := range ids {
				_, _ = fmt.Fprintln(a.out, id)
			}
			return nil
		},
	}
}

func (a *app) recipientShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <key-id>",
		Short: "Print a recipient public key as PEM",
		Args:  exactArgs(1, "one key ID"),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := a.recipients()
			if err != nil {
				return err
			}
			pub, err := dir.Get(args[0])
			if err != nil {
				return recipientError(args[0], err)
			}
			text, err := keys.PublicKeyPEM(pub)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprint(a.out, text)
			return nil
		},
	}
}
