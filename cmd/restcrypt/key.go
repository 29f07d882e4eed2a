package main

import (
	"encoding/base64"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"xdao.co/restcrypt/keys"
)

func (a *app) keyCmd() *cobra.Command {
	cmd := groupCmd("key", "Manage RSA key pairs in the local key store")
	cmd.AddCommand(a.keyGenCmd(), a.keyListCmd(), a.keyExportCmd(), a.keyIDCmd(), a.keyRemoveCmd())
	return cmd
}

func (a *app) keyGenCmd() *cobra.Command {
	var name, passEnv, format string
	var bits, pkcs int
	var force bool

	cmd := &cobra.Command{
		Use:   "gen --name <name>",
		Short: "Generate and store a new key pair",
		Args:  exactArgs(0, "no arguments"),
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" {
				return usagef("missing --name")
			}
			if err := keys.CheckKeyName(name); err != nil {
				return usagef("invalid --name: %v", err)
			}
			if !cmd.Flags().Changed("bits") {
				bits = a.cfg.DefaultBits
			}
			if !cmd.Flags().Changed("pkcs") {
				pkcs = a.cfg.PKCS
			}
			if pkcs != 1 && pkcs != 8 {
				return usagef("invalid --pkcs: must be 1 or 8, got %d", pkcs)
			}
			if !cmd.Flags().Changed("format") {
				format = a.cfg.PrivateFormat
			}
			f, err := keys.ParseFormat(format)
			if err != nil {
				return usagef("invalid --format: %v", err)
			}
			pass, err := passphrase(passEnv)
			if err != nil {
				return err
			}
			ks, err := a.keyStore()
			if err != nil {
				return err
			}
			entry, err := ks.Generate(name, keys.SaveOptions{
				Format:     f,
				Bits:       bits,
				PKCS:       pkcs,
				Passphrase: pass,
				Overwrite:  force,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Created key pair: %s\n", entry.Name)
			fmt.Fprintf(a.out, "Key ID: %s\n", entry.KeyID)
			fmt.Fprintf(a.out, "Bits: %d\n", entry.Bits)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Key name")
	cmd.Flags().IntVar(&bits, "bits", keys.DefaultBits, "Modulus size: 1024, 2048, 3072 or 4096")
	cmd.Flags().IntVar(&pkcs, "pkcs", 1, "Private key structure: 1 or 8")
	cmd.Flags().StringVar(&format, "format", "pem", "Private key file format: pem, der or openssh")
	cmd.Flags().StringVar(&passEnv, "passphrase-env", "", "Seal the private key with the passphrase in this environment variable")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing key pair")
	return cmd
}

func (a *app) keyListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List stored key pairs",
		Args:    exactArgs(0, "no arguments"),
		RunE: func(cmd *cobra.Command, args []string) error {
			ks, err := a.keyStore()
			if err != nil {
				return err
			}
			entries, err := ks.List()
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tKEY ID\tBITS\tSEALED")
			for _, e := range entries {
				fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", e.Name, e.KeyID, e.Bits, strconv.FormatBool(e.Sealed))
			}
			return w.Flush()
		},
	}
}

func (a *app) keyExportCmd() *cobra.Command {
	var name, format string
	cmd := &cobra.Command{
		Use:   "export --name <name>",
		Short: "Print a stored public key",
		Args:  exactArgs(0, "no arguments"),
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" {
				return usagef("missing --name")
			}
			f, err := keys.ParseFormat(format)
			if err != nil {
				return usagef("invalid --format: %v", err)
			}
			ks, err := a.keyStore()
			if err != nil {
				return err
			}
			pub, err := ks.PublicKey(name)
			if err != nil {
				return storeError(name, err)
			}
			out, err := keys.MarshalPublicKey(pub, f)
			if err != nil {
				return err
			}
			if f == keys.FormatDER {
				_, _ = fmt.Fprintln(a.out, base64.StdEncoding.EncodeToString(out))
				return nil
			}
			_, _ = a.out.Write(out)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Key name")
	cmd.Flags().StringVar(&format, "format", "pem", "pem, der (printed as base64) or openssh")
	return cmd
}

func (a *app) keyIDCmd() *cobra.Command {
	var name, pubFile string
	cmd := &cobra.Command{
		Use:   "id (--name <name> | --pubkey <file>)",
		Short: "Print the content identifier of a public key",
		Args:  exactArgs(0, "no arguments"),
		RunE: func(cmd *cobra.Command, args []string) error {
			keyText, err := a.publicKeyText(name, pubFile, "")
			if err != nil {
				return err
			}
			pub, err := keys.ParsePublicKey(keyText)
			if err != nil {
				return err
			}
			id, err := keys.KeyID(pub)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(a.out, id)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Stored key name")
	cmd.Flags().StringVar(&pubFile, "pubkey", "", "Public key file")
	return cmd
}

func (a *app) keyRemoveCmd() *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "rm --name <name>",
		Short: "Delete a stored key pair",
		Args:  exactArgs(0, "no arguments"),
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" {
				return usagef("missing --name")
			}
			ks, err := a.keyStore()
			if err != nil {
				return err
			}
			if err := ks.Remove(name); err != nil {
				return storeError(name, err)
			}
			fmt.Fprintf(a.out, "Removed key pair: %s\n", name)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Key name")
	return cmd
}

// publicKeyText returns the public key named in the key store, read from a
// file, or looked up in the recipient directory. Exactly one source must be
// given.
func (a *app) publicKeyText(name, file, keyID string) (string, error) {
	sources := 0
	for _, v := range []string{name, file, keyID} {
		if v != "" {
			sources++
		}
	}
	if sources > 1 {
		return "", usagef("--name, --pubkey and --key-id are mutually exclusive")
	}
	switch {
	case keyID != "":
		dir, err := a.recipients()
		if err != nil {
			return "", err
		}
		pub, err := dir.Get(keyID)
		if err != nil {
			return "", recipientError(keyID, err)
		}
		return keys.PublicKeyPEM(pub)
	case name != "":
		ks, err := a.keyStore()
		if err != nil {
			return "", err
		}
		text, err := ks.PublicKeyPEM(name)
		if err != nil {
			return "", storeError(name, err)
		}
		return text, nil
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("read --pubkey: %w", err)
		}
		return string(data), nil
	default:
		return "", usagef("one of --name, --pubkey or --key-id is required")
	}
}
