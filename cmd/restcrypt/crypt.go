package main

import (
	"crypto/rsa"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"xdao.co/restcrypt/keys"
	"xdao.co/restcrypt/rsacrypt"
)

func (a *app) padding(cmd *cobra.Command, flagValue string) (rsacrypt.Padding, error) {
	value := a.cfg.Padding
	if cmd.Flags().Changed("padding") {
		value = flagValue
	}
	p, err := rsacrypt.ParsePadding(value)
	if err != nil {
		return "", &usageError{err: err}
	}
	return p, nil
}

func (a *app) encryptCmd() *cobra.Command {
	var name, pubFile, keyID, paddingFlag string
	cmd := &cobra.Command{
		Use:   "encrypt (--name <name> | --pubkey <file> | --key-id <id>) <text>",
		Short: "Encrypt text to a public key and print base64 ciphertext",
		Args:  exactArgs(1, "one text argument"),
		RunE: func(cmd *cobra.Command, args []string) error {
			padding, err := a.padding(cmd, paddingFlag)
			if err != nil {
				return err
			}
			keyText, err := a.publicKeyText(name, pubFile, keyID)
			if err != nil {
				return err
			}
			enc := rsacrypt.NewEncryptor(rsacrypt.WithPadding(padding), rsacrypt.WithLogger(a.logger))
			if err := enc.SetPublicKey(keyText); err != nil {
				return err
			}
			ct, err := enc.Encrypt(args[0])
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(a.out, ct)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Stored key name")
	cmd.Flags().StringVar(&pubFile, "pubkey", "", "Public key file (PEM, base64 DER or ssh-rsa)")
	cmd.Flags().StringVar(&keyID, "key-id", "", "Recipient key ID from the recipient directory")
	cmd.Flags().StringVar(&paddingFlag, "padding", "pkcs1v15", "pkcs1v15 or oaep")
	return cmd
}

func (a *app) decryptCmd() *cobra.Command {
	var name, keyFile, passEnv, paddingFlag string
	cmd := &cobra.Command{
		Use:   "decrypt (--name <name> | --key-file <file>) <base64>",
		Short: "Decrypt base64 ciphertext with a private key",
		Args:  exactArgs(1, "one ciphertext argument"),
		RunE: func(cmd *cobra.Command, args []string) error {
			padding, err := a.padding(cmd, paddingFlag)
			if err != nil {
				return err
			}
			pass, err := passphrase(passEnv)
			if err != nil {
				return err
			}
			priv, err := a.privateKey(name, keyFile, pass)
			if err != nil {
				return err
			}
			dec, err := rsacrypt.NewDecryptor(priv, rsacrypt.WithPadding(padding), rsacrypt.WithLogger(a.logger))
			if err != nil {
				return err
			}
			text, err := dec.Decrypt(args[0])
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(a.out, text)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Stored key name")
	cmd.Flags().StringVar(&keyFile, "key-file", "", "Private key file")
	cmd.Flags().StringVar(&passEnv, "passphrase-env", "", "Environment variable holding the key passphrase")
	cmd.Flags().StringVar(&paddingFlag, "padding", "pkcs1v15", "pkcs1v15 or oaep")
	return cmd
}

func (a *app) privateKey(name, file, pass string) (*rsa.PrivateKey, error) {
	switch {
	case name != "" && file != "":
		return nil, usagef("--name and --key-file are mutually exclusive")
	case name != "":
		ks, err := a.keyStore()
		if err != nil {
			return nil, err
		}
		priv, err := ks.PrivateKey(name, pass)
		if err != nil {
			return nil, storeError(name, err)
		}
		return priv, nil
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read --key-file: %w", err)
		}
		return keys.ParsePrivateKey(data, pass)
	default:
		return nil, usagef("one of --name or --key-file is required")
	}
}
