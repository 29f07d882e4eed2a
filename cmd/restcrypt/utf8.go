package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"xdao.co/restcrypt/utf8codec"
)

func (a *app) utf8Cmd() *cobra.Command {
	cmd := groupCmd("utf8", "Convert text to and from UTF-8 byte arrays")
	cmd.AddCommand(
		&cobra.Command{
			Use:   "encode <text>",
			Short: "Print the UTF-8 bytes of text as a JSON array",
			Args:  exactArgs(1, "one text argument"),
			RunE: func(cmd *cobra.Command, args []string) error {
				b, err := json.Marshal(utf8codec.FromText(args[0]))
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintln(a.out, string(b))
				return nil
			},
		},
		&cobra.Command{
			Use:   "decode <json-array>",
			Short: "Decode a JSON array of bytes back into text",
			Args:  exactArgs(1, "one JSON array argument"),
			RunE: func(cmd *cobra.Command, args []string) error {
				var seq utf8codec.ByteSeq
				if err := json.Unmarshal([]byte(args[0]), &seq); err != nil {
					return usagef("invalid byte array: %v", err)
				}
				text, err := seq.Text()
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintln(a.out, text)
				return nil
			},
		},
		&cobra.Command{
			Use:   "escape <text>",
			Short: "Percent-encode text as a URI component",
			Args:  exactArgs(1, "one text argument"),
			RunE: func(cmd *cobra.Command, args []string) error {
				_, _ = fmt.Fprintln(a.out, utf8codec.EscapeComponent(args[0]))
				return nil
			},
		},
		&cobra.Command{
			Use:   "unescape <text>",
			Short: "Decode a percent-encoded URI component",
			Args:  exactArgs(1, "one text argument"),
			RunE: func(cmd *cobra.Command, args []string) error {
				text, err := utf8codec.UnescapeComponent(args[0])
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintln(a.out, text)
				return nil
			},
		},
	)
	return cmd
}
