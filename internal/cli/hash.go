package cli

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/daniilsolovey/newsfeed/internal/auth"
)

// NewHashPasswordCommand prints a bcrypt hash suitable for the users section of the
// server config. The password is read from the argument or, when absent, from stdin.
func NewHashPasswordCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password [password]",
		Short: "Hash a password for the server config",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			password := ""
			if len(args) == 1 {
				password = args[0]
			} else {
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("read password: %w", err)
				}
				password = strings.TrimRight(line, "\r\n")
			}

			if err := auth.CheckPasswordPolicy(password); err != nil {
				return err
			}

			hash, err := auth.HashPassword(password)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), hash)
			return err
		},
	}
}
