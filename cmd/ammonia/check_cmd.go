package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/dsh2dsh/ammonia"
)

var (
	errInvalidPolicy = errors.New("invalid policy")

	checkCmd = &cobra.Command{
		Use:   "check FILE...",
		Short: "Validate policy files",
		Long: paragraph(fmt.Sprintf(
			"\n%s policy files and print every conflict found in them.",
			keyword("Validate"))),
		Example: paragraph("ammonia check policy.yml"),
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var failed int
			for _, path := range args {
				if !checkPolicy(cmd.OutOrStdout(), expandPath(path)) {
					failed++
				}
			}

			if failed > 0 {
				return fmt.Errorf("%w: %d of %d", errInvalidPolicy, failed,
					len(args))
			}
			return nil
		},
	}
)

// checkPolicy prints result of validation of policy file and returns true if
// it's valid.
func checkPolicy(w io.Writer, path string) bool {
	p, err := ammonia.LoadPolicy(path)
	if err != nil {
		fmt.Fprintln(w, errorStyle.Render("✗"), path) //nolint:errcheck
		fmt.Fprintln(w, "  ", err)                    //nolint:errcheck
		return false
	}

	_, err = ammonia.New(p)
	if err == nil {
		fmt.Fprintln(w, okStyle.Render("✓"), path) //nolint:errcheck
		return true
	}

	fmt.Fprintln(w, errorStyle.Render("✗"), path) //nolint:errcheck
	for _, c := range ammonia.Conflicts(err) {
		fmt.Fprintln(w, "  ", c.Error()) //nolint:errcheck
	}
	log.Debug("Invalid policy", "path", path, "err", err)
	return false
}
