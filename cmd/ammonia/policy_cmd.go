package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dsh2dsh/ammonia"
)

var (
	policyFormat string

	policyCmd = &cobra.Command{
		Use:   "policy",
		Short: "Print the default policy",
		Long: paragraph(fmt.Sprintf(
			"\n%s the default policy as a policy file. Use it as a starting point for your own policy. With --policy it prints the given policy file after validation.",
			keyword("Print"))),
		Example: paragraph("ammonia policy > policy.yml\nammonia policy --format json"),
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format := ammonia.Format(policyFormat)
			if format != ammonia.FormatYAML && format != ammonia.FormatJSON {
				return fmt.Errorf("unknown format %q: use yaml or json", policyFormat)
			}

			s, err := loadSanitizer(policyFile)
			if err != nil {
				return err
			}
			return ammonia.EncodePolicy(cmd.OutOrStdout(), s.Policy(), format)
		},
	}
)

func init() {
	policyCmd.Flags().StringVarP(&policyFormat, "format", "f",
		string(ammonia.FormatYAML), "output format: yaml or json")
}
