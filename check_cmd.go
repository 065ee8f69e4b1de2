package main

import (
	"fmt"
	"sort"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/dgnsrekt/letterpress/internal/doctor"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Diagnose a letterform deployment",
	Long:  paragraph(fmt.Sprintf("\nProbe the configured deployment the way rendering would, then report the %s it settled on and a per-style census of real assets.", keyword("layout"))),
	Args:  cobra.NoArgs,
	RunE:  runCheck,
}

func runCheck(cmd *cobra.Command, _ []string) error {
	result := doctor.Check(cmd.Context(), doctor.Config{
		Root:   baseURL,
		City:   city,
		Local:  localBases,
		Logger: log.Default(),
	})

	if result.Available {
		fmt.Println(okBadge.Render("layout found"))
	} else {
		fmt.Println(failBadge.Render("no layout"))
	}

	keys := make([]string, 0, len(result.Details))
	for k := range result.Details {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Printf("  %s %s\n", subtle(k+":"), result.Details[k])
	}

	if result.Guidance != "" {
		fmt.Println()
		fmt.Println(paragraph(result.Guidance))
	}
	return result.Error
}
