package main

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dgnsrekt/letterpress/internal/catalog"
	"github.com/dgnsrekt/letterpress/internal/prefetch"
	"github.com/dgnsrekt/letterpress/pkg/letterpress"
)

var (
	warmWorkers int
	warmAll     bool

	warmCmd = &cobra.Command{
		Use:   "warm [text]",
		Short: "Prefetch assets into the resolver caches",
		Long:  paragraph(fmt.Sprintf("\nResolve a repertoire of characters ahead of rendering, so later lookups hit %s instead of the network. With no arguments the full repertoire is warmed.", keyword("warm caches"))),
		RunE:  runWarm,
	}
)

func runWarm(cmd *cobra.Command, args []string) error {
	ts, err := buildTypesetter()
	if err != nil {
		return err
	}

	if !cmd.Flags().Changed("workers") {
		warmWorkers = viper.GetInt("warm.workers")
	}

	queue := prefetch.NewQueue(0)
	pool := prefetch.NewPool(queue, warmWorkers, func(ctx context.Context, job prefetch.Job) {
		ts.ResolveText(ctx, string(job.Char), letterpress.Options{Style: job.Style, City: city})
	}, log.Default())
	pool.Start(cmd.Context())

	// Text given on the command line warms ahead of the repertoire.
	seen := make(map[rune]bool)
	enqueue := func(ch rune, prio prefetch.Priority) error {
		if seen[ch] || unicode.IsSpace(ch) {
			return nil
		}
		seen[ch] = true
		return queue.Enqueue(prefetch.Job{Char: ch, Style: style, Priority: prio})
	}

	for _, ch := range strings.Join(args, " ") {
		if err := enqueue(ch, prefetch.PriorityHigh); err != nil {
			return err
		}
	}
	if warmAll || len(args) == 0 {
		for _, ch := range warmRepertoire() {
			if err := enqueue(ch, prefetch.PriorityLow); err != nil {
				return err
			}
		}
	}

	queue.Close()
	pool.Wait()

	qstats := queue.Stats()
	stats := ts.Stats()
	fmt.Printf("warmed %d characters: %d loaded, %d synthesized, %d cache hits\n",
		qstats.Dequeued, stats.Loaded, stats.FallbacksCreated, stats.CachedHits)
	if stats.ResolvedTemplate != "" {
		base := stats.BasePath
		if base == "" {
			base = "(root)"
		}
		fmt.Println(subtle(fmt.Sprintf("layout: %s under %s", stats.ResolvedTemplate, base)))
	} else {
		fmt.Println(subtle("layout: none, every glyph was synthesized"))
	}
	return nil
}

// warmRepertoire lists every character the resolver can serve from
// real assets: both letter cases, digits and the symbol set.
func warmRepertoire() []rune {
	var out []rune
	for ch := 'A'; ch <= 'Z'; ch++ {
		out = append(out, ch)
	}
	for ch := 'a'; ch <= 'z'; ch++ {
		out = append(out, ch)
	}
	for ch := '0'; ch <= '9'; ch++ {
		out = append(out, ch)
	}
	return append(out, catalog.Symbols()...)
}

func init() {
	warmCmd.Flags().IntVar(&warmWorkers, "workers", prefetch.DefaultWorkers, "concurrent warm workers")
	warmCmd.Flags().BoolVarP(&warmAll, "all", "a", false, "warm the full repertoire even when text is given")
}
