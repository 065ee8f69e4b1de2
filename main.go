// Package main provides the entry point for the letterpress CLI
// application.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	gap "github.com/muesli/go-app-paths"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/dgnsrekt/letterpress/internal/doctor"
	"github.com/dgnsrekt/letterpress/pkg/letterpress"
)

var (
	// Version as provided by goreleaser.
	Version = ""
	// CommitSHA as provided by goreleaser.
	CommitSHA = ""

	configFile  string
	style       string
	city        string
	caseMode    string
	baseURL     string
	variants    int
	randomStyle bool
	localBases  bool
	jsonOut     bool
	debug       bool
	width       uint

	rootCmd = &cobra.Command{
		Use:   "letterpress [text]",
		Short: "Typeset text from photographed letterforms",
		Long: paragraph(
			fmt.Sprintf("\nTypeset text from %s collected around the city. Characters the collection is missing come back as synthesized SVG stand-ins, so every line renders.", keyword("photographed letterforms")),
		),
		SilenceErrors: false,
		SilenceUsage:  true,
		Args:          cobra.ArbitraryArgs,
		ValidArgsFunction: func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
			return nil, cobra.ShellCompDirectiveDefault
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return validateOptions(cmd)
		},
		RunE: execute,
	}
)

// runEnv holds environment overrides honored outside the config file.
type runEnv struct {
	Root string `env:"LETTERPRESS_ROOT"`
}

func validateOptions(cmd *cobra.Command) error {
	// grab config values from Viper
	style = viper.GetString("style")
	city = viper.GetString("city")
	caseMode = viper.GetString("case")
	baseURL = viper.GetString("base")
	variants = viper.GetInt("variants")
	localBases = viper.GetBool("local")
	randomStyle = viper.GetBool("randomStyle")
	debug = viper.GetBool("debug")

	if debug {
		log.SetLevel(log.DebugLevel)
	}

	if err := doctor.ValidateOptions(style, caseMode, variants); err != nil {
		return err
	}

	isTerminal := term.IsTerminal(int(os.Stdout.Fd()))
	// Keep piped output plain when stdout is not a terminal.
	if !isTerminal {
		lipgloss.SetColorProfile(termenv.Ascii)
	}

	// Detect terminal width for the report table.
	if !cmd.Flags().Changed("width") {
		if isTerminal && width == 0 {
			w, _, err := term.GetSize(int(os.Stdout.Fd()))
			if err == nil {
				width = uint(w) //nolint:gosec
			}

			if width > 120 {
				width = 120
			}
		}
		if width == 0 {
			width = 80
		}
	}
	return nil
}

func stdinIsPipe() (bool, error) {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false, fmt.Errorf("unable to stat stdin: %w", err)
	}
	if stat.Mode()&os.ModeCharDevice == 0 || stat.Size() > 0 {
		return true, nil
	}
	return false, nil
}

func execute(cmd *cobra.Command, args []string) error {
	text := strings.Join(args, " ")

	// if stdin is a pipe then use stdin for input
	if text == "" {
		if yes, err := stdinIsPipe(); err != nil {
			return err
		} else if yes {
			b, err := io.ReadAll(os.Stdin)
			if err != nil {
				return fmt.Errorf("unable to read from stdin: %w", err)
			}
			text = strings.TrimRight(string(b), "\r\n")
		}
	}
	if strings.TrimSpace(text) == "" {
		return errors.New("nothing to typeset: pass text as an argument or pipe it in")
	}

	ts, err := buildTypesetter()
	if err != nil {
		return err
	}

	descriptors := ts.ResolveText(cmd.Context(), text, letterpress.Options{
		Style:       style,
		City:        city,
		Case:        caseMode,
		MaxVariants: variants,
		RandomStyle: randomStyle,
	})

	if jsonOut {
		return writeJSON(os.Stdout, descriptors, ts.Stats())
	}
	return writeReport(os.Stdout, descriptors, ts.Stats(), int(width))
}

// buildTypesetter assembles the pipeline from flags, config file and
// environment.
func buildTypesetter() (*letterpress.Typesetter, error) {
	ecfg, err := env.ParseAs[runEnv]()
	if err != nil {
		return nil, fmt.Errorf("error parsing environment: %v", err)
	}

	root := baseURL
	if root == "" {
		root = ecfg.Root
	}

	cfg := letterpress.DefaultConfig()
	cfg.Root = root
	cfg.City = city
	cfg.Style = style
	if variants > 0 {
		cfg.MaxVariants = variants
	}
	cfg.Local = localBases
	cfg.Logger = log.Default()
	return letterpress.New(cfg)
}

func main() {
	closer, err := setupLog()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	if err := rootCmd.Execute(); err != nil {
		_ = closer()
		os.Exit(1)
	}
	_ = closer()
}

func init() {
	tryLoadConfigFromDefaultPlaces()
	if len(CommitSHA) >= 7 {
		vt := rootCmd.VersionTemplate()
		rootCmd.SetVersionTemplate(vt[:len(vt)-1] + " (" + CommitSHA[0:7] + ")\n")
	}
	if Version == "" {
		Version = "unknown (built from source)"
	}
	rootCmd.Version = Version
	rootCmd.InitDefaultCompletionCmd()

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", fmt.Sprintf("config file (default %s)", viper.GetViper().ConfigFileUsed()))
	rootCmd.PersistentFlags().StringVarP(&baseURL, "base", "b", "", "asset root URL of the deployment")
	rootCmd.PersistentFlags().StringVar(&city, "city", "", "city code of the letterform collection")
	rootCmd.PersistentFlags().BoolVar(&localBases, "local", false, "probe only the bases a local deployment uses")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "log component activity")
	rootCmd.Flags().StringVarP(&style, "style", "s", "sans", "letter style: sans, serif, mono, script or decorative")
	rootCmd.Flags().StringVarP(&caseMode, "case", "c", "none", "case transform: none, upper, lower or title")
	rootCmd.Flags().IntVarP(&variants, "variants", "n", 0, "numbered variants to try per character (1-8)")
	rootCmd.Flags().BoolVarP(&randomStyle, "random-style", "r", false, "pick a random style per letter, preferring real assets")
	rootCmd.Flags().BoolVar(&jsonOut, "json", false, "print descriptors and stats as JSON")
	rootCmd.Flags().UintVarP(&width, "width", "w", 0, "report width (set to 0 to auto-detect)")

	// Config bindings
	_ = viper.BindPFlag("style", rootCmd.Flags().Lookup("style"))
	_ = viper.BindPFlag("city", rootCmd.PersistentFlags().Lookup("city"))
	_ = viper.BindPFlag("case", rootCmd.Flags().Lookup("case"))
	_ = viper.BindPFlag("base", rootCmd.PersistentFlags().Lookup("base"))
	_ = viper.BindPFlag("variants", rootCmd.Flags().Lookup("variants"))
	_ = viper.BindPFlag("local", rootCmd.PersistentFlags().Lookup("local"))
	_ = viper.BindPFlag("randomStyle", rootCmd.Flags().Lookup("random-style"))
	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))

	viper.SetDefault("style", "sans")
	viper.SetDefault("city", "NYC")
	viper.SetDefault("case", "none")
	viper.SetDefault("variants", 3)
	viper.SetDefault("serve.port", 8070)
	viper.SetDefault("serve.cache_mb", 16)
	viper.SetDefault("warm.workers", 4)

	rootCmd.AddCommand(configCmd, manCmd, stylesCmd, checkCmd, warmCmd, serveCmd)
}

func tryLoadConfigFromDefaultPlaces() {
	scope := gap.NewScope(gap.User, "letterpress")
	dirs, err := scope.ConfigDirs()
	if err != nil {
		fmt.Println("Could not find a configuration directory.")
		os.Exit(1)
	}

	if c := os.Getenv("XDG_CONFIG_HOME"); c != "" {
		dirs = append([]string{filepath.Join(c, "letterpress")}, dirs...)
	}

	if c := os.Getenv("LETTERPRESS_CONFIG_HOME"); c != "" {
		dirs = append([]string{c}, dirs...)
	}

	for _, v := range dirs {
		viper.AddConfigPath(v)
	}

	viper.SetConfigName("letterpress")
	viper.SetConfigType("yaml")
	viper.SetEnvPrefix("letterpress")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Warn("Could not parse configuration file", "err", err)
		}
	}

	if used := viper.ConfigFileUsed(); used != "" {
		log.Debug("Using configuration file", "path", viper.ConfigFileUsed())
		return
	}

	if viper.ConfigFileUsed() == "" {
		configFile = filepath.Join(dirs[0], "letterpress.yml")
	}
	if err := ensureConfigFile(); err != nil {
		log.Error("Could not create default configuration", "error", err)
	}
}
