// Package cli implements the asciipinyin command-line interface.
package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/text/language"

	"github.com/pmachovec/asciipinyin/internal/i18n"
	"github.com/pmachovec/asciipinyin/internal/paths"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// rootFlags holds global flag values shared by all subcommands.
type rootFlags struct {
	configDir string
	dataDir   string
	jsonMode  bool
	lang      string
	logLevel  string
	logFormat string
}

// app is the state built by the root command before a subcommand runs.
type app struct {
	flags  rootFlags
	config *viper.Viper
	logger *slog.Logger
	tag    language.Tag
}

// NewRootCmd creates the top-level "asciipinyin" command with global flags
// and all subcommands registered.
func NewRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "asciipinyin",
		Short: "Chinese character and variant dictionary",
		Long: "asciipinyin stores Chinese characters, their radicals and their variants,\n" +
			"and refuses every change that would leave a dangling reference.",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	pf.StringVar(&a.flags.dataDir, "data-dir", "", "data directory (default: platform data dir)")
	pf.BoolVar(&a.flags.jsonMode, "json", false, "output in JSON format")
	pf.StringVar(&a.flags.lang, "lang", "", "language of integrity reports (en, cs)")
	pf.StringVar(&a.flags.logLevel, "log-level", "", "log level: debug, info, warn, error (default: warn)")
	pf.StringVar(&a.flags.logFormat, "log-format", "", "log format: text or json (default: text)")

	root.AddCommand(
		newVersionCmd(),
		newInitCmd(a),
		newCharacterCmd(a),
		newVariantCmd(a),
		newCheckCmd(a),
		newSeedCmd(a),
		newHistoryCmd(a),
	)
	return root
}

// setup resolves the configuration directory, loads config.yaml and builds
// the logger and report language. Flags win over config values.
func (a *app) setup(cmd *cobra.Command) error {
	switch cmd.Name() {
	case "version", "help":
		return nil
	}
	configDir, err := paths.ResolveConfigDir(a.flags.configDir)
	if err != nil {
		return sysError(fmt.Errorf("resolve config dir: %w", err))
	}
	cfg, err := loadConfig(configDir)
	if err != nil {
		return sysError(err)
	}
	a.config = cfg

	level := firstNonEmpty(a.flags.logLevel, cfg.GetString(cfgKeyLogLevel))
	format := firstNonEmpty(a.flags.logFormat, cfg.GetString(cfgKeyLogFormat))
	a.logger, err = newLogger(cmd.ErrOrStderr(), level, format)
	if err != nil {
		return userError(err)
	}

	a.tag = i18n.Match(firstNonEmpty(a.flags.lang, cfg.GetString(cfgKeyLang), posixLocale(os.Getenv("LANG"))))
	a.logger.Debug("configuration loaded", "config_dir", configDir, "lang", a.tag.String())
	return nil
}

// Execute runs the root command with os.Args and returns the process exit
// code.
func Execute() int {
	return run(NewRootCmd(), os.Stderr)
}

func run(root *cobra.Command, stderr io.Writer) int {
	err := root.Execute()
	if err == nil {
		return exitSuccess
	}
	if !errors.Is(err, errReported) {
		fmt.Fprintln(stderr, "Error:", err)
	}
	return ExitCode(err)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// posixLocale turns a POSIX locale such as "cs_CZ.UTF-8" into a BCP 47 tag.
func posixLocale(s string) string {
	s, _, _ = strings.Cut(s, ".")
	s, _, _ = strings.Cut(s, "@")
	if s == "C" || s == "POSIX" {
		return ""
	}
	return strings.ReplaceAll(s, "_", "-")
}
