// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the refine-engine CLI.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/refine-engine/internal/logger"
	"github.com/pdiddy/refine-engine/internal/secrets"
	"github.com/pdiddy/refine-engine/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

const (
	configName = "refine-engine"
	envPrefix  = "REFINE_ENGINE"
	envFile    = ".env"
)

// app carries the state shared by subcommands for one invocation.
type app struct {
	fs      afero.Fs
	v       *viper.Viper
	cfg     types.RefineConfig
	secrets map[string]string
	log     *zap.Logger
}

// newRootCmd builds the command tree. fsys backs input discovery, output
// files and extraction.
func newRootCmd(fsys afero.Fs) *cobra.Command {
	a := &app{fs: fsys, v: viper.New(), log: zap.NewNop()}

	root := &cobra.Command{
		Use:   "refine-engine",
		Short: "Turn loose project briefs into a structured refined prompt",
		Long: `refine-engine ingests plain text, PDF, DOCX and image files plus inline
text, extracts their text, and applies rule-based heuristics to produce a
structured record: intent, requirements, constraints, deliverables,
assumptions, ambiguities, open questions and a confidence score.

Configuration is read from ./refine-engine.yaml or
~/.config/refine-engine/refine-engine.yaml and REFINE_ENGINE_* variables
(e.g. REFINE_ENGINE_EXTRACTION_OCR_BACKEND=tesseract).`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.log.Sync()
		},
	}

	pf := root.PersistentFlags()
	pf.String("config", "", "config file (default: ./refine-engine.yaml or ~/.config/refine-engine/refine-engine.yaml)")
	pf.String("log-level", "", "log level: debug, info, warn, error (default warn)")
	pf.String("log-mode", "", "log encoding: dev or prod (default dev)")
	_ = a.v.BindPFlag("log.level", pf.Lookup("log-level"))
	_ = a.v.BindPFlag("log.mode", pf.Lookup("log-mode"))

	root.AddCommand(
		newRefineCmd(a),
		newExtractCmd(a),
		newValidateCmd(a),
		newVersionCmd(),
	)
	return root
}

// setup loads configuration, secrets and the logger.
func (a *app) setup(cmd *cobra.Command) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	if err := a.loadConfig(cfgFile); err != nil {
		return err
	}

	l, err := logger.New(a.cfg.Log.Mode, a.cfg.Log.Level)
	if err != nil {
		return err
	}
	a.log = l
	if used := a.v.ConfigFileUsed(); used != "" {
		a.log.Info("using config file", zap.String("path", used))
	}

	s, err := secrets.Load(a.fs, a.cfg.SecretsDir, envFile, a.log)
	if err != nil {
		return err
	}
	a.secrets = s
	if len(s) > 0 {
		keys := make([]string, 0, len(s))
		for k := range s {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		a.log.Info("loaded secrets", zap.Strings("keys", keys))
	}
	if a.cfg.Extraction.OCR.Credentials == "" {
		a.cfg.Extraction.OCR.Credentials = s[secrets.KeyGCPCredentials]
	}
	return nil
}

func (a *app) loadConfig(cfgFile string) error {
	v := a.v
	v.SetFs(a.fs)
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(configName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", configName))
		}
	}

	setDefaults(v, types.DefaultRefineConfig())
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("reading config: %w", err)
		}
	}

	cfg := types.DefaultRefineConfig()
	if err := v.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("decoding config: %w", err)
	}
	a.cfg = cfg
	return nil
}

// setDefaults registers every key so AutomaticEnv can override it.
func setDefaults(v *viper.Viper, d types.RefineConfig) {
	v.SetDefault("extraction.pdf_backend", string(d.Extraction.PDFBackend))
	v.SetDefault("extraction.docx_backend", string(d.Extraction.DOCXBackend))
	v.SetDefault("extraction.markitdown_image", d.Extraction.MarkitdownImage)
	v.SetDefault("extraction.cache_size", d.Extraction.CacheSize)
	v.SetDefault("extraction.ocr.backend", string(d.Extraction.OCR.Backend))
	v.SetDefault("extraction.ocr.tesseract_image", d.Extraction.OCR.TesseractImage)
	v.SetDefault("extraction.ocr.credentials", d.Extraction.OCR.Credentials)
	v.SetDefault("log.mode", d.Log.Mode)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("secrets_dir", d.SecretsDir)
}

func main() {
	if err := newRootCmd(afero.NewOsFs()).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
