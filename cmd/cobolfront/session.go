package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"cobolfront/internal/copybook"
	"cobolfront/internal/diag"
	"cobolfront/internal/dialect"
	"cobolfront/internal/project"
	"cobolfront/internal/source"
)

// session is everything commands need besides the program files: project
// settings with flag overrides applied, a copybook provider and the dialect
// service.
type session struct {
	project  *project.Project
	provider *copybook.FolderProvider
	dialects *dialect.Service
	enabled  []string
	config   copybook.Config

	// problems with the setup itself, reported once per run
	setup *diag.Bag
}

func addSessionFlags(cmd *cobra.Command) {
	cmd.Flags().StringSlice("copybooks", nil, "extra copybook folders, searched before the configured ones")
	cmd.Flags().StringSlice("dialect", nil, "dialects to enable (overrides [dialects].enabled)")
}

// openSession loads cobol.toml for target (a file or directory) and applies
// command-line overrides.
func openSession(cmd *cobra.Command, target string) (*session, error) {
	proj, err := loadProject(cmd, target)
	if err != nil {
		return nil, err
	}
	configURI := source.PathToURI(proj.Path)
	s := &session{
		project: proj,
		config:  proj.Config.CopybookConfig(),
		enabled: proj.Config.Dialects.Enabled,
		setup:   diag.NewBag(100),
	}

	folders := proj.CopybookFolders()
	extra, err := cmd.Flags().GetStringSlice("copybooks")
	if err != nil {
		return nil, fmt.Errorf("failed to get copybooks flag: %w", err)
	}
	if len(extra) > 0 {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		folders = append(resolvePaths(cwd, extra), folders...)
	}
	s.provider = copybook.NewFolderProvider(folders, proj.Config.Copybooks.Extensions)

	if cmd.Flags().Changed("dialect") {
		if s.enabled, err = cmd.Flags().GetStringSlice("dialect"); err != nil {
			return nil, fmt.Errorf("failed to get dialect flag: %w", err)
		}
	}

	s.dialects = dialect.NewService(dialect.LuaDiscovery{}, dialect.Builtins()...)
	if err := s.dialects.Update(proj.RegistryItems()); err != nil {
		s.setup.Add(diag.NewWarning(diag.ProjInvalidConfig, source.Location{URI: configURI}, err.Error()))
	}
	for _, name := range s.enabled {
		if _, ok := s.dialects.Lookup(name); !ok {
			s.setup.Add(diag.NewWarning(diag.DialectUnknown, source.Location{URI: configURI},
				fmt.Sprintf("dialect %q is not registered; its statements are treated as plain COBOL", name)))
		}
	}
	return s, nil
}

func loadProject(cmd *cobra.Command, target string) (*project.Project, error) {
	configPath, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("failed to get config flag: %w", err)
	}
	if configPath != "" {
		abs, err := filepath.Abs(configPath)
		if err != nil {
			return nil, err
		}
		cfg, err := project.LoadConfig(abs)
		if err != nil {
			return nil, err
		}
		return &project.Project{Path: abs, Root: filepath.Dir(abs), Config: cfg}, nil
	}

	start, err := filepath.Abs(target)
	if err != nil {
		return nil, err
	}
	if st, err := os.Stat(start); err == nil && !st.IsDir() {
		start = filepath.Dir(start)
	}
	proj, ok, err := project.Load(start)
	if err != nil {
		return nil, err
	}
	if !ok {
		// без cobol.toml копибуки ищутся рядом с программой
		return &project.Project{Root: start, Config: project.Default()}, nil
	}
	return proj, nil
}

func resolvePaths(base string, paths []string) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if !filepath.IsAbs(p) {
			p = filepath.Join(base, p)
		}
		out = append(out, filepath.Clean(p))
	}
	return out
}
