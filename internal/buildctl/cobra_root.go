package buildctl

import (
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"fastllm-build/internal/metrics"
)

// buildRootCmdWith constructs the command tree. Flags write straight into cfg.
func buildRootCmdWith(cfg *Config, stdout, stderr io.Writer) *cobra.Command {
	log := zerolog.Nop()

	root := &cobra.Command{
		Use:   "fastllm-build",
		Short: "Collect, plan and compile the fastllm native extension",
		Long: "fastllm-build discovers the C++ sources of a fastllm checkout, drops accelerated (CUDA)\n" +
			"device sources unless --cuda is given, and compiles the pyfastllm extension module.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Usage()
			return errNoCommand
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	pf := root.PersistentFlags()
	pf.BoolVar(&cfg.Build.Accelerated, "cuda", cfg.Build.Accelerated, "Build with CUDA support (defaults FASTLLM_BUILD_CUDA)")
	pf.StringVar(&cfg.Root, "root", cfg.Root, "Project root containing src/ and include/ (defaults FASTLLM_ROOT or .)")
	pf.StringVar(&cfg.ConfigPath, "config", cfg.ConfigPath, "Build manifest (.yaml|.yml|.json|.toml); defaults to fastllm-build.* in the root")
	pf.StringVar(&cfg.LogLvl, "log-level", cfg.LogLvl, "Log level: debug|info|warn|error (defaults FASTLLM_BUILD_LOG_LEVEL or info)")
	pf.StringVar(&cfg.MetricsFile, "metrics-file", cfg.MetricsFile, "Write build metrics in prometheus text format to this file")
	root.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		log = newLogger(stderr, cfg.LogLvl)
	}

	// accounted counts every failed action in the failures metric.
	accounted := func(fn func(cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			err := fn(cmd, args)
			if err != nil {
				metrics.ObserveFailure(failureKind(err))
			}
			return err
		}
	}

	// prepared wraps an action that needs the selected sources and the plan.
	prepared := func(fn func(cmd *cobra.Command, s *session) error) func(*cobra.Command, []string) error {
		return accounted(func(cmd *cobra.Command, args []string) error {
			s, err := prepare(cfg, log)
			if err != nil {
				return err
			}
			return fn(cmd, s)
		})
	}

	var all bool
	sourcesCmd := &cobra.Command{
		Use:     "sources",
		Short:   "List the translation units selected for this backend",
		Example: "  fastllm-build sources --root ~/src/fastllm\n  fastllm-build sources --all",
		Args:    cobra.NoArgs,
		RunE: prepared(func(cmd *cobra.Command, s *session) error {
			printSources(cmd.OutOrStdout(), s, all)
			return nil
		}),
	}
	sourcesCmd.Flags().BoolVar(&all, "all", false, "Also list excluded accelerated sources")

	var output string
	planCmd := &cobra.Command{
		Use:     "plan",
		Short:   "Print the extension and package description",
		Example: "  fastllm-build plan -o json",
		Args:    cobra.NoArgs,
		RunE: prepared(func(cmd *cobra.Command, s *session) error {
			return printPlan(cmd.OutOrStdout(), s, output)
		}),
	}
	planCmd.Flags().StringVarP(&output, "output", "o", "yaml", "Output format: yaml|json|toml")

	opts := BuildOptions{Jobs: envInt("FASTLLM_BUILD_JOBS", 0)}
	buildCmd := &cobra.Command{
		Use:     "build",
		Short:   "Compile the selected sources and link the extension module",
		Example: "  fastllm-build build --out build -j 8\n  fastllm-build build --dry-run",
		Args:    cobra.NoArgs,
		RunE: prepared(func(cmd *cobra.Command, s *session) error {
			_, err := build(cmd.Context(), cmd.OutOrStdout(), s, opts)
			return err
		}),
	}
	buildCmd.Flags().StringVar(&opts.OutDir, "out", "", "Output directory (default <root>/build)")
	buildCmd.Flags().IntVarP(&opts.Jobs, "jobs", "j", opts.Jobs, "Parallel compile jobs (default GOMAXPROCS; FASTLLM_BUILD_JOBS)")
	buildCmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "Print compiler commands without running them")

	entryCmd := &cobra.Command{
		Use:   "entrypoints",
		Short: "Print the console scripts declared by the package",
		Args:  cobra.NoArgs,
		RunE: accounted(func(cmd *cobra.Command, args []string) error {
			s, err := loadManifest(cfg, log)
			if err != nil {
				return err
			}
			return printEntryPoints(cmd.OutOrStdout(), s)
		}),
	}

	root.AddCommand(sourcesCmd, planCmd, buildCmd, entryCmd)

	// completion command
	completionCmd := &cobra.Command{Use: "completion", Short: "Generate the autocompletion script for the specified shell"}
	completionCmd.AddCommand(&cobra.Command{
		Use:   "bash",
		Short: "Bash completion",
		RunE: func(cmd *cobra.Command, args []string) error {
			return root.GenBashCompletion(cmd.OutOrStdout())
		},
	})
	completionCmd.AddCommand(&cobra.Command{
		Use:   "zsh",
		Short: "Zsh completion",
		RunE: func(cmd *cobra.Command, args []string) error {
			return root.GenZshCompletion(cmd.OutOrStdout())
		},
	})
	completionCmd.AddCommand(&cobra.Command{
		Use:   "fish",
		Short: "Fish completion",
		RunE: func(cmd *cobra.Command, args []string) error {
			return root.GenFishCompletion(cmd.OutOrStdout(), true)
		},
	})
	completionCmd.AddCommand(&cobra.Command{
		Use:   "powershell",
		Short: "PowerShell completion",
		RunE: func(cmd *cobra.Command, args []string) error {
			return root.GenPowerShellCompletionWithDesc(cmd.OutOrStdout())
		},
	})
	root.AddCommand(completionCmd)

	return root
}
