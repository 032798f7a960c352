package main

import (
	"os"
	"runtime"

	"github.com/spf13/cobra"
)

func init() {
	// GLFW and the OpenGL context must stay on the main thread.
	runtime.LockOSThread()
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var flags runFlags
	root := &cobra.Command{
		Use:          "framework",
		Short:        "Class framework scene: a lit central model, an orbiting sphere field and a textured ground",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(flags.configPath)
			if err != nil {
				return err
			}
			if err := flags.apply(cmd, cfg); err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}
	flags.register(root)
	root.AddCommand(newConfigCommand())
	return root
}
