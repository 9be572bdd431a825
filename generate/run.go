package generate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"mixgen/config"
	"mixgen/state"
)

type mode int

const (
	modeWrite mode = iota
	// print generated source instead of writing it
	modeDryRun
	// fail when generated file is out of date
	modeCheck
)

func (m mode) String() string {
	switch m {
	case modeDryRun:
		return "dry-run"
	case modeCheck:
		return "check"
	default:
		return "write"
	}
}

// Run is the "generate" command and the default program action.
func Run(ctx context.Context, cmd *cli.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Logger().Named("generate")

	if cmd.Bool("dry-run") && cmd.Bool("check") {
		return errors.New("--dry-run and --check cannot be used together")
	}
	m := modeWrite
	switch {
	case cmd.Bool("dry-run"):
		m = modeDryRun
		// generated source goes to STDOUT
		config.ConsoleToStderr()
	case cmd.Bool("check"):
		m = modeCheck
	}

	root, err := rootFromArgs(cmd, env.Cfg, log)
	if err != nil {
		return err
	}

	log.Info("Generation starting", zap.String("root", root), zap.Stringer("mode", m))
	defer func(start time.Time) {
		log.Info("Generation completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	return process(ctx, env, root, m, cmd.Root().Writer, log)
}

// process handles the core generation logic independently of CLI framework.
func process(ctx context.Context, env *state.LocalEnv, root string, m mode, stdout io.Writer, log *zap.Logger) error {
	res, err := Generate(ctx, root, OptionsFromConfig(env.Cfg), log)
	if err != nil {
		return err
	}
	env.Rpt.StoreData("catalog.txt", []byte(res.Catalog.Tree()))
	env.Rpt.StoreData("output/"+env.Cfg.Generator.Output, res.Output)

	if res.Catalog.Empty() {
		log.Warn("No mixin definitions found, dispatcher will only warn", zap.String("root", root))
	}

	dst := env.Cfg.Generator.OutputPath(root)
	switch m {
	case modeDryRun:
		if _, err := stdout.Write(res.Output); err != nil {
			return fmt.Errorf("unable to write generated source: %w", err)
		}
	case modeCheck:
		if err := Compare(dst, res.Output); err != nil {
			return err
		}
		log.Info("Generated file is up to date", zap.String("file", dst))
	default:
		if err := Write(dst, res.Output); err != nil {
			return err
		}
		log.Info("Dispatcher written", zap.String("file", dst), zap.Int("bytes", len(res.Output)))
	}

	log.Info("Mixins cataloged",
		zap.Int("simple", res.Catalog.Simple.Len()),
		zap.Int("parameterized", res.Catalog.Parameterized.Len()),
		zap.Int("files", res.Catalog.Files.Len()),
		zap.Int("collisions", len(res.Catalog.Collisions())))
	return nil
}

// rootFromArgs returns scan root: first command argument when given,
// configured one otherwise.
func rootFromArgs(cmd *cli.Command, cfg *config.Config, log *zap.Logger) (string, error) {
	root := cfg.Generator.Root
	if cmd.Args().Len() > 0 {
		root = cmd.Args().Get(0)
		if cmd.Args().Len() > 1 {
			log.Warn("Malformed command line, too many roots", zap.Strings("ignoring", cmd.Args().Slice()[1:]))
		}
	}
	if len(root) == 0 {
		return "", errors.New("no definitions root has been specified")
	}
	return filepath.Clean(root), nil
}
