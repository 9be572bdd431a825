package generate

import (
	"context"
	"errors"
	"fmt"
	"io"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"
	yaml "gopkg.in/yaml.v3"

	"mixgen/catalog"
	"mixgen/config"
	"mixgen/emit"
	"mixgen/state"
)

type mixinDump struct {
	Name   string   `yaml:"name"`
	File   string   `yaml:"file"`
	Line   int      `yaml:"line"`
	Params []string `yaml:"params,omitempty"`
}

type catalogDump struct {
	Simple        []mixinDump         `yaml:"simple"`
	Parameterized []mixinDump         `yaml:"parameterized"`
	Files         []string            `yaml:"files"`
	Collisions    []catalog.Collision `yaml:"collisions,omitempty"`
}

// DumpCatalog returns YAML representation of the catalog, in the same order
// generated dispatcher tests names.
func DumpCatalog(cat *catalog.Catalog) ([]byte, error) {
	dump := func(names []string) []mixinDump {
		res := make([]mixinDump, 0, len(names))
		for _, name := range names {
			_, o, _ := cat.Lookup(name)
			res = append(res, mixinDump{Name: name, File: o.File, Line: o.Line, Params: o.Params})
		}
		return res
	}
	data, err := yaml.Marshal(catalogDump{
		Simple:        dump(cat.Simple.Items()),
		Parameterized: dump(cat.Parameterized.Items()),
		Files:         cat.Files.Items(),
		Collisions:    cat.Collisions(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal catalog to yaml: %w", err)
	}
	return data, nil
}

// List is the "list" command, it outputs catalog without generating anything.
func List(ctx context.Context, cmd *cli.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Logger().Named("list")

	root, err := rootFromArgs(cmd, env.Cfg, log)
	if err != nil {
		return err
	}
	// catalog goes to STDOUT
	config.ConsoleToStderr()
	return list(ctx, env, root, cmd.Bool("tree"), cmd.Root().Writer, log)
}

func list(ctx context.Context, env *state.LocalEnv, root string, tree bool, stdout io.Writer, log *zap.Logger) error {
	cat, err := catalog.NewScanner(OptionsFromConfig(env.Cfg).Scan, log).Scan(ctx, root)
	if err != nil {
		return err
	}

	var data []byte
	if tree {
		data = []byte(cat.Tree())
	} else if data, err = DumpCatalog(cat); err != nil {
		return err
	}
	env.Rpt.StoreData("catalog.txt", []byte(cat.Tree()))

	if _, err := stdout.Write(data); err != nil {
		return fmt.Errorf("unable to write catalog: %w", err)
	}
	return nil
}

// Explain is the "explain" command, it shows what generated dispatcher would
// do with each of supplied tokens.
func Explain(ctx context.Context, cmd *cli.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Logger().Named("explain")

	if cmd.Args().Len() == 0 {
		return errors.New("no tokens to explain have been specified")
	}
	_, err := explain(ctx, env, env.Cfg.Generator.Root, cmd.Args().Slice(), log)
	return err
}

func explain(ctx context.Context, env *state.LocalEnv, root string, tokens []string, log *zap.Logger) ([]emit.Resolution, error) {
	cat, err := catalog.NewScanner(OptionsFromConfig(env.Cfg).Scan, log).Scan(ctx, root)
	if err != nil {
		return nil, err
	}

	res := make([]emit.Resolution, 0, len(tokens))
	for _, raw := range tokens {
		r := emit.Resolve(cat, raw)
		res = append(res, r)
		if !r.Matched {
			log.Warn(r.Warning, zap.String("token", r.Raw))
			continue
		}
		fields := []zap.Field{zap.String("token", r.Raw), zap.String("mixin", r.Mixin), zap.String("category", r.Category)}
		if len(r.Argument) > 0 {
			fields = append(fields, zap.String("argument", r.Argument))
		}
		if len(r.Scope) > 0 {
			fields = append(fields, zap.String("scope", r.Scope))
		}
		log.Info("Token dispatched", fields...)
	}
	if data, err := yaml.Marshal(res); err == nil {
		env.Rpt.StoreData("explain.yaml", data)
	}
	return res, nil
}
