package main

import (
	"context"
	"fmt"
	"os"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/koreader/crengine-sub001/atrule"
	"github.com/koreader/crengine-sub001/cssdoc"
	"github.com/koreader/crengine-sub001/domid"
	"github.com/koreader/crengine-sub001/state"
	"github.com/koreader/crengine-sub001/stylesheet"
)

func runParse(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)
	if cmd.Args().Len() == 0 {
		return fmt.Errorf("missing CSSFILE argument")
	}
	fname := cmd.Args().Get(0)
	data, err := os.ReadFile(fname)
	if err != nil {
		return fmt.Errorf("unable to read '%s': %w", fname, err)
	}

	interner := domid.NewMapInterner()
	store := stylesheet.NewStore(env.Log)
	compiler := cssdoc.NewCompiler(env.Log, interner, cssdoc.Options{
		DocFormat: cmd.String("format"),
		Viewport: atrule.Viewport{
			WidthPx:   float64(cmd.Int("viewport-width")),
			HeightPx:  float64(cmd.Int("viewport-height")),
			RenderDPI: env.Cfg.RenderDPI,
		},
	})
	compiler.Compile(data, store)

	env.Log.Info("Compiled stylesheet", zap.String("file", fname), zap.Int("selectors", store.Len()))
	if warnings := compiler.Warnings(); warnings != nil {
		env.Log.Warn("Dropped malformed selectors while parsing", zap.Error(warnings))
	}
	fmt.Print(store.DumpBuckets(interner))
	return nil
}
