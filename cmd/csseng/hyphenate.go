package main

import (
	"context"
	"fmt"

	cli "github.com/urfave/cli/v3"

	"github.com/koreader/crengine-sub001/hyphen"
	"github.com/koreader/crengine-sub001/state"
)

func runHyphenate(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)
	if cmd.Args().Len() == 0 {
		return fmt.Errorf("missing WORD argument(s)")
	}

	engine := hyphen.NewEngine(env.Log, nil, env.Cfg.Hyphenation.ToHyphenConfig())
	dict := cmd.String("dict")
	for _, word := range cmd.Args().Slice() {
		fmt.Println(engine.HyphenateString(word, dict, "-"))
	}
	return nil
}
