package parser

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Input is a source text to parse.
type Input struct {
	Text     string
	FileName string
}

// ParseAll parses several independent inputs concurrently, using one parser
// per input. The trees are returned in the order of the inputs. If the context
// is cancelled, ParseAll returns the context's error and the trees completed
// so far.
//
// Observers are not available for batch parsing.
func ParseAll(ctx context.Context, lang *LanguageData, mode ParseMode, inputs ...Input) ([]*ParseTree, error) {
	trees := make([]*ParseTree, len(inputs))
	group, gctx := errgroup.WithContext(ctx)
	for i, input := range inputs {
		i, input := i, input
		group.Go(func() error {
			p := NewParser(lang)
			p.Mode = mode
			tree, err := p.Parse(gctx, input.Text, input.FileName)
			trees[i] = tree
			return err
		})
	}
	err := group.Wait()
	return trees, err
}
