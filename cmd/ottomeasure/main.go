// Command ottomeasure converts recipe measurements between metric and
// imperial units and renders recipes, shopping lists and density catalogs.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/hammamikhairi/ottomeasure/internal/display"
)

func main() {
	cmd, ctx := newRootCommand()
	if err := execute(cmd, ctx); err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, display.Error(err))
		}
		os.Exit(1)
	}
}
