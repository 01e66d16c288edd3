package patterns

import (
	"context"

	"github.com/leofalp/toolagent/core/overview"
)

// Pattern is an agent strategy that answers a prompt and reports what it
// did along the way. The final answer is the content of the overview's last
// response.
type Pattern interface {
	Execute(ctx context.Context, prompt string) (*overview.Overview, error)
}
