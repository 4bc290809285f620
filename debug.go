package rendertree

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"
)

// LevelCritical is the level of diagnostics reporting misuse of the API:
// edits of frozen nodes, broken parent/child preconditions and the like.
const LevelCritical = slog.LevelError + 4

// nopHandler is a slog.Handler that silently discards all log records.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

// loggerPtr stores the active logger.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newDefaultLogger())
}

// newDefaultLogger writes warnings and critical diagnostics to stderr.
func newDefaultLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.LevelKey {
				if lvl, ok := a.Value.Any().(slog.Level); ok && lvl >= LevelCritical {
					a.Value = slog.StringValue("CRITICAL")
				}
			}
			return a
		},
	})).With("lib", "rendertree")
}

// SetLogger configures the diagnostics logger. By default diagnostics go to
// stderr. Pass nil to silence them.
//
// Log levels used by rendertree:
//   - [LevelCritical]: API misuse; the offending call was a no-op
//   - [slog.LevelWarn]: debug-mode warnings (deep trees, very wide nodes)
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(nopHandler{})
	}
	loggerPtr.Store(l)
}

// Logger returns the current diagnostics logger.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}

// critical reports API misuse for operation op.
func critical(op, msg string, args ...any) {
	l := Logger()
	ctx := context.Background()
	if !l.Enabled(ctx, LevelCritical) {
		return
	}
	l.Log(ctx, LevelCritical, msg, append([]any{"op", op}, args...)...)
}

// --- Debug mode ---

// globalDebug turns on the extra checks run after structural edits. Set it
// with SetDebugMode or Scene.SetDebugMode.
var globalDebug bool

// SetDebugMode enables or disables debug mode. When enabled, every structural
// edit re-verifies the receiver's child list and warns about very deep trees
// and very wide nodes.
func SetDebugMode(enabled bool) {
	globalDebug = enabled
}

// DebugMode reports whether debug mode is enabled.
func DebugMode() bool {
	return globalDebug
}

// debugMaxTreeDepth is the depth above which debugCheckTreeDepth warns.
const debugMaxTreeDepth = 32

func debugCheckTreeDepth(n *Node) {
	depth := 0
	for p := n; p != nil; p = p.parent {
		depth++
	}
	if depth > debugMaxTreeDepth {
		Logger().Warn("tree depth exceeds threshold",
			"node", n, "depth", depth, "threshold", debugMaxTreeDepth)
	}
}

// debugMaxChildCount is the child count above which debugCheckChildCount warns.
const debugMaxChildCount = 1000

func debugCheckChildCount(n *Node) {
	if n.nChildren > debugMaxChildCount {
		Logger().Warn("child count exceeds threshold",
			"node", n, "children", n.nChildren, "threshold", debugMaxChildCount)
	}
}

func debugVerifyLinks(op string, n *Node) {
	if err := n.VerifyLinks(); err != nil {
		critical(op, "sibling chain is inconsistent", "node", n, "err", err)
	}
}

// VerifyLinks checks that n's child list is consistent: every child points
// back at n, prev/next links mirror each other, the endpoints are the first
// and last children, and the count matches the chain length.
func (n *Node) VerifyLinks() error {
	if n == nil {
		return ErrNilNode
	}
	if (n.firstChild == nil) != (n.lastChild == nil) {
		return fmt.Errorf("rendertree: %v: first child %v and last child %v disagree", n, n.firstChild, n.lastChild)
	}
	var prev *Node
	count := 0
	for c := n.firstChild; c != nil; c = c.nextSibling {
		if c.parent != n {
			return fmt.Errorf("rendertree: %v: child %v has parent %v", n, c, c.parent)
		}
		if c.prevSibling != prev {
			return fmt.Errorf("rendertree: %v: child %v has previous sibling %v, want %v", n, c, c.prevSibling, prev)
		}
		count++
		if count > n.nChildren {
			return fmt.Errorf("rendertree: %v: sibling chain is longer than child count %d", n, n.nChildren)
		}
		prev = c
	}
	if prev != n.lastChild {
		return fmt.Errorf("rendertree: %v: chain ends at %v, last child is %v", n, prev, n.lastChild)
	}
	if count != n.nChildren {
		return fmt.Errorf("rendertree: %v: chain has %d children, count is %d", n, count, n.nChildren)
	}
	return nil
}

// Dump writes an indented description of the subtree rooted at n to w.
func (n *Node) Dump(w io.Writer) error {
	if n == nil {
		return ErrNilNode
	}
	type frame struct {
		node  *Node
		depth int
	}
	stack := []frame{{n, 0}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, err := fmt.Fprintf(w, "%s%s\n", strings.Repeat("  ", f.depth), f.node.describe()); err != nil {
			return err
		}
		for c := f.node.lastChild; c != nil; c = c.prevSibling {
			stack = append(stack, frame{c, f.depth + 1})
		}
	}
	return nil
}

func (n *Node) describe() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%v bounds=(%g,%g %gx%g) opacity=%g", n,
		n.bounds.X, n.bounds.Y, n.bounds.Width, n.bounds.Height, n.opacity)
	if n.hidden {
		b.WriteString(" hidden")
	}
	if n.opaque {
		b.WriteString(" opaque")
	}
	if n.transformSet {
		b.WriteString(" transform")
	}
	if n.childTransformSet {
		b.WriteString(" child-transform")
	}
	if !n.isMutable {
		b.WriteString(" frozen")
	}
	if n.surface != nil {
		fmt.Fprintf(&b, " surface=%dx%d", n.surface.Width(), n.surface.Height())
	}
	return b.String()
}
