// Package cli implements the stackdraw command-line interface.
//
// # Commands
//
// The main commands are:
//   - render: Draw a diagram document to SVG, PNG, PDF or JSON
//   - inspect: Browse the entity tree of a diagram
//   - serve: Run the HTTP rendering service
//   - cache: Manage the artifact cache
//   - completion: Generate shell completion scripts
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context, and the same logger receives the
// geometry warnings of the drawing packages.
//
// # Example
//
//	import "github.com/matzehuels/stackdraw/internal/cli"
//
//	func main() {
//	    c := cli.New(os.Stderr, cli.LogInfo)
//	    if err := c.RootCommand().ExecuteContext(ctx); err != nil {
//	        os.Exit(1)
//	    }
//	}
package cli
