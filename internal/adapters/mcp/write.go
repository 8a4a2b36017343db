package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"coscindex/internal/adapters/progress"
	"coscindex/internal/application/commands"
)

// CrawlDefaults are the crawl settings used when a tool call omits them
type CrawlDefaults struct {
	FailHard bool
	Ignore   []string
}

// RegisterWriteTools adds the tools that refresh the snapshot to the MCP server.
func RegisterWriteTools(s *server.MCPServer, sess *Session, defaults CrawlDefaults) {
	s.AddTool(crawlTool(), crawlHandler(sess, defaults))
}

// --- crawl ---

func crawlTool() mcp.Tool {
	return mcp.NewTool("crawl",
		mcp.WithDescription("Crawl the repository again and replace the cached snapshot. Failed remote calls are recorded in the error list."),
		mcp.WithBoolean("fail_hard",
			mcp.Description("Abort on the first failed remote call instead of recording it and continuing"),
		),
		mcp.WithString("ignore",
			mcp.Description("Comma-separated glob patterns of project paths to skip (e.g. /Archive/**)"),
		),
	)
}

func crawlHandler(sess *Session, defaults CrawlDefaults) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		cmd := commands.NewCrawlCommand(sess.repo, sess.store, sess.logger, nil)
		cmd.Ignore = defaults.Ignore
		if ignore := req.GetString("ignore", ""); ignore != "" {
			cmd.Ignore = splitPatterns(ignore)
		}
		if req.GetBool("fail_hard", defaults.FailHard) {
			cmd.Policy = commands.FailHard
		}

		result, err := cmd.Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		if err := sess.Replace(result.Snapshot); err != nil {
			return toolError(err)
		}

		var sb strings.Builder
		sb.WriteString(progress.Summary(result.Stats))
		sb.WriteByte('\n')
		for _, e := range result.Snapshot.Errors {
			fmt.Fprintf(&sb, "  %s\n", e)
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

func splitPatterns(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
