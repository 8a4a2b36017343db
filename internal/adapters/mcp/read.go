package mcp

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"coscindex/internal/application"
	"coscindex/internal/application/commands"
	"coscindex/internal/domain"
)

// maxFileBytes caps the content returned by read_file
const maxFileBytes = 1 << 20

// RegisterReadTools adds all read-only snapshot tools to the MCP server.
func RegisterReadTools(s *server.MCPServer, sess *Session) {
	s.AddTool(schemesTool(), schemesHandler(sess))
	s.AddTool(resourcesTool(), resourcesHandler(sess))
	s.AddTool(filesTool(), filesHandler(sess))
	s.AddTool(metadataTool(), metadataHandler(sess))
	s.AddTool(compositionTool(), compositionHandler(sess))
	s.AddTool(treeTool(), treeHandler(sess))
	s.AddTool(errorsTool(), errorsHandler(sess))
	s.AddTool(searchTool(), searchHandler(sess))
	s.AddTool(exportTool(), exportHandler(sess))
	s.AddTool(readFileTool(), readFileHandler(sess))
}

const sourceHelp = "Scheme name (e.g. Sample), resource name, resource index, or a comma-separated list of names or indices"

// --- list_schemes ---

func schemesTool() mcp.Tool {
	return mcp.NewTool("list_schemes",
		mcp.WithDescription("List the metadata schemes of the cached snapshot with their resource and file counts."),
	)
}

func schemesHandler(sess *Session) server.ToolHandlerFunc {
	return func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		catalog, err := sess.Catalog(ctx)
		if err != nil {
			return toolError(err)
		}
		schemes, err := commands.NewListSchemesCommand(catalog).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return formatEntities(schemes, formatScheme)
	}
}

// --- list_resources ---

func resourcesTool() mcp.Tool {
	return mcp.NewTool("list_resources",
		mcp.WithDescription("List resources with their snapshot index. With a scheme lists only the resources of that scheme."),
		mcp.WithString("scheme",
			mcp.Description("Scheme name. Omit to list all resources."),
		),
		mcp.WithBoolean("include_empty",
			mcp.Description("Include resources without files (default true)"),
		),
	)
}

func resourcesHandler(sess *Session) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		catalog, err := sess.Catalog(ctx)
		if err != nil {
			return toolError(err)
		}
		scheme := req.GetString("scheme", "")
		includeEmpty := req.GetBool("include_empty", true)

		items, err := commands.NewListResourcesCommand(catalog, scheme, includeEmpty).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return formatEntities(items, formatResource)
	}
}

// --- list_files ---

func filesTool() mcp.Tool {
	return mcp.NewTool("list_files",
		mcp.WithDescription("List the files a source selects, with their snapshot index."),
		mcp.WithString("source",
			mcp.Description(sourceHelp),
			mcp.Required(),
		),
	)
}

func filesHandler(sess *Session) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		src, err := requireSource(req)
		if err != nil {
			return toolError(err)
		}
		catalog, err := sess.Catalog(ctx)
		if err != nil {
			return toolError(err)
		}
		files, err := commands.NewResolveFilesCommand(catalog, src).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return formatEntities(files, formatFile)
	}
}

// --- metadata ---

func metadataTool() mcp.Tool {
	return mcp.NewTool("metadata",
		mcp.WithDescription("Return the metadata table of the files a source selects as tab-separated text. All files must share one scheme."),
		mcp.WithString("source",
			mcp.Description(sourceHelp),
			mcp.Required(),
		),
		mcp.WithBoolean("parse_comments",
			mcp.Description("Split the Comments field of Sample files into columns (default true)"),
		),
	)
}

func metadataHandler(sess *Session) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		src, err := requireSource(req)
		if err != nil {
			return toolError(err)
		}
		catalog, err := sess.Catalog(ctx)
		if err != nil {
			return toolError(err)
		}
		cmd := commands.NewMetadataCommand(catalog, sess.logger, src)
		cmd.ParseComments = req.GetBool("parse_comments", true)
		result, err := cmd.Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		if result.Table == nil {
			return mcp.NewToolResultText(fmt.Sprintf("%s does not contain files.", src)), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("scheme: %s\n%s", result.Scheme, formatTable(result.Table))), nil
	}
}

// --- composition ---

func compositionTool() mcp.Tool {
	return mcp.NewTool("composition",
		mcp.WithDescription("Derive the composition in wt.% and processing temperature of the samples a source selects."),
		mcp.WithString("source",
			mcp.Description(sourceHelp),
			mcp.Required(),
		),
		mcp.WithBoolean("only_actual",
			mcp.Description("Read only the measured Actual wt.% composition"),
		),
		mcp.WithBoolean("target_at",
			mcp.Description("Also read the Target at.% composition, converted to wt.%"),
		),
		mcp.WithBoolean("expand_base",
			mcp.Description("Fill base elements with the remainder to 100 (default true)"),
		),
	)
}

func compositionHandler(sess *Session) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		src, err := requireSource(req)
		if err != nil {
			return toolError(err)
		}
		catalog, err := sess.Catalog(ctx)
		if err != nil {
			return toolError(err)
		}
		cmd := commands.NewCompositionCommand(catalog, domain.DefaultElements(), sess.logger, src)
		cmd.Options.OnlyActual = req.GetBool("only_actual", false)
		cmd.Options.ExpandBase = req.GetBool("expand_base", true)
		if req.GetBool("target_at", false) {
			cmd.Options.Groups = append([]string{domain.GroupTargetAtPercent}, domain.DefaultCompositionGroups...)
		}
		table, err := cmd.Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		if table == nil {
			return mcp.NewToolResultText(fmt.Sprintf("%s does not contain files.", src)), nil
		}
		return mcp.NewToolResultText(formatTable(table)), nil
	}
}

// --- tree ---

func treeTool() mcp.Tool {
	return mcp.NewTool("tree",
		mcp.WithDescription("Display the project hierarchy with resources, schemes and sizes as a tree."),
	)
}

func treeHandler(sess *Session) server.ToolHandlerFunc {
	return func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		snap, err := sess.Snapshot(ctx)
		if err != nil {
			return toolError(err)
		}
		result, err := commands.NewBuildTreeCommand(snap).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		var sb strings.Builder
		renderTree(&sb, result.Root, "")
		for _, p := range result.Problems {
			fmt.Fprintf(&sb, "inconsistent: %s\n", p)
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

func renderTree(sb *strings.Builder, node *domain.TreeNode, prefix string) {
	if node.Kind != domain.NodeRoot {
		switch node.Kind {
		case domain.NodeResource:
			fmt.Fprintf(sb, "%s%s  [%d] %s, %d files, %s\n", prefix, node.Name, node.Index, node.Scheme, node.Files, humanize.Bytes(uint64(node.Size)))
		default:
			fmt.Fprintf(sb, "%s%s/\n", prefix, node.Name)
		}
		prefix += "  "
	}
	for _, child := range node.Children {
		renderTree(sb, child, prefix)
	}
}

// --- errors ---

func errorsTool() mcp.Tool {
	return mcp.NewTool("errors",
		mcp.WithDescription("List the remote calls that failed during the last crawl."),
	)
}

func errorsHandler(sess *Session) server.ToolHandlerFunc {
	return func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		snap, err := sess.Snapshot(ctx)
		if err != nil {
			return toolError(err)
		}
		return formatEntities(snap.Errors, domain.ErrorRecord.String)
	}
}

// --- search ---

func searchTool() mcp.Tool {
	return mcp.NewTool("search",
		mcp.WithDescription("Fuzzy search project, resource and file names. Returns matches with their kind and snapshot index."),
		mcp.WithString("query",
			mcp.Description("Search query"),
			mcp.Required(),
		),
	)
}

func searchHandler(sess *Session) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query := req.GetString("query", "")
		if query == "" {
			return toolError(fmt.Errorf("query is required"))
		}
		snap, err := sess.Snapshot(ctx)
		if err != nil {
			return toolError(err)
		}
		cmd := commands.NewSearchCommand(snap, query)
		cmd.Limit = 50
		results, err := cmd.Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		if len(results) == 0 {
			return mcp.NewToolResultText("No results found."), nil
		}

		var sb strings.Builder
		for _, r := range results {
			fmt.Fprintf(&sb, "%s %d  %s\n", r.Kind, r.Index, r.Path)
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

// --- export ---

func exportTool() mcp.Tool {
	return mcp.NewTool("export",
		mcp.WithDescription("Return the snapshot as JSON, optionally narrowed by a JSONPath expression such as $.resources[*].name"),
		mcp.WithString("expression",
			mcp.Description("JSONPath expression. Omit for the whole snapshot."),
		),
	)
}

func exportHandler(sess *Session) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		snap, err := sess.Snapshot(ctx)
		if err != nil {
			return toolError(err)
		}
		out, err := commands.NewExportCommand(snap, req.GetString("expression", "")).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(out), nil
	}
}

// --- read_file ---

func readFileTool() mcp.Tool {
	return mcp.NewTool("read_file",
		mcp.WithDescription("Read the content of a crawled file by its snapshot index."),
		mcp.WithNumber("index",
			mcp.Description("File index as returned by list_files or search"),
			mcp.Required(),
		),
	)
}

func readFileHandler(sess *Session) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		idx := req.GetInt("index", -1)
		snap, err := sess.Snapshot(ctx)
		if err != nil {
			return toolError(err)
		}
		rc, err := commands.NewFileContentCommand(sess.repo, snap, domain.FileIndex(idx)).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		defer rc.Close()

		content, err := io.ReadAll(io.LimitReader(rc, maxFileBytes+1))
		if err != nil {
			return toolError(fmt.Errorf("reading file: %w", err))
		}
		if len(content) > maxFileBytes {
			return toolError(fmt.Errorf("file is larger than %s", humanize.IBytes(maxFileBytes)))
		}
		return mcp.NewToolResultText(string(content)), nil
	}
}

// --- helpers ---

func toolError(err error) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultError(err.Error()), nil
}

func requireSource(req mcp.CallToolRequest) (domain.Source, error) {
	arg := req.GetString("source", "")
	if err := application.ValidateRequired("source", arg); err != nil {
		return nil, err
	}
	return application.ParseSource(arg), nil
}

func formatEntities[T any](entities []T, format func(T) string) (*mcp.CallToolResult, error) {
	if len(entities) == 0 {
		return mcp.NewToolResultText("No results."), nil
	}
	var sb strings.Builder
	for _, e := range entities {
		sb.WriteString(format(e))
		sb.WriteByte('\n')
	}
	return mcp.NewToolResultText(sb.String()), nil
}

func formatScheme(s commands.SchemeSummary) string {
	return fmt.Sprintf("%s  %d resources, %d files, %s  fields: %s",
		s.Name, s.Resources, s.Files, humanize.Bytes(uint64(s.Size)), strings.Join(s.Fields, ", "))
}

func formatResource(r commands.ResourceItem) string {
	return fmt.Sprintf("%d  %s  %s  %d files", r.Index, r.Path, r.Scheme, len(r.Files))
}

func formatFile(f commands.FileItem) string {
	return fmt.Sprintf("%d  %s  %s", f.Index, f.Path, humanize.Bytes(uint64(f.Size)))
}

var cellEscaper = strings.NewReplacer("\t", "\\t", "\n", "\\n")

// formatTable writes a header line of column labels and one tab-separated
// line per row
func formatTable(t *domain.Table) string {
	var sb strings.Builder
	labels := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		labels[i] = c.Label()
	}
	sb.WriteString(strings.Join(labels, "\t"))
	sb.WriteByte('\n')
	cells := make([]string, len(t.Columns))
	for _, row := range t.Rows {
		for i, c := range t.Columns {
			cells[i] = cellEscaper.Replace(domain.FormatCell(row[c]))
		}
		sb.WriteString(strings.Join(cells, "\t"))
		sb.WriteByte('\n')
	}
	return sb.String()
}
