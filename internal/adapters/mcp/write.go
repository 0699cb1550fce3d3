package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"mylibrary/internal/application"
	"mylibrary/internal/application/commands"
	"mylibrary/internal/domain"
)

// RegisterWriteTools adds the tools that change the library. exportDir is
// used when export_csv is called without a directory.
func RegisterWriteTools(s *server.MCPServer, state *application.State, exportDir string) {
	s.AddTool(addBookTool(), addBookHandler(state))
	s.AddTool(togglePinTool(), togglePinHandler(state))
	s.AddTool(deleteBookTool(), deleteBookHandler(state))
	s.AddTool(addLocationTool(), addLocationHandler(state))
	s.AddTool(exportTool(), exportHandler(state, exportDir))
	s.AddTool(importTool(), importHandler(state))
}

// --- add_book ---

func addBookTool() mcp.Tool {
	return mcp.NewTool("add_book",
		mcp.WithDescription("Add a book to the library. When only an ISBN is given the title and authors are looked up first."),
		mcp.WithString("title",
			mcp.Description("Book title. Required unless the ISBN lookup finds one."),
		),
		mcp.WithString("isbn",
			mcp.Description("ISBN-10 or ISBN-13"),
		),
		mcp.WithString("authors",
			mcp.Description("Comma-separated author names"),
		),
		mcp.WithString("tags",
			mcp.Description("Comma-separated tag names"),
		),
		mcp.WithNumber("location_id",
			mcp.Description("Location ID from list_locations"),
		),
		mcp.WithString("condition",
			mcp.Description("Physical condition"),
			mcp.Enum("new", "very_good", "good", "acceptable"),
		),
		mcp.WithString("notes",
			mcp.Description("Free-form notes"),
		),
	)
}

func addBookHandler(state *application.State) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		input := commands.BookInput{
			ISBN:       application.NormalizeISBN(req.GetString("isbn", "")),
			Title:      req.GetString("title", ""),
			Authors:    req.GetString("authors", ""),
			Tags:       req.GetString("tags", ""),
			LocationID: int64(req.GetInt("location_id", 0)),
			Condition:  domain.Condition(req.GetString("condition", "")),
			Notes:      req.GetString("notes", ""),
		}

		if input.ISBN != "" && strings.TrimSpace(input.Title) == "" {
			meta, err := commands.NewLookupISBNCommand(state, input.ISBN).Execute(ctx)
			switch {
			case err == nil:
				input.ApplyMetadata(*meta)
			case commands.IsLookupMiss(err):
				return toolError(fmt.Errorf("no book found for ISBN %s, pass a title to add it anyway", input.ISBN))
			default:
				return toolError(err)
			}
		}

		result, err := commands.NewSaveBookCommand(state, 0, input).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		if result.Book == nil {
			return mcp.NewToolResultText(result.Message), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("%s (id %d)", result.Message, result.Book.ID)), nil
	}
}

// --- toggle_pin ---

func togglePinTool() mcp.Tool {
	return mcp.NewTool("toggle_pin",
		mcp.WithDescription("Pin or unpin a book. Pinned books are listed first."),
		mcp.WithNumber("id",
			mcp.Description("Book ID"),
			mcp.Required(),
		),
	)
}

func togglePinHandler(state *application.State) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if _, err := state.Catalog.Refresh(ctx); err != nil {
			return toolError(err)
		}

		result, err := commands.NewTogglePinCommand(state, int64(req.GetInt("id", 0))).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(result.Message), nil
	}
}

// --- delete_book ---

func deleteBookTool() mcp.Tool {
	return mcp.NewTool("delete_book",
		mcp.WithDescription("Permanently remove a book from the library."),
		mcp.WithNumber("id",
			mcp.Description("Book ID"),
			mcp.Required(),
		),
	)
}

func deleteBookHandler(state *application.State) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if _, err := state.Catalog.Refresh(ctx); err != nil {
			return toolError(err)
		}

		result, err := commands.NewDeleteBookCommand(state, int64(req.GetInt("id", 0))).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(result.Message), nil
	}
}

// --- add_location ---

func addLocationTool() mcp.Tool {
	return mcp.NewTool("add_location",
		mcp.WithDescription("Create a shelving location."),
		mcp.WithString("name",
			mcp.Description("Location name, e.g. Living room"),
			mcp.Required(),
		),
		mcp.WithString("description",
			mcp.Description("Optional description"),
		),
	)
}

func addLocationHandler(state *application.State) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		cmd := commands.NewCreateLocationCommand(state, req.GetString("name", ""), req.GetString("description", ""))
		result, err := cmd.Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(fmt.Sprintf("%s (id %d)", result.Message, result.Location.ID)), nil
	}
}

// --- export_csv ---

func exportTool() mcp.Tool {
	return mcp.NewTool("export_csv",
		mcp.WithDescription("Download the whole library as a CSV file on this machine."),
		mcp.WithString("dir",
			mcp.Description("Directory to write into. Defaults to the configured export directory."),
		),
	)
}

func exportHandler(state *application.State, exportDir string) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result, err := commands.NewExportCommand(state, req.GetString("dir", exportDir)).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(result.Message), nil
	}
}

// --- import_csv ---

func importTool() mcp.Tool {
	return mcp.NewTool("import_csv",
		mcp.WithDescription("Bulk-add books from a CSV file on this machine. The header row must name an ISBN column (required) and may name Title and Authors; missing titles are looked up by the server."),
		mcp.WithString("path",
			mcp.Description("Path to a .csv file"),
			mcp.Required(),
		),
	)
}

func importHandler(state *application.State) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result, err := commands.NewImportCommand(state, req.GetString("path", "")).Execute(ctx)
		if err != nil {
			return toolError(err)
		}

		t := result.Tally
		var sb strings.Builder
		fmt.Fprintf(&sb, "Total: %d\nImported: %d\nFailed: %d\n", t.Total, t.Successful, t.Failed)
		if t.HasErrors() {
			sb.WriteString("\nErrors:\n")
			for _, e := range t.Errors {
				sb.WriteString("  " + e + "\n")
			}
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}
