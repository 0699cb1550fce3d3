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
	"mylibrary/internal/textclean"
)

// RegisterReadTools adds the read-only library tools to the MCP server.
func RegisterReadTools(s *server.MCPServer, state *application.State) {
	s.AddTool(listBooksTool(), listBooksHandler(state))
	s.AddTool(getBookTool(), getBookHandler(state))
	s.AddTool(lookupISBNTool(), lookupISBNHandler(state))
	s.AddTool(listLocationsTool(), listLocationsHandler(state))
	s.AddTool(statsTool(), statsHandler(state))
}

// --- list_books ---

func listBooksTool() mcp.Tool {
	return mcp.NewTool("list_books",
		mcp.WithDescription("List the books in the library, pinned first. Optionally filter by a search term (title, author or ISBN) and a location."),
		mcp.WithString("search",
			mcp.Description("Case-insensitive text matched against title, authors and ISBN"),
		),
		mcp.WithNumber("location_id",
			mcp.Description("Only books shelved at this location ID"),
		),
	)
}

func listBooksHandler(state *application.State) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if _, err := state.Catalog.Refresh(ctx); err != nil {
			return toolError(err)
		}

		books := state.Catalog.Filter(domain.Filter{
			Search:     req.GetString("search", ""),
			LocationID: int64(req.GetInt("location_id", 0)),
		})
		return formatEntities(books, func(b domain.Book) string {
			return formatBook(state, b)
		})
	}
}

// --- get_book ---

func getBookTool() mcp.Tool {
	return mcp.NewTool("get_book",
		mcp.WithDescription("Show every field of one book."),
		mcp.WithNumber("id",
			mcp.Description("Book ID as returned by list_books"),
			mcp.Required(),
		),
	)
}

func getBookHandler(state *application.State) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id := int64(req.GetInt("id", 0))
		if err := application.ValidateID("id", id); err != nil {
			return toolError(err)
		}
		if _, err := state.Catalog.Refresh(ctx); err != nil {
			return toolError(err)
		}

		b, ok := state.Catalog.Book(id)
		if !ok {
			return toolError(fmt.Errorf("book %d not found", id))
		}
		return mcp.NewToolResultText(formatBookDetails(state, b)), nil
	}
}

// --- lookup_isbn ---

func lookupISBNTool() mcp.Tool {
	return mcp.NewTool("lookup_isbn",
		mcp.WithDescription("Look up title, authors and publication data for an ISBN. Nothing is added to the library."),
		mcp.WithString("isbn",
			mcp.Description("ISBN-10 or ISBN-13, hyphens allowed"),
			mcp.Required(),
		),
	)
}

func lookupISBNHandler(state *application.State) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		meta, err := commands.NewLookupISBNCommand(state, req.GetString("isbn", "")).Execute(ctx)
		if commands.IsLookupMiss(err) {
			return mcp.NewToolResultText(err.Error()), nil
		}
		if err != nil {
			return toolError(err)
		}

		var sb strings.Builder
		fmt.Fprintf(&sb, "ISBN: %s\n", meta.ISBN)
		fmt.Fprintf(&sb, "Title: %s\n", meta.Title)
		fmt.Fprintf(&sb, "Authors: %s\n", strings.Join(meta.Authors, ", "))
		writeOptional(&sb, "Publisher", meta.Publisher)
		if meta.PublishedYear > 0 {
			fmt.Fprintf(&sb, "Published: %d\n", meta.PublishedYear)
		}
		if meta.PageCount > 0 {
			fmt.Fprintf(&sb, "Pages: %d\n", meta.PageCount)
		}
		writeOptional(&sb, "Cover", meta.CoverURL)
		writeOptional(&sb, "Description", textclean.Plain(meta.Description))
		return mcp.NewToolResultText(sb.String()), nil
	}
}

// --- list_locations ---

func listLocationsTool() mcp.Tool {
	return mcp.NewTool("list_locations",
		mcp.WithDescription("List the shelving locations with their IDs and book counts."),
	)
}

func listLocationsHandler(state *application.State) server.ToolHandlerFunc {
	return func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		snap, err := state.Catalog.Refresh(ctx)
		if err != nil {
			return toolError(err)
		}

		counts := make(map[int64]int)
		for _, b := range snap.Books {
			counts[b.LocationID]++
		}
		return formatEntities(snap.Locations, func(l domain.Location) string {
			line := fmt.Sprintf("%d  %s  (%d books)", l.ID, textclean.Line(l.Name), counts[l.ID])
			if l.Description != "" {
				line += "  " + textclean.Line(l.Description)
			}
			return line
		})
	}
}

// --- stats ---

func statsTool() mcp.Tool {
	return mcp.NewTool("stats",
		mcp.WithDescription("Summarise the library: totals, top authors and tags, books per location, recent additions."),
	)
}

func statsHandler(state *application.State) server.ToolHandlerFunc {
	return func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		s, err := commands.NewStatsCommand(state).Execute(ctx)
		if err != nil {
			return toolError(err)
		}

		var sb strings.Builder
		fmt.Fprintf(&sb, "Total books: %d\n", s.TotalBooks)
		fmt.Fprintf(&sb, "Pinned: %d\n", len(s.PinnedBooks))

		sb.WriteString("\nTop authors:\n")
		for _, a := range head(s.BooksByAuthor, 10) {
			fmt.Fprintf(&sb, "  %s  %d\n", a.Author, a.Count)
		}
		sb.WriteString("\nTop tags:\n")
		for _, t := range head(s.BooksByTag, 10) {
			fmt.Fprintf(&sb, "  %s  %d\n", t.Tag, t.Count)
		}
		sb.WriteString("\nBy location:\n")
		for _, l := range s.BooksByLocation {
			fmt.Fprintf(&sb, "  %s  %d\n", l.Location, l.Count)
		}
		sb.WriteString("\nRecently added:\n")
		for _, b := range head(s.RecentAdditions, 5) {
			fmt.Fprintf(&sb, "  %d  %s\n", b.ID, b.Title)
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

// --- helpers ---

// toolError reports err to the client. An expired or missing session gets
// a hint instead of the raw server message.
func toolError(err error) (*mcp.CallToolResult, error) {
	if application.IsAuthError(err) {
		return mcp.NewToolResultError("not logged in: run `mylibrary-cli login` and try again"), nil
	}
	return mcp.NewToolResultError(err.Error()), nil
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

func formatBook(state *application.State, b domain.Book) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d  ", b.ID)
	if b.IsPinned {
		sb.WriteString("* ")
	}
	sb.WriteString(textclean.Line(b.Title))
	if authors := textclean.Join(b.Authors, ", "); authors != "" {
		sb.WriteString(" by " + authors)
	}
	if name := textclean.Line(state.Catalog.LocationName(b.LocationID)); name != "" {
		sb.WriteString("  @ " + name)
	}
	if b.Condition != domain.ConditionNone {
		sb.WriteString("  [" + b.Condition.Label() + "]")
	}
	for _, t := range b.TagNames() {
		if t = textclean.Line(t); t != "" {
			sb.WriteString("  #" + t)
		}
	}
	return sb.String()
}

func formatBookDetails(state *application.State, b domain.Book) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "ID: %d\n", b.ID)
	fmt.Fprintf(&sb, "Title: %s\n", textclean.Line(b.Title))
	fmt.Fprintf(&sb, "Authors: %s\n", textclean.Join(b.Authors, ", "))
	writeOptional(&sb, "ISBN", b.ISBN)
	writeOptional(&sb, "Location", textclean.Line(state.Catalog.LocationName(b.LocationID)))
	if b.Condition != domain.ConditionNone {
		fmt.Fprintf(&sb, "Condition: %s\n", b.Condition.Label())
	}
	writeOptional(&sb, "Tags", textclean.Join(b.TagNames(), ", "))
	fmt.Fprintf(&sb, "Pinned: %t\n", b.IsPinned)
	writeOptional(&sb, "Publisher", textclean.Line(b.Publisher))
	if b.PublishedYear > 0 {
		fmt.Fprintf(&sb, "Published: %d\n", b.PublishedYear)
	}
	if b.PageCount > 0 {
		fmt.Fprintf(&sb, "Pages: %d\n", b.PageCount)
	}
	writeOptional(&sb, "Cover", b.CoverURL)
	writeOptional(&sb, "Description", textclean.Plain(b.Description))
	writeOptional(&sb, "Notes", textclean.Plain(b.Notes))
	if !b.CreatedAt.IsZero() {
		fmt.Fprintf(&sb, "Added: %s\n", b.CreatedAt.Format("2006-01-02"))
	}
	return sb.String()
}

func writeOptional(sb *strings.Builder, label, value string) {
	if strings.TrimSpace(value) != "" {
		fmt.Fprintf(sb, "%s: %s\n", label, value)
	}
}

func head[T any](rows []T, n int) []T {
	if len(rows) > n {
		return rows[:n]
	}
	return rows
}
