package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"tableflip.dev/curate/pkg/app"
	"tableflip.dev/curate/pkg/gallery"
	"tableflip.dev/curate/pkg/grouping"
	"tableflip.dev/curate/pkg/rows"
	"tableflip.dev/curate/pkg/staged"
)

type toolset struct {
	svc     *app.Service
	mutator app.Mutator
}

// CollectionView is what editing tools return: the staged collection with
// enough context to decide the next edit.
type CollectionView struct {
	Collection gallery.Collection `json:"collection"`
	Active     string             `json:"active"`
	Unplaced   int                `json:"unplaced"`
	Pending    bool               `json:"pending"`
}

// CollectionSummary describes one collection for listings.
type CollectionSummary struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Sections int    `json:"sections"`
	Tokens   int    `json:"tokens"`
	Pending  bool   `json:"pending"`
}

func viewOf(e *app.Editor) CollectionView {
	st := e.State()
	return CollectionView{
		Collection: st.Collection(),
		Active:     st.ActiveSectionID(),
		Unplaced:   len(st.Unplaced()),
		Pending:    e.Payload().Changed(),
	}
}

func registerTools(srv *server.MCPServer, ts *toolset) {
	srv.AddTool(mcp.NewTool(
		"list_collections",
		mcp.WithDescription("List collections with section and token counts."),
	), ts.listCollections)

	srv.AddTool(mcp.NewTool(
		"show_collection",
		mcp.WithDescription("Show the staged layout of a collection, including unsaved edits."),
		collectionArg(),
	), ts.showCollection)

	srv.AddTool(mcp.NewTool(
		"list_unplaced",
		mcp.WithDescription("List owned tokens not yet placed in a collection, grouped by contract."),
		mcp.WithString("collection",
			mcp.Description("Collection to check. Omit to list every owned token."),
		),
		mcp.WithString("query",
			mcp.Description("Case-insensitive filter on contract, token name or id."),
		),
	), ts.listUnplaced)

	srv.AddTool(mcp.NewTool(
		"create_section",
		mcp.WithDescription("Append an empty section and make it active."),
		collectionArg(),
	), ts.createSection)

	srv.AddTool(mcp.NewTool(
		"delete_section",
		mcp.WithDescription("Delete a section. Its tokens return to the unplaced pool."),
		collectionArg(),
		sectionArg(),
	), ts.deleteSection)

	srv.AddTool(mcp.NewTool(
		"set_columns",
		mcp.WithDescription("Set a section's column count. Values are clamped to the allowed range."),
		collectionArg(),
		sectionArg(),
		mcp.WithNumber("columns",
			mcp.Required(),
			mcp.Description("Column count."),
		),
	), ts.setColumns)

	srv.AddTool(mcp.NewTool(
		"set_title",
		mcp.WithDescription("Set a section's title."),
		collectionArg(),
		sectionArg(),
		mcp.WithString("title",
			mcp.Description("New title. Empty clears it."),
		),
	), ts.setTitle)

	srv.AddTool(mcp.NewTool(
		"place_token",
		mcp.WithDescription("Place a token in a section, moving it if it is already placed."),
		collectionArg(),
		mcp.WithString("token",
			mcp.Required(),
			mcp.Description("Token identifier."),
		),
		mcp.WithString("section",
			mcp.Description("Target section. Defaults to the active section."),
		),
		mcp.WithNumber("index",
			mcp.Description("Slot index. Defaults to the end of the section."),
		),
	), ts.placeToken)

	srv.AddTool(mcp.NewTool(
		"remove_token",
		mcp.WithDescription("Take a token out of the collection."),
		collectionArg(),
		mcp.WithString("token",
			mcp.Required(),
			mcp.Description("Token identifier."),
		),
	), ts.removeToken)

	srv.AddTool(mcp.NewTool(
		"insert_whitespace",
		mcp.WithDescription("Insert an empty slot into a section."),
		collectionArg(),
		sectionArg(),
		mcp.WithNumber("index",
			mcp.Description("Slot index. Defaults to the end of the section."),
		),
	), ts.insertWhitespace)

	srv.AddTool(mcp.NewTool(
		"diff_collection",
		mcp.WithDescription("Show the save payload for a collection's unsaved edits."),
		collectionArg(),
	), ts.diffCollection)

	srv.AddTool(mcp.NewTool(
		"save_collection",
		mcp.WithDescription("Save a collection's staged edits."),
		collectionArg(),
	), ts.saveCollection)

	srv.AddTool(mcp.NewTool(
		"discard_draft",
		mcp.WithDescription("Drop a collection's unsaved edits."),
		collectionArg(),
	), ts.discardDraft)
}

func collectionArg() mcp.ToolOption {
	return mcp.WithString("collection",
		mcp.Required(),
		mcp.Description("Collection identifier."),
	)
}

func sectionArg() mcp.ToolOption {
	return mcp.WithString("section",
		mcp.Required(),
		mcp.Description("Section identifier."),
	)
}

// edit applies op to a collection's draft. Edits that change nothing are
// reported as tool errors so the caller notices bad references.
func (ts *toolset) edit(ctx context.Context, collection string, op func(*staged.State) (*staged.State, error)) (*mcp.CallToolResult, error) {
	changed := false
	e, err := ts.svc.Edit(ctx, collection, func(s *staged.State) (*staged.State, error) {
		next, err := op(s)
		changed = next != nil && next != s
		return next, err
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if !changed {
		return mcp.NewToolResultError("nothing changed; check the section and token identifiers"), nil
	}
	return toJSONResult(viewOf(e))
}

func (ts *toolset) listCollections(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ids, err := ts.svc.Collections(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	summaries := make([]CollectionSummary, 0, len(ids))
	for _, id := range ids {
		e, err := ts.svc.Open(ctx, id)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		st := e.State()
		tokens := 0
		for _, sec := range st.Sections() {
			tokens += len(sec.TokenIDs())
		}
		summaries = append(summaries, CollectionSummary{
			ID:       id,
			Name:     st.Collection().DisplayName(),
			Sections: st.Len(),
			Tokens:   tokens,
			Pending:  e.Payload().Changed(),
		})
	}
	return toJSONResult(map[string]any{
		"collections": summaries,
		"count":       len(summaries),
	})
}

func (ts *toolset) showCollection(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("collection")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	e, err := ts.svc.Open(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return toJSONResult(viewOf(e))
}

func (ts *toolset) listUnplaced(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	collection := request.GetString("collection", "")
	query := request.GetString("query", "")
	groups, _, err := ts.svc.Sidebar(ctx, collection, rows.NewCollapsedSet(), query)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return toJSONResult(map[string]any{
		"groups": groups,
		"count":  grouping.Count(groups),
	})
}

func (ts *toolset) createSection(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("collection")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return ts.edit(ctx, id, func(s *staged.State) (*staged.State, error) {
		next, _ := s.CreateSection()
		return next, nil
	})
}

func (ts *toolset) deleteSection(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args struct {
		Collection string `json:"collection"`
		Section    string `json:"section"`
	}
	if err := request.BindArguments(&args); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
	}
	return ts.edit(ctx, args.Collection, func(s *staged.State) (*staged.State, error) {
		next, err := s.DeleteSection(args.Section)
		if errors.Is(err, staged.ErrLastSection) {
			return s, fmt.Errorf("section %q is the last one and cannot be deleted", args.Section)
		}
		return next, err
	})
}

func (ts *toolset) setColumns(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args struct {
		Collection string `json:"collection"`
		Section    string `json:"section"`
		Columns    int    `json:"columns"`
	}
	if err := request.BindArguments(&args); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
	}
	return ts.edit(ctx, args.Collection, func(s *staged.State) (*staged.State, error) {
		return s.SetColumns(args.Section, args.Columns), nil
	})
}

func (ts *toolset) setTitle(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args struct {
		Collection string `json:"collection"`
		Section    string `json:"section"`
		Title      string `json:"title"`
	}
	if err := request.BindArguments(&args); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
	}
	return ts.edit(ctx, args.Collection, func(s *staged.State) (*staged.State, error) {
		return s.SetTitle(args.Section, args.Title), nil
	})
}

func (ts *toolset) placeToken(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args struct {
		Collection string `json:"collection"`
		Token      string `json:"token"`
		Section    string `json:"section"`
		Index      *int   `json:"index"`
	}
	if err := request.BindArguments(&args); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
	}
	index := staged.Append
	if args.Index != nil {
		index = *args.Index
	}
	return ts.edit(ctx, args.Collection, func(s *staged.State) (*staged.State, error) {
		section := args.Section
		if section == "" {
			section = s.ActiveSectionID()
		}
		return s.MoveToken(args.Token, section, index), nil
	})
}

func (ts *toolset) removeToken(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args struct {
		Collection string `json:"collection"`
		Token      string `json:"token"`
	}
	if err := request.BindArguments(&args); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
	}
	return ts.edit(ctx, args.Collection, func(s *staged.State) (*staged.State, error) {
		return s.RemoveToken(args.Token), nil
	})
}

func (ts *toolset) insertWhitespace(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args struct {
		Collection string `json:"collection"`
		Section    string `json:"section"`
		Index      *int   `json:"index"`
	}
	if err := request.BindArguments(&args); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
	}
	index := staged.Append
	if args.Index != nil {
		index = *args.Index
	}
	return ts.edit(ctx, args.Collection, func(s *staged.State) (*staged.State, error) {
		return s.InsertWhitespace(args.Section, index), nil
	})
}

func (ts *toolset) diffCollection(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("collection")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	e, err := ts.svc.Open(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return toJSONResult(e.Payload())
}

func (ts *toolset) saveCollection(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("collection")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	e, err := ts.svc.Open(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	p, err := ts.svc.Save(ctx, e, ts.mutator)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("save failed, edits are kept: %v", err)), nil
	}
	return toJSONResult(map[string]any{
		"payload": p,
		"counts":  p.Counts(),
	})
}

func (ts *toolset) discardDraft(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("collection")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := ts.svc.Discard(ctx, id); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return showAfterDiscard(ctx, ts, id)
}

func showAfterDiscard(ctx context.Context, ts *toolset, id string) (*mcp.CallToolResult, error) {
	e, err := ts.svc.Open(ctx, id)
	if err != nil {
		// A collection that only ever existed as a draft is gone.
		if errors.Is(err, app.ErrNoCollection) {
			return toJSONResult(map[string]any{"discarded": id})
		}
		return mcp.NewToolResultError(err.Error()), nil
	}
	return toJSONResult(viewOf(e))
}

func toJSONResult(data any) (*mcp.CallToolResult, error) {
	result, err := mcp.NewToolResultJSON(data)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("marshal error: %v", err)), nil
	}
	return result, nil
}
