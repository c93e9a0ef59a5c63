package api

import (
	"fmt"
	"strings"

	"github.com/hazyhaar/sjisgate/pkg/kit"
	"github.com/hazyhaar/sjisgate/pkg/sjis"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// RegisterMCPTools registers the three validation MCP tools on the server.
func RegisterMCPTools(srv *server.MCPServer, v *sjis.Validator) {
	registerValidateText(srv, v)
	registerValidateBatch(srv, v)
	registerListTables(srv)
}

func registerValidateText(srv *server.MCPServer, v *sjis.Validator) {
	tool := mcp.NewTool("validate_text",
		mcp.WithDescription("Normalize dash/tilde variants in a text, then check it against the Shift_JIS permission tables and the symbol denylist."),
		mcp.WithString("text", mcp.Required(), mcp.Description("The text to validate")),
		mcp.WithString("mode", mcp.Description("Permitted-sign mode: none, bars_dots or all (default none)")),
		mcp.WithString("variant", mcp.Description("Table variant: symbols or kanji (default kanji)")),
	)

	kit.RegisterMCPTool(srv, tool, validateEndpoint(v), func(req mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		args := req.GetArguments()
		text, _ := args["text"].(string)
		mode, tables, err := decodeSelectors(args)
		if err != nil {
			return nil, err
		}
		return &kit.MCPDecodeResult{Request: &validateReq{Text: text, Mode: mode, Tables: tables}}, nil
	})
}

func registerValidateBatch(srv *server.MCPServer, v *sjis.Validator) {
	tool := mcp.NewTool("validate_batch",
		mcp.WithDescription("Validate multiple texts (up to 100) against the Shift_JIS permission tables."),
		mcp.WithString("texts", mcp.Required(), mcp.Description("Newline-separated list of texts to validate")),
		mcp.WithString("mode", mcp.Description("Permitted-sign mode: none, bars_dots or all")),
		mcp.WithString("variant", mcp.Description("Table variant: symbols or kanji")),
	)

	kit.RegisterMCPTool(srv, tool, validateBatchEndpoint(v), func(req mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		args := req.GetArguments()
		textsStr, _ := args["texts"].(string)
		texts := strings.Split(textsStr, "\n")
		mode, tables, err := decodeSelectors(args)
		if err != nil {
			return nil, err
		}
		return &kit.MCPDecodeResult{Request: &validateBatchReq{Texts: texts, Mode: mode, Tables: tables}}, nil
	})
}

func registerListTables(srv *server.MCPServer) {
	tool := mcp.NewTool("list_tables",
		mcp.WithDescription("List both classification table variants with their permitted byte-pair ranges."),
	)

	kit.RegisterMCPTool(srv, tool, listTablesEndpoint(), func(_ mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		return &kit.MCPDecodeResult{Request: nil}, nil
	})
}

func decodeSelectors(args map[string]any) (sjis.Mode, sjis.Tables, error) {
	modeName, _ := args["mode"].(string)
	mode, err := sjis.ParseMode(modeName)
	if err != nil {
		return 0, sjis.Tables{}, err
	}
	variantName, _ := args["variant"].(string)
	if variantName == "" {
		variantName = sjis.KanjiTables.Name
	}
	tables, ok := sjis.TablesByName(variantName)
	if !ok {
		return 0, sjis.Tables{}, fmt.Errorf("unknown variant %q", variantName)
	}
	return mode, tables, nil
}
