package api

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hazyhaar/sjisgate/pkg/audit"
	"github.com/hazyhaar/sjisgate/pkg/kit"
	"github.com/hazyhaar/sjisgate/pkg/sjis"
)

// Shared request/response types used by both HTTP and MCP transports.

type validateReq struct {
	Text   string
	Mode   sjis.Mode
	Tables sjis.Tables
}

type validateBatchReq struct {
	Texts  []string
	Mode   sjis.Mode
	Tables sjis.Tables
}

type batchResponse struct {
	Results []*sjis.Report `json:"results"`
}

type tablesResponse struct {
	Tables []sjis.TableInfo `json:"tables"`
}

func validateEndpoint(v *sjis.Validator) kit.Endpoint {
	return func(_ context.Context, request any) (any, error) {
		req := request.(*validateReq)
		return v.Check(req.Text, req.Mode, req.Tables)
	}
}

func validateBatchEndpoint(v *sjis.Validator) kit.Endpoint {
	return func(_ context.Context, request any) (any, error) {
		req := request.(*validateBatchReq)
		if len(req.Texts) == 0 {
			return nil, fmt.Errorf("texts array is empty")
		}
		if len(req.Texts) > 100 {
			return nil, fmt.Errorf("too many texts (max 100, got %d)", len(req.Texts))
		}
		results := make([]*sjis.Report, len(req.Texts))
		for i, text := range req.Texts {
			rep, err := v.Check(text, req.Mode, req.Tables)
			if err != nil {
				return nil, err
			}
			results[i] = rep
		}
		return batchResponse{Results: results}, nil
	}
}

func listTablesEndpoint() kit.Endpoint {
	return func(_ context.Context, _ any) (any, error) {
		return tablesResponse{Tables: sjis.ListTables()}, nil
	}
}

// auditMiddleware journals every verdict that passes through an endpoint.
// Journal failures are logged and swallowed: the verdict always wins.
func auditMiddleware(store *audit.Store, logger *slog.Logger) kit.Middleware {
	return func(next kit.Endpoint) kit.Endpoint {
		return func(ctx context.Context, request any) (any, error) {
			resp, err := next(ctx, request)
			if err != nil {
				return resp, err
			}

			variant, mode := requestTags(request)
			switch r := resp.(type) {
			case *sjis.Report:
				journal(store, logger, r, variant, mode)
			case batchResponse:
				for _, rep := range r.Results {
					journal(store, logger, rep, variant, mode)
				}
			}
			return resp, nil
		}
	}
}

func requestTags(request any) (variant, mode string) {
	switch req := request.(type) {
	case *validateReq:
		return req.Tables.Name, req.Mode.String()
	case *validateBatchReq:
		return req.Tables.Name, req.Mode.String()
	}
	return "", ""
}

func journal(store *audit.Store, logger *slog.Logger, rep *sjis.Report, variant, mode string) {
	err := store.Record(audit.Entry{
		Sample:            rep.Text,
		Variant:           variant,
		Mode:              mode,
		SymbolHit:         rep.SymbolHit,
		EncodingForbidden: rep.EncodingForbidden,
		Forbidden:         rep.Forbidden,
	})
	if err != nil {
		logger.Error("audit journal write failed", "error", err)
	}
}
