package httpapi

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"gradeassist/pkg/types"
)

// Comparer is the answer-similarity surface.
type Comparer interface {
	Compare(ctx context.Context, req types.ComparisonRequest) (types.ComparisonResponse, error)
	Ingest(ctx context.Context, docs []types.Document) (int, error)
}

// SimilarityRoutes mounts POST /compare-answers and POST /documents.
func SimilarityRoutes(c Comparer) Mount {
	return func(r chi.Router) {
		r.Post("/compare-answers", compareHandler(c))
		r.Post("/documents", documentsHandler(c))
	}
}

// compareHandler godoc
// @Summary      Compare a student answer with the instructor and RAG answers
// @Tags         similarity
// @Accept       json
// @Produce      json
// @Param        request  body      types.ComparisonRequest  true  "Answers"
// @Success      200      {object}  types.ComparisonResponse
// @Failure      400      {object}  types.ErrorResponse
// @Failure      500      {object}  types.ErrorResponse
// @Router       /compare-answers [post]
func compareHandler(c Comparer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.ComparisonRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		serve(w, r, "compare_answers", http.StatusOK, func(ctx context.Context) (any, error) {
			return c.Compare(ctx, req)
		})
	}
}

// documentsHandler godoc
// @Summary      Index reference documents for retrieval
// @Tags         similarity
// @Accept       json
// @Produce      json
// @Param        request  body      types.DocumentsRequest  true  "Documents"
// @Success      200      {object}  types.DocumentsResponse
// @Failure      503      {object}  types.ErrorResponse
// @Router       /documents [post]
func documentsHandler(c Comparer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.DocumentsRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		serve(w, r, "ingest_documents", http.StatusOK, func(ctx context.Context) (any, error) {
			n, err := c.Ingest(ctx, req.Documents)
			if err != nil {
				return nil, err
			}
			return types.DocumentsResponse{Stored: n}, nil
		})
	}
}
