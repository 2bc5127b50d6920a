package httpapi

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"gradeassist/internal/detect"
	"gradeassist/pkg/types"
)

// Predictor is the BERT classifier surface.
type Predictor interface {
	Predict(ctx context.Context, text string) (types.Prediction, error)
	PredictBatch(ctx context.Context, texts []string) ([]types.Prediction, error)
}

// Detector is the DeBERTa/MGT classifier surface.
type Detector interface {
	Detect(ctx context.Context, text string) (types.DetectionResponse, error)
}

// BERTRoutes mounts POST /predict and POST /predict/batch.
func BERTRoutes(p Predictor) Mount {
	return func(r chi.Router) {
		r.Post("/predict", predictHandler(p))
		r.Post("/predict/batch", predictBatchHandler(p))
	}
}

// predictHandler godoc
// @Summary      Classify text as AI generated or human written
// @Tags         bert
// @Accept       json
// @Produce      json
// @Param        request  body      types.TextRequest  true  "Text"
// @Success      200      {object}  types.Prediction
// @Failure      400      {object}  types.ErrorResponse
// @Failure      415      {object}  types.ErrorResponse
// @Router       /predict [post]
func predictHandler(p Predictor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.TextRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		serve(w, r, "predict", http.StatusOK, func(ctx context.Context) (any, error) {
			return p.Predict(ctx, req.Text)
		})
	}
}

// predictBatchHandler godoc
// @Summary      Classify several texts
// @Tags         bert
// @Accept       json
// @Produce      json
// @Param        request  body      types.BatchTextRequest  true  "Texts"
// @Success      200      {object}  types.BatchPredictionResponse
// @Failure      400      {object}  types.ErrorResponse
// @Router       /predict/batch [post]
func predictBatchHandler(p Predictor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.BatchTextRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		serve(w, r, "predict_batch", http.StatusOK, func(ctx context.Context) (any, error) {
			res, err := p.PredictBatch(ctx, req.Texts)
			if err != nil {
				return nil, err
			}
			return types.BatchPredictionResponse{Results: res}, nil
		})
	}
}

// DetectRoutes mounts POST /detect.
func DetectRoutes(d Detector) Mount {
	return func(r chi.Router) {
		r.Post("/detect", detectHandler(d))
	}
}

// detectHandler godoc
// @Summary      Detect machine-generated text
// @Tags         detect
// @Accept       json
// @Produce      json
// @Param        request  body      types.TextRequest  true  "Text"
// @Success      200      {object}  types.DetectionResponse
// @Failure      400      {object}  types.ErrorResponse
// @Failure      503      {object}  types.ErrorResponse
// @Router       /detect [post]
func detectHandler(d Detector) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.TextRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		serve(w, r, "detect", http.StatusOK, func(ctx context.Context) (any, error) {
			return d.Detect(ctx, req.Text)
		})
	}
}

// FallbackRoutes mounts POST /detect and POST /detect-ai, both answering the fixed human-written verdict.
func FallbackRoutes() Mount {
	return func(r chi.Router) {
		r.Post("/detect", fallbackHandler("/detect"))
		r.Post("/detect-ai", fallbackHandler("/detect-ai"))
	}
}

// fallbackHandler godoc
// @Summary      Fallback detection: always human-written
// @Tags         detect
// @Accept       json
// @Produce      json
// @Param        request  body      types.TextRequest  true  "Text"
// @Success      200      {object}  types.DetectionResponse
// @Router       /detect-ai [post]
func fallbackHandler(route string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.TextRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		IncrementFallback(route)
		serve(w, r, "fallback_detect", http.StatusOK, func(ctx context.Context) (any, error) {
			return detect.Fallback{}.Detect(ctx, req.Text)
		})
	}
}
