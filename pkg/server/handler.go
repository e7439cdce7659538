package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/lucentlab/lucent/pkg/model"
	"github.com/lucentlab/lucent/pkg/usecase/intake"
	"github.com/lucentlab/lucent/pkg/usecase/product"
	"github.com/lucentlab/lucent/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

// SessionHeader carries the client-supplied session key. Requests without it
// share one fallback session.
const SessionHeader = "X-Session-ID"

// Handler serves the intake API
type Handler struct {
	intake   *intake.UseCase
	products *product.UseCase
}

type generateRequest struct {
	UserInput string          `json:"userInput"`
	ProductID model.ProductID `json:"productId"`
}

type questionBody struct {
	Text string `json:"text"`
	Type string `json:"type"`
}

type partBody struct {
	Text string `json:"text"`
}

type turnBody struct {
	Role  string     `json:"role"`
	Parts []partBody `json:"parts"`
}

type generateResponse struct {
	Question            questionBody    `json:"question"`
	Feedback            string          `json:"feedback"`
	TransparencyScore   int             `json:"transparencyScore"`
	ProductID           model.ProductID `json:"productId"`
	ConversationHistory []turnBody      `json:"conversationHistory"`
}

func (h *Handler) GenerateQuestion(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, goerr.Wrap(err, "invalid request body", goerr.T(model.TagInvalidRequest)))
		return
	}

	out, err := h.intake.GenerateQuestion(r.Context(), intake.Input{
		SessionKey: r.Header.Get(SessionHeader),
		UserInput:  req.UserInput,
		ProductID:  req.ProductID,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, generateResponse{
		Question:            questionBody{Text: out.Question, Type: "text"},
		Feedback:            out.Feedback,
		TransparencyScore:   out.TransparencyScore,
		ProductID:           out.ProductID,
		ConversationHistory: encodeTurns(out.History),
	})
}

func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if products == nil {
		products = []*model.Product{}
	}
	writeJSON(w, r, http.StatusOK, products)
}

func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id := model.ProductID(chi.URLParam(r, "productID"))
	p, err := h.products.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, p)
}

func (h *Handler) Liveness(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("API is running..."))
}

// encodeTurns renders turns in the wire shape the chat client expects:
// {role, parts:[{text}]}.
func encodeTurns(turns []*model.Turn) []turnBody {
	body := make([]turnBody, len(turns))
	for i, turn := range turns {
		body[i] = turnBody{
			Role:  turn.Role,
			Parts: []partBody{{Text: turn.Text}},
		}
	}
	return body
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.From(r.Context()).Error("failed to encode response", "error", err)
	}
}

// writeError maps the error taxonomy to a status code and passes the
// underlying message through for diagnostics.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case goerr.HasTag(err, model.TagInvalidRequest):
		status = http.StatusBadRequest
	case goerr.HasTag(err, model.TagNotFound):
		status = http.StatusNotFound
	}

	if status == http.StatusInternalServerError {
		logging.From(r.Context()).Error("request failed", "error", err)
	}

	writeJSON(w, r, status, map[string]string{"error": err.Error()})
}
