package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/lucentlab/lucent/pkg/model"
	"github.com/lucentlab/lucent/pkg/repository"
	"github.com/lucentlab/lucent/pkg/server"
	"github.com/lucentlab/lucent/pkg/session"
	"github.com/lucentlab/lucent/pkg/usecase/intake"
	"github.com/lucentlab/lucent/pkg/usecase/product"
	"github.com/m-mizutani/gt"
	"google.golang.org/genai"
)

// scriptedGemini returns canned replies in order.
type scriptedGemini struct {
	replies []string
}

func (m *scriptedGemini) GenerateContent(_ context.Context, _ []*genai.Content, _ *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	reply := m.replies[0]
	if len(m.replies) > 1 {
		m.replies = m.replies[1:]
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: genai.NewContentFromText(reply, genai.RoleModel)},
		},
	}, nil
}

func newTestServer(replies ...string) (*httptest.Server, *repository.Memory) {
	repo := repository.NewMemory()
	intakeUC := intake.New(repo, &scriptedGemini{replies: replies}, session.New(time.Minute))
	productUC := product.New(repo)

	router := server.NewRouter(intakeUC, productUC, server.Config{
		AllowedOrigins: []string{"*"},
	})
	return httptest.NewServer(router), repo
}

type generateResponseBody struct {
	Question struct {
		Text string `json:"text"`
		Type string `json:"type"`
	} `json:"question"`
	Feedback            string          `json:"feedback"`
	TransparencyScore   int             `json:"transparencyScore"`
	ProductID           model.ProductID `json:"productId"`
	ConversationHistory []struct {
		Role  string `json:"role"`
		Parts []struct {
			Text string `json:"text"`
		} `json:"parts"`
	} `json:"conversationHistory"`
}

func postGenerate(t *testing.T, ts *httptest.Server, sessionKey string, body map[string]any) *http.Response {
	t.Helper()

	raw, err := json.Marshal(body)
	gt.NoError(t, err)

	req, err := http.NewRequest(http.MethodPost, ts.URL+"/api/generate-question", bytes.NewReader(raw))
	gt.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if sessionKey != "" {
		req.Header.Set(server.SessionHeader, sessionKey)
	}

	resp, err := http.DefaultClient.Do(req)
	gt.NoError(t, err)
	return resp
}

func TestGenerateQuestionFlow(t *testing.T) {
	ts, repo := newTestServer(
		"Question: Where is the cotton grown? Feedback: 4 - Origin is missing.",
		"Question: Is the dye plant certified? Feedback: 6 - Good origin detail.",
	)
	defer ts.Close()

	resp := postGenerate(t, ts, "sess-1", map[string]any{
		"userInput": "An organic cotton t-shirt",
	})
	defer resp.Body.Close()
	gt.Equal(t, resp.StatusCode, http.StatusOK)

	var first generateResponseBody
	gt.NoError(t, json.NewDecoder(resp.Body).Decode(&first))
	gt.Equal(t, first.Question.Text, "Where is the cotton grown?")
	gt.Equal(t, first.Question.Type, "text")
	gt.Equal(t, first.Feedback, "Origin is missing.")
	gt.Equal(t, first.TransparencyScore, 4)
	gt.V(t, first.ProductID).NotEqual(model.ProductID(""))
	gt.A(t, first.ConversationHistory).Length(2)
	gt.Equal(t, first.ConversationHistory[0].Role, model.RoleUser)
	gt.Equal(t, first.ConversationHistory[0].Parts[0].Text, "An organic cotton t-shirt")

	// Second turn on the same session commits the first answer.
	resp = postGenerate(t, ts, "sess-1", map[string]any{
		"userInput": "Grown in Gujarat, India",
	})
	defer resp.Body.Close()
	gt.Equal(t, resp.StatusCode, http.StatusOK)

	var second generateResponseBody
	gt.NoError(t, json.NewDecoder(resp.Body).Decode(&second))
	gt.Equal(t, second.ProductID, first.ProductID)
	gt.A(t, second.ConversationHistory).Length(4)

	stored, err := repo.GetProduct(context.Background(), first.ProductID)
	gt.NoError(t, err)
	gt.A(t, stored.Details).Length(1)
	gt.Equal(t, stored.Details[0].Question, "Where is the cotton grown?")
	gt.Equal(t, stored.Details[0].Answer, "Grown in Gujarat, India")
	gt.Equal(t, stored.Details[0].TransparencyScore, 4)
}

func TestGenerateQuestionMissingInput(t *testing.T) {
	ts, repo := newTestServer("unused")
	defer ts.Close()

	resp := postGenerate(t, ts, "sess-1", map[string]any{})
	defer resp.Body.Close()
	gt.Equal(t, resp.StatusCode, http.StatusBadRequest)

	var body map[string]string
	gt.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	gt.V(t, body["error"]).NotEqual("")

	products, err := repo.ListProducts(context.Background())
	gt.NoError(t, err)
	gt.A(t, products).Length(0)
}

func TestGenerateQuestionBadJSON(t *testing.T) {
	ts, _ := newTestServer("unused")
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/api/generate-question", "application/json",
		bytes.NewReader([]byte("{not json")))
	gt.NoError(t, err)
	defer resp.Body.Close()
	gt.Equal(t, resp.StatusCode, http.StatusBadRequest)
}

func TestGenerateQuestionUnknownProduct(t *testing.T) {
	ts, _ := newTestServer("unused")
	defer ts.Close()

	resp := postGenerate(t, ts, "sess-1", map[string]any{
		"userInput": "hello",
		"productId": "no-such-product",
	})
	defer resp.Body.Close()
	gt.Equal(t, resp.StatusCode, http.StatusNotFound)
}

func TestListProducts(t *testing.T) {
	ts, repo := newTestServer("unused")
	defer ts.Close()

	ctx := context.Background()
	now := time.Now()
	older := model.NewProduct("older product")
	older.UpdatedAt = now.Add(-time.Hour)
	newer := model.NewProduct("newer product")
	newer.UpdatedAt = now
	gt.NoError(t, repo.PutProduct(ctx, older))
	gt.NoError(t, repo.PutProduct(ctx, newer))

	resp, err := http.Get(ts.URL + "/api/products")
	gt.NoError(t, err)
	defer resp.Body.Close()
	gt.Equal(t, resp.StatusCode, http.StatusOK)

	var products []*model.Product
	gt.NoError(t, json.NewDecoder(resp.Body).Decode(&products))
	gt.A(t, products).Length(2)
	gt.Equal(t, products[0].ID, newer.ID)
	gt.Equal(t, products[1].ID, older.ID)
}

func TestListProductsEmpty(t *testing.T) {
	ts, _ := newTestServer("unused")
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/products")
	gt.NoError(t, err)
	defer resp.Body.Close()
	gt.Equal(t, resp.StatusCode, http.StatusOK)

	// An empty store yields an empty JSON array, not null.
	var raw json.RawMessage
	gt.NoError(t, json.NewDecoder(resp.Body).Decode(&raw))
	gt.Equal(t, string(bytes.TrimSpace(raw)), "[]")
}

func TestGetProduct(t *testing.T) {
	ts, repo := newTestServer("unused")
	defer ts.Close()

	stored := model.NewProduct("fair trade chocolate bar")
	stored.AppendDetail("Which cooperative supplies the cacao?", "Kuapa Kokoo in Ghana", 9)
	gt.NoError(t, repo.PutProduct(context.Background(), stored))

	resp, err := http.Get(ts.URL + "/api/products/" + string(stored.ID))
	gt.NoError(t, err)
	defer resp.Body.Close()
	gt.Equal(t, resp.StatusCode, http.StatusOK)

	var got model.Product
	gt.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	gt.Equal(t, got.ID, stored.ID)
	gt.A(t, got.Details).Length(1)
	gt.Equal(t, got.Details[0].Answer, "Kuapa Kokoo in Ghana")
}

func TestGetProductNotFound(t *testing.T) {
	ts, _ := newTestServer("unused")
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/products/no-such-product")
	gt.NoError(t, err)
	defer resp.Body.Close()
	gt.Equal(t, resp.StatusCode, http.StatusNotFound)
}

func TestLiveness(t *testing.T) {
	ts, _ := newTestServer("unused")
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/")
	gt.NoError(t, err)
	defer resp.Body.Close()
	gt.Equal(t, resp.StatusCode, http.StatusOK)

	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	gt.NoError(t, err)
	gt.Equal(t, buf.String(), "API is running...")
}

func TestCORSPreflight(t *testing.T) {
	ts, _ := newTestServer("unused")
	defer ts.Close()

	req, err := http.NewRequest(http.MethodOptions, ts.URL+"/api/generate-question", nil)
	gt.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:3000")

	resp, err := http.DefaultClient.Do(req)
	gt.NoError(t, err)
	defer resp.Body.Close()

	gt.Equal(t, resp.StatusCode, http.StatusOK)
	gt.Equal(t, resp.Header.Get("Access-Control-Allow-Origin"), "http://localhost:3000")
	gt.S(t, resp.Header.Get("Access-Control-Allow-Headers")).Contains(server.SessionHeader)
}

func TestSessionsAreIsolatedByHeader(t *testing.T) {
	ts, repo := newTestServer(
		"Question: Q1? Feedback: 2 - a.",
		"Question: Q2? Feedback: 3 - b.",
	)
	defer ts.Close()

	respA := postGenerate(t, ts, "sess-a", map[string]any{"userInput": "product A"})
	defer respA.Body.Close()
	var a generateResponseBody
	gt.NoError(t, json.NewDecoder(respA.Body).Decode(&a))

	respB := postGenerate(t, ts, "sess-b", map[string]any{"userInput": "product B"})
	defer respB.Body.Close()
	var b generateResponseBody
	gt.NoError(t, json.NewDecoder(respB.Body).Decode(&b))

	// Separate headers mean separate sessions and separate products.
	gt.V(t, a.ProductID).NotEqual(b.ProductID)
	gt.A(t, b.ConversationHistory).Length(2)

	products, err := repo.ListProducts(context.Background())
	gt.NoError(t, err)
	gt.A(t, products).Length(2)
}
