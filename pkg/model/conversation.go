package model

import "fmt"

// Conversation roles. The model provider expects exactly these two values.
const (
	RoleUser  = "user"
	RoleModel = "model"
)

// Turn is one message in a conversation, tagged by its origin.
type Turn struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// Session correlates a client-supplied key with an in-progress conversation
// and its linked product. It is ephemeral: the durable ledger is
// Product.Details, and Turns is a derived projection that can be rebuilt from
// it at any time with ReplayTurns.
type Session struct {
	ID                 string
	ProductID          ProductID
	InitialDescription string
	Turns              []*Turn
}

// Append records a turn in memory. It does not touch the persisted product.
func (s *Session) Append(role, text string) {
	s.Turns = append(s.Turns, &Turn{Role: role, Text: text})
}

// Attach links the session to a persisted product and replays its
// conversation. It only takes effect when the session has no product yet.
func (s *Session) Attach(product *Product) {
	if s.ProductID != "" {
		return
	}
	s.ProductID = product.ID
	s.InitialDescription = product.InitialDescription
	s.Turns = ReplayTurns(product)
}

// ReplayTurns rebuilds conversation turns from the persisted ledger: the
// initial description as a user turn, then for each detail a synthesized
// model turn followed by the stored answer. A product with N details yields
// 1 + 2N turns.
func ReplayTurns(product *Product) []*Turn {
	turns := make([]*Turn, 0, 1+2*len(product.Details))
	turns = append(turns, &Turn{Role: RoleUser, Text: product.InitialDescription})
	for _, detail := range product.Details {
		turns = append(turns,
			&Turn{Role: RoleModel, Text: EncodeModelTurn(detail.Question, detail.TransparencyScore, detail.Answer)},
			&Turn{Role: RoleUser, Text: detail.Answer},
		)
	}
	return turns
}

// EncodeModelTurn renders a stored detail in the same textual shape the model
// is instructed to produce, so a replayed transcript parses like a live one.
func EncodeModelTurn(question string, score int, answer string) string {
	return fmt.Sprintf("Question: %s Feedback: %d - %s", question, score, answer)
}
