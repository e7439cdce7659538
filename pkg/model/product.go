package model

import (
	"time"

	"github.com/google/uuid"
)

type ProductID string

// NewProductID generates a new unique ProductID
func NewProductID() ProductID {
	return ProductID(uuid.New().String())
}

// ProductDetail is one answered clarifying question. Details are append-only
// and their insertion order is the conversation order.
type ProductDetail struct {
	Question          string `firestore:"question" json:"question"`
	Answer            string `firestore:"answer" json:"answer"`
	TransparencyScore int    `firestore:"transparencyScore" json:"transparencyScore"`
}

// Product is the durable ledger of one intake conversation. The initial
// description is set once at creation; everything learned afterwards is
// appended to Details.
type Product struct {
	ID                 ProductID        `firestore:"id" json:"id"`
	InitialDescription string           `firestore:"initialDescription" json:"initialDescription"`
	Details            []*ProductDetail `firestore:"details" json:"details"`
	CreatedAt          time.Time        `firestore:"createdAt" json:"createdAt"`
	UpdatedAt          time.Time        `firestore:"updatedAt" json:"updatedAt"`
}

// NewProduct creates a product shell from the first user input. The first
// input is the subject under discussion, not an answer to a question, so the
// detail list starts empty.
func NewProduct(description string) *Product {
	now := time.Now()
	return &Product{
		ID:                 NewProductID(),
		InitialDescription: description,
		Details:            []*ProductDetail{},
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}

// AppendDetail records one answered question and refreshes UpdatedAt.
// Existing details are never edited or removed.
func (p *Product) AppendDetail(question, answer string, score int) {
	p.Details = append(p.Details, &ProductDetail{
		Question:          question,
		Answer:            answer,
		TransparencyScore: score,
	})
	p.UpdatedAt = time.Now()
}
