package intake

import (
	"context"
	"strings"

	"github.com/lucentlab/lucent/pkg/adapter"
	"github.com/lucentlab/lucent/pkg/model"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/genai"
)

// Input contains parameters for one conversation step
type Input struct {
	SessionKey string
	UserInput  string
	ProductID  model.ProductID
}

// Output mirrors what the chat client renders after each step
type Output struct {
	Question          string
	Feedback          string
	TransparencyScore int
	ProductID         model.ProductID
	History           []*model.Turn
}

// GenerateQuestion runs one step of the intake conversation: it appends the
// user input to the session, asks the model for the next clarifying question,
// and commits the answered question to the product ledger. Exactly one detail
// is appended per user turn after the first; the first turn only creates the
// product shell, because the first input is the subject being described, not
// an answer.
func (u *UseCase) GenerateQuestion(ctx context.Context, input Input) (*Output, error) {
	if strings.TrimSpace(input.UserInput) == "" {
		return nil, goerr.New("userInput is required", goerr.T(model.TagInvalidRequest))
	}

	sess, release := u.sessions.Acquire(input.SessionKey)
	defer release()

	// Re-open a persisted product when the caller names one and the session
	// is not yet linked. The transcript is rebuilt from the durable ledger.
	if input.ProductID != "" && sess.ProductID == "" {
		product, err := u.repo.GetProduct(ctx, input.ProductID)
		if err != nil {
			return nil, err
		}
		sess.Attach(product)
	}

	firstTurn := sess.ProductID == "" && len(sess.Turns) == 0

	// The question this input answers is the most recent model turn. Capture
	// it before appending so the commit can re-parse question and score out
	// of it.
	var prevModelTurn *model.Turn
	if n := len(sess.Turns); n > 0 && sess.Turns[n-1].Role == model.RoleModel {
		prevModelTurn = sess.Turns[n-1]
	}

	sess.Append(model.RoleUser, input.UserInput)

	raw, err := u.generateReply(ctx, sess.Turns)
	if err != nil {
		// Drop the appended turn so a retry on this session starts from the
		// same state as the failed attempt.
		sess.Turns = sess.Turns[:len(sess.Turns)-1]
		return nil, err
	}
	reply := model.ParseReply(raw)
	sess.Append(model.RoleModel, raw)

	if firstTurn {
		product := model.NewProduct(input.UserInput)
		if err := u.repo.PutProduct(ctx, product); err != nil {
			return nil, err
		}
		sess.ProductID = product.ID
		sess.InitialDescription = input.UserInput
	} else if err := u.commitAnswer(ctx, sess, prevModelTurn, input.UserInput); err != nil {
		return nil, err
	}

	u.archiveTranscript(ctx, sess)

	history := make([]*model.Turn, len(sess.Turns))
	copy(history, sess.Turns)

	return &Output{
		Question:          reply.Question,
		Feedback:          reply.Feedback,
		TransparencyScore: reply.TransparencyScore,
		ProductID:         sess.ProductID,
		History:           history,
	}, nil
}

// generateReply sends the full role-tagged history to the model and returns
// the raw reply text.
func (u *UseCase) generateReply(ctx context.Context, turns []*model.Turn) (string, error) {
	contents := make([]*genai.Content, 0, len(turns))
	for _, turn := range turns {
		var role genai.Role = genai.RoleUser
		if turn.Role == model.RoleModel {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(turn.Text, role))
	}

	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemPromptRaw, ""),
	}

	resp, err := u.gemini.GenerateContent(ctx, contents, config)
	if err != nil {
		return "", goerr.Wrap(err, "failed to generate clarifying question")
	}

	return adapter.ReplyText(resp)
}

// commitAnswer appends one detail to the linked product: the question and
// score re-parsed from the previous model turn, and the current input as the
// answer. A previous turn that does not parse (for example the first input
// after replaying a re-opened product) degrades to the parser defaults rather
// than failing the request.
func (u *UseCase) commitAnswer(ctx context.Context, sess *model.Session, prevModelTurn *model.Turn, answer string) error {
	if sess.ProductID == "" {
		return goerr.New("session has no linked product", goerr.T(model.TagStore))
	}

	product, err := u.repo.GetProduct(ctx, sess.ProductID)
	if err != nil {
		return err
	}

	question := model.DefaultQuestion
	score := 0
	if prevModelTurn != nil {
		parsed := model.ParseReply(prevModelTurn.Text)
		question = parsed.Question
		score = parsed.TransparencyScore
	}

	product.AppendDetail(question, answer, score)
	return u.repo.PutProduct(ctx, product)
}
