package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/lucentlab/lucent/pkg/model"
	"github.com/lucentlab/lucent/pkg/session"
	"github.com/lucentlab/lucent/pkg/usecase/intake"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func chatCommand() *cli.Command {
	var (
		cfg       config
		productID model.ProductID
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "product-id",
			Aliases:     []string{"id"},
			Usage:       "Resume the conversation for an existing product",
			Sources:     cli.EnvVars("LUCENT_PRODUCT_ID"),
			Destination: (*string)(&productID),
		},
	}
	flags = append(flags, globalFlags(&cfg)...)
	flags = append(flags, geminiFlags(&cfg)...)

	return &cli.Command{
		Name:  "chat",
		Usage: "Interactive product intake on the terminal",
		Flags: flags,
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			_ = godotenv.Load()
			return ctx, nil
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			repo, err := cfg.newRepository(ctx)
			if err != nil {
				return err
			}
			defer repo.Close()

			gemini, err := cfg.newGemini(ctx)
			if err != nil {
				return err
			}

			uc := intake.New(repo, gemini, session.New(time.Hour))
			sessionKey := fmt.Sprintf("cli-%d", os.Getpid())

			w := c.Root().Writer
			if productID != "" {
				fmt.Fprintf(w, "Resuming product %s. Type 'exit' to quit.\n", productID)
			} else {
				fmt.Fprintf(w, "Describe the product to start. Type 'exit' to quit.\n")
			}

			scanner := bufio.NewScanner(os.Stdin)
			for {
				fmt.Fprintf(w, "> ")
				if !scanner.Scan() {
					break
				}

				message := scanner.Text()
				if message == "exit" {
					break
				}
				if message == "" {
					continue
				}

				out, err := uc.GenerateQuestion(ctx, intake.Input{
					SessionKey: sessionKey,
					UserInput:  message,
					ProductID:  productID,
				})
				if err != nil {
					return goerr.Wrap(err, "failed to generate question")
				}
				productID = out.ProductID

				fmt.Fprintf(w, "score %d/10: %s\n", out.TransparencyScore, out.Feedback)
				fmt.Fprintf(w, "%s\n", out.Question)
			}

			fmt.Fprintf(w, "\nProduct saved: %s\n", productID)
			return nil
		},
	}
}
