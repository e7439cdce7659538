package cli

import (
	"context"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/lucentlab/lucent/pkg/model"
	"github.com/lucentlab/lucent/pkg/usecase/product"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func showCommand() *cli.Command {
	var cfg config

	return &cli.Command{
		Name:      "show",
		Usage:     "Show the transparency report of a product",
		ArgsUsage: "<product-id>",
		Flags:     globalFlags(&cfg),
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			_ = godotenv.Load()
			return ctx, nil
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			id := model.ProductID(c.Args().First())
			if id == "" {
				return goerr.New("product id argument is required")
			}

			repo, err := cfg.newRepository(ctx)
			if err != nil {
				return err
			}
			defer repo.Close()

			uc := product.New(repo)
			p, err := uc.Get(ctx, id)
			if err != nil {
				return goerr.Wrap(err, "failed to get product")
			}

			w := c.Root().Writer
			fmt.Fprintf(w, "Product: %s\n", p.ID)
			fmt.Fprintf(w, "Created: %s\nUpdated: %s\n", p.CreatedAt.Format("2006-01-02 15:04"), p.UpdatedAt.Format("2006-01-02 15:04"))
			fmt.Fprintf(w, "Description: %s\n\n", p.InitialDescription)

			for i, detail := range p.Details {
				fmt.Fprintf(w, "%d. Q: %s\n   A: %s\n   score: %d/10\n", i+1, detail.Question, detail.Answer, detail.TransparencyScore)
			}
			return nil
		},
	}
}
