package cli

import (
	"context"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/lucentlab/lucent/pkg/usecase/product"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func listCommand() *cli.Command {
	var cfg config

	return &cli.Command{
		Name:  "list",
		Usage: "List all products",
		Flags: globalFlags(&cfg),
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

			uc := product.New(repo)
			products, err := uc.List(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to list products")
			}

			for _, p := range products {
				fmt.Fprintf(c.Root().Writer, "%s\t%d answers\t%s\t%s\n",
					p.ID, len(p.Details), p.UpdatedAt.Format("2006-01-02 15:04"), truncate(p.InitialDescription, 60))
			}
			return nil
		},
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
