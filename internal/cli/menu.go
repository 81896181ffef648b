package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/imrishuroy/go-pizza-cartflow/internal/app"
	"github.com/imrishuroy/go-pizza-cartflow/internal/aws"
	"github.com/imrishuroy/go-pizza-cartflow/internal/config"
	"github.com/imrishuroy/go-pizza-cartflow/internal/menu"
	"github.com/imrishuroy/go-pizza-cartflow/internal/store"
)

func newMenuCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "menu",
		Short: "Manage the menu record",
	}
	cmd.AddCommand(newMenuImportCmd(openStore))
	return cmd
}

// storeOpener opens the configured store; replaced in tests.
type storeOpener func(ctx context.Context) (store.Store, func(), error)

func openStore(ctx context.Context) (store.Store, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	var clients *aws.AWSClients
	if cfg.StoreBackend == config.BackendDynamoDB {
		if clients, err = aws.NewAWSClients(ctx); err != nil {
			return nil, nil, err
		}
	}
	st, closer, err := app.NewStore(ctx, cfg, clients)
	if err != nil {
		return nil, nil, err
	}
	return st, func() { _ = closer.Close() }, nil
}

func newMenuImportCmd(open storeOpener) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Create the menu record from a YAML file",
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := menu.LoadFile(file)
			if err != nil {
				return err
			}
			m, err := doc.Normalize()
			if err != nil {
				return fmt.Errorf("invalid menu: %w", err)
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			st, done, err := open(ctx)
			if err != nil {
				return err
			}
			defer done()

			err = st.Create(ctx, store.CollectionMenu, menu.RecordID, menu.Document{Pizzas: m})
			if errors.Is(err, store.ErrExists) {
				return fmt.Errorf("a menu record already exists")
			}
			if err != nil {
				return fmt.Errorf("creating menu record: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "imported %d pizzas\n", len(m))
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "menu.yaml", "menu YAML file")
	return cmd
}
