package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"godash/internal/app"
	"godash/internal/domain"
)

// opener abre o App para um comando; cada execução abre e fecha as próprias conexões.
type opener func() (*app.App, error)

func newRootCmd(open opener) *cobra.Command {
	root := &cobra.Command{
		Use:           "godashctl",
		Short:         "Administração do armazenamento do GoDash",
		Long:          "Popula, gera dados aleatórios, exporta, importa e consulta o estado persistido do GoDash.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newSeedCmd(open),
		newRandomCmd(open),
		newExportCmd(open),
		newImportCmd(open),
		newStatsCmd(open),
		newSalesCmd(open),
		newClearCmd(open),
	)
	return root
}

// withApp abre o App, executa fn e fecha as conexões.
func withApp(open opener, fn func(a *app.App) error) error {
	a, err := open()
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(a)
}

// printResult escreve o envelope {success, data, error} e devolve o erro original.
func printResult[T any](w io.Writer, data T, err error) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if encErr := enc.Encode(domain.NewResult(data, err)); encErr != nil {
		return encErr
	}
	return err
}

func newSeedCmd(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Grava os dados de demonstração nas coleções vazias",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(open, func(a *app.App) error {
				report, err := a.SeedService.InitializeSampleData(cmd.Context())
				return printResult(cmd.OutOrStdout(), report, err)
			})
		},
	}
}

func newRandomCmd(open opener) *cobra.Command {
	var products, orders int
	cmd := &cobra.Command{
		Use:   "random",
		Short: "Gera e grava produtos e pedidos aleatórios",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(open, func(a *app.App) error {
				report, err := a.SeedService.AddRandomData(cmd.Context(), products, orders)
				return printResult(cmd.OutOrStdout(), report, err)
			})
		},
	}
	cmd.Flags().IntVar(&products, "products", 1, "quantidade de produtos")
	cmd.Flags().IntVar(&orders, "orders", 1, "quantidade de pedidos")
	return cmd
}

func newExportCmd(open opener) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Exporta produtos e pedidos em JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(open, func(a *app.App) error {
				doc, err := a.BackupService.Export(cmd.Context())
				if err != nil {
					return err
				}
				if out == "" || out == "-" {
					_, err = cmd.OutOrStdout().Write(append(doc, '\n'))
					return err
				}
				if err := os.WriteFile(out, doc, 0o644); err != nil {
					return fmt.Errorf("export: %w", err)
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "Backup gravado em %s (%d bytes)\n", out, len(doc))
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "arquivo de saída (padrão: stdout)")
	return cmd
}

func newImportCmd(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "import <arquivo>",
		Short: "Importa um backup; use - para ler da entrada padrão",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				data []byte
				err  error
			)
			if args[0] == "-" {
				data, err = io.ReadAll(cmd.InOrStdin())
			} else {
				data, err = os.ReadFile(args[0])
			}
			if err != nil {
				return fmt.Errorf("import: %w", err)
			}

			return withApp(open, func(a *app.App) error {
				summary, err := a.BackupService.Import(cmd.Context(), data)
				return printResult(cmd.OutOrStdout(), summary, err)
			})
		},
	}
}

func newStatsCmd(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Mostra os indicadores do painel",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(open, func(a *app.App) error {
				stats, err := a.DashboardService.Stats(cmd.Context())
				return printResult(cmd.OutOrStdout(), stats, err)
			})
		},
	}
}

func newSalesCmd(open opener) *cobra.Command {
	var days int
	cmd := &cobra.Command{
		Use:   "sales",
		Short: "Mostra a série diária de vendas",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(open, func(a *app.App) error {
				series, err := a.DashboardService.SalesSeries(cmd.Context(), days)
				return printResult(cmd.OutOrStdout(), series, err)
			})
		},
	}
	cmd.Flags().IntVar(&days, "days", 7, "número de dias, do mais antigo ao dia atual")
	return cmd
}

func newClearCmd(open opener) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Apaga todo o estado persistido",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				return fmt.Errorf("clear: confirme com --yes; esta operação apaga produtos, pedidos e backups registrados")
			}
			return withApp(open, func(a *app.App) error {
				return a.BackupService.ClearAll(cmd.Context())
			})
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirma a remoção")
	return cmd
}
