package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"comparador/adapters/ckan"
	"comparador/domain/table"
	"comparador/internal"
	"comparador/internal/config"
	"comparador/internal/loader"
	"comparador/internal/render"
	"comparador/internal/summary"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "comparador-cli",
		Short: "Comparador CLI for summarizing local files and PNDA resources",
	}

	rootCmd.AddCommand(
		newResumenCmd(),
		newCompararCmd(),
		newCatalogoCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newResumenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resumen [archivo]",
		Short: "Print the summary report for one local file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tab, err := loadLocal(args[0])
			if err != nil {
				return err
			}
			fmt.Println(render.ComparisonText("Local", tab, summary.Aggregate(tab), summary.Classify(tab)))
			return nil
		},
	}
}

func newCompararCmd() *cobra.Command {
	var localPath string
	var remotePath string
	var resourceID string

	cmd := &cobra.Command{
		Use:   "comparar",
		Short: "Compare a local file against a catalog resource or a second file",
		Long: `Compare a local delimited file against a remote dataset.

The remote side comes either from a PNDA resource id (downloaded through
the catalog API) or from a second local file.

Example: comparador-cli comparar --local datos.csv --recurso 1a2b3c`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if localPath == "" {
				return fmt.Errorf("--local es obligatorio")
			}
			if (remotePath == "") == (resourceID == "") {
				return fmt.Errorf("indica exactamente uno de --recurso o --remoto")
			}

			local, err := loadLocal(localPath)
			if err != nil {
				return err
			}

			var remote *table.Table
			if remotePath != "" {
				remote, err = loadLocal(remotePath)
			} else {
				client, cerr := newCatalogClient()
				if cerr != nil {
					return cerr
				}
				remote, err = client.Download(context.Background(), resourceID)
			}
			if err != nil {
				return err
			}

			fmt.Println(render.ComparisonText("PNDA", remote, summary.Aggregate(remote), summary.Classify(remote)))
			fmt.Println(render.ComparisonText("Local", local, summary.Aggregate(local), summary.Classify(local)))
			return nil
		},
	}

	cmd.Flags().StringVar(&localPath, "local", "", "Path to the local file")
	cmd.Flags().StringVar(&remotePath, "remoto", "", "Path to a second local file used as the remote side")
	cmd.Flags().StringVar(&resourceID, "recurso", "", "Catalog resource id to download")
	return cmd
}

func newCatalogoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalogo",
		Short: "Browse the open-data catalog",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "instituciones",
		Short: "List the catalog organizations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newCatalogClient()
			if err != nil {
				return err
			}
			orgs, err := client.Organizations(context.Background())
			if err != nil {
				return err
			}
			for _, org := range orgs {
				fmt.Println(org)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "datasets [institucion]",
		Short: "List the datasets published by one organization",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newCatalogClient()
			if err != nil {
				return err
			}
			datasets, err := client.Datasets(context.Background(), args[0])
			if err != nil {
				return err
			}
			for _, ds := range datasets {
				fmt.Printf("%s\t%s\n", ds.ID, ds.DisplayTitle())
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "recursos [dataset-id]",
		Short: "List the downloadable resources of one dataset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newCatalogClient()
			if err != nil {
				return err
			}
			resources, err := client.Resources(context.Background(), args[0])
			if err != nil {
				return err
			}
			for _, res := range resources {
				fmt.Printf("%s\t%s\t%s\t%s\n", res.ID, res.DisplayName(), res.Format, res.HumanSize())
			}
			return nil
		},
	})

	return cmd
}

func newCatalogClient() (*ckan.Client, error) {
	if err := godotenv.Load(); err == nil {
		internal.DefaultLogger.Debug("loaded environment from .env")
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return ckan.NewClient(cfg.Catalog, internal.DefaultLogger), nil
}

func loadLocal(path string) (*table.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return loader.Read(f.Name(), f)
}
