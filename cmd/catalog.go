package cmd

import (
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/cube2222/typewire/catalog"
	"github.com/cube2222/typewire/typecodec"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage table schemas in the catalog file.",
}

var catalogPutCmd = &cobra.Command{
	Use:     "put <table> <column>:<hex|type name>...",
	Short:   "Create or replace a table.",
	Example: `typewire catalog put users "id:UInt64" "name:LowCardinality(String)"`,
	Args:    cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return env.catalogPut(args[0], args[1:])
	},
}

var catalogGetCmd = &cobra.Command{
	Use:   "get <table>",
	Short: "Show the columns of a table.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return env.catalogGet(cmd.OutOrStdout(), args[0])
	},
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all tables.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return env.catalogList(cmd.OutOrStdout())
	},
}

var catalogDeleteCmd = &cobra.Command{
	Use:   "delete <table>",
	Short: "Remove a table.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return env.catalogDelete(args[0])
	},
}

func (e *environment) loadCatalog() (*catalog.Catalog, error) {
	c := catalog.New(e.config.Decoder())
	if err := c.LoadFile(e.config.CatalogPath); err != nil {
		return nil, errors.Wrapf(err, "couldn't load catalog %s", e.config.CatalogPath)
	}
	return c, nil
}

func (e *environment) saveCatalog(c *catalog.Catalog) error {
	if err := os.MkdirAll(filepath.Dir(e.config.CatalogPath), 0755); err != nil {
		return errors.Wrap(err, "couldn't create catalog directory")
	}
	return c.SaveFile(e.config.CatalogPath)
}

func (e *environment) catalogPut(name string, columnDefs []string) error {
	table := catalog.Table{Name: name}
	for _, def := range columnDefs {
		i := strings.Index(def, ":")
		if i <= 0 {
			return errors.Errorf("column '%s' should be in name:type form", def)
		}
		t, _, err := e.resolve(def[i+1:])
		if err != nil {
			return errors.Wrapf(err, "column %s", def[:i])
		}
		table.Columns = append(table.Columns, catalog.Column{Name: def[:i], Type: t})
	}

	c, err := e.loadCatalog()
	if err != nil {
		return err
	}
	if err := c.Put(table); err != nil {
		return err
	}
	return e.saveCatalog(c)
}

func (e *environment) catalogGet(w io.Writer, name string) error {
	c, err := e.loadCatalog()
	if err != nil {
		return err
	}
	table, err := c.Get(name)
	if err != nil {
		return err
	}

	out := tablewriter.NewWriter(w)
	out.SetHeader([]string{"column", "type", "encoding"})
	out.SetAutoFormatHeaders(false)
	out.SetAutoWrapText(false)
	for _, column := range table.Columns {
		data, err := encodeHex(column)
		if err != nil {
			return err
		}
		out.Append([]string{column.Name, column.Type.String(), data})
	}
	out.Render()
	return nil
}

func encodeHex(column catalog.Column) (string, error) {
	data, err := typecodec.Encode(column.Type)
	if err != nil {
		return "", errors.Wrapf(err, "couldn't encode column %s", column.Name)
	}
	return formatHex(data), nil
}

func (e *environment) catalogList(w io.Writer) error {
	c, err := e.loadCatalog()
	if err != nil {
		return err
	}
	out := tablewriter.NewWriter(w)
	out.SetHeader([]string{"table", "columns", "row type"})
	out.SetAutoFormatHeaders(false)
	out.SetAutoWrapText(false)
	for _, table := range c.List() {
		out.Append([]string{table.Name, strconv.Itoa(len(table.Columns)), table.RowType().String()})
	}
	out.Render()
	return nil
}

func (e *environment) catalogDelete(name string) error {
	c, err := e.loadCatalog()
	if err != nil {
		return err
	}
	if err := c.Delete(name); err != nil {
		return err
	}
	return e.saveCatalog(c)
}

func init() {
	catalogCmd.AddCommand(catalogPutCmd, catalogGetCmd, catalogListCmd, catalogDeleteCmd)
	rootCmd.AddCommand(catalogCmd)
}
