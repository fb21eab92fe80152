package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var tablesCmd = &cobra.Command{
	Use:   "tables [doc-id]",
	Short: "List tables and views of a document",
	Args:  cobra.ExactArgs(1),
	RunE:  runTables,
}

var columnsCmd = &cobra.Command{
	Use:   "columns [doc-id] [table-id]",
	Short: "List columns of a table",
	Args:  cobra.ExactArgs(2),
	RunE:  runColumns,
}

func init() {
	rootCmd.AddCommand(tablesCmd)
	rootCmd.AddCommand(columnsCmd)
}

func runTables(cmd *cobra.Command, args []string) error {
	if dataSource == nil {
		return errors.New("no API token configured, run 'codaframer auth' first")
	}

	tables, err := dataSource.ListTables(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("failed to list tables: %w", err)
	}

	if len(tables) == 0 {
		cmd.Println("No tables found.")
		return nil
	}

	for _, table := range tables {
		kind := "table"
		if table.ParentTableID != "" {
			kind = "view of " + table.ParentTableID
		}
		cmd.Printf("%s\t%s\t%d rows\t%s\n", table.ID, table.Name, table.RowCount, kind)
	}
	return nil
}

func runColumns(cmd *cobra.Command, args []string) error {
	if dataSource == nil {
		return errors.New("no API token configured, run 'codaframer auth' first")
	}

	columns, err := dataSource.ListColumns(context.Background(), args[0], args[1])
	if err != nil {
		return fmt.Errorf("failed to list columns: %w", err)
	}

	for _, col := range columns {
		sourceType := col.SourceType
		if col.IsArray {
			sourceType += "[]"
		}
		cmd.Printf("%s\t%s\t%s\n", col.ID, col.Name, sourceType)
	}
	return nil
}
