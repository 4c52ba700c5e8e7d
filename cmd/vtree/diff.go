package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vtree-dev/vtree/internal/errors"
	"github.com/vtree-dev/vtree/pkg/vtree"
)

func diffCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "diff <old.json> <new.json>",
		Short: "Compute the patch between two JSON-encoded node trees",
		Long: `diff reads two files, each a JSON-encoded Node tree, and prints
the NodeOp patch that transforms the first into the second.

Examples:
  vtree diff old.json new.json
  vtree diff old.json new.json --format text`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiff(args[0], args[1], format)
		},
	}

	cmd.Flags().StringVar(&format, "format", "json", "Output format: json, text")

	return cmd
}

func runDiff(oldPath, newPath, format string) error {
	if format != "json" && format != "text" {
		return errors.New("E082").WithDetail(fmt.Sprintf("got %q", format))
	}

	old, err := readTree(oldPath)
	if err != nil {
		return err
	}
	newTree, err := readTree(newPath)
	if err != nil {
		return err
	}

	op := vtree.Diff(old, newTree)

	if format == "text" {
		fmt.Printf("%s\n", describeOp(op, 0))
		return nil
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(op)
}

func readTree(path string) (*vtree.Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E080").WithDetail(path)
		}
		return nil, err
	}
	var n vtree.Node
	if err := json.Unmarshal(data, &n); err != nil {
		return nil, errors.New("E020").Wrap(err)
	}
	return &n, nil
}

func describeOp(op vtree.NodeOp, depth int) string {
	indent := ""
	for i := 0; i < depth; i++ {
		indent += "  "
	}
	line := fmt.Sprintf("%s%s", indent, op.Kind)
	for _, child := range op.ChildDiff {
		line += "\n" + describeOp(child, depth+1)
	}
	return line
}
