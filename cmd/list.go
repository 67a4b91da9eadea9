package cmd

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	m "mutlab.dev/pkg/mutlab/internal/model"
)

var listFormatFlag string

// listCmd represents the list command.
var listCmd = newListCmd()

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list [path]",
		Short: "List candidate mutations without testing them",
		Long: `Enumerate every mutation that a run would test for the Go module at the
given path (default: current directory), without building anything.`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			mutations, err := mutagen.Mutations(cmd.Context(), treeArg(args))
			if err != nil {
				return fmt.Errorf("enumerate mutations: %w", err)
			}

			switch viper.GetString(listFormatKey) {
			case "json":
				return printJSON(cmd, mutations)
			case "yaml":
				return printYAML(cmd, mutations)
			default:
				printTable(cmd, mutations)
				return nil
			}
		},
	}

	cmd.Flags().StringVarP(&listFormatFlag, listFormatFlagName, "f", viper.GetString(listFormatKey), "output format: table, json or yaml")
	bindFlagToConfig(cmd.Flags().Lookup(listFormatFlagName), listFormatKey)

	return cmd
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func printJSON(cmd *cobra.Command, mutations []m.Mutation) error {
	data, err := json.MarshalIndent(mutations, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal mutations: %w", err)
	}

	cmd.Println(string(data))

	return nil
}

func printYAML(cmd *cobra.Command, mutations []m.Mutation) error {
	data, err := yaml.Marshal(mutations)
	if err != nil {
		return fmt.Errorf("marshal mutations: %w", err)
	}

	cmd.Print(string(data))

	return nil
}

func printTable(cmd *cobra.Command, mutations []m.Mutation) {
	counts := make(map[string]int)
	for _, mu := range mutations {
		counts[mu.File]++
	}

	files := make([]string, 0, len(counts))
	for file := range counts {
		files = append(files, file)
	}

	sort.Strings(files)

	table := tablewriter.NewWriter(cmd.OutOrStdout())
	table.SetHeader([]string{"File", "Mutations"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_CENTER})

	for _, file := range files {
		table.Append([]string{file, fmt.Sprintf("%d", counts[file])})
	}

	table.SetFooter([]string{
		fmt.Sprintf("Total Files %d", len(files)),
		fmt.Sprintf("%d", len(mutations)),
	})

	table.Render()
}
