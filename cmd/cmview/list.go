package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/gogpu/colorman/registry"
)

func newListCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:       "list [colorspaces|displays|looks]",
		Short:     "List the color configuration",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"colorspaces", "displays", "looks"},
		RunE: func(cmd *cobra.Command, args []string) error {
			m := root.manager()
			defer m.Close()
			reg := m.Registry()

			what := "all"
			if len(args) == 1 {
				what = args[0]
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			defer w.Flush()

			switch what {
			case "colorspaces":
				listColorSpaces(w, reg)
			case "displays":
				listDisplays(w, reg)
			case "looks":
				listLooks(w, reg)
			case "all":
				listColorSpaces(w, reg)
				fmt.Fprintln(w)
				listDisplays(w, reg)
				fmt.Fprintln(w)
				listLooks(w, reg)
			default:
				return fmt.Errorf("cmview: unknown list %q", what)
			}
			return nil
		},
	}
	return cmd
}

func listColorSpaces(w io.Writer, reg *registry.Registry) {
	fmt.Fprintln(w, "INDEX\tCOLORSPACE\tDATA\tDESCRIPTION")
	for _, cs := range reg.ColorSpaces() {
		fmt.Fprintf(w, "%d\t%s\t%t\t%s\n", cs.Index, cs.Name, cs.IsData, cs.Description)
	}
}

func listDisplays(w io.Writer, reg *registry.Registry) {
	def := reg.DefaultDisplayName()
	fmt.Fprintln(w, "INDEX\tDISPLAY\tVIEWS")
	for _, d := range reg.Displays() {
		name := d.Name
		if name == def {
			name += " (default)"
		}
		views := lo.Map(d.Views, func(v *registry.View, _ int) string { return v.Name })
		fmt.Fprintf(w, "%d\t%s\t%v\n", d.Index, name, views)
	}
}

func listLooks(w io.Writer, reg *registry.Registry) {
	fmt.Fprintln(w, "INDEX\tLOOK\tVIEW\tPROCESS SPACE")
	for _, l := range reg.Looks() {
		view := lo.Ternary(l.View == "", "any", l.View)
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", l.Index, l.Name, view, l.ProcessSpace)
	}
}
