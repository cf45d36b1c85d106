package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/arloliu/ttfs/encoder"
	"github.com/arloliu/ttfs/topology"
)

func (a *app) newTopologyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "topology",
		Short: "Show the channel layout for a range source",
		Long: `Topology prints the neuron count and, per feature, its index and the
channels it owns (one per ring). Degenerate features keep their channels but
never fire.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withHint(a.runTopology(cmd))
		},
	}

	cmd.Flags().String("ranges", "", "range source: JSON or YAML file, or sqlite://PATH")
	cmd.Flags().Int("rings", encoder.DefaultNumRings, "delay rings per feature")
	cmd.Flags().Bool("json", false, "print the layout as JSON")

	return cmd
}

type topologyFeature struct {
	Index      int    `json:"index"`
	Name       string `json:"name"`
	Channels   []int  `json:"channels"`
	Degenerate bool   `json:"degenerate,omitempty"`
}

type topologyReport struct {
	Neurons  int               `json:"neurons"`
	Rings    int               `json:"rings"`
	Features []topologyFeature `json:"features"`
}

func (a *app) runTopology(cmd *cobra.Command) error {
	reg, err := a.loadRanges(cmd)
	if err != nil {
		return err
	}

	topo, err := topology.New(reg.Names(), a.v.GetInt("rings"))
	if err != nil {
		return errors.WithHint(err, "--rings must be at least 1")
	}

	report := topologyReport{
		Neurons:  topo.NumChannels(),
		Rings:    topo.RingCount(),
		Features: make([]topologyFeature, 0, topo.FeatureCount()),
	}
	for i, name := range topo.Features() {
		report.Features = append(report.Features, topologyFeature{
			Index:      i,
			Name:       name,
			Channels:   topo.Channels(i),
			Degenerate: reg.IsDegenerate(name),
		})
	}

	out := cmd.OutOrStdout()
	if a.v.GetBool("json") {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")

		return errors.Wrap(enc.Encode(report), "write topology")
	}

	fmt.Fprintf(out, "neurons: %d (%d features x %d rings)\n\n", report.Neurons, len(report.Features), report.Rings)

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "INDEX\tFEATURE\tCHANNELS\t")
	for _, f := range report.Features {
		name := f.Name
		if f.Degenerate {
			name += " (degenerate)"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t\n", f.Index, name, joinInts(f.Channels))
	}

	return errors.Wrap(tw.Flush(), "write topology")
}

func joinInts(vs []int) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = strconv.Itoa(v)
	}

	return strings.Join(parts, ",")
}
