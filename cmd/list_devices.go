package cmd

import (
	"bytes"
	"fmt"

	"github.com/achilleasa/sunlight/tracer/cpu"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// List the host CPU along with the tracer speed estimate used by the
// schedulers.
func ListDevices(ctx *cli.Context) error {
	setupLogging(ctx)

	dev := cpu.Device()

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Property", "Value"})
	table.AppendBulk([][]string{
		{"Name", dev.Name},
		{"Vendor", dev.Vendor},
		{"Physical cores", fmt.Sprintf("%d", dev.PhysicalCores)},
		{"Logical cores", fmt.Sprintf("%d", dev.LogicalCores)},
		{"Clock", fmt.Sprintf("%.0f MHz", dev.Mhz)},
		{"Memory", fmt.Sprintf("%d MiB", dev.TotalMemory>>20)},
		{"Speed estimate", fmt.Sprintf("%d", dev.SpeedEstimate())},
	})
	table.Render()

	logger.Noticef("system provides %d cpu tracer(s):\n%s", dev.LogicalCores, buf.String())
	return nil
}
