// Package output provides functions to print messages with optional color formatting
package output

import (
	"fmt"
	"strings"

	"github.com/wopanel/wopanel/domain"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"
)

const (
	Plain   = color.FgWhite
	Success = color.FgGreen
	Warning = color.FgYellow
	Error   = color.FgRed
)

var maybeColorize func(kind color.Attribute, tmpl string, a ...any) string

// InitColors sets up color functions based on environment
func InitColors(isColorDisabled bool) {
	if color.NoColor || isColorDisabled {
		// Fallback to plain formatting if colors are not supported
		maybeColorize = func(kind color.Attribute, tmpl string, a ...any) string {
			return fmt.Sprintf(tmpl, a...)
		}
	} else {
		maybeColorize = func(kind color.Attribute, tmpl string, a ...any) string {
			return color.New(kind).SprintfFunc()(tmpl, a...)
		}
	}
}

// PrintMessage formats a message with color (if enabled) and returns it
func PrintMessage(kind color.Attribute, tmpl string, a ...any) string {
	if maybeColorize == nil || kind == Plain {
		return fmt.Sprintf(tmpl+"\n", a...)
	}
	return fmt.Sprintln(maybeColorize(kind, tmpl, a...))
}

// FprintPlain writes an uncolored message to the command's output stream
func FprintPlain(cmd *cobra.Command, tmpl string, a ...any) error {
	_, err := fmt.Fprint(cmd.OutOrStdout(), PrintMessage(Plain, tmpl, a...))
	return err
}

// FprintSuccess writes a success message to the command's output stream
func FprintSuccess(cmd *cobra.Command, tmpl string, a ...any) error {
	_, err := fmt.Fprint(cmd.OutOrStdout(), PrintMessage(Success, tmpl, a...))
	return err
}

// FprintWarning writes a warning message to the command's output stream
func FprintWarning(cmd *cobra.Command, tmpl string, a ...any) error {
	_, err := fmt.Fprint(cmd.OutOrStdout(), PrintMessage(Warning, tmpl, a...))
	return err
}

// FprintError writes an error message to the command's error stream
func FprintError(cmd *cobra.Command, tmpl string, a ...any) error {
	_, err := fmt.Fprint(cmd.ErrOrStderr(), PrintMessage(Error, tmpl, a...))
	return err
}

func PrintTable(header []string, data [][]string) (string, error) {
	buf := strings.Builder{}

	table := tablewriter.NewTable(
		&buf,
		tablewriter.WithRenderer(renderer.NewBlueprint(tw.Rendition{
			Borders: tw.BorderNone,
			Settings: tw.Settings{
				Lines: tw.Lines{
					ShowHeaderLine: tw.Off,
				},
				Separators: tw.Separators{
					BetweenColumns: tw.Off,
				},
			},
		})),
		tablewriter.WithConfig(tablewriter.Config{
			Row: tw.CellConfig{
				Alignment: tw.CellAlignment{PerColumn: []tw.Align{tw.AlignRight, tw.AlignLeft}},
			},
		}))

	if len(header) > 0 {
		table.Header(header)
	}

	if err := table.Bulk(data); err != nil {
		return "", fmt.Errorf("bulk adding data to table: %w", err)
	}

	if err := table.Render(); err != nil {
		return "", fmt.Errorf("rendering table: %w", err)
	}

	return buf.String(), nil
}

func PrintSiteDetails(site *domain.Site) (string, error) {
	data := [][]string{
		{"ID", site.ID.String()},
		{"Domain", site.Domain},
		{"Admin Email", site.AdminEmail},
		{"Admin User", site.AdminUser},
		{"Stack", site.Stack.String()},
		{"Status", site.Status.String()},
	}

	if site.StatusDetail != "" {
		data = append(data, []string{"Detail", site.StatusDetail})
	}

	for _, p := range site.InstalledPlugins {
		data = append(data, []string{"Plugin", formatPluginResult(p)})
	}

	data = append(data,
		[]string{"Created At", site.CreatedAt.Format("2006-01-02 15:04:05")},
		[]string{"Updated At", site.UpdatedAt.Format("2006-01-02 15:04:05")},
	)

	table, err := PrintTable([]string{}, data)
	if err != nil {
		return "", fmt.Errorf("printing site details table: %w", err)
	}
	return table, nil
}

func PrintSiteList(sites []*domain.Site) (string, error) {
	if len(sites) == 0 {
		return PrintMessage(Plain, "No sites found."), nil
	}

	header := []string{
		"Domain",
		"Stack",
		"Status",
		"Plugins",
		"Created At",
	}
	var data [][]string
	for _, site := range sites {
		data = append(data, []string{
			site.Domain,
			site.Stack.String(),
			site.Status.String(),
			fmt.Sprintf("%d", len(site.InstalledPlugins)),
			site.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}

	table, err := PrintTable(header, data)
	if err != nil {
		return "", fmt.Errorf("printing site list table: %w", err)
	}
	return table, nil
}

func PrintAssetList(assets []*domain.VaultAsset) (string, error) {
	if len(assets) == 0 {
		return PrintMessage(Plain, "No assets found."), nil
	}

	header := []string{
		"ID",
		"Name",
		"Kind",
		"Size",
		"Uploaded At",
	}
	var data [][]string
	for _, asset := range assets {
		data = append(data, []string{
			asset.ID.String(),
			asset.Name,
			asset.Kind.String(),
			formatSize(asset.SizeBytes),
			asset.UploadedAt.Format("2006-01-02 15:04:05"),
		})
	}

	table, err := PrintTable(header, data)
	if err != nil {
		return "", fmt.Errorf("printing asset list table: %w", err)
	}
	return table, nil
}

func formatPluginResult(p domain.PluginInstallResult) string {
	state := "failed"
	switch {
	case p.Activated:
		state = "installed, activated"
	case p.Installed:
		state = "installed"
	}
	s := fmt.Sprintf("%s (%s, %s)", p.Identifier, p.Source, state)
	if p.Error != "" {
		s += ": " + p.Error
	}
	return s
}

func formatSize(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

// NoColor is a flag that can be used to disable colored output in the CLI.
var NoColor = &noColorFlag{set: false}

type noColorFlag struct {
	set bool
}

func (f *noColorFlag) Set(value string) error {
	// This is a boolean flag, so we ignore the value and just mark it as set
	f.set = true
	return nil
}

func (f *noColorFlag) String() string {
	if f.set {
		return "true"
	}
	return "false"
}

func (f *noColorFlag) Type() string {
	return "bool"
}

// IsSet returns true if the --no-color flag was explicitly set
func (f *noColorFlag) IsSet() bool {
	return f.set
}

// IsBoolFlag tells pflag this is a boolean flag (no argument required)
func (f *noColorFlag) IsBoolFlag() bool {
	return true
}
