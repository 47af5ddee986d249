package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"cleanmedia/internal/language"
	"cleanmedia/internal/naming"
)

func newParseCommand(ctx *commandContext) *cobra.Command {
	var (
		kind string
		root string
	)

	cmd := &cobra.Command{
		Use:   "parse <name>...",
		Short: "Show the identity and canonical destination for file names",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			grammar, err := ctx.grammar(kind)
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(args))
			for _, name := range args {
				rows = append(rows, parseRow(grammar, root, name))
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(out, []string{"Name", "Identity", "Destination", "Language"}, rows, nil))
			return nil
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "", "Media kind: tv or movie (default from config)")
	cmd.Flags().StringVar(&root, "root", ".", "Library root used to preview destinations")
	return cmd
}

func parseRow(grammar naming.MediaGrammar, root, name string) []string {
	base := filepath.Base(name)
	id := grammar.Parse(base)
	if !id.Parsed() {
		return []string{base, id.String(), "-", "-"}
	}
	ext := strings.ToLower(filepath.Ext(base))
	dest, lang := "-", "-"
	switch {
	case grammar.VideoExts().Has(ext):
		dest = grammar.VideoDest(root, id, ext)
	case grammar.SidecarExts().Has(ext):
		dest = grammar.SidecarDest(root, id, base)
		lang = sidecarLanguage(base)
	}
	return []string{base, id.String(), dest, lang}
}

// sidecarLanguage names the language tag a sidecar carries, if any.
func sidecarLanguage(name string) string {
	suffix := naming.SidecarSuffix(name, true)
	tag, _, _ := strings.Cut(suffix, ".")
	if _, ok := language.Tag(tag); !ok {
		return "-"
	}
	return language.DisplayName(tag)
}
