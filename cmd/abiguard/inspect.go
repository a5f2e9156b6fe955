// Inspect command: dump the shape an artifact carries.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wirelayer/abiguard/catalog"
	"github.com/wirelayer/abiguard/shape"
)

var (
	inspectJSON bool
	inspectSave bool
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <artifact>",
	Short: "Print the shape an artifact carries",
	Long: `Inspect reads an artifact's shape document and prints it, either as a
readable type listing or as the raw JSON the header encodes. With --save
the shape is also stored in the local catalog under the library's name
and version.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		art, err := resolveArtifact(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		if inspectJSON {
			data, err := art.Doc.Encode()
			if err != nil {
				return err
			}
			fmt.Println(string(data))
		} else {
			fmt.Printf("Shape of %s\n\n", art.title())
			fmt.Print(renderDocument(art.Doc))
		}

		if inspectSave {
			if art.Library == "" || art.Version == "" {
				return fmt.Errorf("artifact %s carries no library name and version; only library headers can be saved", art.Ref)
			}
			cat, err := catalog.Open(cfg.CatalogPath)
			if err != nil {
				return err
			}
			defer cat.Close()

			entry, err := cat.Save(cmd.Context(), art.Library, art.Version, art.Doc)
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "saved %s@%s as %s\n", entry.Library, entry.Version, entry.ID)
		}
		return nil
	},
}

func init() {
	inspectCmd.Flags().BoolVar(&inspectJSON, "json", false, "print the raw shape JSON")
	inspectCmd.Flags().BoolVar(&inspectSave, "save", false, "store the shape in the local catalog")
}

// renderDocument writes a readable listing of every type in the document,
// root first.
func renderDocument(doc *shape.Document) string {
	var b strings.Builder
	for i, t := range doc.Types {
		marker := " "
		if i == doc.Root {
			marker = "*"
		}
		fmt.Fprintf(&b, "%s [%d] %s\n", marker, i, typeHeadline(t))
		b.WriteString(renderTypeBody(doc, t, "      "))
	}
	return b.String()
}

func typeHeadline(t shape.Type) string {
	name := t.Name
	if t.Package != "" {
		name = t.Package + "::" + name
	}
	line := fmt.Sprintf("%s  %s  size=%d align=%d", name, typeKind(t), t.Size, t.Align)
	if t.Repr.Kind != "" || t.Repr.Discr != "" {
		line += "  repr=" + reprString(t.Repr)
	}
	return line
}

func typeKind(t shape.Type) string {
	switch t.Kind {
	case "struct":
		if t.SuffixFrom != nil {
			return fmt.Sprintf("struct(prefix from %d)", *t.SuffixFrom)
		}
		return "struct"
	case "enum":
		if !t.Exhaustive {
			return "enum(nonexhaustive)"
		}
		return "enum"
	case "primitive":
		return "primitive " + t.Primitive
	default:
		return t.Kind
	}
}

func reprString(r shape.Repr) string {
	s := r.Kind
	if s == "" {
		s = "C"
	}
	if r.Discr != "" {
		s += "," + r.Discr
	}
	if r.ForcedAlign > 0 {
		s += fmt.Sprintf(",align(%d)", r.ForcedAlign)
	}
	return s
}

func renderTypeBody(doc *shape.Document, t shape.Type, indent string) string {
	var b strings.Builder

	for i, f := range t.Fields {
		if t.SuffixFrom != nil && i == *t.SuffixFrom {
			fmt.Fprintf(&b, "%s--- suffix ---\n", indent)
		}
		fmt.Fprintf(&b, "%s%s\n", indent, fieldLine(doc, f))
	}
	for _, v := range t.Variants {
		fmt.Fprintf(&b, "%s%s = %d\n", indent, v.Name, v.Discriminant)
		for _, f := range v.Fields {
			fmt.Fprintf(&b, "%s    %s\n", indent, fieldLine(doc, f))
		}
	}
	return b.String()
}

func fieldLine(doc *shape.Document, f shape.Field) string {
	line := fmt.Sprintf("%s: %s", f.Name, typeRefName(doc, f.Type))
	var notes []string
	if f.Accessor != "" && f.Accessor != "direct" {
		acc := f.Accessor
		if f.AccessorName != "" {
			acc += "(" + f.AccessorName + ")"
		}
		notes = append(notes, acc)
	}
	if f.Conditional {
		notes = append(notes, "conditional")
	}
	if len(notes) > 0 {
		line += "  [" + strings.Join(notes, ", ") + "]"
	}
	return line
}

func typeRefName(doc *shape.Document, idx int) string {
	if idx < 0 || idx >= len(doc.Types) {
		return fmt.Sprintf("#%d", idx)
	}
	t := doc.Types[idx]
	if t.Kind == "primitive" && t.Primitive != "" {
		return t.Primitive
	}
	if t.Name != "" {
		return t.Name
	}
	return fmt.Sprintf("#%d", idx)
}
