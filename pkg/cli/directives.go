package cli

import (
	"flag"
	"fmt"
	"io"

	"github.com/platinummonkey/dml/pkg/directive"
	"github.com/platinummonkey/dml/pkg/directive/builtin"
	"github.com/platinummonkey/dml/pkg/dml"
)

type describer interface {
	Description() string
}

func newDirectivesCommand(out io.Writer) *Command {
	cmd := &Command{
		Name:        "directives",
		Description: "List the built-in directives",
		Flags:       flag.NewFlagSet("directives", flag.ContinueOnError),
		Out:         out,
	}
	kind := cmd.Flags.String("kind", "", "Only list directives for field, model or enum")
	cmd.Flags.SetOutput(out)

	cmd.Run = func(args []string) error {
		if err := cmd.Flags.Parse(args); err != nil {
			return err
		}
		return printDirectives(out, builtin.NewCatalog(), *kind)
	}
	return cmd
}

func printDirectives(out io.Writer, catalog *directive.Catalog, kind string) error {
	switch kind {
	case "":
		printList(out, catalog.Models)
		printList(out, catalog.Fields)
		printList(out, catalog.Enums)
	case dml.KindModel.String():
		printList(out, catalog.Models)
	case dml.KindField.String():
		printList(out, catalog.Fields)
	case dml.KindEnum.String():
		printList(out, catalog.Enums)
	default:
		return fmt.Errorf("unknown node kind %q (must be field, model or enum)", kind)
	}
	return nil
}

func printList[T dml.Node](out io.Writer, list *directive.ListValidator[T]) {
	fmt.Fprintf(out, "%s directives:\n", list.Kind())
	names := list.Names()
	if len(names) == 0 {
		fmt.Fprintf(out, "  (none)\n")
		return
	}
	for _, name := range names {
		v, _ := list.Lookup(name)
		desc := ""
		if d, ok := v.(describer); ok {
			desc = d.Description()
		}
		fmt.Fprintf(out, "  @%-12s %s\n", name, desc)
	}
}
