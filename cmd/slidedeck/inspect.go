package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"golang.org/x/net/html"

	"slidedeck/internal/models"
	"slidedeck/internal/render"
	"slidedeck/internal/services"
)

// errInvalidDocument makes validate exit non-zero after printing its report
var errInvalidDocument = errors.New("presentation has violations")

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the stored presentation against the slide contracts",
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := loadStored(cmd)
		if err != nil {
			return err
		}
		return writeViolations(cmd.OutOrStdout(), doc)
	},
}

var (
	renderIndex int
	renderPage  bool
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Print the HTML of one slide",
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := loadStored(cmd)
		if err != nil {
			return err
		}
		return writeSlide(cmd.OutOrStdout(), doc, renderIndex, renderPage)
	},
}

func init() {
	renderCmd.Flags().IntVarP(&renderIndex, "index", "i", 0, "slide index")
	renderCmd.Flags().BoolVar(&renderPage, "page", false, "render the full viewer page instead of the slide alone")
}

// loadStored reads the document without seeding; inspection never writes
func loadStored(cmd *cobra.Command) (*models.Document, error) {
	b, err := openBackend(cfg, logger)
	if err != nil {
		return nil, err
	}
	defer b.close()

	doc, err := b.store.Load(cmd.Context())
	if err != nil {
		return nil, fmt.Errorf("failed to load presentation: %s", services.MessageOf(err))
	}
	return doc, nil
}

func writeViolations(w io.Writer, doc *models.Document) error {
	violations := doc.Validate()
	if len(violations) == 0 {
		fmt.Fprintf(w, "%s: %d slides, no violations\n", doc.DocumentName, len(doc.Slides))
		return nil
	}
	for _, v := range violations {
		fmt.Fprintln(w, v.String())
	}
	return fmt.Errorf("%w: %d found", errInvalidDocument, len(violations))
}

func writeSlide(w io.Writer, doc *models.Document, index int, page bool) error {
	var node *html.Node
	if page {
		var err error
		if node, err = render.Page(doc, index); err != nil {
			return err
		}
	} else {
		if index < 0 || index >= len(doc.Slides) {
			return fmt.Errorf("%w: %d of %d", render.ErrIndexOutOfRange, index, len(doc.Slides))
		}
		node = render.Slide(doc.Slides[index])
	}
	if err := render.Write(w, node); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w)
	return err
}
