package structure

import (
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"
)

// Highlight colors offered by the viewer.
var Colors = []string{"red", "blue", "green"}

const (
	MinRadius = 0.1
	MaxRadius = 5.0
)

// ViewOptions controls the rendered viewer page.
type ViewOptions struct {
	Title  string
	Color  string
	Radius float64
	Width  int
	Height int
}

func (o ViewOptions) normalized() (ViewOptions, error) {
	if o.Color == "" {
		o.Color = Colors[0]
	}
	valid := false
	for _, c := range Colors {
		if c == o.Color {
			valid = true
			break
		}
	}
	if !valid {
		return o, fmt.Errorf("unsupported highlight color %q", o.Color)
	}
	if o.Radius == 0 {
		o.Radius = 1.0
	}
	if o.Radius < MinRadius {
		o.Radius = MinRadius
	}
	if o.Radius > MaxRadius {
		o.Radius = MaxRadius
	}
	if o.Width <= 0 {
		o.Width = 800
	}
	if o.Height <= 0 {
		o.Height = 600
	}
	if o.Title == "" {
		o.Title = "Structure view"
	}
	return o, nil
}

var viewerTemplate = template.Must(template.New("viewer").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<script src="https://3Dmol.org/build/3Dmol-min.js"></script>
</head>
<body style="margin: 0; background: white;">
<div id="viewer" style="width: {{.Width}}px; height: {{.Height}}px; position: relative;"></div>
<script>
const pdb = {{.PDB}};
const selections = {{.Selections}};
const viewer = $3Dmol.createViewer(document.getElementById("viewer"), {backgroundColor: "white"});
viewer.addModel(pdb, "pdb");
viewer.setStyle({}, {cartoon: {color: "spectrum"}});
for (const sel of selections) {
  viewer.addStyle(sel, {sphere: {color: {{.Color}}, radius: {{.Radius}}}});
}
viewer.zoomTo();
viewer.render();
</script>
</body>
</html>
`))

type viewerData struct {
	Title      string
	Width      int
	Height     int
	PDB        string
	Selections []Selection
	Color      string
	Radius     float64
}

// RenderViewer writes a standalone 3Dmol.js page showing the structure as a
// spectrum-colored cartoon with spheres on the selected residues.
func RenderViewer(w io.Writer, pdb string, sels []Selection, opts ViewOptions) error {
	opts, err := opts.normalized()
	if err != nil {
		return err
	}
	if sels == nil {
		sels = []Selection{}
	}
	return viewerTemplate.Execute(w, viewerData{
		Title:      opts.Title,
		Width:      opts.Width,
		Height:     opts.Height,
		PDB:        pdb,
		Selections: sels,
		Color:      opts.Color,
		Radius:     opts.Radius,
	})
}

// WriteViewerFile renders the viewer page to path.
func WriteViewerFile(path, pdb string, sels []Selection, opts ViewOptions) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", filepath.Base(path), err)
	}
	if err := RenderViewer(f, pdb, sels, opts); err != nil {
		f.Close()
		return fmt.Errorf("render viewer: %w", err)
	}
	return f.Close()
}
