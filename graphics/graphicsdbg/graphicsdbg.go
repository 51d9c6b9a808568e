/*
Package graphicsdbg implements helpers to debug a graphics layer tree.

______________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>


*/
package graphicsdbg

import (
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"os/exec"
	"testing"
	"text/template"

	"github.com/npillmayer/compositor/geom"
	"github.com/npillmayer/compositor/graphics"
)

// Parameters for GraphViz drawing.
type graphParamsType struct {
	Fontname    string
	NodeTmpl    *template.Template
	EdgeTmpl    *template.Template
	ReplicaTmpl *template.Template
}

// ToGraphViz outputs a diagram for a graphics layer tree. The diagram is in
// GraphViz (DOT) format. Layers which draw content are filled, layers
// clipping their children have a bold border.
func ToGraphViz(root *graphics.Layer, w io.Writer) error {
	tmpl, err := template.New("graphics").Parse(graphHeadTmpl)
	if err != nil {
		return err
	}
	gparams := graphParamsType{Fontname: "Helvetica"}
	gparams.NodeTmpl = template.Must(template.New("layer").Funcs(
		template.FuncMap{
			"rect": formatBounds,
		}).Parse(layerNodeTmpl))
	gparams.EdgeTmpl = template.Must(template.New("edge").Parse(layerEdgeTmpl))
	gparams.ReplicaTmpl = template.Must(template.New("replica").Parse(replicaEdgeTmpl))
	if err = tmpl.Execute(w, gparams); err != nil {
		return err
	}
	dict := make(map[*graphics.Layer]string, 256)
	if err = layers(root, w, dict, &gparams); err != nil {
		return err
	}
	_, err = w.Write([]byte("}\n"))
	return err
}

// Dotty is a helper for testing. Given a graphics layer and a testing.T, it
// will create a Graphiviz image of the layer tree under `root` and write it
// to a file in the current folder, choosing a unique file name.
// The image is in SVG format.
//
// If an error occurs, t.Error(…) will be set, causing the test to fail.
//
func Dotty(root *graphics.Layer, t *testing.T) {
	tmpfile, err := ioutil.TempFile(".", "layers.*.dot")
	if err != nil {
		t.Error(err)
		return
	}
	defer func() {
		tmpfile.Close()
		os.Remove(tmpfile.Name()) // clean up
	}()
	t.Logf("writing layer digraph to %s\n", tmpfile.Name())
	if err := ToGraphViz(root, tmpfile); err != nil {
		t.Error(err)
		return
	}
	outOption := fmt.Sprintf("-o%s.svg", tmpfile.Name())
	cmd := exec.Command("dot", "-Tsvg", outOption, tmpfile.Name())
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		t.Error(err.Error())
	}
}

type node struct {
	L    *graphics.Layer
	Name string
}

type edge struct {
	N1, N2 node
}

func layers(l *graphics.Layer, w io.Writer, dict map[*graphics.Layer]string, gparams *graphParamsType) error {
	n := layerNode(l, dict)
	if err := gparams.NodeTmpl.Execute(w, n); err != nil {
		return err
	}
	if r := l.ReplicaLayer(); r != nil {
		if err := layers(r, w, dict, gparams); err != nil {
			return err
		}
		if err := gparams.ReplicaTmpl.Execute(w, edge{n, layerNode(r, dict)}); err != nil {
			return err
		}
	}
	for _, ch := range l.ChildLayers() {
		if err := layers(ch, w, dict, gparams); err != nil {
			return err
		}
		if err := gparams.EdgeTmpl.Execute(w, edge{n, layerNode(ch, dict)}); err != nil {
			return err
		}
	}
	return nil
}

func layerNode(l *graphics.Layer, dict map[*graphics.Layer]string) node {
	name := dict[l]
	if name == "" {
		name = fmt.Sprintf("layer%05d", len(dict)+1)
		dict[l] = name
	}
	return node{l, name}
}

func formatBounds(l *graphics.Layer) string {
	return geom.FormatRect(geom.RectAt(l.Position(), l.Size()))
}

// --- Templates --------------------------------------------------------

const graphHeadTmpl = `digraph g {
  graph [labelloc="t" label="" splines=true overlap=false rankdir = "TB"];
  graph [fontname = "{{ .Fontname }}" fontsize=14] ;
   node [fontname = "{{ .Fontname }}" fontsize=12] ;
   edge [fontname = "{{ .Fontname }}" fontsize=12] ;
`

const layerNodeTmpl = `{{ .Name }}	[ label=<{{ .L.Name }}<br/><font point-size="9">{{ rect .L }}</font>> shape=box{{ if .L.DrawsContent }} style=filled fillcolor=lightblue3{{ end }}{{ if .L.MasksToBounds }} penwidth=2.5{{ end }} ] ;
`

const layerEdgeTmpl = `{{ .N1.Name }} -> {{ .N2.Name }} [weight=1] ;
`

const replicaEdgeTmpl = `{{ .N1.Name }} -> {{ .N2.Name }} [weight=1 style="dashed" label="replica"] ;
`
