// Copyright (c) 2023, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"

	"cogentcore.org/xr/gpu"
	"cogentcore.org/xr/xyz"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/jinzhu/copier"
	"gopkg.in/yaml.v3"
)

// Desc is the description of a scene graph, loaded from YAML.
type Desc struct {

	// name of the scene
	Name string `yaml:"name"`

	// node templates by name, which nodes can refer to
	Templates map[string]NodeDesc `yaml:"templates"`

	// the top-level nodes, added to the root of the scene
	Nodes []NodeDesc `yaml:"nodes"`
}

// NodeDesc is the description of one node and its children.
// Unset fields are nil or empty, and are filled in from the
// template of the node, if any.
type NodeDesc struct {

	// name of the node
	Name string `yaml:"name,omitempty"`

	// name of the template the node is based on
	Template string `yaml:"template,omitempty" copier:"-"`

	// local position
	Position *[3]float32 `yaml:"position,omitempty"`

	// local scale
	Scale *[3]float32 `yaml:"scale,omitempty"`

	// local rotation as a quaternion: x, y, z, w
	Rotation *[4]float32 `yaml:"rotation,omitempty"`

	// local rotation as Euler angles in degrees
	Euler *[3]float32 `yaml:"euler,omitempty"`

	// LOD distance range: min, max
	LOD *[2]float32 `yaml:"lod,omitempty"`

	// name of the geometry in the [Library]
	Geometry string `yaml:"geometry,omitempty"`

	// name of the material in the [Library]
	Material string `yaml:"material,omitempty"`

	// child nodes
	Children []NodeDesc `yaml:"children,omitempty"`
}

// Library resolves the geometry and material names of a scene description.
type Library interface {
	Geometry(name string) (gpu.Geometry, error)
	Material(name string) (gpu.Material, error)
}

// MapLibrary is a [Library] backed by maps.
type MapLibrary struct {
	Geometries map[string]gpu.Geometry
	Materials  map[string]gpu.Material
}

func (ml *MapLibrary) Geometry(name string) (gpu.Geometry, error) {
	g, ok := ml.Geometries[name]
	if !ok {
		return nil, fmt.Errorf("geometry %q not found", name)
	}
	return g, nil
}

func (ml *MapLibrary) Material(name string) (gpu.Material, error) {
	m, ok := ml.Materials[name]
	if !ok {
		return nil, fmt.Errorf("material %q not found", name)
	}
	return m, nil
}

// OpenScene reads a scene description from the given YAML file.
func OpenScene(filename string) (*Desc, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	d, err := ReadScene(f)
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", filename, err)
	}
	return d, nil
}

// ReadScene reads a scene description in YAML format from the given
// reader. Unknown fields are an error.
func ReadScene(r io.Reader) (*Desc, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	d := &Desc{}
	if err := dec.Decode(d); err != nil && err != io.EOF {
		return nil, err
	}
	return d, nil
}

// mergeOption copies only the fields that are set, so that later
// copies override earlier ones. Values are shared, not deep copied.
var mergeOption = copier.Option{IgnoreEmpty: true}

// Resolved returns the nodes of the description with all of their
// templates applied, recursively. A template that is used again within
// its own expansion, directly or through the children it supplies,
// is an error.
func (d *Desc) Resolved() ([]NodeDesc, error) {
	res := make([]NodeDesc, len(d.Nodes))
	for i := range d.Nodes {
		if err := d.resolve(&d.Nodes[i], &res[i], nil); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// resolve sets res to nd with its templates applied, and does the
// same for the children of nd. The active templates are those whose
// expansion produced nd.
func (d *Desc) resolve(nd, res *NodeDesc, active []string) error {
	chain, err := d.applyTemplate(nd.Template, res, active)
	if err != nil {
		return fmt.Errorf("node %q: %w", nd.Name, err)
	}
	if err := copier.CopyWithOption(res, nd, mergeOption); err != nil {
		return err
	}
	res.Template = ""
	children := res.Children
	if len(children) == 0 {
		return nil
	}
	// children set on the node itself keep its provenance,
	// while children from its templates are part of their expansion
	if len(nd.Children) == 0 {
		active = chain
	}
	res.Children = make([]NodeDesc, len(children))
	for i := range children {
		if err := d.resolve(&children[i], &res.Children[i], active); err != nil {
			return err
		}
	}
	return nil
}

// applyTemplate copies the named template into res, after the
// templates it is based on. It returns the seen names followed by
// the names of the applied templates, and fails if one of them
// was already seen.
func (d *Desc) applyTemplate(name string, res *NodeDesc, seen []string) ([]string, error) {
	if name == "" {
		return seen, nil
	}
	if slices.Contains(seen, name) {
		return nil, fmt.Errorf("template %q refers to itself", name)
	}
	tm, ok := d.Templates[name]
	if !ok {
		return nil, fmt.Errorf("template %q not found", name)
	}
	chain, err := d.applyTemplate(tm.Template, res, append(slices.Clip(seen), name))
	if err != nil {
		return nil, err
	}
	return chain, copier.CopyWithOption(res, &tm, mergeOption)
}

// Build adds the nodes of the description to the root of the given
// scene, resolving geometry and material names with lib. It returns
// the top-level nodes that were added. On error, the nodes already
// added are left in the scene.
func (d *Desc) Build(sc *xyz.Scene, lib Library) ([]*xyz.Node, error) {
	nodes, err := d.Resolved()
	if err != nil {
		return nil, err
	}
	var added []*xyz.Node
	for i := range nodes {
		n, err := buildNode(sc, sc.Root(), &nodes[i], lib)
		if err != nil {
			return added, err
		}
		added = append(added, n)
	}
	slog.Info("config: built scene", "scene", sc.Name, "nodes", sc.NumNodes())
	return added, nil
}

func buildNode(sc *xyz.Scene, parent *xyz.Node, nd *NodeDesc, lib Library) (*xyz.Node, error) {
	name := nd.Name
	if name == "" {
		name = "node"
	}
	if nd.Rotation != nil && nd.Euler != nil {
		return nil, fmt.Errorf("node %q: rotation and euler are both set", name)
	}
	n := sc.NewNode(name)
	if err := parent.AddChild(n); err != nil {
		return nil, err
	}
	if nd.Position != nil {
		n.SetPosition(mgl32.Vec3(*nd.Position))
	}
	if nd.Scale != nil {
		n.SetScale(mgl32.Vec3(*nd.Scale))
	}
	if r := nd.Rotation; r != nil {
		n.SetRotation(mgl32.Quat{W: r[3], V: mgl32.Vec3{r[0], r[1], r[2]}})
	}
	if e := nd.Euler; e != nil {
		n.SetEulerRotation(e[0], e[1], e[2])
	}
	if l := nd.LOD; l != nil {
		n.SetLODRange(l[0], l[1])
	}
	if nd.Geometry != "" || nd.Material != "" {
		if nd.Geometry == "" || nd.Material == "" {
			return nil, fmt.Errorf("node %q: a drawable needs both a geometry and a material", name)
		}
		geom, err := lib.Geometry(nd.Geometry)
		if err != nil {
			return nil, fmt.Errorf("node %q: %w", name, err)
		}
		mat, err := lib.Material(nd.Material)
		if err != nil {
			return nil, fmt.Errorf("node %q: %w", name, err)
		}
		n.AttachDrawable(xyz.NewDrawable(name, geom, mat))
	}
	for i := range nd.Children {
		if _, err := buildNode(sc, n, &nd.Children[i], lib); err != nil {
			return nil, err
		}
	}
	return n, nil
}
