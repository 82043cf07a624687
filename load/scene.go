package load

// scene.go parses the line-oriented scene description format spec.md §6
// names: MATERIAL/CAMERA/OBJECT blocks of keyed lines, one token per
// line, processed with a bufio.Scanner the way the teacher's resource
// loaders line-scan text assets (load/obj.go, load/mtl.go) - here
// generalized from "collect raw lines" to "parse keyed fields into a
// scene.Scene".

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gazed/tracer/math/lin"
	"github.com/gazed/tracer/scene"
)

// ParseScene reads a scene file from r and builds a fully-formed
// scene.Scene: materials classified, object transforms built, and every
// MESH object's triangles loaded (via LoadGLTF) and BVH built through
// buildBVH (normally trace.BuildMeshBVH, injected by the caller so this
// package never imports trace).
func ParseScene(r io.Reader, buildBVH BVHBuilder) (*scene.Scene, error) {
	p := &parser{
		sc:        bufio.NewScanner(r),
		materials: make(map[int]int),
	}
	if err := p.run(); err != nil {
		return nil, err
	}
	return p.build(buildBVH)
}

// BVHBuilder builds a BVH over tris[triBegin:triEnd], appending nodes to
// nodes and returning the updated slice plus the new subtree's root
// index - the shape of trace.BuildMeshBVH, passed in by the caller
// (cmd/tracer) so this package never imports trace.
type BVHBuilder func(tris []scene.Triangle, triBegin, triEnd int, nodes []scene.BVHNode) ([]scene.BVHNode, int)

type materialDecl struct {
	id                      int
	color, specular         lin.V3
	specExp, ior, emittance float64
	reflective, refractive  bool
}

type objectDecl struct {
	id         int
	shape      string // "cube", "sphere", or "gltf"
	gltfPath   string
	materialID int
	translate  lin.V3
	rotate     lin.V3
	scale      lin.V3
}

type parser struct {
	sc  *bufio.Scanner
	cam *cameraDecl

	materials   map[int]int // declared material id -> index in materialOrder
	materialOrd []materialDecl
	objects     []objectDecl
}

type cameraDecl struct {
	width, height         int
	fovY                  float64
	iterations, depth     int
	eye, lookAt, up       lin.V3
	aperture, focalLength float64
}

func (p *parser) run() error {
	for p.sc.Scan() {
		line := strings.TrimSpace(p.sc.Text())
		if line == "" || strings.HasPrefix(line, "//") {
			continue
		}
		fields := strings.Fields(line)
		switch strings.ToUpper(fields[0]) {
		case "MATERIAL":
			if err := p.parseMaterial(fields); err != nil {
				return err
			}
		case "CAMERA":
			if err := p.parseCamera(); err != nil {
				return err
			}
		case "OBJECT":
			if err := p.parseObject(fields); err != nil {
				return err
			}
		default:
			return fmt.Errorf("load: unexpected top-level token %q", fields[0])
		}
	}
	return p.sc.Err()
}

func (p *parser) parseMaterial(header []string) error {
	id, err := expectInt(header, 1, "MATERIAL")
	if err != nil {
		return err
	}
	m := materialDecl{id: id, specExp: 0, ior: 1}
	for p.sc.Scan() {
		line := strings.TrimSpace(p.sc.Text())
		if line == "" {
			break
		}
		if strings.HasPrefix(line, "//") {
			continue
		}
		f := strings.Fields(line)
		switch strings.ToUpper(f[0]) {
		case "RGB":
			m.color, err = vec3(f)
		case "SPECRGB":
			m.specular, err = vec3(f)
		case "SPECEX":
			m.specExp, err = expectFloat(f, 1, "SPECEX")
		case "REFL":
			m.reflective, err = expectBool(f, 1, "REFL")
		case "REFR":
			m.refractive, err = expectBool(f, 1, "REFR")
		case "REFRIOR":
			m.ior, err = expectFloat(f, 1, "REFRIOR")
		case "EMITTANCE":
			m.emittance, err = expectFloat(f, 1, "EMITTANCE")
		default:
			err = fmt.Errorf("load: unknown MATERIAL field %q", f[0])
		}
		if err != nil {
			return err
		}
	}
	p.materials[id] = len(p.materialOrd)
	p.materialOrd = append(p.materialOrd, m)
	return nil
}

func (p *parser) parseCamera() error {
	c := &cameraDecl{}
	var err error
	for p.sc.Scan() {
		line := strings.TrimSpace(p.sc.Text())
		if line == "" {
			break
		}
		if strings.HasPrefix(line, "//") {
			continue
		}
		f := strings.Fields(line)
		switch strings.ToUpper(f[0]) {
		case "RES":
			if c.width, err = expectInt(f, 1, "RES"); err == nil {
				c.height, err = expectInt(f, 2, "RES")
			}
		case "FOVY":
			c.fovY, err = expectFloat(f, 1, "FOVY")
		case "ITERATIONS":
			c.iterations, err = expectInt(f, 1, "ITERATIONS")
		case "DEPTH":
			c.depth, err = expectInt(f, 1, "DEPTH")
		case "FILE":
			// output file name; rendering is driven by engine/cmd, not load.
		case "EYE":
			c.eye, err = vec3(f)
		case "LOOKAT":
			c.lookAt, err = vec3(f)
		case "UP":
			c.up, err = vec3(f)
		case "APERTURE":
			c.aperture, err = expectFloat(f, 1, "APERTURE")
		case "FOCALLENGTH":
			c.focalLength, err = expectFloat(f, 1, "FOCALLENGTH")
		default:
			err = fmt.Errorf("load: unknown CAMERA field %q", f[0])
		}
		if err != nil {
			return err
		}
	}
	p.cam = c
	return nil
}

func (p *parser) parseObject(header []string) error {
	id, err := expectInt(header, 1, "OBJECT")
	if err != nil {
		return err
	}
	o := objectDecl{id: id, scale: lin.V3{X: 1, Y: 1, Z: 1}}

	if !p.sc.Scan() {
		return fmt.Errorf("load: OBJECT %d missing shape line", id)
	}
	shapeLine := strings.Fields(strings.TrimSpace(p.sc.Text()))
	if len(shapeLine) == 0 {
		return fmt.Errorf("load: OBJECT %d missing shape line", id)
	}
	switch strings.ToLower(shapeLine[0]) {
	case "cube", "sphere":
		o.shape = strings.ToLower(shapeLine[0])
	case "gltf":
		if len(shapeLine) < 2 {
			return fmt.Errorf("load: OBJECT %d gltf shape missing path", id)
		}
		o.shape = "gltf"
		o.gltfPath = shapeLine[1]
	default:
		return fmt.Errorf("load: OBJECT %d unknown shape %q", id, shapeLine[0])
	}

	for p.sc.Scan() {
		line := strings.TrimSpace(p.sc.Text())
		if line == "" {
			break
		}
		if strings.HasPrefix(line, "//") {
			continue
		}
		f := strings.Fields(line)
		switch strings.ToLower(f[0]) {
		case "material":
			o.materialID, err = expectInt(f, 1, "material")
		case "trans":
			o.translate, err = vec3(f)
		case "rotat":
			o.rotate, err = vec3(f)
		case "scale":
			o.scale, err = vec3(f)
		default:
			err = fmt.Errorf("load: OBJECT %d unknown field %q", id, f[0])
		}
		if err != nil {
			return err
		}
	}
	p.objects = append(p.objects, o)
	return nil
}

// build assembles the parsed declarations into a scene.Scene: materials
// classified, object Transforms built, MESH objects loaded through
// LoadGLTF and their triangles' BVH built through buildBVH.
func (p *parser) build(buildBVH BVHBuilder) (*scene.Scene, error) {
	if p.cam == nil {
		return nil, fmt.Errorf("load: scene file has no CAMERA block")
	}
	cam, err := scene.NewCamera(p.cam.eye, p.cam.lookAt, p.cam.up, p.cam.fovY, p.cam.width, p.cam.height, p.cam.aperture, p.cam.focalLength)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}

	sc := &scene.Scene{
		Camera:         cam,
		IterationCount: p.cam.iterations,
		MaxDepth:       p.cam.depth,
	}
	for _, m := range p.materialOrd {
		mat := scene.Material{
			Color:      m.color,
			Specular:   m.specular,
			SpecExp:    m.specExp,
			IOR:        m.ior,
			Emittance:  m.emittance,
			Reflective: m.reflective,
			Refractive: m.refractive,
		}
		mat.Classify()
		sc.Materials = append(sc.Materials, mat)
	}

	for _, o := range p.objects {
		matIdx, ok := p.materials[o.materialID]
		if !ok {
			return nil, fmt.Errorf("load: OBJECT %d references undeclared material %d", o.id, o.materialID)
		}
		g := scene.Geom{
			MaterialID: matIdx,
			Transform: scene.Transform{
				Translate: o.translate,
				Rotate:    o.rotate,
				Scale:     o.scale,
			},
			BVHRoot: -1,
		}
		g.Transform.Build()

		switch o.shape {
		case "cube":
			g.Kind = scene.Cube
		case "sphere":
			g.Kind = scene.Sphere
		case "gltf":
			g.Kind = scene.Mesh
			tris, err := LoadGLTF(o.gltfPath)
			if err != nil {
				return nil, fmt.Errorf("load: OBJECT %d: %w", o.id, err)
			}
			g.TriBegin = len(sc.Triangles)
			sc.Triangles = append(sc.Triangles, tris...)
			g.TriEnd = len(sc.Triangles)
			sc.BVHNodes, g.BVHRoot = buildBVH(sc.Triangles, g.TriBegin, g.TriEnd, sc.BVHNodes)
		}
		sc.Geoms = append(sc.Geoms, g)
	}

	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return sc, nil
}

func vec3(f []string) (lin.V3, error) {
	if len(f) < 4 {
		return lin.V3{}, fmt.Errorf("load: %q expects 3 values", f[0])
	}
	x, err := strconv.ParseFloat(f[1], 64)
	if err != nil {
		return lin.V3{}, fmt.Errorf("load: %q: %w", f[0], err)
	}
	y, err := strconv.ParseFloat(f[2], 64)
	if err != nil {
		return lin.V3{}, fmt.Errorf("load: %q: %w", f[0], err)
	}
	z, err := strconv.ParseFloat(f[3], 64)
	if err != nil {
		return lin.V3{}, fmt.Errorf("load: %q: %w", f[0], err)
	}
	return lin.V3{X: x, Y: y, Z: z}, nil
}

func expectInt(f []string, idx int, name string) (int, error) {
	if idx >= len(f) {
		return 0, fmt.Errorf("load: %q missing value", name)
	}
	n, err := strconv.Atoi(f[idx])
	if err != nil {
		return 0, fmt.Errorf("load: %q: %w", name, err)
	}
	return n, nil
}

func expectFloat(f []string, idx int, name string) (float64, error) {
	if idx >= len(f) {
		return 0, fmt.Errorf("load: %q missing value", name)
	}
	x, err := strconv.ParseFloat(f[idx], 64)
	if err != nil {
		return 0, fmt.Errorf("load: %q: %w", name, err)
	}
	return x, nil
}

func expectBool(f []string, idx int, name string) (bool, error) {
	n, err := expectInt(f, idx, name)
	if err != nil {
		return false, err
	}
	return n != 0, nil
}
