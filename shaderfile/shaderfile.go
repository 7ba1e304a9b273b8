// Package shaderfile parses combined GLSL shader files. One file carries all
// stages of a program, each introduced by a marker line:
//
//	-- VERT
//	in vec2 position;
//	void main() { gl_Position = vec4(position, 0.0, 1.0); }
//	-- FRAG
//	out vec4 color;
//	void main() { color = vec4(1.0, 0.0, 0.0, 1.0); }
//
// VERT and FRAG are required, GEOM is optional. Lines before the first marker
// are ignored, so a file may start with a comment block.
package shaderfile

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ErrMissingStage is returned when a file lacks a vertex or fragment section.
var ErrMissingStage = errors.New("shaderfile: missing required stage")

// Source holds the GLSL text of each stage of a shader program. Geometry is
// empty when the file has no GEOM section.
type Source struct {
	Vertex   string
	Geometry string
	Fragment string
}

// ParseFile reads and parses a combined shader file from disk.
func ParseFile(path string) (Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return Source{}, err
	}
	defer f.Close()

	src, err := Parse(f)
	if err != nil {
		return Source{}, fmt.Errorf("%s: %w", path, err)
	}
	return src, nil
}

// Parse splits a combined shader into its stages. An unknown marker is an
// error; text outside any section is dropped.
func Parse(r io.Reader) (Source, error) {
	var vert, geom, frag strings.Builder
	var current *strings.Builder

	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())

		if strings.HasPrefix(text, "--") {
			marker := strings.TrimSpace(text[2:])
			switch marker {
			case "VERT":
				current = &vert
			case "GEOM":
				current = &geom
			case "FRAG":
				current = &frag
			default:
				return Source{}, fmt.Errorf("shaderfile: line %d: expected VERT, GEOM or FRAG, found %q", line, marker)
			}
			continue
		}

		if current != nil {
			current.WriteString(text)
			current.WriteByte('\n')
		}
	}
	if err := scanner.Err(); err != nil {
		return Source{}, err
	}

	if vert.Len() == 0 {
		return Source{}, fmt.Errorf("%w: VERT", ErrMissingStage)
	}
	if frag.Len() == 0 {
		return Source{}, fmt.Errorf("%w: FRAG", ErrMissingStage)
	}

	return Source{
		Vertex:   vert.String(),
		Geometry: geom.String(),
		Fragment: frag.String(),
	}, nil
}
