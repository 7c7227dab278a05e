package gol

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// BoardFile is the on-disk form of a grid interior
type BoardFile struct {
	Height int      `toml:"height" yaml:"height"`
	Width  int      `toml:"width" yaml:"width"`
	Rows   []string `toml:"rows" yaml:"rows"`
}

type boardFormat int

const (
	formatTOML boardFormat = iota
	formatYAML
	formatPGM
)

func formatOf(path string) (boardFormat, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return formatTOML, nil
	case ".yaml", ".yml":
		return formatYAML, nil
	case ".pgm":
		return formatPGM, nil
	default:
		return 0, fmt.Errorf("board file %s: unknown extension (want .toml, .yaml, .yml or .pgm)", path)
	}
}

// LoadBoard reads a grid from a TOML, YAML or PGM board file
func LoadBoard(path string) (Grid, error) {

	format, err := formatOf(path)
	if err != nil {
		return Grid{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Grid{}, err
	}
	if format == formatPGM {
		g, err := readPGM(data)
		if err != nil {
			return Grid{}, fmt.Errorf("board file %s: %w", path, err)
		}
		return g, nil
	}

	var board BoardFile
	switch format {
	case formatTOML:
		err = toml.Unmarshal(data, &board)
	case formatYAML:
		err = yaml.Unmarshal(data, &board)
	}
	if err != nil {
		return Grid{}, fmt.Errorf("board file %s: %w", path, err)
	}

	g, err := GridFromRows(board.Rows)
	if err != nil {
		return Grid{}, fmt.Errorf("board file %s: %w", path, err)
	}
	if g.Height != board.Height || g.Width != board.Width {
		return Grid{}, fmt.Errorf("board file %s: %w: rows are %dx%d, header says %dx%d",
			path, ErrMalformedGrid, g.Height, g.Width, board.Height, board.Width)
	}
	return g, nil
}

// SaveBoard writes the interior of g to a TOML, YAML or PGM board file
func SaveBoard(path string, g Grid) error {

	format, err := formatOf(path)
	if err != nil {
		return err
	}

	board := BoardFile{Height: g.Height, Width: g.Width, Rows: g.Rows()}
	var data []byte
	switch format {
	case formatTOML:
		data, err = toml.Marshal(board)
	case formatYAML:
		data, err = yaml.Marshal(board)
	case formatPGM:
		data = writePGM(g)
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
