package scenario

import (
	"bufio"
	"bytes"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/wippyai/owned/errors"
)

// Step is a single scenario command.
type Step struct {
	Op   string
	Args []string
}

func (s Step) String() string {
	if len(s.Args) == 0 {
		return s.Op
	}
	return s.Op + " " + strings.Join(s.Args, " ")
}

// Script is a named list of steps.
type Script struct {
	Name  string
	Steps []Step
}

// Format selects the script file encoding.
type Format int

const (
	FormatText Format = iota
	FormatYAML
	FormatTOML
)

// FormatFromPath picks the format from the file extension.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".toml":
		return FormatTOML
	default:
		return FormatText
	}
}

// scriptFile is the on-disk shape of YAML and TOML scripts.
type scriptFile struct {
	Name  string   `yaml:"name" toml:"name"`
	Steps []string `yaml:"steps" toml:"steps"`
}

type arity struct {
	min, max int
}

var ops = map[string]arity{
	"new":     {1, 1},
	"make":    {2, 2},
	"move":    {2, 2},
	"assign":  {2, 2},
	"reset":   {1, 2},
	"release": {2, 2},
	"delete":  {1, 1},
	"swap":    {2, 2},
	"drop":    {1, 1},
	"hello":   {1, 1},
	"check":   {1, 1},
	"stash":   {1, 1},
	"claim":   {2, 2},
	"discard": {1, 1},
}

// ParseLine parses one command. Blank lines and # comments yield ok == false.
func ParseLine(line string) (step Step, ok bool, err error) {
	if i := strings.IndexByte(line, '#'); i >= 0 {
		line = line[:i]
	}
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Step{}, false, nil
	}

	op := strings.ToLower(fields[0])
	args := fields[1:]

	a, known := ops[op]
	if !known {
		return Step{}, false, errors.UnknownOp(errors.PhaseParse, op)
	}
	if len(args) < a.min || len(args) > a.max {
		return Step{}, false, errors.New(errors.PhaseParse, errors.KindInvalidInput).
			Op(op).
			Value(len(args)).
			Detail("want %s, got %d", argCount(a), len(args)).
			Build()
	}

	return Step{Op: op, Args: args}, true, nil
}

func argCount(a arity) string {
	if a.min == a.max {
		return strconv.Itoa(a.min) + " argument(s)"
	}
	return strconv.Itoa(a.min) + "-" + strconv.Itoa(a.max) + " arguments"
}

// ParseText parses a plain-text script.
func ParseText(name string, data []byte) (*Script, error) {
	s := &Script{Name: name}
	sc := bufio.NewScanner(bytes.NewReader(data))
	lineNo := 0
	for sc.Scan() {
		lineNo++
		step, ok, err := ParseLine(sc.Text())
		if err != nil {
			return nil, lineError(name, lineNo, err)
		}
		if ok {
			s.Steps = append(s.Steps, step)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errors.ParseFailed(name, err)
	}
	return s, nil
}

// Parse decodes a script in the given format. name is used when the
// script does not carry its own.
func Parse(name string, data []byte, format Format) (*Script, error) {
	if format == FormatText {
		return ParseText(name, data)
	}

	var f scriptFile
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, errors.ParseFailed("yaml script", err)
		}
	case FormatTOML:
		if err := toml.Unmarshal(data, &f); err != nil {
			return nil, errors.ParseFailed("toml script", err)
		}
	default:
		return nil, errors.Unsupported(errors.PhaseLoad, "script format "+strconv.Itoa(int(format)))
	}

	s := &Script{Name: f.Name}
	if s.Name == "" {
		s.Name = name
	}
	for i, line := range f.Steps {
		step, ok, err := ParseLine(line)
		if err != nil {
			return nil, lineError(s.Name, i+1, err)
		}
		if ok {
			s.Steps = append(s.Steps, step)
		}
	}
	return s, nil
}

// Load reads a script file, choosing the decoder by extension.
func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Load("read script "+path, err)
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return Parse(name, data, FormatFromPath(path))
}

func lineError(name string, line int, cause error) error {
	err := errors.InvalidData(errors.PhaseParse, []string{name, strconv.Itoa(line)}, "")
	err.Cause = cause
	return err
}

const defaultScript = `# make -> move -> reset -> release, then delete the released value
make p 10
hello p
move p q
check p
hello q
reset q 99
hello q
release q @raw
check q
hello @raw
delete @raw
`

// Default returns the canonical ownership scenario.
func Default() *Script {
	s, err := ParseText("default", []byte(defaultScript))
	if err != nil {
		panic(err)
	}
	return s
}
