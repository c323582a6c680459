package merge

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/rs/zerolog"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"

	docx "github.com/lukasjarosch/docx-merge"
	"github.com/lukasjarosch/docx-merge/params"
)

const (
	// DefaultConfigFile is loaded by the command line if it exists and no other file is given.
	DefaultConfigFile = ".docx-merge.yaml"

	DefaultTemplate = "template/template-2.docx"
	DefaultParams   = "data/parameters-2.xlsx"
	DefaultOutput   = "template/output-2.docx"
)

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("invalid config")

// Config describes a single merge run.
type Config struct {
	// Template is the docx file containing the placeholders.
	Template string `yaml:"template" hcl:"template,optional"`
	// Params is the xlsx file containing the parameters.
	Params string `yaml:"params" hcl:"params,optional"`
	// Output is the docx file which is written.
	Output string `yaml:"output" hcl:"output,optional"`
	// Scope selects the document structures which are filled, see docx.ParseScope.
	Scope string `yaml:"scope" hcl:"scope,optional"`

	Sheet       string `yaml:"sheet" hcl:"sheet,optional"`
	NameColumn  string `yaml:"name_column" hcl:"name_column,optional"`
	ValueColumn string `yaml:"value_column" hcl:"value_column,optional"`
	// ListStyles are the paragraph style names treated as list items.
	ListStyles []string `yaml:"list_styles" hcl:"list_styles,optional"`

	// ReadOnly makes the output read-only after it was written.
	ReadOnly bool `yaml:"read_only" hcl:"read_only,optional"`
	// Overwrite allows replacing an existing read-only output.
	Overwrite bool `yaml:"overwrite" hcl:"overwrite,optional"`
}

// DefaultConfig returns the config used if nothing else is configured.
func DefaultConfig() Config {
	return Config{
		Template: DefaultTemplate,
		Params:   DefaultParams,
		Output:   DefaultOutput,
		Scope:    docx.ScopeFull.String(),
		ReadOnly: true,
	}
}

// LoadConfig loads a configuration file from the given path.
// The format is determined by the file extension:
// - .yaml or .yml for YAML
// - .hcl for HCL
//
// Settings missing in the file keep their value from DefaultConfig.
func LoadConfig(ctx context.Context, path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = loadYAML(data, &cfg)
	case ".hcl":
		err = loadHCL(data, path, &cfg)
	default:
		return nil, errors.Errorf("unsupported config file extension %q", ext)
	}
	if err != nil {
		return nil, errors.Errorf("loading %s: %w", path, err)
	}

	zerolog.Ctx(ctx).Debug().Str("path", path).Interface("config", cfg).Msg("loaded config")
	return &cfg, nil
}

// loadYAML loads a configuration from YAML data
func loadYAML(data []byte, cfg *Config) error {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	// an empty file keeps the defaults
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return errors.Errorf("parsing YAML: %w", err)
	}
	return nil
}

// loadHCL loads a configuration from HCL data.
// The environment is available as the "env" object, e.g. output = "${env.HOME}/out.docx".
func loadHCL(data []byte, filename string, cfg *Config) error {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, filename)
	if diags.HasErrors() {
		return errors.Errorf("parsing HCL: %s", diags.Error())
	}

	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env": environment(),
		},
	}

	diags = gohcl.DecodeBody(hclFile.Body, evalCtx, cfg)
	if diags.HasErrors() {
		return errors.Errorf("decoding HCL: %s", diags.Error())
	}
	return nil
}

func environment() cty.Value {
	vars := make(map[string]cty.Value)
	for _, kv := range os.Environ() {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || name == "" {
			continue
		}
		vars[name] = cty.StringVal(value)
	}
	if len(vars) == 0 {
		return cty.EmptyObjectVal
	}
	return cty.ObjectVal(vars)
}

// Validate checks that the config can be used for a merge run.
func (c *Config) Validate() error {
	if c.Template == "" {
		return errors.Errorf("%w: template is required", ErrInvalidConfig)
	}
	if c.Params == "" {
		return errors.Errorf("%w: params is required", ErrInvalidConfig)
	}
	if c.Output == "" {
		return errors.Errorf("%w: output is required", ErrInvalidConfig)
	}
	if _, err := docx.ParseScope(c.Scope); err != nil {
		return errors.Errorf("%w: %s", ErrInvalidConfig, err)
	}
	if samePath(c.Template, c.Output) {
		return errors.Errorf("%w: output %s would overwrite the template", ErrInvalidConfig, c.Output)
	}
	return nil
}

func (c *Config) scope() docx.Scope {
	scope, err := docx.ParseScope(c.Scope)
	if err != nil {
		return docx.ScopeFull
	}
	return scope
}

func (c *Config) paramsOptions() params.Options {
	return params.Options{
		Sheet:       c.Sheet,
		NameColumn:  c.NameColumn,
		ValueColumn: c.ValueColumn,
	}
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}
