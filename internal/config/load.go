package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/load"
	"gopkg.in/yaml.v3"
)

//go:embed schema.cue
var schemaSource []byte

// Load reads a parameter file. The format follows the extension: .yaml and
// .yml are YAML, .cue is CUE. Empty cavity and recorder fields take their
// defaults; the result is not validated.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("parameter file not found: %s", path), Err: err}
	}

	var (
		cfg *Config
		err error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		var data []byte
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, &LoadError{Code: ErrCodeNotFound, Message: err.Error(), Err: err}
		}
		cfg, err = DecodeYAML(bytes.NewReader(data))
	case ".cue":
		cfg, err = loadCUE(path)
	default:
		return nil, &LoadError{
			Code:    ErrCodeUnsupported,
			Message: fmt.Sprintf("%s: expected .yaml, .yml or .cue", path),
			Err:     ErrUnknownFormat,
		}
	}
	if err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

// DecodeYAML decodes a YAML parameter set. Unknown keys are rejected.
func DecodeYAML(r io.Reader) (*Config, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var cfg Config
	if err := dec.Decode(&cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &LoadError{Code: ErrCodeParse, Message: "empty parameter file", Err: err}
		}
		return nil, &LoadError{Code: ErrCodeParse, Message: err.Error(), Err: err}
	}
	return &cfg, nil
}

// EncodeYAML writes cfg as YAML.
func EncodeYAML(w io.Writer, cfg *Config) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return err
	}
	return enc.Close()
}

func loadCUE(path string) (*Config, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileBytes(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, cueError(ErrCodeSchema, "compiling schema", err)
	}

	instances := load.Instances([]string{filepath.Base(path)}, &load.Config{Dir: filepath.Dir(path)})
	if len(instances) == 0 {
		return nil, &LoadError{Code: ErrCodeParse, Message: "no CUE instances loaded"}
	}
	inst := instances[0]
	if inst.Err != nil {
		return nil, cueError(ErrCodeParse, "loading CUE file", inst.Err)
	}

	value := ctx.BuildInstance(inst)
	if err := value.Err(); err != nil {
		return nil, cueError(ErrCodeParse, "building CUE value", err)
	}

	unified := schema.LookupPath(cue.ParsePath("#Config")).Unify(value)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return nil, cueError(ErrCodeSchema, "schema violation", err)
	}

	var cfg Config
	if err := unified.Decode(&cfg); err != nil {
		return nil, cueError(ErrCodeDecode, "decoding CUE value", err)
	}
	return &cfg, nil
}

// cueError converts the first CUE error to a LoadError with its position.
func cueError(code, context string, err error) *LoadError {
	le := &LoadError{Code: code, Message: fmt.Sprintf("%s: %v", context, err), Err: err}
	if errs := cueerrors.Errors(err); len(errs) > 0 {
		le.Pos = errs[0].Position()
		le.Message = fmt.Sprintf("%s: %s", context, errs[0].Error())
	}
	return le
}
