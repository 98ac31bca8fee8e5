// Package config loads the runtime configuration: the environment-specific
// paths and engine command that the CLI flags do not cover.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"grnexport/internal/grnerr"
)

// What to do after the inference engine fails and the model was checkpointed.
const (
	PolicyContinue = "continue"
	PolicyStop     = "stop"
)

type Engine struct {
	// Command is the argv prefix of the engine program; the verb
	// ("infer" or "filter") and its flags are appended.
	Command     []string `yaml:"command" validate:"required,min=1,dive,required"`
	KeepWorkdir bool     `yaml:"keep_workdir"`
}

type Config struct {
	TempDir            string `yaml:"temp_dir" validate:"required"`
	ResourcesDir       string `yaml:"resources_dir" validate:"required"`
	BedToBigBedDir     string `yaml:"bed_to_big_bed_dir" validate:"required"`
	Engine             Engine `yaml:"engine"`
	OnInferenceFailure string `yaml:"on_inference_failure" validate:"oneof=continue stop"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		TempDir:            os.TempDir(),
		ResourcesDir:       "resources",
		BedToBigBedDir:     "resources/bin",
		Engine:             Engine{Command: []string{"scenicplus-engine"}},
		OnInferenceFailure: PolicyContinue,
	}
}

// Load reads a YAML config from path on top of Default. An empty path
// yields Default. Unknown keys are rejected.
func Load(fs afero.Fs, path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, cfg.Validate()
	}
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return cfg, &grnerr.ConfigError{Field: "config", Value: path, Err: err}
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, &grnerr.ConfigError{Field: "config", Value: path, Err: err}
	}
	return cfg, cfg.Validate()
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks c and reports the first offending key.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &grnerr.ConfigError{Field: "config", Err: err}
	}
	fe := verrs[0]
	_, key, _ := strings.Cut(fe.Namespace(), ".")
	rule := fe.Tag()
	if fe.Param() != "" {
		rule += "=" + fe.Param()
	}
	return &grnerr.ConfigError{
		Field: key,
		Value: fmt.Sprint(fe.Value()),
		Err:   fmt.Errorf("fails %q", rule),
	}
}
