// Package config loads the zerogen project configuration from zerogen.toml
// and ZEROGEN_* environment variables.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/broady/zerogen"
	"github.com/broady/zerogen/rust"
)

// FileName is the project configuration file searched for by Find.
const FileName = "zerogen.toml"

// EnvPrefix prefixes environment overrides, e.g. ZEROGEN_OUT_DIR.
const EnvPrefix = "ZEROGEN"

// File is the on-disk configuration.
type File struct {
	OutDir          string   `mapstructure:"out_dir" validate:"required"`
	Inputs          []string `mapstructure:"inputs" validate:"dive,required"`
	CratePath       string   `mapstructure:"crate_path" validate:"required"`
	TraitName       string   `mapstructure:"trait_name" validate:"required"`
	SplitFiles      bool     `mapstructure:"split_files"`
	OutFile         string   `mapstructure:"out_file" validate:"required,endswith=.rs"`
	SourceMap       bool     `mapstructure:"source_map"`
	AnnotateSources bool     `mapstructure:"annotate_sources"`
	EmitRuntime     bool     `mapstructure:"emit_runtime"`
	RuntimeFile     string   `mapstructure:"runtime_file" validate:"required,endswith=.rs"`
	ExternTypes     []string `mapstructure:"extern_types" validate:"dive,required"`
	Jobs            int      `mapstructure:"jobs" validate:"gte=0"`
	Header          string   `mapstructure:"header"`

	// Path is the file the values were read from; empty when defaults and
	// environment were the only sources.
	Path string `mapstructure:"-"`
}

// SetDefaults configures default values for all configuration options.
// Every key gets a default so that AutomaticEnv can override it.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("out_dir", ".")
	v.SetDefault("inputs", []string{})
	v.SetDefault("crate_path", rust.DefaultCratePath)
	v.SetDefault("trait_name", rust.DefaultTraitName)
	v.SetDefault("split_files", false)
	v.SetDefault("out_file", "zeroed.rs")
	v.SetDefault("source_map", false)
	v.SetDefault("annotate_sources", false)
	v.SetDefault("emit_runtime", false)
	v.SetDefault("runtime_file", "fromzeros.rs")
	v.SetDefault("extern_types", []string{})
	v.SetDefault("jobs", 0)
	v.SetDefault("header", "")
}

// New returns a Viper instance with defaults and environment binding.
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	SetDefaults(v)
	return v
}

// Load reads the configuration. An empty path searches upward from the
// working directory for zerogen.toml; finding none is not an error.
// Relative paths in the file are resolved against the file's directory.
func Load(path string) (*File, error) {
	if path == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, errors.Wrap(err, "get working directory")
		}
		path = Find(wd)
	}
	return LoadWithViper(New(), path)
}

// LoadWithViper loads configuration using a provided Viper instance.
func LoadWithViper(v *viper.Viper, path string) (*File, error) {
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "read config file %s", path)
		}
	}

	var f File
	if err := v.Unmarshal(&f); err != nil {
		return nil, errors.Wrap(err, "unmarshal config")
	}
	if path != "" {
		f.Path = path
		f.resolve(filepath.Dir(path))
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Find searches dir and its parents for zerogen.toml and returns the first
// match, or "" if there is none.
func Find(dir string) string {
	for {
		path := filepath.Join(dir, FileName)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

func (f *File) resolve(base string) {
	f.OutDir = resolvePath(base, f.OutDir)
	for i, in := range f.Inputs {
		f.Inputs[i] = resolvePath(base, in)
	}
}

func resolvePath(base, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}

var validate = validator.New()

// Validate checks field constraints after loading or after flag overrides.
func (f *File) Validate() error {
	err := validate.Struct(f)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return errors.Wrap(err, "validate config")
	}
	msgs := make([]string, len(verrs))
	for i, fe := range verrs {
		msgs[i] = keyName(fe.StructField()) + ": failed " + fe.Tag()
		if fe.Param() != "" {
			msgs[i] += "=" + fe.Param()
		}
	}
	return errors.Newf("invalid configuration: %s", strings.Join(msgs, "; "))
}

// keyName maps a struct field such as "Inputs[0]" to its config key.
func keyName(field string) string {
	name, index, _ := strings.Cut(field, "[")
	keys := map[string]string{
		"OutDir": "out_dir", "Inputs": "inputs", "CratePath": "crate_path",
		"TraitName": "trait_name", "OutFile": "out_file", "RuntimeFile": "runtime_file",
		"ExternTypes": "extern_types", "Jobs": "jobs",
	}
	key, ok := keys[name]
	if !ok {
		key = name
	}
	if index != "" {
		key += "[" + index
	}
	return key
}

// Generator converts the file into library configuration.
func (f *File) Generator() zerogen.Config {
	return zerogen.Config{
		OutDir:          f.OutDir,
		Inputs:          append([]string(nil), f.Inputs...),
		CratePath:       f.CratePath,
		TraitName:       f.TraitName,
		SplitFiles:      f.SplitFiles,
		OutFile:         f.OutFile,
		SourceMap:       f.SourceMap,
		AnnotateSources: f.AnnotateSources,
		EmitRuntime:     f.EmitRuntime,
		RuntimeFile:     f.RuntimeFile,
		ExternTypes:     append([]string(nil), f.ExternTypes...),
		Jobs:            f.Jobs,
		Header:          f.Header,
	}
}
