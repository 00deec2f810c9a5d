package config

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// errors
var (
	ErrUnknownFormat = errors.New("unknown config format")
)

// Format is the encoding of a config file
type Format string

// formats
const (
	TOML Format = "toml"
	YAML Format = "yaml"
)

// FormatOf returns the format of the path by its extension, toml is the default
func FormatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAML
	default:
		return TOML
	}
}

// LoadFile parse the config from the file of the path
func LoadFile(path string, v interface{}) error {
	file, err := os.Open(path)
	if err != nil {
		return errors.WithStack(err)
	}
	defer file.Close()

	return LoadReader(file, FormatOf(path), v)
}

// LoadString parse the config from the string
func LoadString(data string, f Format, v interface{}) error {
	return LoadReader(bytes.NewReader([]byte(data)), f, v)
}

// LoadReader parse the config from the file of the reader
func LoadReader(r io.Reader, f Format, v interface{}) error {
	switch f {
	case TOML:
		dec := toml.NewDecoder(r)
		if err := dec.Decode(v); err != nil {
			return errors.WithStack(err)
		}
	case YAML:
		dec := yaml.NewDecoder(r)
		if err := dec.Decode(v); err != nil && err != io.EOF {
			return errors.WithStack(err)
		}
	default:
		return errors.Wrap(ErrUnknownFormat, string(f))
	}
	return nil
}

// LoadEnv loads the dotenv files that exist into the process environment, set variables are not overridden
func LoadEnv(paths ...string) error {
	found := []string{}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			found = append(found, p)
		}
	}
	if len(found) == 0 {
		return nil
	}
	return errors.WithStack(godotenv.Load(found...))
}

// Override replaces *dst with the environment variable of the key when it is set
func Override(dst *string, key string) {
	if v, has := os.LookupEnv(key); has && v != "" {
		*dst = v
	}
}
