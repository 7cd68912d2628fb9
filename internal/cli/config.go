package cli

import (
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/toyz/bridgegen/internal/errors"
	"github.com/toyz/bridgegen/internal/generator"
	"github.com/toyz/bridgegen/internal/templates"
	"github.com/toyz/bridgegen/internal/utils"
)

// EnvPrefix prefixes every environment override, e.g. BRIDGEGEN_STYLE
const EnvPrefix = "BRIDGEGEN"

// ConfigName is the file looked up in the working directory when no --config is given
const ConfigName = "bridgegen"

// Config holds the configuration for the CLI generator
type Config struct {
	// Naming selects how bridge names are derived: "suffix" or "strip-prefix"
	Naming string `mapstructure:"naming"`

	// Marker is the interface prefix dropped by strip-prefix naming
	Marker string `mapstructure:"marker"`

	// Suffix is appended to every bridge name
	Suffix string `mapstructure:"suffix"`

	// Template names the template pair used for emission
	Template string `mapstructure:"template"`

	// TemplateDir holds <pair>.h.tmpl / <pair>.cpp.tmpl files overriding the built-ins
	TemplateDir string `mapstructure:"template_dir"`

	// Style is "guarded" or "direct"
	Style string `mapstructure:"style"`

	// OutputDir receives generated units. Empty writes them next to each header.
	OutputDir string `mapstructure:"output_dir"`

	HeaderExt string `mapstructure:"header_ext"`
	SourceExt string `mapstructure:"source_ext"`

	// Include and Exclude are doublestar patterns applied inside scanned directories
	Include []string `mapstructure:"include"`
	Exclude []string `mapstructure:"exclude"`

	// Jobs bounds how many headers are processed at once
	Jobs int `mapstructure:"jobs"`

	// File is the config file that was read, empty when none was found
	File string `mapstructure:"-"`
}

// DefaultConfig returns the configuration used when nothing overrides it
func DefaultConfig() Config {
	return Config{
		Naming:    generator.NamingSuffix,
		Marker:    generator.DefaultMarker,
		Suffix:    generator.DefaultSuffix,
		Template:  templates.DefaultPair,
		Style:     string(generator.StyleGuarded),
		HeaderExt: ".h",
		SourceExt: ".cpp",
		Include:   []string{"**/*.h", "**/*.hpp", "**/*.hh", "**/*.hxx"},
		Exclude:   []string{"**/build/**", "**/.git/**", "**/third_party/**"},
		Jobs:      4,
	}
}

// NewViper returns a viper instance carrying the defaults and environment
// binding. Flags bound to it afterwards take precedence over both.
func NewViper() *viper.Viper {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("naming", defaults.Naming)
	v.SetDefault("marker", defaults.Marker)
	v.SetDefault("suffix", defaults.Suffix)
	v.SetDefault("template", defaults.Template)
	v.SetDefault("template_dir", defaults.TemplateDir)
	v.SetDefault("style", defaults.Style)
	v.SetDefault("output_dir", defaults.OutputDir)
	v.SetDefault("header_ext", defaults.HeaderExt)
	v.SetDefault("source_ext", defaults.SourceExt)
	v.SetDefault("include", defaults.Include)
	v.SetDefault("exclude", defaults.Exclude)
	v.SetDefault("jobs", defaults.Jobs)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	return v
}

// LoadConfig reads path, or bridgegen.yaml from the working directory when
// path is empty, and decodes the merged configuration. A missing default
// file is not an error; a missing explicit one is.
func LoadConfig(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(ConfigName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !stderrors.As(err, &notFound) {
			source := path
			if source == "" {
				source = ConfigName + ".yaml"
			}
			return nil, errors.WrapConfigurationError(source, "read", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.WrapConfigurationError(v.ConfigFileUsed(), "decode", err)
	}
	cfg.File = v.ConfigFileUsed()

	return &cfg, nil
}

// Validate checks every key and returns all problems at once
func (c *Config) Validate() error {
	problems := errors.NewMultipleErrors()

	check := func(key string, err error) {
		if err != nil {
			var ve utils.ValidationError
			if stderrors.As(err, &ve) {
				// element errors name the offending index, e.g. include[1]
				if strings.HasPrefix(ve.Field, key+"[") {
					key = ve.Field
				}
				problems.Add(errors.ConfigurationError(key, ve.Message).WithContext("value", ve.Value))
				return
			}
			problems.Add(errors.ConfigurationError(key, err.Error()))
		}
	}

	check("naming", utils.IsOneOf("naming", generator.NamingSuffix, generator.NamingStripPrefix)(c.Naming))
	check("style", utils.IsOneOf("style", string(generator.StyleGuarded), string(generator.StyleDirect))(c.Style))
	check("suffix", utils.IsCppIdentifier("suffix")(c.Suffix))
	stripping := func(string) bool { return c.Naming == generator.NamingStripPrefix }
	check("marker", utils.Conditional(stripping, utils.NewValidatorChain(
		utils.NotEmpty("marker"),
		utils.MaxLength("marker", 1),
		utils.IsCppIdentifier("marker"),
	).Validate)(c.Marker))
	check("header_ext", utils.ValidateFileExtension("header_ext")(c.HeaderExt))
	check("source_ext", utils.ValidateFileExtension("source_ext")(c.SourceExt))
	if c.HeaderExt != "" && c.HeaderExt == c.SourceExt {
		problems.Add(errors.ConfigurationError("source_ext", "must differ from header_ext"))
	}
	check("include", utils.NewValidatorChain(
		utils.SliceNotEmpty[string]("include"),
		utils.ValidateEach("include", utils.IsGlobPattern("include")),
	).Validate(c.Include))
	check("exclude", utils.ValidateEach("exclude", utils.IsGlobPattern("exclude"))(c.Exclude))
	check("jobs", utils.AtLeast("jobs", 1)(c.Jobs))

	if err := c.validateTemplate(); err != nil {
		problems.Add(err)
	}

	return problems.ErrOrNil()
}

func (c *Config) validateTemplate() error {
	pairs, err := templates.Pairs(c.TemplateSource(nil))
	if err != nil {
		return errors.WrapConfigurationError(c.TemplateDir, "list templates in", err)
	}
	for _, pair := range pairs {
		if pair == c.Template {
			return nil
		}
	}
	return errors.ConfigurationError("template", fmt.Sprintf("unknown template pair %q", c.Template)).
		WithContext("available", strings.Join(pairs, ", ")).
		WithSuggestion("Run 'bridgegen templates' to list the available pairs")
}

// TemplateSource returns the templates a run uses
func (c *Config) TemplateSource(reader *utils.FileReader) templates.TemplateSource {
	return templates.NewSource(c.TemplateDir, reader)
}

// GeneratorOptions turns the configuration into generator options
func (c *Config) GeneratorOptions(reader *utils.FileReader) (generator.Options, error) {
	naming, err := generator.NewNamingConvention(c.Naming, c.Marker, c.Suffix)
	if err != nil {
		return generator.Options{}, err
	}
	style, err := generator.ParseForwardingStyle(c.Style)
	if err != nil {
		return generator.Options{}, err
	}

	return generator.Options{
		Naming:    naming,
		Style:     style,
		Templates: c.TemplateSource(reader),
		Pair:      c.Template,
		HeaderExt: c.HeaderExt,
		SourceExt: c.SourceExt,
	}, nil
}

// GeneratedSuffixes returns the file name endings of generated units, used by clean
func (c Config) GeneratedSuffixes() []string {
	return []string{c.Suffix + c.HeaderExt, c.Suffix + c.SourceExt}
}
