package policy

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/schedcheck/internal/domain"
	"gopkg.in/yaml.v3"
)

// File is the on-disk YAML form of a policy. Every section is optional;
// an omitted section keeps the built-in default.
type File struct {
	SizeLimits       map[string]int64 `yaml:"size_limits,omitempty"`
	AllowedMIMETypes []string         `yaml:"allowed_mime_types,omitempty"`
	Universities     []UniversityFile `yaml:"universities,omitempty"`
}

// UniversityFile is one entry of the universities list. List order is priority.
type UniversityFile struct {
	Name            string   `yaml:"name"`
	SuggestedFormat string   `yaml:"suggested_format,omitempty"`
	Signatures      []string `yaml:"signatures"`
}

// Load returns the default policy overlaid with the YAML file at path.
// An empty path returns the default policy.
func Load(path string) (*Policy, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading policy file: %w", err)
	}
	return Parse(data)
}

// Parse overlays the YAML document onto the default policy and validates
// the result.
func Parse(data []byte) (*Policy, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing policy: %w", err)
	}

	p := Default()
	if err := f.apply(p); err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func (f File) apply(p *Policy) error {
	for name, limit := range f.SizeLimits {
		format := domain.FormatFromExtension(name)
		if format == domain.FormatUnknown {
			return fmt.Errorf("%w: size limit for unknown format %q", domain.ErrInvalidPolicy, name)
		}
		p.SizeLimits[format] = limit
	}

	if len(f.AllowedMIMETypes) > 0 {
		mimes := make([]string, 0, len(f.AllowedMIMETypes))
		for _, m := range f.AllowedMIMETypes {
			mimes = append(mimes, strings.ToLower(strings.TrimSpace(m)))
		}
		p.AllowedMIMETypes = mimes
	}

	if len(f.Universities) > 0 {
		universities := make([]University, 0, len(f.Universities))
		for _, uf := range f.Universities {
			u, err := uf.compile()
			if err != nil {
				return err
			}
			universities = append(universities, u)
		}
		p.Universities = universities
	}
	return nil
}

func (uf UniversityFile) compile() (University, error) {
	u := University{
		Name:            uf.Name,
		SuggestedFormat: uf.SuggestedFormat,
		Signatures:      make([]*regexp.Regexp, 0, len(uf.Signatures)),
	}
	for _, src := range uf.Signatures {
		re, err := regexp.Compile(src)
		if err != nil {
			return University{}, fmt.Errorf("%w: university %q signature %q: %v", domain.ErrInvalidPolicy, uf.Name, src, err)
		}
		u.Signatures = append(u.Signatures, re)
	}
	return u, nil
}

// File returns the YAML form of the policy.
func (p *Policy) File() File {
	f := File{
		SizeLimits:       make(map[string]int64, len(p.SizeLimits)),
		AllowedMIMETypes: append([]string(nil), p.AllowedMIMETypes...),
		Universities:     make([]UniversityFile, 0, len(p.Universities)),
	}
	for format, limit := range p.SizeLimits {
		f.SizeLimits[string(format)] = limit
	}
	for _, u := range p.Universities {
		uf := UniversityFile{Name: u.Name, SuggestedFormat: u.SuggestedFormat}
		for _, re := range u.Signatures {
			uf.Signatures = append(uf.Signatures, re.String())
		}
		f.Universities = append(f.Universities, uf)
	}
	return f
}

// YAML renders the effective policy as a YAML document.
func (p *Policy) YAML() ([]byte, error) {
	return yaml.Marshal(p.File())
}
