package catalog

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

type fileFormat struct {
	Groups []GroupSpec `yaml:"groups"`
}

// Decode reads group specs from YAML of the form
//
//	groups:
//	  - name: Example Bank
//	    kind: bank
//	    keywords: [EXAMPLEBK]
//	    account:
//	      - name: masked-ac
//	        priority: 10
//	        account_type: ACCOUNT
//	        pattern: '(?i)\bExample A/c (?P<number>\d{4})'
//
// Unknown keys are rejected so typos surface at start-up.
func Decode(r io.Reader) ([]GroupSpec, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f fileFormat
	if err := dec.Decode(&f); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to decode rule groups: %w", err)
	}
	return f.Groups, nil
}

// LoadFile reads extra group specs from a YAML file.
func LoadFile(path string) ([]GroupSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file: %w", err)
	}
	return Decode(bytes.NewReader(data))
}

// Encode writes specs in the format Decode reads.
func Encode(w io.Writer, specs []GroupSpec) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(fileFormat{Groups: specs}); err != nil {
		return fmt.Errorf("failed to encode rule groups: %w", err)
	}
	return enc.Close()
}
