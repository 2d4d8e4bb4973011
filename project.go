package main

import (
	"fmt"
	"io/ioutil"

	"github.com/lyraproj/semver/semver"
	"gopkg.in/yaml.v2"
)

// LanguageVersion is the version of the language this interpreter
// implements. Projects state the range of versions they accept.
const LanguageVersion = "1.0.0"

const moduleFile = "tally.yaml"

type tallyModule struct {
	Package      string `yaml:"package"`
	Entry        string `yaml:"entry"`
	Language     string `yaml:"language,omitempty"`
	MaxCallDepth int    `yaml:"max-call-depth,omitempty"`
}

func newModule(name string) tallyModule {
	return tallyModule{
		Package:  name,
		Entry:    "main.tally",
		Language: ">=1.0.0 <2.0.0",
	}
}

func readModule(path string) (doc tallyModule, err error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return tallyModule{}, fmt.Errorf("error reading %s: %w", path, err)
	}

	err = yaml.Unmarshal(data, &doc)
	if err != nil {
		return tallyModule{}, fmt.Errorf("error reading %s: %w", path, err)
	}
	if doc.Entry == "" {
		return tallyModule{}, fmt.Errorf("%s does not name an entry file", path)
	}

	return doc, doc.checkLanguage()
}

func writeModule(path string, doc tallyModule) error {
	out, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("error creating %s: %w", path, err)
	}

	err = ioutil.WriteFile(path, out, 0644)
	if err != nil {
		return fmt.Errorf("error creating %s: %w", path, err)
	}

	return nil
}

// checkLanguage fails when the module does not accept LanguageVersion. An
// empty range accepts every version.
func (m tallyModule) checkLanguage() error {
	if m.Language == "" {
		return nil
	}

	r, err := semver.ParseVersionRange(m.Language)
	if err != nil {
		return fmt.Errorf("bad language range in %s: %w", moduleFile, err)
	}
	if !r.Includes(semver.MustParseVersion(LanguageVersion)) {
		return fmt.Errorf("module %s needs language %s, this is %s", m.Package, m.Language, LanguageVersion)
	}

	return nil
}
