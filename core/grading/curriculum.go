package grading

import (
	"io"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Terms of the academic year, in order.
var Terms = []string{"First Term", "Second Term", "Third Term"}

var (
	ErrUnknownTerm       = errors.New("term must be one of First Term, Second Term or Third Term")
	ErrSubjectNotOffered = errors.New("subject is not taught in this class")
)

// Curriculum maps a class name to the subjects taught in it.
type Curriculum map[string][]string

type curriculumDoc struct {
	Classes map[string][]string `yaml:"classes"`
}

// LoadCurriculum decodes a YAML curriculum. Anchors may be used to share subject lists:
//
//	classes:
//	  Creche: &preschool [English Language, Mathematics]
//	  Nursery 1: *preschool
func LoadCurriculum(r io.Reader) (Curriculum, error) {
	var doc curriculumDoc
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Wrap(err, "decoding curriculum")
	}
	c := make(Curriculum, len(doc.Classes))
	for class, subjects := range doc.Classes {
		c[class] = append([]string(nil), subjects...)
	}
	return c, nil
}

// Subject returns the curriculum spelling of `name` when it is taught in `class`.
// Matching ignores case and surrounding spaces.
func (c Curriculum) Subject(class, name string) (string, error) {
	name = strings.TrimSpace(name)
	for _, s := range c[class] {
		if strings.EqualFold(s, name) {
			return s, nil
		}
	}
	return "", ErrSubjectNotOffered
}

// Term returns the canonical spelling of a term name.
func Term(name string) (string, error) {
	name = strings.Join(strings.Fields(name), " ")
	for _, t := range Terms {
		if strings.EqualFold(t, name) {
			return t, nil
		}
	}
	return "", ErrUnknownTerm
}
