// Package seed reads certification documents written in YAML so they can be
// uploaded to a server in bulk.
package seed

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/stemsi/certify-backend/internal/model"
	"gopkg.in/yaml.v3"
)

// Document is the YAML form of a certification. Identifiers are optional.
type Document struct {
	ID        string     `yaml:"id"`
	Name      string     `yaml:"name"`
	Questions []Question `yaml:"questions"`
}

type Question struct {
	ID      string   `yaml:"id"`
	Text    string   `yaml:"text"`
	Answers []Answer `yaml:"answers"`
}

type Answer struct {
	ID      string `yaml:"id"`
	Text    string `yaml:"text"`
	Correct bool   `yaml:"correct"`
}

// File is a parsed seed file.
type File struct {
	Path          string
	Certification model.Certification
}

// Parse decodes one YAML document into a certification.
func Parse(data []byte) (model.Certification, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return model.Certification{}, err
	}
	if strings.TrimSpace(doc.Name) == "" {
		return model.Certification{}, fmt.Errorf("document has no name")
	}
	return doc.certification(), nil
}

// LoadDir parses every .yaml and .yml file under dir, sorted by path.
func LoadDir(dir string) ([]File, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if ext := strings.ToLower(filepath.Ext(path)); ext == ".yaml" || ext == ".yml" {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", dir, err)
	}
	sort.Strings(paths)

	files := make([]File, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		cert, err := Parse(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		files = append(files, File{Path: path, Certification: cert})
	}
	return files, nil
}

func (d Document) certification() model.Certification {
	cert := model.Certification{
		ID:        d.ID,
		Name:      strings.TrimSpace(d.Name),
		Questions: make([]model.Question, 0, len(d.Questions)),
	}
	for _, q := range d.Questions {
		mq := model.Question{ID: q.ID, Text: q.Text, Answers: make([]model.Answer, 0, len(q.Answers))}
		for _, a := range q.Answers {
			mq.Answers = append(mq.Answers, model.Answer{ID: a.ID, Text: a.Text, IsCorrect: a.Correct})
		}
		cert.Questions = append(cert.Questions, mq)
	}
	return cert
}
